package gen

// Version of vkwrap.
const Version = "v0.1.0"

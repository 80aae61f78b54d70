// Package registry - native type tables.
package registry

// nativeTypes maps C spellings to ctypes spellings.
var nativeTypes = map[string]string{
	"void":     NoneType,
	"void*":    VoidPointer,
	"float":    "c_float",
	"double":   "c_double",
	"uint8_t":  "c_uint8",
	"uint16_t": "c_uint16",
	"uint32_t": "c_uint",
	"uint64_t": "c_uint64",
	"int8_t":   "c_int8",
	"int16_t":  "c_int16",
	"int32_t":  "c_int",
	"int64_t":  "c_int64",
	"int":      "c_int",
	"size_t":   "c_size_t",
	"char":     CharType,
	"char*":    NativeString,
}

// CtypesImports lists the ctypes names the generated module imports, in
// import order.
var CtypesImports = []string{
	"c_void_p", "c_float", "c_double", "c_uint8", "c_uint16", "c_uint", "c_uint64",
	"c_int8", "c_int16", "c_int", "c_int64", "c_size_t", "c_char", "c_char_p",
}

// SystemType is a windowing system type the schema references without
// declaring it.
type SystemType struct {
	Name  string
	Ctype string
}

// SystemTypes are aliased in the initialization block, in output order.
var SystemTypes = []SystemType{
	{Name: "HINSTANCE", Ctype: VoidPointer},
	{Name: "HWND", Ctype: VoidPointer},
	{Name: "xcb_connection_t", Ctype: VoidPointer},
	{Name: "xcb_window_t", Ctype: "c_uint"},
	{Name: "xcb_visualid_t", Ctype: "c_uint"},
	{Name: "MirConnection", Ctype: VoidPointer},
	{Name: "MirSurface", Ctype: VoidPointer},
	{Name: "wl_display", Ctype: VoidPointer},
	{Name: "wl_surface", Ctype: VoidPointer},
	{Name: "Display", Ctype: VoidPointer},
	{Name: "Window", Ctype: "c_uint"},
	{Name: "VisualID", Ctype: "c_uint"},
	{Name: "ANativeWindow", Ctype: VoidPointer},
}

// DefaultIdentifiers returns the names that are defined before any schema
// declaration is emitted: None, the imported ctypes and the system types.
func DefaultIdentifiers() []string {
	names := make([]string, 0, 1+len(CtypesImports)+len(SystemTypes))
	names = append(names, NoneType)
	names = append(names, CtypesImports...)
	for _, st := range SystemTypes {
		names = append(names, st.Name)
	}
	return names
}

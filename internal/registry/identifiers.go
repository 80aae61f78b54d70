package registry

// Identifiers is the insertion ordered set of names already emitted.
type Identifiers struct {
	names []string
	index map[string]struct{}
}

// NewIdentifiers creates a registry seeded with the given names.
func NewIdentifiers(seed ...string) *Identifiers {
	ids := &Identifiers{
		index: make(map[string]struct{}, len(seed)),
	}
	for _, name := range seed {
		ids.MarkDefined(name)
	}
	return ids
}

// IsDefined reports whether name has been emitted.
func (i *Identifiers) IsDefined(name string) bool {
	_, ok := i.index[name]
	return ok
}

// MarkDefined records name. It returns false when name was already present.
func (i *Identifiers) MarkDefined(name string) bool {
	if i.IsDefined(name) {
		return false
	}
	i.index[name] = struct{}{}
	i.names = append(i.names, name)
	return true
}

// Names returns the registered names in definition order.
func (i *Identifiers) Names() []string {
	out := make([]string, len(i.names))
	copy(out, i.names)
	return out
}

// Len returns the number of registered names.
func (i *Identifiers) Len() int {
	return len(i.names)
}

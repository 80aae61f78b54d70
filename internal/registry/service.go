// Package registry provides the native type catalog and the registry of
// identifiers already written to the generated module.
package registry

import (
	"strings"

	"github.com/griffnb/vkwrap/internal/naming"
)

// Service maps schema type spellings to target types and tracks which
// identifiers have been emitted.
type Service struct {
	types       map[string]string
	overrides   map[string]string
	identifiers *Identifiers
	seeded      int
	debug       Debugger
}

// NewService creates a new registry service seeded with the default
// identifiers.
func NewService() *Service {
	ids := NewIdentifiers(DefaultIdentifiers()...)
	return &Service{
		types:       nativeTypes,
		overrides:   make(map[string]string),
		identifiers: ids,
		seeded:      ids.Len(),
	}
}

// SetDebugger sets the debugger.
func (s *Service) SetDebugger(debug Debugger) {
	s.debug = debug
}

// SetTypeOverrides layers native spelling -> target type rows over the
// builtin table. Targets become predefined identifiers.
func (s *Service) SetTypeOverrides(overrides map[string]string) {
	for native, target := range overrides {
		if target == "" {
			continue
		}
		s.overrides[native] = target
		s.identifiers.MarkDefined(target)
	}
	s.seeded = s.identifiers.Len()
}

// Define adds predefined identifiers. It must be called before generation
// starts.
func (s *Service) Define(names ...string) {
	for _, name := range names {
		s.identifiers.MarkDefined(name)
	}
	s.seeded = s.identifiers.Len()
}

// MapType maps a C type spelling such as "uint32_t", "void*" or
// "VkExtent2D" to its target descriptor. Unknown spellings are schema types
// and only lose their native prefix.
func (s *Service) MapType(spelling string) TypeDescriptor {
	spelling = strings.Join(strings.Fields(spelling), " ")
	spelling = strings.ReplaceAll(spelling, " *", "*")

	if target, ok := s.overrides[spelling]; ok {
		return Primitive(target)
	}
	if target, ok := s.types[spelling]; ok {
		return Primitive(target)
	}
	if strings.HasSuffix(spelling, "*") {
		return Pointer(s.MapType(strings.TrimSuffix(spelling, "*")))
	}

	return Named(naming.StripNativePrefix(spelling))
}

// IsDefined reports whether name is already present in the output.
func (s *Service) IsDefined(name string) bool {
	return s.identifiers.IsDefined(name)
}

// MarkDefined records that name has been written. Duplicates are ignored
// and reported.
func (s *Service) MarkDefined(name string) bool {
	if !s.identifiers.MarkDefined(name) {
		if s.debug != nil {
			s.debug.Printf("warning: %s defined twice", name)
		}
		return false
	}
	return true
}

// Identifiers returns the underlying identifier registry.
func (s *Service) Identifiers() *Identifiers {
	return s.identifiers
}

// Emitted returns the identifiers defined by the schema, in emission order,
// excluding the predefined seed.
func (s *Service) Emitted() []string {
	return s.identifiers.Names()[s.seeded:]
}

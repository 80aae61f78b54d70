// Package resolver emits structures and unions after everything they
// depend on.
package resolver

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/griffnb/vkwrap/internal/emitter"
	"github.com/griffnb/vkwrap/internal/naming"
	"github.com/griffnb/vkwrap/internal/registry"
	"github.com/griffnb/vkwrap/internal/schema"
)

var (
	// ErrMissingDependency is reported for a field type that is neither
	// defined nor declared as a structure or union.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrCycle is reported when a structure depends on itself through its
	// fields. The offending field is emitted as an opaque pointer.
	ErrCycle = errors.New("dependency cycle")
)

// Catalog maps type spellings and tracks emitted identifiers.
type Catalog interface {
	MapType(spelling string) registry.TypeDescriptor
	IsDefined(name string) bool
	MarkDefined(name string) bool
}

// Resolver emits structures and unions in dependency order.
type Resolver struct {
	catalog    Catalog
	out        *emitter.Emitter
	index      map[string]schema.Struct
	inProgress map[string]bool
	warnings   error
	debug      registry.Debugger
}

// New creates a resolver over the given structure and union declarations.
func New(catalog Catalog, out *emitter.Emitter, entities []schema.Struct) *Resolver {
	index := make(map[string]schema.Struct, len(entities))
	for _, s := range entities {
		index[naming.StripNativePrefix(s.Name)] = s
	}

	return &Resolver{
		catalog:    catalog,
		out:        out,
		index:      index,
		inProgress: make(map[string]bool),
	}
}

// SetDebugger sets the debugger.
func (r *Resolver) SetDebugger(debug registry.Debugger) {
	r.debug = debug
}

// ResolveAll resolves every entity in order.
func (r *Resolver) ResolveAll(entities []schema.Struct) error {
	for _, s := range entities {
		if err := r.Resolve(s); err != nil {
			return err
		}
	}
	return nil
}

// Resolve emits s after its dependencies. It is a no-op when s is already
// defined. Schema problems are collected as warnings; the returned error is
// only set when a declaration cannot be written.
func (r *Resolver) Resolve(s schema.Struct) error {
	name := naming.StripNativePrefix(s.Name)
	if r.catalog.IsDefined(name) {
		return nil
	}

	r.inProgress[name] = true
	defer delete(r.inProgress, name)

	if s.Alias != "" {
		return r.resolveAlias(name, naming.StripNativePrefix(s.Alias))
	}

	fields := make([]emitter.Field, 0, len(s.Members))
	for _, m := range s.Members {
		field := emitter.Field{
			Name:     naming.NormalizeFieldName(m.Name),
			Type:     DeclType(r.catalog, m),
			BitWidth: m.BitWidth,
		}

		opaque, err := r.dependency(name, field.Type.BaseName())
		if err != nil {
			return err
		}
		if opaque {
			field.Type = registry.Primitive(registry.VoidPointer)
			field.BitWidth = 0
		}
		fields = append(fields, field)
	}

	if err := r.out.Struct(emitter.Struct{Name: name, Union: s.Union, Fields: fields}); err != nil {
		return err
	}
	r.catalog.MarkDefined(name)
	r.printf("resolved %s", name)

	return nil
}

// Warnings returns the schema problems found so far, combined with multierr.
func (r *Resolver) Warnings() error {
	return r.warnings
}

// dependency makes sure dep is defined before owner is emitted. It reports
// true when the field must fall back to an opaque pointer.
func (r *Resolver) dependency(owner, dep string) (bool, error) {
	if r.catalog.IsDefined(dep) {
		return false, nil
	}
	if r.inProgress[dep] {
		r.warn(fmt.Errorf("%w: %s references %s", ErrCycle, owner, dep))
		return true, nil
	}

	target, ok := r.index[dep]
	if !ok {
		r.warn(fmt.Errorf("%w: %s references undeclared %s", ErrMissingDependency, owner, dep))
		return false, nil
	}

	return false, r.Resolve(target)
}

func (r *Resolver) resolveAlias(name, target string) error {
	if _, err := r.dependency(name, target); err != nil {
		return err
	}
	if !r.catalog.IsDefined(target) {
		r.printf("skipping alias %s of unresolved %s", name, target)
		return nil
	}

	if err := r.out.Alias(emitter.Alias{Name: name, Target: registry.Named(target)}); err != nil {
		return err
	}
	r.catalog.MarkDefined(name)

	return nil
}

func (r *Resolver) warn(err error) {
	r.warnings = multierr.Append(r.warnings, err)
	r.printf("warning: %v", err)
}

func (r *Resolver) printf(format string, args ...any) {
	if r.debug != nil {
		r.debug.Printf(format, args...)
	}
}

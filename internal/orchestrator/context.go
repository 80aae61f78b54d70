package orchestrator

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/griffnb/vkwrap/internal/command"
	"github.com/griffnb/vkwrap/internal/emitter"
	"github.com/griffnb/vkwrap/internal/naming"
	"github.com/griffnb/vkwrap/internal/registry"
	"github.com/griffnb/vkwrap/internal/resolver"
	"github.com/griffnb/vkwrap/internal/schema"
)

var (
	// ErrMissingBootstrap is reported when the schema does not declare the
	// command every other command is loaded through.
	ErrMissingBootstrap = errors.New("missing bootstrap command")
	// ErrUnresolvedAlias is reported for an alias whose target was never
	// emitted.
	ErrUnresolvedAlias = errors.New("unresolved alias")
)

const (
	dispatchableHandle    = "c_size_t"
	nonDispatchableHandle = "c_uint64"
	enumContainer         = "c_uint"
	wideContainer         = "c_uint64"
	wideFlags             = "VkFlags64"
)

// Context is the state of one generation run. It owns the identifier
// registry and the output stream.
type Context struct {
	doc      *schema.Document
	registry *registry.Service
	out      *emitter.Emitter
	skip     map[string]struct{}
	debug    Debugger

	handleNames []string
	families    []Family
	bootstrap   string
	counts      Counts
	warnings    error
}

func (c *Context) imports() error {
	c.out.Imports()
	return nil
}

func (c *Context) initialization() error {
	c.out.Initialization(registry.SystemTypes)
	return nil
}

func (c *Context) handles() error {
	c.out.Section(emitter.SectionHandles)

	for _, h := range c.doc.Handles() {
		name := naming.StripNativePrefix(h.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		if h.Alias != "" {
			ok, err := c.alias(name, h.Alias)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		} else {
			target := nonDispatchableHandle
			if h.Dispatchable {
				target = dispatchableHandle
			}
			if err := c.out.Handle(emitter.Alias{Name: name, Target: registry.Primitive(target)}); err != nil {
				return err
			}
			c.registry.MarkDefined(name)
		}

		c.handleNames = append(c.handleNames, name)
		c.counts.Handles++
	}

	return nil
}

func (c *Context) basetypes() error {
	c.out.Section(emitter.SectionBasetypes)

	for _, b := range c.doc.Basetypes() {
		name := naming.StripNativePrefix(b.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		target := registry.Primitive(registry.VoidPointer)
		if b.Type != "" {
			target = c.registry.MapType(b.Type)
		}
		if err := c.out.Basetype(emitter.Alias{Name: name, Target: target}); err != nil {
			return err
		}
		c.registry.MarkDefined(name)
		c.counts.Basetypes++
	}

	return nil
}

func (c *Context) bitmasks() error {
	c.out.Section(emitter.SectionBitmasks)

	for _, b := range c.doc.Bitmasks() {
		name := naming.StripNativePrefix(b.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		if b.Alias != "" {
			ok, err := c.alias(name, b.Alias)
			if err != nil {
				return err
			}
			if ok {
				c.counts.Bitmasks++
			}
			continue
		}

		target := enumContainer
		if b.Type == wideFlags {
			target = wideContainer
		}
		if err := c.out.Bitmask(emitter.Alias{Name: name, Target: registry.Primitive(target)}); err != nil {
			return err
		}
		c.registry.MarkDefined(name)
		c.counts.Bitmasks++
	}

	return nil
}

func (c *Context) enums() error {
	c.out.Section(emitter.SectionEnums)

	for _, g := range c.doc.EnumGroups() {
		name := naming.EnumGroupName(g.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		container := enumContainer
		if g.BitWidth == 64 {
			container = wideContainer
		}
		en := emitter.Enum{Name: name, Type: registry.Primitive(container)}
		for _, m := range g.Members {
			value, ok := emitter.EnumValue(m)
			if !ok {
				continue
			}
			en.Members = append(en.Members, emitter.EnumMember{Name: naming.StripNativePrefix(m.Name), Value: value})
		}

		if err := c.out.Enum(en); err != nil {
			return err
		}
		c.registry.MarkDefined(name)
		c.counts.Enums++
	}

	// Enumerations declared as types but without a group of their own.
	for _, et := range c.doc.EnumTypes() {
		name := naming.StripNativePrefix(et.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		if et.Alias != "" {
			ok, err := c.alias(name, et.Alias)
			if err != nil {
				return err
			}
			if ok {
				c.counts.Enums++
			}
			continue
		}

		if err := c.out.Enum(emitter.Enum{Name: name, Type: registry.Primitive(enumContainer)}); err != nil {
			return err
		}
		c.registry.MarkDefined(name)
		c.counts.Enums++
	}

	return nil
}

func (c *Context) funcPointers() error {
	c.out.Section(emitter.SectionFuncPointers)

	for _, fp := range c.doc.FuncPointers() {
		name := naming.StripNativePrefix(fp.Name)
		if c.registry.IsDefined(name) {
			continue
		}

		decl := emitter.FuncPointer{
			Name:   name,
			Return: c.declared(name, fp.Return),
		}
		for _, p := range fp.Params {
			decl.Params = append(decl.Params, c.declared(name, p))
		}

		if err := c.out.FuncPointer(decl); err != nil {
			return err
		}
		c.registry.MarkDefined(name)
		c.counts.FuncPointers++
	}

	return nil
}

// declared maps d and falls back to the opaque pointer when its base type
// is not emitted yet.
func (c *Context) declared(owner string, d schema.Decl) registry.TypeDescriptor {
	t := resolver.DeclType(c.registry, d)
	base := t
	for base.Elem != nil {
		base = *base.Elem
	}
	if base.Kind == registry.KindNamed && !c.registry.IsDefined(base.Name) {
		c.warn(fmt.Errorf("%w: %s references undeclared %s", resolver.ErrMissingDependency, owner, base.Name))
		return registry.Primitive(registry.VoidPointer)
	}
	return t
}

func (c *Context) structures() error {
	c.out.Section(emitter.SectionStructures)

	entities := c.doc.StructsAndUnions()
	before := len(c.registry.Emitted())

	r := resolver.New(c.registry, c.out, entities)
	if c.debug != nil {
		r.SetDebugger(c.debug)
	}
	if err := r.ResolveAll(entities); err != nil {
		return err
	}

	c.warnings = multierr.Append(c.warnings, r.Warnings())
	c.counts.Structures = len(c.registry.Emitted()) - before

	return nil
}

func (c *Context) commands() error {
	c.out.Section(emitter.SectionCommands)

	var commands []schema.Command
	for _, cmd := range c.doc.Commands() {
		if c.skipped(cmd.Name) {
			continue
		}
		commands = append(commands, cmd)
	}

	grouped := command.New(c.registry, c.handleNames).Group(commands)
	for _, name := range grouped.Unresolved {
		c.warn(fmt.Errorf("%w: command %s", ErrUnresolvedAlias, name))
	}

	for _, family := range grouped.Families {
		decl := emitter.CommandFamily{Name: family.Name}
		names := make([]string, 0, len(family.Commands))
		for _, cmd := range family.Commands {
			decl.Commands = append(decl.Commands, c.command(cmd))
			names = append(names, cmd.Name)
		}

		if err := c.out.CommandFamily(decl); err != nil {
			return err
		}
		c.families = append(c.families, Family{Name: family.Name, Commands: names})
		c.counts.Commands += len(family.Commands)
	}

	if grouped.Bootstrap == nil {
		c.warn(fmt.Errorf("%w: %s", ErrMissingBootstrap, command.BootstrapCommand))
		c.bootstrap = naming.StripNativePrefix(command.BootstrapCommand)
		return nil
	}

	c.bootstrap = naming.StripNativePrefix(grouped.Bootstrap.Name)
	err := c.out.Bootstrap(emitter.Bootstrap{
		Name:    c.bootstrap,
		Command: c.command(*grouped.Bootstrap),
	})
	if err != nil {
		return err
	}
	c.registry.MarkDefined(c.bootstrap)
	c.counts.Commands++

	return nil
}

func (c *Context) command(cmd schema.Command) emitter.Command {
	out := emitter.Command{
		Name:   cmd.Name,
		Return: resolver.DeclType(c.registry, cmd.Return),
	}
	for _, p := range cmd.Params {
		out.Params = append(out.Params, resolver.DeclType(c.registry, p))
	}
	return out
}

func (c *Context) extensions() error {
	c.out.Section(emitter.SectionExtensions)

	for _, ext := range c.doc.Extensions() {
		if c.skipped(ext.Name) {
			continue
		}
		if ext.Placeholder {
			c.printf("skipping placeholder extension %s", ext.Name)
			continue
		}

		decl := emitter.Extension{Name: ext.Name}
		for _, ev := range ext.Enums {
			value, ok := emitter.ExtensionValue(ev, ext.Number)
			if !ok {
				continue
			}
			decl.Members = append(decl.Members, emitter.EnumMember{Name: naming.StripNativePrefix(ev.Name), Value: value})
		}
		if len(decl.Members) == 0 {
			continue
		}

		if err := c.out.Extension(decl); err != nil {
			return err
		}
		c.counts.Extensions++
	}

	return nil
}

func (c *Context) postInitialization() error {
	return c.out.PostInitialization(command.InstanceFamily, command.LoaderFamily+"Functions", c.bootstrap)
}

// alias writes `name = target` when target is already defined.
func (c *Context) alias(name, native string) (bool, error) {
	target := naming.StripNativePrefix(native)
	if !c.registry.IsDefined(target) {
		c.warn(fmt.Errorf("%w: %s of %s", ErrUnresolvedAlias, name, target))
		return false, nil
	}
	if err := c.out.Alias(emitter.Alias{Name: name, Target: registry.Named(target)}); err != nil {
		return false, err
	}
	c.registry.MarkDefined(name)
	return true, nil
}

func (c *Context) skipped(name string) bool {
	_, ok := c.skip[name]
	return ok
}

func (c *Context) warn(err error) {
	c.warnings = multierr.Append(c.warnings, err)
	c.printf("warning: %v", err)
}

func (c *Context) printf(format string, args ...any) {
	if c.debug != nil {
		c.debug.Printf(format, args...)
	}
}

func (c *Context) result() *Result {
	return &Result{
		Source:      append([]byte(nil), c.out.Bytes()...),
		Counts:      c.counts,
		Families:    c.families,
		Definitions: c.registry.Emitted(),
		Warnings:    c.warnings,
	}
}

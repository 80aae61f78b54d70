package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/griffnb/vkwrap/internal/registry"
)

// ValidationError reports a declaration missing a required field.
type ValidationError struct {
	Kind  string
	Field string
	Name  string
}

func (e *ValidationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s declaration is missing its %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%s declaration %s is missing its %s", e.Kind, e.Name, e.Field)
}

func errMissing(kind, field string) error {
	return &ValidationError{Kind: kind, Field: field}
}

// Alias is `Name = Target`. Handles, basetypes and bitmasks are aliases of
// their target type.
type Alias struct {
	Name   string
	Target registry.TypeDescriptor
}

// EnumMember is one constant of an enumeration or extension.
type EnumMember struct {
	Name  string
	Value string
}

// Enum is an enumeration container with its constants.
type Enum struct {
	Name    string
	Type    registry.TypeDescriptor
	Members []EnumMember
}

// FuncPointer is a function pointer type.
type FuncPointer struct {
	Name   string
	Return registry.TypeDescriptor
	Params []registry.TypeDescriptor
}

// Field is a structure or union member. BitWidth is zero unless the member
// is a bit field.
type Field struct {
	Name     string
	Type     registry.TypeDescriptor
	BitWidth int
}

// Struct is a structure or union definition.
type Struct struct {
	Name   string
	Union  bool
	Fields []Field
}

// Command is a native entry point. Name keeps its native spelling since it
// is looked up by that name at load time.
type Command struct {
	Name   string
	Return registry.TypeDescriptor
	Params []registry.TypeDescriptor
}

// CommandFamily is the tuple of commands loaded through one handle.
type CommandFamily struct {
	Name     string
	Commands []Command
}

// Bootstrap binds the native command used to load every other command.
type Bootstrap struct {
	Name    string
	Command Command
}

// Extension is the block of constants added by one extension.
type Extension struct {
	Name    string
	Members []EnumMember
}

// Handle writes a handle alias.
func (e *Emitter) Handle(a Alias) error {
	return e.alias("handle", a)
}

// Basetype writes a basetype alias.
func (e *Emitter) Basetype(a Alias) error {
	return e.alias("basetype", a)
}

// Bitmask writes a bitmask alias.
func (e *Emitter) Bitmask(a Alias) error {
	return e.alias("bitmask", a)
}

// Alias writes an alias of an already emitted declaration.
func (e *Emitter) Alias(a Alias) error {
	return e.alias("alias", a)
}

func (e *Emitter) alias(kind string, a Alias) error {
	if a.Name == "" {
		return errMissing(kind, "name")
	}
	if !validType(a.Target) {
		return &ValidationError{Kind: kind, Field: "target", Name: a.Name}
	}
	e.printf("%s = %s\n", a.Name, a.Target)
	return nil
}

// Enum writes an enumeration container followed by its constants.
func (e *Emitter) Enum(en Enum) error {
	if en.Name == "" {
		return errMissing("enum", "name")
	}
	if !validType(en.Type) {
		return &ValidationError{Kind: "enum", Field: "type", Name: en.Name}
	}
	if err := validMembers("enum", en.Name, en.Members); err != nil {
		return err
	}

	e.printf("%s = %s\n", en.Name, en.Type)
	e.members(en.Members)
	e.buf.WriteString("\n")
	return nil
}

// FuncPointer writes a function pointer type.
func (e *Emitter) FuncPointer(fp FuncPointer) error {
	if fp.Name == "" {
		return errMissing("funcpointer", "name")
	}
	if !validType(fp.Return) {
		return &ValidationError{Kind: "funcpointer", Field: "return type", Name: fp.Name}
	}
	args := []string{fp.Return.String()}
	for i, p := range fp.Params {
		if !validType(p) {
			return &ValidationError{Kind: "funcpointer", Field: "type of parameter " + strconv.Itoa(i), Name: fp.Name}
		}
		args = append(args, p.String())
	}

	e.printf("%s = FUNCTYPE(%s)\n", fp.Name, strings.Join(args, ", "))
	return nil
}

// Struct writes a structure or union definition.
func (e *Emitter) Struct(s Struct) error {
	kind, define := "struct", "define_structure"
	if s.Union {
		kind, define = "union", "define_union"
	}
	if s.Name == "" {
		return errMissing(kind, "name")
	}
	for i, f := range s.Fields {
		if f.Name == "" {
			return &ValidationError{Kind: kind, Field: "name of field " + strconv.Itoa(i), Name: s.Name}
		}
		if !validType(f.Type) {
			return &ValidationError{Kind: kind, Field: "type of field " + f.Name, Name: s.Name}
		}
	}

	e.printf("%s = %s('%s',\n", s.Name, define, s.Name)
	for _, f := range s.Fields {
		if f.BitWidth > 0 {
			e.printf("    ('%s', %s, %d),\n", f.Name, f.Type, f.BitWidth)
			continue
		}
		e.printf("    ('%s', %s),\n", f.Name, f.Type)
	}
	e.buf.WriteString(")\n\n")
	return nil
}

// CommandFamily writes the `<Family>Functions` tuple. An empty family is
// written as an empty tuple.
func (e *Emitter) CommandFamily(f CommandFamily) error {
	if f.Name == "" {
		return errMissing("command family", "name")
	}
	entries := make([]string, 0, len(f.Commands))
	for _, c := range f.Commands {
		if err := validCommand("command family "+f.Name, c); err != nil {
			return err
		}
		items := []string{"b'" + c.Name + "'", c.Return.String()}
		for _, p := range c.Params {
			items = append(items, p.String())
		}
		entries = append(entries, pyTuple(items))
	}

	e.printf("%sFunctions = (\n", f.Name)
	for _, entry := range entries {
		e.printf("    %s,\n", entry)
	}
	e.buf.WriteString(")\n\n")
	return nil
}

// Bootstrap writes the binding of the loader entry point.
func (e *Emitter) Bootstrap(b Bootstrap) error {
	if b.Name == "" {
		return errMissing("bootstrap", "name")
	}
	if err := validCommand("bootstrap", b.Command); err != nil {
		return err
	}
	args := make([]string, 0, len(b.Command.Params))
	for _, p := range b.Command.Params {
		args = append(args, p.String())
	}

	e.printf("%s = vk.%s\n", b.Name, b.Command.Name)
	e.printf("%s.restype = %s\n", b.Name, b.Command.Return)
	e.printf("%s.argtypes = %s\n\n", b.Name, pyTuple(args))
	return nil
}

// Extension writes the constants of one extension under its native name.
func (e *Emitter) Extension(ext Extension) error {
	if ext.Name == "" {
		return errMissing("extension", "name")
	}
	if err := validMembers("extension", ext.Name, ext.Members); err != nil {
		return err
	}

	e.printf("# %s\n", ext.Name)
	e.members(ext.Members)
	e.buf.WriteString("\n")
	return nil
}

func (e *Emitter) members(members []EnumMember) {
	for _, m := range members {
		e.printf("%s = %s\n", m.Name, m.Value)
	}
}

func validMembers(kind, owner string, members []EnumMember) error {
	for i, m := range members {
		if m.Name == "" {
			return &ValidationError{Kind: kind, Field: "name of member " + strconv.Itoa(i), Name: owner}
		}
		if m.Value == "" {
			return &ValidationError{Kind: kind, Field: "value of " + m.Name, Name: owner}
		}
	}
	return nil
}

func validCommand(kind string, c Command) error {
	if c.Name == "" {
		return errMissing(kind, "command name")
	}
	if !validType(c.Return) {
		return &ValidationError{Kind: kind, Field: "return type", Name: c.Name}
	}
	for i, p := range c.Params {
		if !validType(p) {
			return &ValidationError{Kind: kind, Field: "type of parameter " + strconv.Itoa(i), Name: c.Name}
		}
	}
	return nil
}

// validType reports whether every layer of t is complete.
func validType(t registry.TypeDescriptor) bool {
	switch t.Kind {
	case registry.KindPointer:
		return t.Elem != nil && validType(*t.Elem)
	case registry.KindArray:
		return t.Elem != nil && t.Length != "" && validType(*t.Elem)
	default:
		return t.Name != ""
	}
}

// pyTuple renders a Python tuple literal, keeping the trailing comma a
// single element tuple needs.
func pyTuple(items []string) string {
	switch len(items) {
	case 0:
		return "()"
	case 1:
		return "(" + items[0] + ",)"
	default:
		return "(" + strings.Join(items, ", ") + ")"
	}
}

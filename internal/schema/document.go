package schema

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Document is a parsed registry. It is never modified after Parse returns.
type Document struct {
	root *Element
}

// Parse reads a registry document.
func Parse(r io.Reader) (*Document, error) {
	root, err := parseElements(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	return &Document{root: root}, nil
}

// NewDocument wraps an element tree.
func NewDocument(root *Element) *Document {
	return &Document{root: root}
}

// Root returns the <registry> element.
func (d *Document) Root() *Element {
	return d.root
}

// TypesByCategory returns the <type> declarations of a category in
// document order.
func (d *Document) TypesByCategory(category string) []*Element {
	var out []*Element
	for _, types := range d.root.FindAll("types") {
		for _, t := range types.FindAll("type") {
			if t.Attr("category") == category && forVulkan(t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Handles returns the handle declarations.
func (d *Document) Handles() []Handle {
	var out []Handle
	for _, e := range d.TypesByCategory(CategoryHandle) {
		out = append(out, Handle{
			Name:         declName(e),
			Alias:        e.Attr("alias"),
			Dispatchable: e.ChildText("type") == DefineHandle,
		})
	}
	return out
}

// Basetypes returns the basetype declarations.
func (d *Document) Basetypes() []Basetype {
	var out []Basetype
	for _, e := range d.TypesByCategory(CategoryBasetype) {
		out = append(out, Basetype{
			Name: declName(e),
			Type: e.ChildText("type"),
		})
	}
	return out
}

// Bitmasks returns the bitmask declarations.
func (d *Document) Bitmasks() []Bitmask {
	var out []Bitmask
	for _, e := range d.TypesByCategory(CategoryBitmask) {
		out = append(out, Bitmask{
			Name:  declName(e),
			Type:  e.ChildText("type"),
			Alias: e.Attr("alias"),
		})
	}
	return out
}

// EnumTypes returns the enumeration placeholders declared among the types.
func (d *Document) EnumTypes() []EnumType {
	var out []EnumType
	for _, e := range d.TypesByCategory(CategoryEnum) {
		out = append(out, EnumType{
			Name:  declName(e),
			Alias: e.Attr("alias"),
		})
	}
	return out
}

// FuncPointers returns the function pointer type declarations.
func (d *Document) FuncPointers() []FuncPointer {
	var out []FuncPointer
	for _, e := range d.TypesByCategory(CategoryFuncPointer) {
		out = append(out, parseFuncPointer(e))
	}
	return out
}

// StructsAndUnions returns every structure followed by every union.
func (d *Document) StructsAndUnions() []Struct {
	var out []Struct
	for _, category := range []string{CategoryStruct, CategoryUnion} {
		for _, e := range d.TypesByCategory(category) {
			out = append(out, parseStruct(e))
		}
	}
	return out
}

// EnumGroups returns the <enums> groups in document order.
func (d *Document) EnumGroups() []EnumGroup {
	var out []EnumGroup
	for _, e := range d.root.Descendants("enums") {
		group := EnumGroup{
			Name: e.Attr("name"),
			Type: e.Attr("type"),
		}
		if width, err := strconv.Atoi(e.Attr("bitwidth")); err == nil {
			group.BitWidth = width
		}
		for _, m := range e.FindAll("enum") {
			if forVulkan(m) {
				group.Members = append(group.Members, parseEnumValue(m))
			}
		}
		out = append(out, group)
	}
	return out
}

// Commands returns the command declarations.
func (d *Document) Commands() []Command {
	var out []Command
	for _, cmds := range d.root.FindAll("commands") {
		for _, e := range cmds.FindAll("command") {
			if !forVulkan(e) {
				continue
			}
			out = append(out, parseCommand(e))
		}
	}
	return out
}

// Extensions returns the extension declarations.
func (d *Document) Extensions() []Extension {
	var out []Extension
	for _, exts := range d.root.FindAll("extensions") {
		for _, e := range exts.FindAll("extension") {
			out = append(out, parseExtension(e))
		}
	}
	return out
}

func parseStruct(e *Element) Struct {
	s := Struct{
		Name:  e.Attr("name"),
		Union: e.Attr("category") == CategoryUnion,
		Alias: e.Attr("alias"),
	}
	for _, m := range e.FindAll("member") {
		if forVulkan(m) {
			s.Members = append(s.Members, parseDecl(m))
		}
	}
	return s
}

func parseCommand(e *Element) Command {
	if alias, ok := e.LookupAttr("alias"); ok {
		return Command{Name: e.Attr("name"), Alias: alias}
	}

	var c Command
	if proto := e.Find("proto"); proto != nil {
		c.Return = parseDecl(proto)
		c.Name = c.Return.Name
	}
	for _, p := range e.FindAll("param") {
		if p.Find("type") == nil || !forVulkan(p) {
			continue
		}
		c.Params = append(c.Params, parseDecl(p))
	}
	return c
}

func parseExtension(e *Element) Extension {
	ext := Extension{
		Name:      e.Attr("name"),
		Supported: e.Attr("supported"),
	}
	if n, err := strconv.Atoi(e.Attr("number")); err == nil {
		ext.Number = n
	}

	for idx, req := range e.FindAll("require") {
		enums := req.FindAll("enum")
		if idx == 0 && len(enums) > 0 {
			if v, ok := enums[0].LookupAttr("value"); ok && v == "0" {
				ext.Placeholder = true
			}
		}
		for _, m := range enums {
			ext.Enums = append(ext.Enums, parseEnumValue(m))
		}
	}

	return ext
}

func parseEnumValue(e *Element) EnumValue {
	return EnumValue{
		Name:      e.Attr("name"),
		Value:     e.Attr("value"),
		BitPos:    e.Attr("bitpos"),
		Alias:     e.Attr("alias"),
		Offset:    e.Attr("offset"),
		Dir:       e.Attr("dir"),
		Extends:   e.Attr("extends"),
		ExtNumber: e.Attr("extnumber"),
	}
}

// declName returns the <name> child of a type declaration, or its name
// attribute for aliases and placeholders.
func declName(e *Element) string {
	if name := e.ChildText("name"); name != "" {
		return name
	}
	return e.Attr("name")
}

// forVulkan filters out declarations restricted to other API variants.
func forVulkan(e *Element) bool {
	api, ok := e.LookupAttr("api")
	if !ok {
		return true
	}
	for _, a := range strings.Split(api, ",") {
		if strings.TrimSpace(a) == "vulkan" {
			return true
		}
	}
	return false
}

// Package schema parses the API registry document into an ordered element
// tree and exposes typed read-only views of its declarations.
package schema

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is an element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the registry document. Text holds the character
// data before the first child and Tail the character data that follows the
// element inside its parent, which is where C declarators keep their '*'
// and '[N]' fragments.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
	Text     string
	Tail     string
}

// Attr returns the value of the named attribute or "".
func (e *Element) Attr(name string) string {
	v, _ := e.LookupAttr(name)
	return v
}

// LookupAttr returns the value of the named attribute and whether it is present.
func (e *Element) LookupAttr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns the first direct child with the given tag.
func (e *Element) Find(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given tag.
func (e *Element) FindAll(tag string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// Descendants returns every element below e with the given tag, depth first
// in document order.
func (e *Element) Descendants(tag string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		for _, c := range n.Children {
			if c.Tag == tag {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(e)
	return out
}

// ChildText returns the text of the first direct child with the given tag.
func (e *Element) ChildText(tag string) string {
	if c := e.Find(tag); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// parseElements builds the element tree from XML input.
func parseElements(r io.Reader) (*Element, error) {
	decoder := xml.NewDecoder(r)

	var stack []*Element
	var root *Element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("unexpected element %s after document end", t.Name.Local)
			}
			elem := &Element{
				Tag:   t.Name.Local,
				Attrs: convertAttrs(t.Attr),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			curr := stack[len(stack)-1]
			if n := len(curr.Children); n > 0 {
				curr.Children[n-1].Tail += string(t)
			} else {
				curr.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}

	return root, nil
}

func convertAttrs(attrs []xml.Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, Attr{Name: a.Name.Local, Value: a.Value})
	}
	return out
}

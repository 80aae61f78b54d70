package schema

import (
	"slices"
	"strconv"
	"strings"
)

// enumMarker stands in for an <enum> child inside a declarator suffix.
const enumMarker = "\x00"

// parseDecl reads a <member>, <param> or <proto> element:
//
//	const <type>char</type>* const* <name>ppNames</name>
//	<type>char</type> <name>deviceName</name>[<enum>VK_MAX_NAME_SIZE</enum>]
//	<type>uint32_t</type> <name>mask</name>:8
func parseDecl(e *Element) Decl {
	var d Decl

	if typeEl := e.Find("type"); typeEl != nil {
		d.Type = strings.TrimSpace(typeEl.Text)
		d.Pointers = strings.Count(typeEl.Tail, "*")
	}

	nameEl := e.Find("name")
	if nameEl == nil {
		return d
	}
	d.Name = strings.TrimSpace(nameEl.Text)

	suffix, constants := declaratorSuffix(e, nameEl)
	d.Dims, d.BitWidth = parseSuffix(suffix, constants)

	return d
}

// declaratorSuffix joins the character data following the name element,
// replacing each <enum> child by enumMarker.
func declaratorSuffix(e, nameEl *Element) (string, []string) {
	var (
		b         strings.Builder
		constants []string
		after     bool
	)

	for _, c := range e.Children {
		if c == nameEl {
			after = true
			b.WriteString(c.Tail)
			continue
		}
		if !after {
			continue
		}
		if c.Tag == "enum" {
			b.WriteString(enumMarker)
			constants = append(constants, strings.TrimSpace(c.Text))
		}
		b.WriteString(c.Tail)
	}

	return b.String(), constants
}

func parseSuffix(suffix string, constants []string) ([]ArrayDim, int) {
	var (
		dims     []ArrayDim
		bitWidth int
	)

	for i := 0; i < len(suffix); i++ {
		switch suffix[i] {
		case '[':
			end := strings.IndexByte(suffix[i:], ']')
			if end < 0 {
				return dims, bitWidth
			}
			content := strings.TrimSpace(suffix[i+1 : i+end])
			if content == enumMarker && len(constants) > 0 {
				dims = append(dims, ArrayDim{Length: constants[0], Constant: true})
				constants = constants[1:]
			} else if content != "" {
				dims = append(dims, ArrayDim{Length: content})
			}
			i += end
		case ':':
			digits := strings.TrimSpace(suffix[i+1:])
			n := 0
			for n < len(digits) && digits[n] >= '0' && digits[n] <= '9' {
				n++
			}
			if width, err := strconv.Atoi(digits[:n]); err == nil {
				bitWidth = width
			}
			return dims, bitWidth
		}
	}

	return dims, bitWidth
}

// parseFuncPointer reads
//
//	typedef void* (VKAPI_PTR *<name>PFN_vkAllocationFunction</name>)(
//	    <type>void</type>* pUserData, <type>size_t</type> size);
func parseFuncPointer(e *Element) FuncPointer {
	fp := FuncPointer{Name: e.ChildText("name")}

	ret := strings.Replace(e.Text, "(VKAPI_PTR *", "", 1)
	fp.Return = Decl{
		Type:     strings.TrimSpace(strings.ReplaceAll(stripQualifiers(ret, "typedef"), "*", "")),
		Pointers: strings.Count(ret, "*"),
	}

	for _, t := range e.FindAll("type") {
		tail := t.Tail
		if idx := strings.IndexAny(tail, ",)"); idx >= 0 {
			tail = tail[:idx]
		}
		fp.Params = append(fp.Params, Decl{
			Name:     strings.TrimSpace(strings.ReplaceAll(stripQualifiers(tail), "*", "")),
			Type:     strings.TrimSpace(t.Text),
			Pointers: strings.Count(tail, "*"),
		})
	}

	return fp
}

// stripQualifiers drops const and the extra words from a C fragment.
func stripQualifiers(fragment string, extra ...string) string {
	fields := strings.Fields(strings.ReplaceAll(fragment, "*", " * "))
	out := fields[:0]
	for _, f := range fields {
		if f == "const" || slices.Contains(extra, f) {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

package emitter

import (
	"strconv"

	"github.com/griffnb/vkwrap/internal/naming"
	"github.com/griffnb/vkwrap/internal/schema"
)

const (
	// ExtensionBase is the value of the first extension enumerant.
	ExtensionBase = 1000000000
	// ExtensionBlockSize is the number of enumerant values reserved per extension.
	ExtensionBlockSize = 1000
)

// ExtensionOffset returns the value of an offset enumerant of extension
// number ext: base + (ext-1)*blockSize + offset, negated when negative is set.
func ExtensionOffset(ext, offset int, negative bool) int {
	value := ExtensionBase + (ext-1)*ExtensionBlockSize + offset
	if negative {
		return -value
	}
	return value
}

// ExtensionValue computes the value of an enumerant added by extension
// number ext. An explicit value wins, then a bit position, then an offset.
// A missing offset counts as 0 when only a direction is given.
// An alias yields the normalized name of its target. The second result is
// false when the enumerant only references a value defined elsewhere.
func ExtensionValue(ev schema.EnumValue, ext int) (string, bool) {
	switch {
	case ev.Value != "":
		return NormalizeLiteral(naming.StripNativePrefix(ev.Value)), true
	case ev.BitPos != "":
		return "1<<" + ev.BitPos, true
	case ev.Offset != "" || ev.ExtNumber != "" || ev.Dir != "":
		if n, err := strconv.Atoi(ev.ExtNumber); err == nil {
			ext = n
		}
		offset, _ := strconv.Atoi(ev.Offset)
		return strconv.Itoa(ExtensionOffset(ext, offset, ev.Dir == "-")), true
	case ev.Alias != "":
		return naming.StripNativePrefix(ev.Alias), true
	}
	return "", false
}

// EnumValue computes the value of a member of an <enums> group.
func EnumValue(ev schema.EnumValue) (string, bool) {
	switch {
	case ev.Value != "":
		return NormalizeLiteral(ev.Value), true
	case ev.BitPos != "":
		return "1<<" + ev.BitPos, true
	case ev.Alias != "":
		return naming.StripNativePrefix(ev.Alias), true
	}
	return "", false
}

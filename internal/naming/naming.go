// Package naming converts registry identifiers into the names used by the
// generated wrapper.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FunctionPointerPrefix replaces the native function pointer prefix.
const FunctionPointerPrefix = "fn_"

// prefixRule strips or replaces one native namespace prefix.
type prefixRule struct {
	prefix      string
	replacement string
}

// Checked in order, first match wins.
var nativePrefixes = []prefixRule{
	{prefix: "Vk"},
	{prefix: "VK_"},
	{prefix: "vk"},
	{prefix: "PFN_vk", replacement: FunctionPointerPrefix},
}

// Field name pointer markers, longest first.
var pointerMarkers = []string{"pfn_", "pp_", "p_"}

// StripNativePrefix removes the native namespace prefix of a type, constant
// or function name. Function pointer types get the fn_ marker instead.
func StripNativePrefix(name string) string {
	for _, rule := range nativePrefixes {
		if strings.HasPrefix(name, rule.prefix) {
			return rule.replacement + name[len(rule.prefix):]
		}
	}

	return name
}

// ToSnakeCase converts a camelCase name to snake_case. Acronym runs such as
// "ID" are kept upper case and the first word is left untouched.
func ToSnakeCase(in string) string {
	words := splitWords(in)
	if len(words) == 0 {
		return in
	}

	lower := cases.Lower(language.Und)

	out := make([]string, 0, len(words))
	for idx, word := range words {
		if idx > 0 && isCamelWord(word) {
			word = lower.String(word)
		}
		out = append(out, word)
	}

	return strings.Join(out, "_")
}

// NormalizeFieldName snake cases a structure member name and drops the
// leading pointer marker (p_, pp_, pfn_).
func NormalizeFieldName(in string) string {
	name := ToSnakeCase(in)

	for _, marker := range pointerMarkers {
		if strings.HasPrefix(name, marker) && len(name) > len(marker) {
			return name[len(marker):]
		}
	}

	return name
}

// EnumGroupName normalizes the name of an <enums> group. Groups such as
// "API Constants" carry spaces.
func EnumGroupName(in string) string {
	return StripNativePrefix(strings.ReplaceAll(strings.TrimSpace(in), " ", "_"))
}

// splitWords breaks a name before every upper case letter that follows a
// lower case letter or a digit. Acronym runs stay in one word, so
// "2DBlock" yields "2" and "DBlock".
func splitWords(in string) []string {
	var (
		runes  = []rune(in)
		length = len(runes)
		words  []string
		start  int
	)

	for idx := 1; idx < length; idx++ {
		curr := runes[idx]
		if !unicode.IsUpper(curr) {
			continue
		}

		prev := runes[idx-1]
		if !unicode.IsUpper(prev) && prev != '_' {
			words = append(words, string(runes[start:idx]))
			start = idx
		}
	}

	if length > 0 {
		words = append(words, string(runes[start:]))
	}

	return words
}

func isCamelWord(word string) bool {
	runes := []rune(word)
	return len(runes) > 1 && unicode.IsUpper(runes[0]) && !unicode.IsUpper(runes[1])
}

package emitter

import "strings"

// literalSuffixes maps C literal suffixes to ctypes constructors, longest first.
var literalSuffixes = []struct {
	suffix string
	ctype  string
}{
	{"ULL", "c_uint64"},
	{"U", "c_uint"},
	{"f", "c_float"},
}

// NormalizeLiteral rewrites a C constant expression for Python. Outer
// parentheses are dropped and suffixed numbers become typed constructor
// calls: "(~0U)" -> "c_uint(~0)", "1000.0f" -> "c_float(1000.0)".
// Quoted strings are returned unchanged.
func NormalizeLiteral(value string) string {
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, `"`) {
		return value
	}
	value = stripOuterParens(value)

	var b strings.Builder
	for i := 0; i < len(value); {
		c := value[i]
		switch {
		case isIdentStart(c):
			j := i
			for j < len(value) && isIdentChar(value[j]) {
				j++
			}
			b.WriteString(value[i:j])
			i = j
		case isDigit(c) || (c == '~' && i+1 < len(value) && isDigit(value[i+1])):
			j := scanNumber(value, i)
			number := value[i:j]
			ctype, n := matchSuffix(value[j:], isHex(number))
			if ctype != "" {
				b.WriteString(ctype + "(" + number + ")")
			} else {
				b.WriteString(number)
			}
			i = j + n
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// scanNumber returns the end of the numeric token starting at i.
func scanNumber(s string, i int) int {
	if s[i] == '~' {
		i++
	}
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		for i < len(s) && isHexDigit(s[i]) {
			i++
		}
		return i
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i
}

func matchSuffix(rest string, hex bool) (string, int) {
	for _, ls := range literalSuffixes {
		if hex && ls.suffix == "f" {
			continue
		}
		if !strings.HasPrefix(rest, ls.suffix) {
			continue
		}
		if n := len(ls.suffix); n < len(rest) && isIdentChar(rest[n]) {
			continue
		}
		return ls.ctype, len(ls.suffix)
	}
	return "", 0
}

// stripOuterParens removes parentheses enclosing the whole expression.
func stripOuterParens(s string) string {
	for len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' && closingParen(s) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func closingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isHex(number string) bool {
	n := strings.TrimPrefix(number, "~")
	return strings.HasPrefix(n, "0x") || strings.HasPrefix(n, "0X")
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

package parse

import "strings"

// Quote returns a string literal that evaluates to the given string. Only the
// characters that have escape sequences are escaped.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if e, ok := escapeTable[s[i]]; ok {
			sb.WriteByte('\\')
			sb.WriteByte(e)
		} else {
			sb.WriteByte(s[i])
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

var escapeTable = map[byte]byte{
	'"': '"', '\\': '\\', '\n': 'n', '\r': 'r', '\t': 't',
}

// IsIdentifier reports whether s can be written as a bare identifier: it
// matches [A-Za-z_][A-Za-z0-9_]* and is not a keyword.
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) || keywords[s] {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

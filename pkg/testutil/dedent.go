package testutil

import "strings"

// Dedent strips the longest common prefix of spaces and tabs from all lines
// of text that are not blank, and turns blank lines into empty ones. A
// leading newline is dropped, so raw strings can start on the line after the
// opening backtick:
//
//	Dedent(`
//		let x = 1 in
//		  x + 1
//		`)
//
// returns "let x = 1 in\n  x + 1\n".
func Dedent(text string) string {
	text = strings.TrimPrefix(text, "\n")
	lines := strings.Split(text, "\n")
	margin, first := "", true
	for i, line := range lines {
		if strings.TrimLeft(line, " \t") == "" {
			lines[i] = ""
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			margin, first = indent, false
		} else {
			margin = commonPrefix(margin, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, margin)
	}
	return strings.Join(lines, "\n")
}

func commonPrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return a[:n]
}

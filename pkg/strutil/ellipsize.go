// Package strutil contains string utilities.
package strutil

import "unicode/utf8"

// Ellipsis is appended to strings shortened by Ellipsize.
const Ellipsis = "…"

// Ellipsize shortens s to at most width codepoints, replacing the tail with
// Ellipsis if anything is cut off. A non-positive width means no limit.
func Ellipsize(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width == 1 {
		return Ellipsis
	}
	n := 0
	for i := range s {
		if n == width-1 {
			return s[:i] + Ellipsis
		}
		n++
	}
	return s
}

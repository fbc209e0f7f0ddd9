// Package sys provides terminal queries with the same API across OSes.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// DefaultWidth is assumed for terminals that report a width of 0, such as
// some serial consoles.
const DefaultWidth = 80

// TermWidth returns the number of columns of the terminal that file refers
// to, or 0 if file is not a terminal.
func TermWidth(file *os.File) int {
	w, err := termWidth(file)
	switch {
	case err != nil:
		return 0
	case w == 0:
		return DefaultWidth
	}
	return w
}

// IsATTY reports whether fd refers to a terminal, including Cygwin and MSYS
// terminals.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

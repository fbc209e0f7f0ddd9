package diag

import (
	"fmt"
	"io"

	"src.ggexpr.dev/pkg/errutil"
)

// Shower is implemented by errors that know how to present themselves to a
// human, usually with source context.
type Shower interface {
	// Show returns the presentation, with each line after the first prefixed
	// by indent.
	Show(indent string) string
}

// ShowError writes err to w. Errors combined with [errutil.Multi] are written
// one by one. Each error is written with its Show method if it is a
// [Shower] and with [Complain] otherwise.
func ShowError(w io.Writer, err error) {
	for _, e := range errutil.Unpack(err) {
		if s, ok := e.(Shower); ok {
			fmt.Fprintln(w, s.Show(""))
		} else {
			Complain(w, e.Error())
		}
	}
}

// Complain writes msg and a newline to w, in bold red.
func Complain(w io.Writer, msg string) {
	fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
}

// Complainf formats its arguments and passes the result to Complain.
func Complainf(w io.Writer, format string, args ...any) {
	Complain(w, fmt.Sprintf(format, args...))
}

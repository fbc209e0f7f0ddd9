package vm

import (
	"bytes"
	"fmt"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/errs"
)

// Exception is the error returned when a program raises a runtime error.
type Exception struct {
	// The underlying error, typically a value of one of the types in the errs
	// package.
	Reason     error
	StackTrace *StackTrace
}

// StackTrace represents a stack trace as a linked list of diag.Context. The
// head is the innermost frame.
type StackTrace struct {
	Head *diag.Context
	Next *StackTrace
}

// Reason returns the Reason field if err is an *Exception. Otherwise it
// returns err itself.
func Reason(err error) error {
	if exc, ok := err.(*Exception); ok {
		return exc.Reason
	}
	return err
}

// Error returns the message of the reason of the exception.
func (exc *Exception) Error() string { return exc.Reason.Error() }

// Unwrap returns the reason, so that errors.As can find it.
func (exc *Exception) Unwrap() error { return exc.Reason }

// Kind returns the classification of the reason.
func (exc *Exception) Kind() errs.Kind { return errs.KindOf(exc.Reason) }

// Range returns the source range of the instruction that raised the
// exception, or an empty range at -1 if it is unknown.
func (exc *Exception) Range() diag.Ranging {
	if exc.StackTrace == nil {
		return diag.PointRanging(-1)
	}
	return exc.StackTrace.Head.Range()
}

// Show shows the exception.
func (exc *Exception) Show(indent string) string {
	buf := new(bytes.Buffer)
	var reason string
	if shower, ok := exc.Reason.(diag.Shower); ok {
		reason = shower.Show(indent)
	} else {
		reason = "\033[31;1m" + exc.Reason.Error() + "\033[m"
	}
	fmt.Fprintf(buf, "Exception: %s", reason)

	if exc.StackTrace != nil {
		buf.WriteString("\n")
		if exc.StackTrace.Next == nil {
			buf.WriteString(indent + "  " + exc.StackTrace.Head.Show(indent+"  "))
		} else {
			buf.WriteString(indent + "Traceback:")
			for tb := exc.StackTrace; tb != nil; tb = tb.Next {
				buf.WriteString("\n" + indent + "  ")
				buf.WriteString(tb.Head.Show(indent + "    "))
			}
		}
	}
	return buf.String()
}

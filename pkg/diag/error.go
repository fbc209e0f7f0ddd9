package diag

import (
	"fmt"
	"strings"
)

// ErrorTag distinguishes the [Error] types of different stages, such as
// "parse error" and "check error". ErrorTag is called on the zero value.
type ErrorTag interface {
	ErrorTag() string
}

// Error is an error tied to a range of a source.
type Error[T ErrorTag] struct {
	Message string
	Context Context
}

// Escape sequences around the message in Show.
var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

// Error returns the tag, the start position and the message on one line.
func (e *Error[T]) Error() string {
	return errorTagTitle[T]() + ": " + e.Context.describeStart() + ": " + e.Message
}

func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Show returns the capitalized tag and the highlighted message, followed by
// the source context.
func (e *Error[T]) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n",
		title(errorTagTitle[T]()), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.Show(indent+"  ")
}

func errorTagTitle[T ErrorTag]() string {
	var t T
	return t.ErrorTag()
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

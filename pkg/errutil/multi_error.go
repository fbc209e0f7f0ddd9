// Package errutil combines errors.
package errutil

import (
	"errors"
	"strings"
)

// Multi combines errs into one error, dropping nils. It returns nil when no
// error is left and the only error when one is left. Combined errors passed
// to Multi again are flattened, so Multi(Multi(a, b), c) is the same as
// Multi(a, b, c).
func Multi(errs ...error) error {
	var flat []error
	for _, err := range errs {
		flat = append(flat, Unpack(err)...)
	}
	if len(flat) <= 1 {
		if len(flat) == 0 {
			return nil
		}
		return flat[0]
	}
	return multiError(flat)
}

// Unpack returns the errors combined by Multi, []error{err} for any other
// non-nil error, and nil for nil.
func Unpack(err error) []error {
	if err == nil {
		return nil
	}
	if me, ok := err.(multiError); ok {
		return me
	}
	return []error{err}
}

type multiError []error

func (me multiError) Error() string {
	msgs := make([]string, len(me))
	for i, err := range me {
		msgs[i] = err.Error()
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Is makes errors.Is match any of the combined errors.
func (me multiError) Is(target error) bool {
	for _, err := range me {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

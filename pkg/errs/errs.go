// Package errs declares error types used as the reasons of runtime errors.
//
// Each type belongs to one [Kind], which is the classification exposed to
// embedding hosts.
package errs

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies runtime errors.
type Kind int

// Possible values of Kind.
const (
	// Reasons that don't implement Kinder. It never appears in errors raised
	// by the VM itself.
	Unclassified Kind = iota
	TypeError
	IndexOutOfBounds
	KeyNotFound
	DivisionByZero
	NotCallable
	ArityMismatchKind
	StackOverflowKind
)

var kindNames = [...]string{
	Unclassified:      "Unclassified",
	TypeError:         "TypeError",
	IndexOutOfBounds:  "IndexOutOfBounds",
	KeyNotFound:       "KeyNotFound",
	DivisionByZero:    "DivisionByZero",
	NotCallable:       "NotCallable",
	ArityMismatchKind: "ArityMismatch",
	StackOverflowKind: "StackOverflow",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinder wraps the ErrorKind method.
type Kinder interface {
	ErrorKind() Kind
}

// KindOf returns the Kind of an error, looking through wrapped errors.
func KindOf(err error) Kind {
	var k Kinder
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return Unclassified
}

// BadType encapsulates an error where a value has an unsupported type.
type BadType struct {
	What   string
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e BadType) Error() string {
	return fmt.Sprintf("type error: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

func (BadType) ErrorKind() Kind { return TypeError }

// BadValue encapsulates an error where a value has the right type but a bad
// content, like a negative repeat count.
type BadValue struct {
	What   string
	Valid  string
	Actual string
}

// Error implements the error interface.
func (e BadValue) Error() string {
	return fmt.Sprintf("bad value: %s must be %s, but is %s", e.What, e.Valid, e.Actual)
}

func (BadValue) ErrorKind() Kind { return TypeError }

// OutOfRange encapsulates the error when an index is out of range.
type OutOfRange struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    string
}

// Error implements the error interface.
func (e OutOfRange) Error() string {
	if e.ValidHigh < e.ValidLow {
		return fmt.Sprintf(
			"out of range: %v has no valid value, but is %v", e.What, e.Actual)
	}
	return fmt.Sprintf(
		"out of range: %s must be from %v to %v, but is %v",
		e.What, e.ValidLow, e.ValidHigh, e.Actual)
}

func (OutOfRange) ErrorKind() Kind { return IndexOutOfBounds }

// NoSuchKey encapsulates the error when a map does not have a key.
type NoSuchKey struct {
	// Key is the representation of the missing key.
	Key string
}

// Error implements the error interface.
func (e NoSuchKey) Error() string {
	return "no such key: " + e.Key
}

func (NoSuchKey) ErrorKind() Kind { return KeyNotFound }

// NoSuchBinding encapsulates the error when a host binding declared at
// compile time is not supplied at evaluation.
type NoSuchBinding struct {
	Name string
}

// Error implements the error interface.
func (e NoSuchBinding) Error() string {
	return "no such binding: " + e.Name
}

func (NoSuchBinding) ErrorKind() Kind { return KeyNotFound }

// DivideByZero is the error when an integer is divided by zero.
type DivideByZero struct {
	// Op is either "/" or "%".
	Op string
}

// Error implements the error interface.
func (e DivideByZero) Error() string {
	if e.Op == "%" {
		return "division by zero: integer remainder by 0"
	}
	return "division by zero: integer division by 0"
}

func (DivideByZero) ErrorKind() Kind { return DivisionByZero }

// NotFn is the error when a non-function value is called.
type NotFn struct {
	// Kind of the value, as returned by vals.Kind.
	Kind string
}

// Error implements the error interface.
func (e NotFn) Error() string {
	return "not callable: a value of kind " + e.Kind + " is not a function"
}

func (NotFn) ErrorKind() Kind { return NotCallable }

// ArityMismatch encapsulates an arity mismatch error.
type ArityMismatch struct {
	What      string
	ValidLow  int
	ValidHigh int
	Actual    int
}

// Error implements the error interface.
func (e ArityMismatch) Error() string {
	if e.ValidHigh == e.ValidLow {
		return fmt.Sprintf("arity mismatch: %v must be %v, but is %v",
			e.What, nValues(e.ValidLow), nValues(e.Actual))
	} else if e.ValidHigh == -1 {
		return fmt.Sprintf("arity mismatch: %v must be %v or more values, but is %v",
			e.What, e.ValidLow, nValues(e.Actual))
	} else {
		return fmt.Sprintf("arity mismatch: %v must be %v to %v values, but is %v",
			e.What, e.ValidLow, e.ValidHigh, nValues(e.Actual))
	}
}

func (ArityMismatch) ErrorKind() Kind { return ArityMismatchKind }

func nValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return strconv.Itoa(n) + " values"
}

// StackOverflow is the error when the call depth exceeds the limit of the VM.
type StackOverflow struct {
	Depth int
}

// Error implements the error interface.
func (e StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: call depth exceeds %d", e.Depth)
}

func (StackOverflow) ErrorKind() Kind { return StackOverflowKind }

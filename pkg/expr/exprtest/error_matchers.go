package exprtest

import (
	"errors"
	"fmt"
	"reflect"

	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/vm"
)

type errorMatcher interface{ matchError(error) bool }

// An errorMatcher for compilation errors.
type diagnostic struct {
	kind expr.DiagnosticKind
	msg  *string
}

func (d diagnostic) Error() string {
	if d.msg == nil {
		return d.kind.String()
	}
	return fmt.Sprintf("%s with message %q", d.kind, *d.msg)
}

func (d diagnostic) matchError(e error) bool {
	var got *expr.Diagnostic
	if !errors.As(e, &got) {
		return false
	}
	return got.Kind == d.kind && (d.msg == nil || *d.msg == got.Message)
}

// An errorMatcher for exceptions.
type exc struct {
	reason error
	stacks []string
}

func (e exc) Error() string {
	if len(e.stacks) == 0 {
		return fmt.Sprintf("exception with reason %v", e.reason)
	}
	return fmt.Sprintf("exception with reason %v and stacks %v", e.reason, e.stacks)
}

func (e exc) matchError(e2 error) bool {
	var got *vm.Exception
	if errors.As(e2, &got) {
		return matchErr(e.reason, got.Reason) &&
			(len(e.stacks) == 0 ||
				reflect.DeepEqual(e.stacks, getStackTexts(got.StackTrace)))
	}
	return false
}

func getStackTexts(tb *vm.StackTrace) []string {
	texts := []string{}
	for tb != nil {
		ctx := tb.Head
		texts = append(texts, ctx.Source[ctx.From:ctx.To])
		tb = tb.Next
	}
	return texts
}

// ErrorWithKind returns an error that can be passed to Case.Throws to match
// any error of the given kind.
func ErrorWithKind(k errs.Kind) error { return errWithKind{k} }

type errWithKind struct{ k errs.Kind }

func (e errWithKind) Error() string { return "error of kind " + e.k.String() }

func (e errWithKind) matchError(e2 error) bool {
	return e2 != nil && errs.KindOf(e2) == e.k
}

// ErrorWithType returns an error that can be passed to Case.Throws to match
// any error with the same type as the argument.
func ErrorWithType(v error) error { return errWithType{v} }

// An errorMatcher for any error with the given type.
type errWithType struct{ v error }

func (e errWithType) Error() string { return fmt.Sprintf("error with type %T", e.v) }

func (e errWithType) matchError(e2 error) bool {
	return reflect.TypeOf(e.v) == reflect.TypeOf(e2)
}

// ErrorWithMessage returns an error that can be passed to Case.Throws to match
// any error with the given message.
func ErrorWithMessage(msg string) error { return errWithMessage{msg} }

// An errorMatcher for any error with the given message.
type errWithMessage struct{ msg string }

func (e errWithMessage) Error() string { return "error with message " + e.msg }

func (e errWithMessage) matchError(e2 error) bool {
	return e2 != nil && e.msg == e2.Error()
}

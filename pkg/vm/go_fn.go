package vm

import (
	"fmt"
	"reflect"
	"unsafe"

	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/persistent/hash"
	"src.ggexpr.dev/pkg/vals"
)

// GoFn is a function implemented in Go.
type GoFn struct {
	name string
	impl any

	// If true, pass the running VM as a *VM argument.
	vm bool
	// Type of "normal" (non-variadic) arguments.
	normalArgs []reflect.Type
	// If not nil, type of variadic arguments.
	variadicArg reflect.Type
}

var _ vals.Callable = &GoFn{}

// NewGoFn wraps a Go function into a function value using reflection.
//
// If the first parameter of impl has type *VM, it gets the VM running the
// call, which can be used to call function arguments. Other arguments are
// converted to the parameter types of impl using vals.ScanToGo; a parameter of
// type any receives the argument unchanged. If impl is variadic, the function
// accepts any number of arguments beyond the non-variadic ones.
//
// The function must return either one value, or one value and an error. The
// value is converted using vals.FromGo. A non-nil error becomes the error of
// the call.
func NewGoFn(name string, impl any) *GoFn {
	implType := reflect.TypeOf(impl)
	if implType.Kind() != reflect.Func {
		panic("NewGoFn: impl is not a function")
	}
	switch {
	case implType.NumOut() == 1:
	case implType.NumOut() == 2 && implType.Out(1) == errorType:
	default:
		panic("NewGoFn: impl must return a value and an optional error")
	}
	b := &GoFn{name: name, impl: impl}
	i := 0
	if i < implType.NumIn() && implType.In(i) == vmType {
		b.vm = true
		i++
	}
	for ; i < implType.NumIn(); i++ {
		paramType := implType.In(i)
		if i == implType.NumIn()-1 && implType.IsVariadic() {
			b.variadicArg = paramType.Elem()
			break
		}
		b.normalArgs = append(b.normalArgs, paramType)
	}
	return b
}

// Name returns the name of the function.
func (b *GoFn) Name() string { return b.name }

// Kind returns "fn".
func (*GoFn) Kind() string { return "fn" }

// Equal compares identity.
func (b *GoFn) Equal(rhs any) bool { return b == rhs }

// Hash hashes the address.
func (b *GoFn) Hash() uint32 { return hash.Pointer(unsafe.Pointer(b)) }

// Repr returns an opaque representation "<builtin name>".
func (b *GoFn) Repr() string { return "<builtin " + b.name + ">" }

// error(nil) is treated as nil by reflect.TypeOf, so we first get the type of
// *error and use Elem to obtain type of error.
var errorType = reflect.TypeOf((*error)(nil)).Elem()

var vmType = reflect.TypeOf((*VM)(nil))

// Call calls the implementation using reflection. If the implementation takes
// a *VM, it gets a new one.
func (b *GoFn) Call(args []any) (any, error) {
	return b.call(nil, args)
}

func (b *GoFn) call(vm *VM, args []any) (any, error) {
	if b.variadicArg != nil {
		if len(args) < len(b.normalArgs) {
			return nil, errs.ArityMismatch{What: "arguments of " + b.name,
				ValidLow: len(b.normalArgs), ValidHigh: -1, Actual: len(args)}
		}
	} else if len(args) != len(b.normalArgs) {
		return nil, errs.ArityMismatch{What: "arguments of " + b.name,
			ValidLow: len(b.normalArgs), ValidHigh: len(b.normalArgs), Actual: len(args)}
	}

	var in []reflect.Value
	if b.vm {
		if vm == nil {
			vm = New()
		}
		in = append(in, reflect.ValueOf(vm))
	}
	for i, arg := range args {
		typ := b.variadicArg
		if i < len(b.normalArgs) {
			typ = b.normalArgs[i]
		}
		ptr := reflect.New(typ)
		if err := vals.ScanToGo(arg, ptr.Interface()); err != nil {
			return nil, b.argError(i, err)
		}
		in = append(in, ptr.Elem())
	}

	outs := reflect.ValueOf(b.impl).Call(in)
	if len(outs) == 2 {
		if err := outs[1].Interface(); err != nil {
			return nil, err.(error)
		}
	}
	return vals.FromGo(outs[0].Interface()), nil
}

// Rewrites conversion errors to name the offending argument.
func (b *GoFn) argError(i int, err error) error {
	what := fmt.Sprintf("argument %d of %s", i+1, b.name)
	switch err := err.(type) {
	case errs.BadType:
		err.What = what
		return err
	case errs.BadValue:
		err.What = what
		return err
	}
	return err
}

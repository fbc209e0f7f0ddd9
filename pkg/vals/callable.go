package vals

// Callable is implemented by function values that can be called by the
// virtual machine and by host code. Compiled closures and functions
// implemented in Go both satisfy it.
type Callable interface {
	Call(args []any) (any, error)
}

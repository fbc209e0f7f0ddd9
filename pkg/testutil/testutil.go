// Package testutil contains helpers shared by tests across packages.
package testutil

import "os"

// Cleanuper is the subset of [testing.TB] used to register cleanup
// functions.
type Cleanuper interface {
	Cleanup(func())
}

// Set assigns v to *p until the test finishes.
func Set[T any](c Cleanuper, p *T, v T) {
	old := *p
	*p = v
	c.Cleanup(func() { *p = old })
}

// Setenv sets an environment variable until the test finishes, then restores
// or unsets it. Unlike [testing.T.Setenv], it also works in parallel tests
// that don't touch the same variable. It returns value.
func Setenv(c Cleanuper, name, value string) string {
	if old, ok := os.LookupEnv(name); ok {
		c.Cleanup(func() { os.Setenv(name, old) })
	} else {
		c.Cleanup(func() { os.Unsetenv(name) })
	}
	os.Setenv(name, value)
	return value
}

// Recover calls f and returns what it panicked with, or nil.
func Recover(f func()) (r any) {
	defer func() { r = recover() }()
	f()
	return nil
}

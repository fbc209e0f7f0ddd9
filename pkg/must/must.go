// Package must wraps fallible operations used by tests and test fixtures,
// turning their errors into panics.
package must

import (
	"io"
	"os"
	"path/filepath"
)

// OK panics if err is non-nil.
func OK(err error) {
	if err != nil {
		panic(err)
	}
}

// OK1 returns v, or panics if err is non-nil.
func OK1[T any](v T, err error) T {
	OK(err)
	return v
}

// Pipe returns the ends of a new os.Pipe.
func Pipe() (r, w *os.File) {
	r, w, err := os.Pipe()
	OK(err)
	return r, w
}

// ReadAllAndClose reads r until EOF and closes it.
func ReadAllAndClose(r io.ReadCloser) []byte {
	defer func() { OK(r.Close()) }()
	return OK1(io.ReadAll(r))
}

// ReadFileString returns the content of a file as a string.
func ReadFileString(name string) string {
	return string(OK1(os.ReadFile(name)))
}

// WriteFile writes content to a file, creating missing parent directories.
func WriteFile(name, content string) {
	OK(os.MkdirAll(filepath.Dir(name), 0o700))
	OK(os.WriteFile(name, []byte(content), 0o600))
}

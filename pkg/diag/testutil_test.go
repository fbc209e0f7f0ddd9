package diag

import (
	"strings"
	"testing"

	"src.ggexpr.dev/pkg/testutil"
)

var dedent = testutil.Dedent

// Replaces the terminal escape sequences around culprits and messages with
// plain markers for the duration of a test.
func useMarkers(t *testing.T, culprit, message [2]string) {
	testutil.Set(t, &culpritStart, culprit[0])
	testutil.Set(t, &culpritEnd, culprit[1])
	if message != [2]string{} {
		testutil.Set(t, &messageStart, message[0])
		testutil.Set(t, &messageEnd, message[1])
	}
}

var (
	angles = [2]string{"<", ">"}
	braces = [2]string{"{", "}"}
)

// Returns a Context for src whose range covers the first parenthesized part.
func contextInParen(name, src string) *Context {
	from := strings.IndexByte(src, '(')
	return NewContext(name, src, Ranging{from, from + strings.IndexByte(src[from:], ')') + 1})
}

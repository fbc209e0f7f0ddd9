package tt

import (
	"fmt"
	"strings"
	"testing"
)

// testT implements the T interface and is used to verify the Test function's
// interaction with T.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

// Simple functions to test.

func add(x, y int) int {
	return x + y
}

func addsub(x int, y int) (int, int) {
	return x + y, x - y
}

func isNil(v any) bool { return v == nil }

func TestTTPass(t *testing.T) {
	var testT testT
	Test(&testT, addsub,
		Args(1, 10).Rets(11, -9),
	)
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass: %v", testT)
	}
}

func TestTTPass_NilArgument(t *testing.T) {
	var testT testT
	Test(&testT, isNil, Args(nil).Rets(true))
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass: %v", testT)
	}
}

func TestTTFail_UsesReflectedName(t *testing.T) {
	var testT testT
	Test(&testT, add, Args(1, 10).Rets(12))
	assertOneError(t, testT, "add(1, 10) returns (-want +got):\n")
}

func TestTTFail_ExplicitNameAndCaseName(t *testing.T) {
	var testT testT
	Test(&testT, Fn("plus", add), Args(1, 10).Rets(12).Named("small"))
	assertOneError(t, testT, "small: plus(1, 10) returns (-want +got):\n")
}

func TestTTFail_AnyMatcher(t *testing.T) {
	var testT testT
	Test(&testT, addsub, Args(1, 10).Rets(Any, -8))
	assertOneError(t, testT, "addsub(1, 10) returns (-want +got):\n")
}

func assertOneError(t *testing.T, testT testT, wantPrefix string) {
	t.Helper()
	switch len(testT) {
	case 0:
		t.Errorf("Test didn't error when it should")
	case 1:
		if !strings.HasPrefix(testT[0], wantPrefix) {
			t.Errorf("Test wrote message %q, want prefix %q", testT[0], wantPrefix)
		}
	default:
		t.Errorf("Test wrote too many error messages")
	}
}

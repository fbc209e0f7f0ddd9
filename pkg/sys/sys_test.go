package sys

import (
	"testing"

	"src.ggexpr.dev/pkg/must"
)

func TestIsATTY_Pipe(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if IsATTY(r.Fd()) || IsATTY(w.Fd()) {
		t.Errorf("IsATTY -> true for a pipe")
	}
}

func TestTermWidth_NotTerminal(t *testing.T) {
	r, w := must.Pipe()
	defer r.Close()
	defer w.Close()
	if width := TermWidth(w); width != 0 {
		t.Errorf("TermWidth -> %d for a pipe, want 0", width)
	}
}

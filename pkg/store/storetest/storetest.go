// Package storetest keeps test suites against storedefs.Store.
package storetest

import (
	"testing"

	"src.ggexpr.dev/pkg/store/storedefs"
)

var (
	cmds     = []string{"1 + 2", "let x = 1 in x", "[1, 2] * 3", "1 / 0"}
	bindings = []storedefs.Binding{
		{Name: "width", Code: "640"}, {Name: "config", Code: "{ speed = 2 }"}}
)

// TestCmd tests the history functionality of a Store.
func TestCmd(t *testing.T, store storedefs.Store) {
	if next, err := store.NextCmdSeq(); next != 1 || err != nil {
		t.Errorf("NextCmdSeq() => (%v, %v), want (1, nil)", next, err)
	}
	if last, err := store.LastCmds(3); len(last) != 0 || err != nil {
		t.Errorf("LastCmds(3) on empty history => (%v, %v), want no entries", last, err)
	}

	for i, text := range cmds {
		if seq, err := store.AddCmd(text); seq != i+1 || err != nil {
			t.Errorf("AddCmd(%q) => (%v, %v), want (%v, nil)", text, seq, err, i+1)
		}
	}
	if next, err := store.NextCmdSeq(); next != len(cmds)+1 || err != nil {
		t.Errorf("NextCmdSeq() => (%v, %v), want (%v, nil)", next, err, len(cmds)+1)
	}
	for i, want := range cmds {
		if text, err := store.Cmd(i + 1); text != want || err != nil {
			t.Errorf("Cmd(%v) => (%q, %v), want (%q, nil)", i+1, text, err, want)
		}
	}

	wantCmds := func(seqs ...int) []storedefs.Cmd {
		entries := make([]storedefs.Cmd, len(seqs))
		for i, seq := range seqs {
			entries[i] = storedefs.Cmd{Text: cmds[seq-1], Seq: seq}
		}
		return entries
	}
	checkCmds := func(what string, got []storedefs.Cmd, err error, want []storedefs.Cmd) {
		t.Helper()
		if err != nil || !equalCmds(got, want) {
			t.Errorf("%s => (%v, %v), want (%v, nil)", what, got, err, want)
		}
	}
	got, err := store.Cmds(2, 4)
	checkCmds("Cmds(2, 4)", got, err, wantCmds(2, 3))
	got, err = store.LastCmds(2)
	checkCmds("LastCmds(2)", got, err, wantCmds(3, 4))
	got, err = store.LastCmds(10)
	checkCmds("LastCmds(10)", got, err, wantCmds(1, 2, 3, 4))

	if n, err := store.TrimCmds(3); n != 1 || err != nil {
		t.Errorf("TrimCmds(3) => (%v, %v), want (1, nil)", n, err)
	}
	if _, err := store.Cmd(1); !matchErr(err, storedefs.ErrNoMatchingCmd) {
		t.Errorf("Cmd(1) after trimming => error %v, want %v", err, storedefs.ErrNoMatchingCmd)
	}
	got, err = store.LastCmds(10)
	checkCmds("LastCmds(10) after trimming", got, err, wantCmds(2, 3, 4))
	if n, err := store.TrimCmds(3); n != 0 || err != nil {
		t.Errorf("TrimCmds(3) again => (%v, %v), want (0, nil)", n, err)
	}
	// Sequence numbers are not reused.
	if seq, err := store.AddCmd("x"); seq != len(cmds)+1 || err != nil {
		t.Errorf("AddCmd after trimming => (%v, %v), want (%v, nil)", seq, err, len(cmds)+1)
	}
}

func equalCmds(a, b []storedefs.Cmd) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestBinding tests the saved binding functionality of a Store.
func TestBinding(t *testing.T, store storedefs.Store) {
	if _, err := store.Binding("width"); !matchErr(err, storedefs.ErrNoBinding) {
		t.Errorf("store.Binding of nonexistent binding => error %v, want %v",
			err, storedefs.ErrNoBinding)
	}

	for _, b := range bindings {
		if err := store.SetBinding(b.Name, b.Code); err != nil {
			t.Errorf("store.SetBinding(%q, %q) => %v, want nil", b.Name, b.Code, err)
		}
	}
	if code, err := store.Binding("width"); code != "640" || err != nil {
		t.Errorf("store.Binding(width) => (%q, %v), want (640, nil)", code, err)
	}

	all, err := store.Bindings()
	// Bindings are ordered by name.
	want := []storedefs.Binding{bindings[1], bindings[0]}
	if err != nil || len(all) != len(want) || all[0] != want[0] || all[1] != want[1] {
		t.Errorf("store.Bindings() => (%v, %v), want (%v, nil)", all, err, want)
	}

	// Overwrite.
	if err := store.SetBinding("width", "800"); err != nil {
		t.Errorf("store.SetBinding => %v", err)
	}
	if code, _ := store.Binding("width"); code != "800" {
		t.Errorf("store.Binding(width) => %q after overwriting, want 800", code)
	}

	if err := store.DelBinding("width"); err != nil {
		t.Errorf("store.DelBinding(width) => %v, want nil", err)
	}
	if _, err := store.Binding("width"); !matchErr(err, storedefs.ErrNoBinding) {
		t.Errorf("store.Binding after deleting => error %v, want %v",
			err, storedefs.ErrNoBinding)
	}
	if err := store.DelBinding("no-such-binding"); err != nil {
		t.Errorf("store.DelBinding of nonexistent binding => %v, want nil", err)
	}
}

func matchErr(e1, e2 error) bool {
	return (e1 == nil && e2 == nil) || (e1 != nil && e2 != nil && e1.Error() == e2.Error())
}

// Package storedefs defines the storage API used by the REPL, separately from
// its bbolt implementation.
package storedefs

import "errors"

var (
	// ErrNoMatchingCmd is returned by Cmd when no history entry has the
	// requested sequence number.
	ErrNoMatchingCmd = errors.New("no matching command line")
	// ErrNoBinding is returned by Binding when no binding has the requested
	// name.
	ErrNoBinding = errors.New("no such binding")
)

// Store keeps the REPL history and the bindings saved with /set.
type Store interface {
	// NextCmdSeq returns the sequence number the next AddCmd will use.
	// Sequence numbers start from 1 and are never reused, even after
	// TrimCmds.
	NextCmdSeq() (int, error)
	// AddCmd appends a history entry and returns its sequence number.
	AddCmd(text string) (int, error)
	// Cmd returns the history entry with the given sequence number.
	Cmd(seq int) (string, error)
	// Cmds returns the history entries with sequence numbers in [from, upto).
	Cmds(from, upto int) ([]Cmd, error)
	// LastCmds returns up to n of the newest history entries, oldest first.
	LastCmds(n int) ([]Cmd, error)
	// TrimCmds deletes the oldest history entries so that at most keep
	// remain, and returns how many were deleted.
	TrimCmds(keep int) (int, error)

	// SetBinding saves the source of a binding, replacing any binding with
	// the same name.
	SetBinding(name, code string) error
	// Binding returns the source of a saved binding.
	Binding(name string) (string, error)
	// DelBinding deletes a saved binding. Deleting an absent binding is not
	// an error.
	DelBinding(name string) error
	// Bindings returns all saved bindings, ordered by name.
	Bindings() ([]Binding, error)
}

// Cmd is a history entry.
type Cmd struct {
	Text string
	Seq  int
}

// Binding is a saved binding. Code is an expression whose value is the value
// of the binding.
type Binding struct {
	Name string
	Code string
}

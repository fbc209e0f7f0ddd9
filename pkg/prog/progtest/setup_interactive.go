//go:build unix

package progtest

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"src.ggexpr.dev/pkg/must"
	"src.ggexpr.dev/pkg/testutil"
)

// Fixture is a test fixture for programs that read from and write to a
// terminal. Stdin and stdout of the program are the slave end of a
// pseudo-terminal; stderr is a pipe.
type Fixture struct {
	pty, tty *os.File
	stderr   *os.File

	mutex  sync.Mutex
	output bytes.Buffer
	errOut bytes.Buffer
}

// SetupInteractive sets up a Fixture. All resources are released when the
// test finishes.
func SetupInteractive(t *testing.T) *Fixture {
	p, tty, err := pty.Open()
	if err != nil {
		t.Skipf("cannot open pty: %v", err)
	}
	r2, w2 := must.Pipe()
	f := &Fixture{pty: p, tty: tty, stderr: w2}

	var wg sync.WaitGroup
	wg.Add(2)
	go f.collect(&wg, p, &f.output)
	go f.collect(&wg, r2, &f.errOut)
	t.Cleanup(func() {
		tty.Close()
		w2.Close()
		p.Close()
		wg.Wait()
		r2.Close()
	})
	return f
}

func (f *Fixture) collect(wg *sync.WaitGroup, r *os.File, buf *bytes.Buffer) {
	defer wg.Done()
	b := make([]byte, 4096)
	for {
		n, err := r.Read(b)
		f.mutex.Lock()
		buf.Write(b[:n])
		f.mutex.Unlock()
		if err != nil {
			return
		}
	}
}

// Fds returns the files the program under test should use.
func (f *Fixture) Fds() [3]*os.File {
	return [3]*os.File{f.tty, f.tty, f.stderr}
}

// SetSize sets the size of the terminal.
func (f *Fixture) SetSize(t *testing.T, rows, cols int) {
	t.Helper()
	err := pty.Setsize(f.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		t.Fatalf("set pty size: %v", err)
	}
}

// Feed writes text to the terminal, as if typed by the user.
func (f *Fixture) Feed(t *testing.T, text string) {
	t.Helper()
	if _, err := f.pty.WriteString(text); err != nil {
		t.Fatalf("write to pty: %v", err)
	}
}

// TestOutputContaining waits until the terminal output contains the given
// text, and fails the test if that doesn't happen in time.
func (f *Fixture) TestOutputContaining(t *testing.T, want string) {
	t.Helper()
	f.waitFor(t, "terminal output", &f.output, want)
}

// TestStderrContaining is like TestOutputContaining, but for stderr.
func (f *Fixture) TestStderrContaining(t *testing.T, want string) {
	t.Helper()
	f.waitFor(t, "stderr", &f.errOut, want)
}

func (f *Fixture) waitFor(t *testing.T, what string, buf *bytes.Buffer, want string) {
	t.Helper()
	deadline := time.Now().Add(testutil.Scaled(2 * time.Second))
	for {
		f.mutex.Lock()
		got := buf.String()
		f.mutex.Unlock()
		if strings.Contains(got, want) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("got %s %q, want text containing %q", what, got, want)
		}
		time.Sleep(testutil.Scaled(10 * time.Millisecond))
	}
}

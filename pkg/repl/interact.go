package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/store"
	"src.ggexpr.dev/pkg/store/storedefs"
	"src.ggexpr.dev/pkg/strutil"
	"src.ggexpr.dev/pkg/sys"
	"src.ggexpr.dev/pkg/vals"
)

// Prompt is printed before reading each line in interactive mode.
const Prompt = "ggexpr> "

// Name of the binding that holds the value of the last evaluated line.
const lastValueName = "_"

// Number of history entries shown by /h when no number is given.
const defaultHistoryLen = 10

// Number of history entries kept in the database. Older entries are dropped
// when a session starts.
const historyCap = 10000

// interactCfg keeps configuration for the interactive mode.
type interactCfg struct {
	// Host bindings, usually loaded from a YAML file.
	Bindings map[string]any
	// Path of the database. If empty, history and saved bindings are not
	// available.
	DB string
}

type session struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
	tty *os.File

	store    storedefs.Store
	bindings map[string]any

	showBytecode bool
	showTiming   bool
	nLines       int
}

const helpText = `Enter an expression to evaluate it. The value of the last expression is
available as _. Commands:
  /b               toggle showing bytecode
  /t               toggle showing evaluation time
  /h [n]           show the last n lines of history
  /set name code   evaluate code and save its value as name
  /unset name      delete a saved binding
  /bindings        list all bindings
  /help            show this help
  /q               quit`

// Runs an interactive session, reading one expression per line until
// EOF or /q.
func interact(fds [3]*os.File, cfg *interactCfg) {
	s := &session{
		in: bufio.NewReader(fds[0]), out: fds[1], err: fds[2],
		bindings: make(map[string]any, len(cfg.Bindings)),
	}
	for name, v := range cfg.Bindings {
		s.bindings[name] = v
	}
	if sys.IsATTY(fds[0].Fd()) {
		s.tty = fds[1]
	}

	if cfg.DB != "" {
		st, err := store.NewStore(cfg.DB)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning:", err)
			fmt.Fprintln(fds[2], "History and saved bindings will not be available.")
		} else {
			defer st.Close()
			s.store = st
			if n, err := st.TrimCmds(historyCap); err != nil {
				logger.Println("cannot trim history:", err)
			} else if n > 0 {
				logger.Println("dropped", n, "old history entries")
			}
			s.loadSavedBindings()
		}
	}

	for {
		if s.tty != nil {
			fmt.Fprint(s.err, Prompt)
		}
		line, err := s.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := s.handleLine(line); quit {
				return
			}
		}
		if err == io.EOF {
			return
		} else if err != nil {
			fmt.Fprintln(s.err, "cannot read input:", err)
			return
		}
	}
}

func (s *session) handleLine(line string) (quit bool) {
	if strings.HasPrefix(line, "/") {
		return s.command(line)
	}
	s.nLines++
	if s.store != nil {
		_, err := s.store.AddCmd(line)
		if err != nil {
			logger.Println("cannot add command to history:", err)
		}
	}
	src := parse.Source{Name: fmt.Sprintf("[tty %v]", s.nLines), Code: line}
	start := time.Now()
	v, err := s.eval(src, s.showBytecode)
	duration := time.Since(start)
	if err != nil {
		diag.ShowError(s.err, err)
	} else {
		s.bindings[lastValueName] = v
		fmt.Fprintln(s.out, s.elide(vals.Repr(v)))
	}
	if s.showTiming {
		fmt.Fprintf(s.out, "(took %v)\n", duration)
	}
	return false
}

func (s *session) eval(src parse.Source, showBytecode bool) (any, error) {
	prog, err := expr.Compile(src, expr.CompileCfg{Globals: globalNames(s.bindings)})
	if err != nil {
		return nil, err
	}
	if showBytecode {
		prog.Bytecode().Disassemble(s.out)
	}
	return prog.Eval(s.bindings)
}

// Shortens a value representation to fit in one line of the terminal. Output
// that is not a terminal is not shortened.
func (s *session) elide(repr string) string {
	if s.tty == nil {
		return repr
	}
	return strutil.Ellipsize(repr, sys.TermWidth(s.tty))
}

func (s *session) command(line string) (quit bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/q", "/quit":
		return true
	case "/help":
		fmt.Fprintln(s.out, helpText)
	case "/b":
		s.showBytecode = !s.showBytecode
		fmt.Fprintln(s.out, "bytecode display", onOff(s.showBytecode))
	case "/t":
		s.showTiming = !s.showTiming
		fmt.Fprintln(s.out, "timing display", onOff(s.showTiming))
	case "/h":
		s.showHistory(arg)
	case "/set":
		s.setBinding(arg)
	case "/unset":
		s.unsetBinding(arg)
	case "/bindings":
		s.listBindings()
	default:
		diag.Complainf(s.err, "unknown command %s; try /help", name)
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s *session) showHistory(arg string) {
	if s.store == nil {
		diag.Complain(s.err, "history is not available")
		return
	}
	n := defaultHistoryLen
	if arg != "" {
		var err error
		n, err = strconv.Atoi(arg)
		if err != nil || n <= 0 {
			diag.Complainf(s.err, "bad history length: %s", arg)
			return
		}
	}
	cmds, err := s.store.LastCmds(n)
	if err != nil {
		diag.ShowError(s.err, err)
		return
	}
	for _, cmd := range cmds {
		fmt.Fprintf(s.out, "%5d  %s\n", cmd.Seq, cmd.Text)
	}
}

func (s *session) setBinding(arg string) {
	name, code, _ := strings.Cut(arg, " ")
	code = strings.TrimSpace(code)
	if !parse.IsIdentifier(name) || code == "" {
		diag.Complain(s.err, "usage: /set name code")
		return
	}
	v, err := s.eval(parse.Source{Name: "[set " + name + "]", Code: code}, false)
	if err != nil {
		diag.ShowError(s.err, err)
		return
	}
	s.bindings[name] = v
	if s.store == nil {
		fmt.Fprintf(s.out, "%s = %s (not saved)\n", name, s.elide(vals.Repr(v)))
		return
	}
	// Values other than functions are saved by their representation so that
	// they don't depend on other bindings when loaded again.
	saved := code
	if vals.Kind(v) != "fn" {
		saved = vals.Repr(v)
	}
	err = s.store.SetBinding(name, saved)
	if err != nil {
		diag.ShowError(s.err, err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", name, s.elide(vals.Repr(v)))
}

func (s *session) unsetBinding(name string) {
	if name == "" {
		diag.Complain(s.err, "usage: /unset name")
		return
	}
	delete(s.bindings, name)
	if s.store != nil {
		err := s.store.DelBinding(name)
		if err != nil {
			diag.ShowError(s.err, err)
		}
	}
}

func (s *session) listBindings() {
	names := globalNames(s.bindings)
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(s.out, "%s = %s\n", name, s.elide(vals.Repr(vals.FromGo(s.bindings[name]))))
	}
}

func (s *session) loadSavedBindings() {
	saved, err := s.store.Bindings()
	if err != nil {
		fmt.Fprintln(s.err, "Warning: cannot load saved bindings:", err)
		return
	}
	for _, b := range saved {
		v, err := s.eval(parse.Source{Name: "[saved " + b.Name + "]", Code: b.Code}, false)
		if err != nil {
			fmt.Fprintf(s.err, "Warning: cannot load saved binding %s:\n", b.Name)
			diag.ShowError(s.err, err)
			continue
		}
		s.bindings[b.Name] = v
	}
	logger.Println("loaded", len(saved), "saved bindings")
}

package repl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"src.ggexpr.dev/pkg/diag"
	"src.ggexpr.dev/pkg/expr"
	"src.ggexpr.dev/pkg/parse"
	"src.ggexpr.dev/pkg/vals"
)

// Configuration for the script mode.
type scriptCfg struct {
	Cmd         bool
	CompileOnly bool
	JSON        bool
}

// Evaluates a script and prints its value.
func script(fds [3]*os.File, args []string, bindings map[string]any, cfg *scriptCfg) int {
	arg0 := args[0]

	var name, code string
	if cfg.Cmd {
		name = "code from -c"
		code = arg0
	} else {
		var err error
		name, err = filepath.Abs(arg0)
		if err != nil {
			fmt.Fprintf(fds[2],
				"cannot get full path of script %q: %v\n", arg0, err)
			return 2
		}
		code, err = readFileUTF8(name)
		if err != nil {
			fmt.Fprintf(fds[2], "cannot read script %q: %v\n", name, err)
			return 2
		}
	}

	src := parse.Source{Name: name, Code: code}
	prog, err := expr.Compile(src, expr.CompileCfg{Globals: globalNames(bindings)})
	if cfg.CompileOnly {
		if cfg.JSON {
			fmt.Fprintf(fds[1], "%s\n", errorsToJSON(err))
		} else if err != nil {
			diag.ShowError(fds[2], err)
		}
		if err != nil {
			return 2
		}
		return 0
	}
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}

	v, err := prog.Eval(bindings)
	if err != nil {
		diag.ShowError(fds[2], err)
		return 2
	}
	if cfg.JSON {
		err = writeJSON(fds[1], v)
		if err != nil {
			fmt.Fprintln(fds[2], "cannot convert value to JSON:", err)
			return 2
		}
	} else {
		fmt.Fprintln(fds[1], vals.Repr(v))
	}
	return 0
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errSourceNotUTF8
	}
	return string(bytes), nil
}

func writeJSON(w io.Writer, v any) error {
	if vals.Kind(v) == "fn" {
		return fmt.Errorf("value of kind fn has no JSON form")
	}
	g, err := vals.ToGo(v)
	if err != nil {
		return err
	}
	bs, err := json.Marshal(g)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", bs)
	return nil
}

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Converts an error returned by expr.Compile into JSON.
func errorsToJSON(err error) []byte {
	converted := []errorInJSON{}
	var d *expr.Diagnostic
	if errors.As(err, &d) {
		converted = append(converted, errorInJSON{
			d.Context.Name, d.Context.From, d.Context.To, d.Kind.String(), d.Message})
	}

	jsonError, errMarshal := json.Marshal(converted)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}

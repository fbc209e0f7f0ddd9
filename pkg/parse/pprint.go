package parse

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
)

const (
	maxL      = 10
	maxR      = 10
	indentInc = 2
)

// PPrintAST pretty-prints a syntax tree to a Writer, one node per line with
// children indented below their parent.
func PPrintAST(n Node, w io.Writer) {
	pprintASTRec(n, w, 0)
}

var nodeType = reflect.TypeOf((*Node)(nil)).Elem()

func pprintASTRec(n Node, wr io.Writer, indent int) {
	nt := reflect.TypeOf(n).Elem()
	nv := reflect.ValueOf(n).Elem()

	var children []Node
	fmt.Fprintf(wr, "%*s%s", indent, "", nt.Name())
	for i := 0; i < nt.NumField(); i++ {
		f := nt.Field(i)
		if f.Anonymous {
			// embedded Ranging, skip
			continue
		}
		fv := nv.Field(i)
		switch {
		case f.Type.Kind() == reflect.Slice && f.Type.Elem().Implements(nodeType):
			for j := 0; j < fv.Len(); j++ {
				children = append(children, fv.Index(j).Interface().(Node))
			}
		case f.Type.Implements(nodeType):
			if !fv.IsNil() {
				children = append(children, fv.Interface().(Node))
			}
		default:
			fmt.Fprintf(wr, " %s=%s", f.Name, formatProperty(fv.Interface()))
		}
	}
	fmt.Fprint(wr, "\n")
	for _, ch := range children {
		pprintASTRec(ch, wr, indent+indentInc)
	}
}

func formatProperty(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return compactQuote(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32) + "f"
	default:
		return fmt.Sprint(v)
	}
}

func compactQuote(text string) string {
	if len(text) > maxL+maxR+3 {
		text = text[0:maxL] + "..." + text[len(text)-maxR:]
	}
	return strconv.Quote(text)
}

// Package parse implements the lexer and the parser of the expression
// language.
//
// The parser is a precedence-climbing parser that consumes tokens from a
// [Lexer] and builds an abstract syntax tree made of [Node] values. It stops
// at the first error.
package parse

import (
	"bytes"
	"errors"

	"src.ggexpr.dev/pkg/diag"
)

// Source describes a piece of source code.
type Source struct {
	// Name of the source, like a filename or "[eval]".
	Name string
	Code string
}

// Tree represents a parsed tree.
type Tree struct {
	Root   Node
	Source Source
}

// Parse parses the given source. The returned error is either a *LexError or
// an *Error if it is not nil.
func Parse(src Source) (Tree, error) {
	ps := &parser{src: src, lx: Tokenize(src)}
	root, err := ps.parseAll()
	if err != nil {
		return Tree{}, err
	}
	return Tree{root, src}, nil
}

// Error is a parse error.
type Error = diag.Error[ErrorTag]

// ErrorTag parameterizes [diag.Error] to define [Error].
type ErrorTag struct{}

func (ErrorTag) ErrorTag() string { return "parse error" }

func newError(text string, shouldbe ...string) error {
	if len(shouldbe) == 0 {
		return errors.New(text)
	}
	var buf bytes.Buffer
	if len(text) > 0 {
		buf.WriteString(text + ", ")
	}
	buf.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			buf.WriteString(" or ")
		} else {
			buf.WriteString(", ")
		}
		buf.WriteString(opt)
	}
	return errors.New(buf.String())
}

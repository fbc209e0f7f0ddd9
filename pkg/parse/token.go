package parse

import (
	"fmt"

	"src.ggexpr.dev/pkg/diag"
)

// TokenKind classifies tokens. Keywords and punctuation are further told apart
// by the text of the token.
type TokenKind int

// Possible values of TokenKind.
const (
	EOFToken TokenKind = iota
	IntToken
	FloatToken
	StringToken
	NameToken
	KeywordToken
	PunctToken
)

var tokenKindNames = [...]string{
	EOFToken:     "end of input",
	IntToken:     "integer literal",
	FloatToken:   "float literal",
	StringToken:  "string literal",
	NameToken:    "identifier",
	KeywordToken: "keyword",
	PunctToken:   "punctuation",
}

func (k TokenKind) String() string {
	if 0 <= k && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("!(TokenKind=%d)", int(k))
}

// Token is a lexical unit of the source.
type Token struct {
	Kind TokenKind
	// Text is the source text of the token.
	Text string
	// Value is the payload of literal tokens: an int64 for IntToken, a
	// float32 for FloatToken and the unescaped content for StringToken.
	Value any
	diag.Ranging
}

// Is reports whether the token is a keyword or punctuation with the given
// text.
func (t Token) Is(text string) bool {
	return (t.Kind == KeywordToken || t.Kind == PunctToken) && t.Text == text
}

func (t Token) describe() string {
	switch t.Kind {
	case EOFToken:
		return "end of input"
	case KeywordToken, PunctToken:
		return "'" + t.Text + "'"
	default:
		return t.Kind.String() + " " + compactQuote(t.Text)
	}
}

var keywords = map[string]bool{
	"let": true, "in": true, "if": true, "then": true, "else": true,
	"when": true, "fn": true, "true": true, "false": true, "null": true,
}

// Keywords returns all keywords of the language, in no particular order.
func Keywords() []string {
	kws := make([]string, 0, len(keywords))
	for kw := range keywords {
		kws = append(kws, kw)
	}
	return kws
}

// Punctuation, longest first so that the lexer can match greedily.
var puncts = []string{
	"**", "==", "!=", "<=", ">=", "&&", "||", "??", "?[", "?.",
	"+", "-", "*", "/", "%", "<", ">", "!", "?", ".",
	"[", "]", "{", "}", "(", ")", ",", "=", ":",
}

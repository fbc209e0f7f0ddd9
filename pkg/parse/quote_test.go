package parse

import (
	"testing"

	"src.ggexpr.dev/pkg/tt"
)

func TestQuote(t *testing.T) {
	tt.Test(t, Quote,
		Args("").Rets(`""`),
		Args("abc").Rets(`"abc"`),
		Args("a\"b\\c").Rets(`"a\"b\\c"`),
		Args("a\nb\r\tc").Rets(`"a\nb\r\tc"`),
		Args("héllo").Rets(`"héllo"`),
	)
}

func TestQuote_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "\"\\\n\r\t", "tab\there", "ünïcode"} {
		tok, err := Tokenize(Source{Name: "[test]", Code: Quote(s)}).Next()
		if err != nil {
			t.Errorf("lexing Quote(%q) errors: %v", s, err)
			continue
		}
		if tok.Value != s {
			t.Errorf("Quote(%q) lexes to %q", s, tok.Value)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	tt.Test(t, IsIdentifier,
		Args("x").Rets(true),
		Args("_a1").Rets(true),
		Args("").Rets(false),
		Args("1a").Rets(false),
		Args("a-b").Rets(false),
		Args("let").Rets(false),
		Args("null").Rets(false),
	)
}

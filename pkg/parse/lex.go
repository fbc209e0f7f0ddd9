package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"src.ggexpr.dev/pkg/diag"
)

// LexError is an error found when splitting the source into tokens.
type LexError = diag.Error[LexErrorTag]

// LexErrorTag parameterizes [diag.Error] to define [LexError].
type LexErrorTag struct{}

func (LexErrorTag) ErrorTag() string { return "lex error" }

// Lex errors.
var (
	errStringUnterminated = newError("string not terminated")
	errInvalidEscape      = newError("invalid escape sequence", `'\"'`, `'\\'`, "'n'", "'r'", "'t'")
	errMalformedNumber    = newError("malformed number")
	errIntOverflow        = newError("integer literal out of range")
	errFloatOverflow      = newError("float literal out of range")
)

// Lexer produces tokens from a source lazily. A Lexer can't be rewound; to
// restart from the beginning, create a new one.
type Lexer struct {
	src Source
	pos int
}

// Tokenize returns a Lexer for the source.
func Tokenize(src Source) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next token. At the end of the source it returns a token
// of kind EOFToken, and keeps doing so on subsequent calls.
//
// The returned error, if not nil, is always a *LexError. The lexer skips over
// the offending text, so the caller may continue calling Next.
func (lx *Lexer) Next() (Token, error) {
	lx.skipSpaceAndComments()
	code := lx.src.Code
	begin := lx.pos
	if begin == len(code) {
		return Token{Kind: EOFToken, Ranging: diag.PointRanging(begin)}, nil
	}
	c := code[begin]
	switch {
	case isIdentStart(c):
		for lx.pos < len(code) && isIdentPart(code[lx.pos]) {
			lx.pos++
		}
		text := code[begin:lx.pos]
		kind := NameToken
		if keywords[text] {
			kind = KeywordToken
		}
		return lx.token(kind, begin, nil), nil
	case isDigit(c):
		return lx.number()
	case c == '"':
		return lx.string()
	}
	for _, p := range puncts {
		if strings.HasPrefix(code[begin:], p) {
			lx.pos += len(p)
			return lx.token(PunctToken, begin, nil), nil
		}
	}
	r, size := utf8.DecodeRuneInString(code[begin:])
	lx.pos += size
	return Token{}, lx.errorAt(begin, lx.pos, fmt.Errorf("unexpected character %q", r))
}

func (lx *Lexer) skipSpaceAndComments() {
	code := lx.src.Code
	for lx.pos < len(code) {
		switch c := code[lx.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.pos++
		case strings.HasPrefix(code[lx.pos:], "//"):
			if i := strings.IndexByte(code[lx.pos:], '\n'); i == -1 {
				lx.pos = len(code)
			} else {
				lx.pos += i + 1
			}
		default:
			return
		}
	}
}

func (lx *Lexer) token(kind TokenKind, begin int, value any) Token {
	return Token{kind, lx.src.Code[begin:lx.pos], value, diag.Ranging{From: begin, To: lx.pos}}
}

func (lx *Lexer) errorAt(from, to int, e error) *LexError {
	return &LexError{
		Message: e.Error(),
		Context: *diag.NewContext(lx.src.Name, lx.src.Code, diag.Ranging{From: from, To: to}),
	}
}

// number lexes an integer or a float literal. Underscores may separate
// digits.
func (lx *Lexer) number() (Token, error) {
	code := lx.src.Code
	begin := lx.pos
	isFloat := false
	if strings.HasPrefix(code[begin:], "0x") || strings.HasPrefix(code[begin:], "0X") {
		lx.pos += 2
		lx.digits(isHexDigit)
	} else {
		lx.digits(isDigit)
		if lx.peekByte(0) == '.' && isDigit(lx.peekByte(1)) {
			isFloat = true
			lx.pos++
			lx.digits(isDigit)
		}
		if c := lx.peekByte(0); c == 'e' || c == 'E' {
			isFloat = true
			lx.pos++
			if c := lx.peekByte(0); c == '+' || c == '-' {
				lx.pos++
			}
			lx.digits(isDigit)
		}
	}
	// Swallow trailing identifier characters so that "12ab" is reported as a
	// whole.
	for lx.pos < len(code) && isIdentPart(code[lx.pos]) {
		lx.pos++
	}
	text := code[begin:lx.pos]
	if !wellFormedNumber(text) {
		return Token{}, lx.errorAt(begin, lx.pos, errMalformedNumber)
	}
	clean := strings.ReplaceAll(text, "_", "")
	if isFloat {
		f, err := strconv.ParseFloat(clean, 32)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return Token{}, lx.errorAt(begin, lx.pos, errFloatOverflow)
			}
			return Token{}, lx.errorAt(begin, lx.pos, errMalformedNumber)
		}
		return lx.token(FloatToken, begin, float32(f)), nil
	}
	var i int64
	var err error
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		i, err = strconv.ParseInt(clean[2:], 16, 64)
	} else {
		i, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Token{}, lx.errorAt(begin, lx.pos, errIntOverflow)
		}
		return Token{}, lx.errorAt(begin, lx.pos, errMalformedNumber)
	}
	return lx.token(IntToken, begin, i), nil
}

func (lx *Lexer) digits(accept func(byte) bool) {
	code := lx.src.Code
	for lx.pos < len(code) && (accept(code[lx.pos]) || code[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *Lexer) peekByte(i int) byte {
	if lx.pos+i < len(lx.src.Code) {
		return lx.src.Code[lx.pos+i]
	}
	return 0
}

// wellFormedNumber checks the shape of a number that can't be checked by
// strconv alone: underscores must sit between two digits, and there must be
// no trailing letters.
func wellFormedNumber(text string) bool {
	body := text
	hex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	digit := isDigit
	if hex {
		body = text[2:]
		digit = isHexDigit
		if body == "" {
			return false
		}
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '_':
			if i == 0 || i == len(body)-1 || !digit(body[i-1]) || !digit(body[i+1]) {
				return false
			}
		case digit(c), c == '.':
		case (c == 'e' || c == 'E') && !hex:
			if i+1 < len(body) && (body[i+1] == '+' || body[i+1] == '-') {
				i++
			}
			if i+1 == len(body) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (lx *Lexer) string() (Token, error) {
	code := lx.src.Code
	begin := lx.pos
	lx.pos++
	var sb strings.Builder
	for {
		if lx.pos == len(code) {
			return Token{}, lx.errorAt(begin, lx.pos, errStringUnterminated)
		}
		c := code[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return lx.token(StringToken, begin, sb.String()), nil
		case '\\':
			if lx.pos+1 == len(code) {
				lx.pos++
				return Token{}, lx.errorAt(begin, lx.pos, errStringUnterminated)
			}
			r, size := utf8.DecodeRuneInString(code[lx.pos+1:])
			if unescaped, ok := unescapeTable[r]; ok {
				sb.WriteByte(unescaped)
				lx.pos += 2
				continue
			}
			escBegin := lx.pos
			lx.pos += 1 + size
			lx.skipRestOfString()
			return Token{}, lx.errorAt(escBegin, escBegin+1+size, errInvalidEscape)
		default:
			sb.WriteByte(c)
			lx.pos++
		}
	}
}

// skipRestOfString moves past the closing quote of a string after an error,
// so that lexing can resume after it.
func (lx *Lexer) skipRestOfString() {
	code := lx.src.Code
	for lx.pos < len(code) {
		switch code[lx.pos] {
		case '"':
			lx.pos++
			return
		case '\\':
			lx.pos += 2
		default:
			lx.pos++
		}
	}
	if lx.pos > len(code) {
		lx.pos = len(code)
	}
}

var unescapeTable = map[rune]byte{
	'"': '"', '\\': '\\', 'n': '\n', 'r': '\r', 't': '\t',
}

func isIdentStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

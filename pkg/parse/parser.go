package parse

import (
	"fmt"
	"math"

	"src.ggexpr.dev/pkg/diag"
)

// Parse errors.
var (
	errShouldBeExpr            = newError("", "expression")
	errShouldBeName            = newError("", "identifier")
	errShouldBeEqual           = newError("", "'='")
	errShouldBeThen            = newError("", "'then'")
	errShouldBeElse            = newError("", "'else'")
	errShouldBeColon           = newError("", "':'")
	errShouldBeLParen          = newError("", "'('")
	errShouldBeRParen          = newError("", "')'")
	errShouldBeRBracket        = newError("", "']'")
	errShouldBeCommaOrIn       = newError("", "','", "'in'")
	errShouldBeCommaOrRParen   = newError("", "','", "')'")
	errShouldBeCommaOrRBracket = newError("", "','", "']'")
	errShouldBeCommaOrRBrace   = newError("", "','", "'}'")
	errShouldBeMapKey          = newError("", "identifier", "string", "'['")
)

// parser maintains the mutable states of parsing.
type parser struct {
	src Source
	lx  *Lexer
	// The current token, not yet consumed.
	tok Token
	// Set right before parsing the operand of a unary minus, so that the
	// literal 2147483648 can be accepted there.
	negating bool
}

// Errors abort parsing by panicking with this type; parseAll recovers it.
type parseAbort struct{ err error }

func (ps *parser) parseAll() (root Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			root, err = nil, abort.err
		}
	}()
	ps.advance()
	root = ps.parseExpr()
	if ps.tok.Kind != EOFToken {
		ps.error(ps.tok, fmt.Errorf("unexpected %s", ps.tok.describe()))
	}
	return root, nil
}

// advance consumes the current token and returns it.
func (ps *parser) advance() Token {
	consumed := ps.tok
	tok, err := ps.lx.Next()
	if err != nil {
		panic(parseAbort{err})
	}
	ps.tok = tok
	return consumed
}

func (ps *parser) expect(text string, e error) Token {
	if !ps.tok.Is(text) {
		ps.error(ps.tok, e)
	}
	return ps.advance()
}

func (ps *parser) error(r diag.Ranger, e error) {
	panic(parseAbort{&Error{
		Message: e.Error(),
		Context: *diag.NewContext(ps.src.Name, ps.src.Code, r),
	}})
}

func (ps *parser) parseExpr() Node {
	return ps.parseBinary(1)
}

type binaryOpInfo struct {
	op   BinaryOp
	prec int
}

// Precedence of binary operators, from loosest (1) to tightest. The
// exponentiation operator binds tighter than unary operators and is handled
// separately.
var binaryOps = map[string]binaryOpInfo{
	"||": {Or, 1}, "??": {Coalesce, 1},
	"&&": {And, 2},
	"==": {Eq, 3}, "!=": {Ne, 3},
	"<": {Lt, 4}, "<=": {Le, 4}, ">=": {Ge, 4}, ">": {Gt, 4},
	"+": {Add, 5}, "-": {Sub, 5},
	"*": {Mul, 6}, "/": {Div, 6}, "%": {Rem, 6},
}

// parseBinary parses a chain of binary operations whose operators have a
// precedence of at least minPrec. All of them are left-associative.
func (ps *parser) parseBinary(minPrec int) Node {
	left := ps.parseUnary()
	for ps.tok.Kind == PunctToken {
		info, ok := binaryOps[ps.tok.Text]
		if !ok || info.prec < minPrec {
			break
		}
		ps.advance()
		right := ps.parseBinary(info.prec + 1)
		left = &Binary{diag.Span(left, right), info.op, left, right}
	}
	return left
}

func (ps *parser) parseUnary() Node {
	if !ps.tok.Is("-") && !ps.tok.Is("!") {
		return ps.parsePow()
	}
	opTok := ps.advance()
	op := Neg
	if opTok.Text == "!" {
		op = Not
	}
	ps.negating = op == Neg
	operand := ps.parseUnary()
	r := diag.Span(opTok, operand)
	if lit, ok := operand.(*Literal); ok && lit.Value == int64(minIntMagnitude) {
		return &Literal{r, int32(math.MinInt32)}
	}
	return &Unary{r, op, operand}
}

// The magnitude of the smallest Int, which can only be written after a unary
// minus.
const minIntMagnitude = -math.MinInt32

func (ps *parser) parsePow() Node {
	base := ps.parsePostfix()
	if !ps.tok.Is("**") {
		return base
	}
	ps.advance()
	// Right-associative, and the exponent may carry a sign.
	exp := ps.parseUnary()
	return &Binary{diag.Span(base, exp), Pow, base, exp}
}

func (ps *parser) parsePostfix() Node {
	n := ps.parsePrimary()
	for {
		from := n.Range().From
		switch {
		case ps.tok.Is("("):
			ps.advance()
			args, to := parseSeq(ps, ")", errShouldBeCommaOrRParen, ps.parseExpr)
			n = &Call{diag.Ranging{From: from, To: to}, n, args}
		case ps.tok.Is("[") || ps.tok.Is("?["):
			nullable := ps.advance().Text == "?["
			key := ps.parseExpr()
			end := ps.expect("]", errShouldBeRBracket)
			n = &Index{diag.Ranging{From: from, To: end.To}, n, key, nullable}
		case ps.tok.Is(".") || ps.tok.Is("?.") || ps.tok.Is("?"):
			nullable := ps.advance().Text != "."
			name := ps.parseName()
			n = &Field{diag.Ranging{From: from, To: name.To}, n, name.Name, nullable}
		default:
			return n
		}
	}
}

func startsPostfix(tok Token) bool {
	switch {
	case tok.Is("("), tok.Is("["), tok.Is("?["), tok.Is("."), tok.Is("?."), tok.Is("?"), tok.Is("**"):
		return true
	}
	return false
}

func (ps *parser) parsePrimary() Node {
	negating := ps.negating
	ps.negating = false
	tok := ps.tok
	switch tok.Kind {
	case IntToken:
		ps.advance()
		i := tok.Value.(int64)
		if i <= math.MaxInt32 {
			return &Literal{tok.Ranging, int32(i)}
		}
		if negating && i == minIntMagnitude && !startsPostfix(ps.tok) {
			// Turned into an int32 by parseUnary.
			return &Literal{tok.Ranging, i}
		}
		ps.error(tok, errIntOverflow)
	case FloatToken, StringToken:
		ps.advance()
		return &Literal{tok.Ranging, tok.Value}
	case NameToken:
		ps.advance()
		return &Ident{tok.Ranging, tok.Text}
	case KeywordToken:
		switch tok.Text {
		case "null":
			ps.advance()
			return &Literal{tok.Ranging, nil}
		case "true", "false":
			ps.advance()
			return &Literal{tok.Ranging, tok.Text == "true"}
		case "let":
			return ps.parseLet()
		case "if":
			return ps.parseIf()
		case "when":
			return ps.parseWhen()
		case "fn":
			return ps.parseLambda()
		}
	case PunctToken:
		switch tok.Text {
		case "(":
			ps.advance()
			inner := ps.parseExpr()
			ps.expect(")", errShouldBeRParen)
			return inner
		case "[":
			ps.advance()
			elems, to := parseSeq(ps, "]", errShouldBeCommaOrRBracket, ps.parseExpr)
			return &List{diag.Ranging{From: tok.From, To: to}, elems}
		case "{":
			ps.advance()
			entries, to := parseSeq(ps, "}", errShouldBeCommaOrRBrace, ps.parseMapEntry)
			return &Map{diag.Ranging{From: tok.From, To: to}, entries}
		}
	}
	ps.error(tok, errShouldBeExpr)
	return nil
}

// parseSeq parses comma-separated items up to and including the closing
// punctuation. A trailing comma is allowed. It returns the items and the end
// position of the closing punctuation.
func parseSeq[T any](ps *parser, closing string, errSep error, item func() T) ([]T, int) {
	var items []T
	for !ps.tok.Is(closing) {
		items = append(items, item())
		if ps.tok.Is(",") {
			ps.advance()
		} else if !ps.tok.Is(closing) {
			ps.error(ps.tok, errSep)
		}
	}
	return items, ps.advance().To
}

func (ps *parser) parseName() *Ident {
	if ps.tok.Kind != NameToken {
		ps.error(ps.tok, errShouldBeName)
	}
	tok := ps.advance()
	return &Ident{tok.Ranging, tok.Text}
}

func (ps *parser) parseLet() Node {
	begin := ps.advance()
	var bindings []*Binding
	for {
		name := ps.parseName()
		ps.expect("=", errShouldBeEqual)
		value := ps.parseExpr()
		bindings = append(bindings, &Binding{diag.Span(name, value), name, value})
		if ps.tok.Is(",") {
			ps.advance()
		} else if !ps.tok.Is("in") {
			ps.error(ps.tok, errShouldBeCommaOrIn)
		}
		if ps.tok.Is("in") {
			break
		}
	}
	ps.advance()
	body := ps.parseExpr()
	return &Let{diag.Span(begin, body), bindings, body}
}

func (ps *parser) parseIf() Node {
	begin := ps.advance()
	cond := ps.parseExpr()
	ps.expect("then", errShouldBeThen)
	then := ps.parseExpr()
	ps.expect("else", errShouldBeElse)
	els := ps.parseExpr()
	return &If{diag.Span(begin, els), cond, then, els}
}

func (ps *parser) parseWhen() Node {
	begin := ps.advance()
	n := &When{}
	var last Node
	for {
		cond := ps.parseExpr()
		ps.expect("then", errShouldBeThen)
		body := ps.parseExpr()
		arm := &WhenArm{diag.Span(cond, body), cond, body}
		n.Arms = append(n.Arms, arm)
		last = arm
		if !ps.tok.Is(",") {
			break
		}
		ps.advance()
		if ps.tok.Is("else") {
			break
		}
	}
	if ps.tok.Is("else") {
		ps.advance()
		n.Else = ps.parseExpr()
		last = n.Else
	}
	n.Ranging = diag.Span(begin, last)
	return n
}

func (ps *parser) parseLambda() Node {
	begin := ps.advance()
	ps.expect("(", errShouldBeLParen)
	params, _ := parseSeq(ps, ")", errShouldBeCommaOrRParen, ps.parseName)
	ps.expect(":", errShouldBeColon)
	body := ps.parseExpr()
	return &Lambda{diag.Span(begin, body), params, body}
}

func (ps *parser) parseMapEntry() *MapEntry {
	tok := ps.tok
	var key Node
	switch {
	case tok.Kind == NameToken:
		ps.advance()
		if !ps.tok.Is("=") {
			// { x } is short for { x = x }.
			return &MapEntry{tok.Ranging, &Literal{tok.Ranging, tok.Text}, &Ident{tok.Ranging, tok.Text}}
		}
		key = &Literal{tok.Ranging, tok.Text}
	case tok.Kind == StringToken:
		ps.advance()
		key = &Literal{tok.Ranging, tok.Value}
	case tok.Is("["):
		ps.advance()
		key = ps.parseExpr()
		ps.expect("]", errShouldBeRBracket)
	default:
		ps.error(tok, errShouldBeMapKey)
	}
	ps.expect("=", errShouldBeEqual)
	value := ps.parseExpr()
	return &MapEntry{diag.Ranging{From: tok.From, To: value.Range().To}, key, value}
}

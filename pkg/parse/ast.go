package parse

import (
	"fmt"

	"src.ggexpr.dev/pkg/diag"
)

// Node is a node in the syntax tree.
type Node interface {
	diag.Ranger
	isNode()
}

// Literal is a constant: null, an int32, a float32, a bool or a string.
type Literal struct {
	diag.Ranging
	Value any
}

// Ident is a reference to a name. It is also used for the names introduced
// by let bindings and lambda parameters.
type Ident struct {
	diag.Ranging
	Name string
}

// Unary is a prefix operation.
type Unary struct {
	diag.Ranging
	Op      UnaryOp
	Operand Node
}

// Binary is an infix operation, including the short-circuiting ones.
type Binary struct {
	diag.Ranging
	Op    BinaryOp
	Left  Node
	Right Node
}

// Let = 'let' Binding { ',' Binding } [ ',' ] 'in' Node
type Let struct {
	diag.Ranging
	Bindings []*Binding
	Body     Node
}

// Binding = Ident '=' Node
type Binding struct {
	diag.Ranging
	Name  *Ident
	Value Node
}

// If = 'if' Node 'then' Node 'else' Node
type If struct {
	diag.Ranging
	Cond Node
	Then Node
	Else Node
}

// When = 'when' WhenArm { ',' WhenArm } [ ',' ] [ 'else' Node ]
//
// Else is nil when there is no else branch.
type When struct {
	diag.Ranging
	Arms []*WhenArm
	Else Node
}

// WhenArm = Node 'then' Node
type WhenArm struct {
	diag.Ranging
	Cond Node
	Body Node
}

// Lambda = 'fn' '(' [ Ident { ',' Ident } [ ',' ] ] ')' ':' Node
type Lambda struct {
	diag.Ranging
	Params []*Ident
	Body   Node
}

// Call = Node '(' [ Node { ',' Node } [ ',' ] ] ')'
type Call struct {
	diag.Ranging
	Callee Node
	Args   []Node
}

// Index = Node ( '[' | '?[' ) Node ']'
type Index struct {
	diag.Ranging
	Target   Node
	Key      Node
	Nullable bool
}

// Field = Node ( '.' | '?.' | '?' ) Ident
type Field struct {
	diag.Ranging
	Target   Node
	Name     string
	Nullable bool
}

// List = '[' [ Node { ',' Node } [ ',' ] ] ']'
type List struct {
	diag.Ranging
	Elems []Node
}

// Map = '{' [ MapEntry { ',' MapEntry } [ ',' ] ] '}'
type Map struct {
	diag.Ranging
	Entries []*MapEntry
}

// MapEntry = ( Ident | String | '[' Node ']' ) '=' Node | Ident
//
// The key of the first two forms and of the bare form is a string *Literal.
// The value of the bare form is an *Ident with the same name.
type MapEntry struct {
	diag.Ranging
	Key   Node
	Value Node
}

func (*Literal) isNode()  {}
func (*Ident) isNode()    {}
func (*Unary) isNode()    {}
func (*Binary) isNode()   {}
func (*Let) isNode()      {}
func (*Binding) isNode()  {}
func (*If) isNode()       {}
func (*When) isNode()     {}
func (*WhenArm) isNode()  {}
func (*Lambda) isNode()   {}
func (*Call) isNode()     {}
func (*Index) isNode()    {}
func (*Field) isNode()    {}
func (*List) isNode()     {}
func (*Map) isNode()      {}
func (*MapEntry) isNode() {}

// UnaryOp is a prefix operator.
type UnaryOp int

// Possible values of UnaryOp.
const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	switch op {
	case Neg:
		return "-"
	case Not:
		return "!"
	default:
		return fmt.Sprintf("!(UnaryOp=%d)", int(op))
	}
}

// BinaryOp is an infix operator.
type BinaryOp int

// Possible values of BinaryOp.
const (
	Or BinaryOp = iota
	Coalesce
	And
	Eq
	Ne
	Lt
	Le
	Ge
	Gt
	Add
	Sub
	Mul
	Div
	Rem
	Pow
)

var binaryOpTexts = [...]string{
	Or: "||", Coalesce: "??", And: "&&", Eq: "==", Ne: "!=",
	Lt: "<", Le: "<=", Ge: ">=", Gt: ">",
	Add: "+", Sub: "-", Mul: "*", Div: "/", Rem: "%", Pow: "**",
}

func (op BinaryOp) String() string {
	if 0 <= op && int(op) < len(binaryOpTexts) {
		return binaryOpTexts[op]
	}
	return fmt.Sprintf("!(BinaryOp=%d)", int(op))
}

// Walk calls f on n and then recursively on all its children in source
// order, stopping the descent into a node when f returns false.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, ch := range Children(n) {
		Walk(ch, f)
	}
}

// Children returns the direct children of a node, in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Unary:
		return []Node{n.Operand}
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Let:
		chs := make([]Node, 0, len(n.Bindings)+1)
		for _, b := range n.Bindings {
			chs = append(chs, b)
		}
		return append(chs, n.Body)
	case *Binding:
		return []Node{n.Name, n.Value}
	case *If:
		return []Node{n.Cond, n.Then, n.Else}
	case *When:
		chs := make([]Node, 0, len(n.Arms)+1)
		for _, arm := range n.Arms {
			chs = append(chs, arm)
		}
		if n.Else != nil {
			chs = append(chs, n.Else)
		}
		return chs
	case *WhenArm:
		return []Node{n.Cond, n.Body}
	case *Lambda:
		chs := make([]Node, 0, len(n.Params)+1)
		for _, p := range n.Params {
			chs = append(chs, p)
		}
		return append(chs, n.Body)
	case *Call:
		return append([]Node{n.Callee}, n.Args...)
	case *Index:
		return []Node{n.Target, n.Key}
	case *Field:
		return []Node{n.Target}
	case *List:
		return n.Elems
	case *Map:
		chs := make([]Node, len(n.Entries))
		for i, e := range n.Entries {
			chs[i] = e
		}
		return chs
	case *MapEntry:
		return []Node{n.Key, n.Value}
	default:
		return nil
	}
}

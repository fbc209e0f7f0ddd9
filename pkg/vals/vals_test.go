package vals

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"src.ggexpr.dev/pkg/errs"
	"src.ggexpr.dev/pkg/tt"
)

var Args = tt.Args

type customFn struct{ name string }

func (*customFn) Kind() string { return "fn" }

func (f *customFn) Repr() string { return "<fn " + f.name + ">" }

func TestValues(t *testing.T) {
	TestValue(t, nil).Kind("null").Repr("null").Equal(nil).NotEqual(false, int32(0))
	TestValue(t, true).Kind("bool").Repr("true").Equal(true).NotEqual(false, int32(1))
	TestValue(t, int32(2)).Kind("int").Repr("2").
		Equal(int32(2), float32(2)).NotEqual(int32(3), float32(2.5), "2")
	TestValue(t, float32(2.5)).Kind("float").Repr("2.5").Equal(float32(2.5))
	TestValue(t, float32(-0.0)).Equal(int32(0), float32(0))
	TestValue(t, float32(3)).Repr("3.0")
	TestValue(t, float32(1e10)).Repr("1e+10")
	TestValue(t, float32(math.Inf(1))).Repr("inf")
	TestValue(t, float32(math.Inf(-1))).Repr("-inf")
	TestValue(t, float32(math.NaN())).Repr("nan").NotEqual(float32(math.NaN()))
	TestValue(t, "a\"b\n").Kind("string").Repr(`"a\"b\n"`).Len(4)

	TestValue(t, MakeList(int32(1), "a", nil)).Kind("list").
		Repr(`[1, "a", null]`).Len(3).
		Equal(MakeList(float32(1), "a", nil)).
		NotEqual(MakeList(int32(1), "a"), MakeList(int32(1), "a", false)).
		Index(int32(0), int32(1), int32(2), nil)
	TestValue(t, EmptyList).Repr("[]").Len(0).Equal(MakeList())

	TestValue(t, MakeMap("k", int32(1), "a b", nil, int32(2), "two")).Kind("map").
		Repr(`{ "a b" = null, [2] = "two", k = 1 }`).Len(3).
		Equal(MakeMap(int32(2), "two", "k", float32(1), "a b", nil)).
		NotEqual(MakeMap("k", int32(1))).
		Index("k", int32(1), float32(2), "two")
	TestValue(t, EmptyMap).Repr("{}").Len(0)

	f := &customFn{"f"}
	TestValue(t, f).Kind("fn").Repr("<fn f>").Equal(f).NotEqual(&customFn{"f"})
}

func TestHash_ListAndMapAreStructural(t *testing.T) {
	l1 := MakeList(int32(1), MakeList("x"))
	l2 := MakeList(int32(1)).Concat(MakeList(MakeList("x")))
	TestValue(t, l1).Equal(l2)

	m1 := MakeMap("a", int32(1), "b", int32(2))
	m2 := EmptyMap.Assoc("b", int32(2)).Assoc("a", int32(1))
	TestValue(t, m1).Equal(m2)
}

func TestMapWithListKeys(t *testing.T) {
	m := MakeMap(MakeList(int32(1), int32(2)), "v")
	TestValue(t, m).Index(MakeList(float32(1), int32(2)), "v")
}

func TestBinary(t *testing.T) {
	tt.Test(t, Binary,
		// Int arithmetic stays in ints when it fits.
		Args(Add, int32(1), int32(2)).Rets(int32(3), nil),
		Args(Sub, int32(1), int32(2)).Rets(int32(-1), nil),
		Args(Mul, int32(6), int32(7)).Rets(int32(42), nil),
		Args(Div, int32(6), int32(3)).Rets(int32(2), nil),
		Args(Div, int32(-6), int32(4)).Rets(float32(-1.5), nil),
		Args(Rem, int32(7), int32(3)).Rets(int32(1), nil),
		Args(Rem, int32(-7), int32(3)).Rets(int32(-1), nil),
		Args(Pow, int32(2), int32(10)).Rets(int32(1024), nil),
		Args(Pow, int32(-3), int32(3)).Rets(int32(-27), nil),
		Args(Pow, int32(5), int32(0)).Rets(int32(1), nil),
		// Overflow is recomputed in floats.
		Args(Add, int32(math.MaxInt32), int32(1)).Rets(float32(2147483648), nil),
		Args(Sub, int32(math.MinInt32), int32(1)).Rets(float32(-2147483649), nil),
		Args(Mul, int32(65536), int32(65536)).Rets(float32(4294967296), nil),
		Args(Div, int32(math.MinInt32), int32(-1)).Rets(float32(2147483648), nil),
		Args(Rem, int32(math.MinInt32), int32(-1)).Rets(int32(0), nil),
		Args(Pow, int32(2), int32(31)).Rets(float32(2147483648), nil),
		Args(Pow, int32(-2), int32(31)).Rets(int32(math.MinInt32), nil),
		Args(Pow, int32(2), int32(-1)).Rets(float32(0.5), nil),
		// Mixed operands produce floats.
		Args(Add, int32(1), float32(0.5)).Rets(float32(1.5), nil),
		Args(Mul, float32(2), int32(3)).Rets(float32(6), nil),
		Args(Div, float32(1), float32(0)).Rets(float32(math.Inf(1)), nil),
		Args(Rem, float32(7.5), int32(2)).Rets(float32(1.5), nil),
		// Integer division by zero.
		Args(Div, int32(1), int32(0)).Rets(nil, errs.DivideByZero{Op: "/"}),
		Args(Rem, int32(1), int32(0)).Rets(nil, errs.DivideByZero{Op: "%"}),
		// Strings and lists.
		Args(Add, "hello", " world").Rets("hello world", nil),
		Args(Mul, "ab", int32(3)).Rets("ababab", nil),
		Args(Mul, int32(2), "ab").Rets("abab", nil),
		Args(Mul, "ab", int32(0)).Rets("", nil),
		Args(Mul, "ab", int32(-1)).Rets(nil,
			errs.BadValue{What: "repeat count", Valid: "non-negative", Actual: "-1"}),
		Args(Mul, "ab", float32(2)).Rets(nil,
			errs.BadType{What: "repeat count of string", Valid: "int", Actual: "float"}),
		// Comparison.
		Args(Eq, int32(1), float32(1)).Rets(true, nil),
		Args(Ne, "a", "b").Rets(true, nil),
		Args(Lt, int32(1), float32(1.5)).Rets(true, nil),
		Args(Le, int32(16777217), float32(16777216)).Rets(false, nil),
		Args(Gt, "b", "a").Rets(true, nil),
		Args(Ge, float32(math.NaN()), int32(1)).Rets(false, nil),
		// Type errors.
		Args(Add, int32(1), "a").Rets(nil,
			errs.BadType{What: "operands of +", Valid: "numbers", Actual: "int and string"}),
		Args(Add, "a", int32(1)).Rets(nil,
			errs.BadType{What: "operands of +", Valid: "numbers, strings or lists", Actual: "string and int"}),
		Args(Lt, MakeList(), MakeList()).Rets(nil,
			errs.BadType{What: "operands of <", Valid: "numbers or strings", Actual: "list and list"}),
	)
}

func TestBinary_ListOperators(t *testing.T) {
	l := MakeList(int32(1), int32(2))
	sum, err := Binary(Add, l, MakeList(int32(3)))
	TestValue(t, sum).Equal(MakeList(int32(1), int32(2), int32(3)))
	if err != nil {
		t.Errorf("error: %v", err)
	}
	rep, _ := Binary(Mul, l, int32(3))
	TestValue(t, rep).Equal(MakeList(int32(1), int32(2), int32(1), int32(2), int32(1), int32(2)))
	// The operands are unchanged.
	TestValue(t, l).Equal(MakeList(int32(1), int32(2)))
}

func TestUnary(t *testing.T) {
	tt.Test(t, Unary,
		Args(Neg, int32(5)).Rets(int32(-5), nil),
		Args(Neg, int32(math.MinInt32)).Rets(float32(2147483648), nil),
		Args(Neg, float32(1.5)).Rets(float32(-1.5), nil),
		Args(Not, true).Rets(false, nil),
		Args(Not, int32(0)).Rets(nil,
			errs.BadType{What: "operand of !", Valid: "bool", Actual: "int"}),
		Args(Neg, "a").Rets(nil,
			errs.BadType{What: "operand of -", Valid: "number", Actual: "string"}),
	)
}

func TestIndex(t *testing.T) {
	l := MakeList(int32(1), int32(2), int32(3))
	m := MakeMap("a", int32(1))
	tt.Test(t, Index,
		Args(l, int32(2)).Rets(int32(3), nil),
		Args(l, int32(5)).Rets(nil,
			errs.OutOfRange{What: "list index", ValidLow: 0, ValidHigh: 2, Actual: "5"}),
		Args(l, int32(-1)).Rets(nil,
			errs.OutOfRange{What: "list index", ValidLow: 0, ValidHigh: 2, Actual: "-1"}),
		Args(l, float32(1)).Rets(nil,
			errs.BadType{What: "list index", Valid: "int", Actual: "float"}),
		Args(m, "a").Rets(int32(1), nil),
		Args(m, "b").Rets(nil, errs.NoSuchKey{Key: `"b"`}),
		Args("abc", int32(1)).Rets("b", nil),
		Args("héllo", int32(1)).Rets("é", nil),
		Args("é", int32(1)).Rets(nil,
			errs.OutOfRange{What: "string index", ValidLow: 0, ValidHigh: 0, Actual: "1"}),
		Args(int32(1), int32(0)).Rets(nil,
			errs.BadType{What: "indexee", Valid: "list, map or string", Actual: "int"}),
	)
	tt.Test(t, IndexNullable,
		Args(l, int32(5)).Rets(nil, nil),
		Args(m, "b").Rets(nil, nil),
		Args(nil, "b").Rets(nil, nil),
		Args(l, "x").Rets(nil,
			errs.BadType{What: "list index", Valid: "int", Actual: "string"}),
	)
	tt.Test(t, Field,
		Args(m, "a").Rets(int32(1), nil),
	)
}

func TestSliceString(t *testing.T) {
	tt.Test(t, SliceString,
		Args("héllo", 0, 2).Rets("hé"),
		Args("héllo", 1, 1).Rets(""),
		Args("héllo", 2, 5).Rets("llo"),
		Args("日本語", 1, 3).Rets("本語"),
		Args("", 0, 0).Rets(""),
	)
}

type (
	celsius float64
	level   uint8
	name    string
)

func TestFromGo(t *testing.T) {
	tt.Test(t, FromGo,
		Args(1).Rets(int32(1)),
		Args(int64(1)<<40).Rets(float32(1<<40)),
		Args(1.5).Rets(float32(1.5)),
		Args("x").Rets("x"),
		Args(uint(3)).Rets(int32(3)),
		Args(uint64(3)).Rets(int32(3)),
		Args(uintptr(3)).Rets(int32(3)),
		Args(uint64(1)<<40).Rets(float32(1<<40)),
		Args(uint64(math.MaxUint64)).Rets(float32(math.MaxUint64)),
		Args(celsius(21.5)).Rets(float32(21.5)),
		Args(level(2)).Rets(int32(2)),
		Args(name("n")).Rets("n"),
	)
	TestValue(t, FromGo([]string{"a", "b"})).Equal(MakeList("a", "b"))
	TestValue(t, FromGo(map[string]int{"a": 1})).Equal(MakeMap("a", int32(1)))
	TestValue(t, FromGo(map[string]any{"l": []any{1, true}})).
		Equal(MakeMap("l", MakeList(int32(1), true)))
}

func TestScanToGo(t *testing.T) {
	var i int
	if err := ScanToGo(float32(3), &i); err != nil || i != 3 {
		t.Errorf("scanning 3.0 to int -> %v, %v", i, err)
	}
	if err := ScanToGo(float32(3.5), &i); err == nil {
		t.Errorf("scanning 3.5 to int succeeds")
	}
	var f float64
	if err := ScanToGo(int32(2), &f); err != nil || f != 2 {
		t.Errorf("scanning 2 to float64 -> %v, %v", f, err)
	}
	var s string
	if err := ScanToGo(int32(2), &s); err == nil {
		t.Errorf("scanning 2 to string succeeds")
	}
	if err := ScanToGo("x", &s); err != nil || s != "x" {
		t.Errorf("scanning x to string -> %v, %v", s, err)
	}
	var m map[string]any
	if err := ScanToGo(MakeMap("a", MakeList(int32(1))), &m); err != nil {
		t.Errorf("scanning map -> %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": []any{int32(1)}}, m); diff != "" {
		t.Errorf("scanned map (-want +got):\n%s", diff)
	}
}

func TestToGo_NonStringKey(t *testing.T) {
	_, err := ToGo(MakeMap(int32(1), int32(2)))
	if err == nil {
		t.Errorf("ToGo of map with int key succeeds")
	}
}

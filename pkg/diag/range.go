// Package diag formats diagnostics: source ranges, the source context around
// a range, and errors that carry them.
package diag

// Ranger is implemented by values tied to a part of a source.
type Ranger interface {
	Range() Ranging
}

// Ranging is the half-open range [From, To) of byte offsets in a source.
// Embedding it in a struct makes the struct a [Ranger]; it is not named Range
// because the embedded field would then shadow the method.
type Ranging struct {
	From int
	To   int
}

// Range returns r.
func (r Ranging) Range() Ranging { return r }

// Touches reports whether p lies within r or immediately after it, which is
// where a cursor sits after typing the ranged text.
func (r Ranging) Touches(p int) bool { return r.From <= p && p <= r.To }

// PointRanging returns an empty Ranging at p.
func PointRanging(p int) Ranging { return Ranging{p, p} }

// Span returns the Ranging from the start of a to the end of b.
func Span(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

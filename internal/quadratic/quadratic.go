// Package quadratic holds the coefficient triple of a parabola
// y = a·x² + b·x + c and its canonical text rendering.
package quadratic

import (
	"math"
	"strconv"
	"strings"
)

// Quadratic is an immutable coefficient triple. A is never zero for
// values produced by the generator.
type Quadratic struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Eval returns a·x² + b·x + c.
func (q Quadratic) Eval(x float64) float64 {
	return q.A*x*x + q.B*x + q.C
}

// Discriminant returns b² − 4ac.
func (q Quadratic) Discriminant() float64 {
	return q.B*q.B - 4*q.A*q.C
}

// RootBand is the discriminant half-width treated as a single (tangent) root.
const RootBand = 0.1

// ExpectedRoots returns how many times the curve should cross the x axis:
// 2 when Δ > 0.1, 0 when Δ < −0.1, else 1.
func (q Quadratic) ExpectedRoots() int {
	d := q.Discriminant()
	switch {
	case d > RootBand:
		return 2
	case d < -RootBand:
		return 0
	default:
		return 1
	}
}

// Vertex returns the turning point of the parabola.
func (q Quadratic) Vertex() (x, y float64) {
	x = -q.B / (2 * q.A)
	return x, q.Eval(x)
}

// Concavity returns +1 when the parabola opens upward, −1 otherwise.
func (q Quadratic) Concavity() int {
	if q.A > 0 {
		return 1
	}
	return -1
}

// String returns the canonical text form (see Format).
func (q Quadratic) String() string {
	return Format(q)
}

// Format renders q term by term: magnitude 1 is omitted, zero terms are
// dropped and signs become explicit separators. The result is "0" only
// when every term vanishes.
//
//	Format(Quadratic{A: 1, B: -1, C: 3})   == "x² - x + 3"
//	Format(Quadratic{A: -0.5, B: 2, C: 0}) == "-0.5x² + 2x"
func Format(q Quadratic) string {
	var b strings.Builder

	switch {
	case q.A == 1:
		b.WriteString("x²")
	case q.A == -1:
		b.WriteString("-x²")
	case q.A != 0:
		b.WriteString(Num(q.A))
		b.WriteString("x²")
	}

	if q.B != 0 {
		writeSigned(&b, q.B)
		if math.Abs(q.B) != 1 {
			b.WriteString(Num(math.Abs(q.B)))
		}
		b.WriteString("x")
	}

	if q.C != 0 {
		writeSigned(&b, q.C)
		b.WriteString(Num(math.Abs(q.C)))
	}

	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}

// writeSigned writes the separator for a non-leading term. A leading
// negative term gets a bare "-" with no surrounding spaces.
func writeSigned(b *strings.Builder, v float64) {
	switch {
	case b.Len() == 0 && v < 0:
		b.WriteString("-")
	case b.Len() == 0:
	case v < 0:
		b.WriteString(" - ")
	default:
		b.WriteString(" + ")
	}
}

// Num renders a coefficient with the shortest exact representation.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

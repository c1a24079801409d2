package scoring

import (
	"fmt"
	"math"

	"github.com/Bradwave/parabolawhat/internal/equation"
	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

const (
	// PointsPerTerm is the award for one exactly matching coefficient.
	PointsPerTerm = 3

	// SignPoints is the award for a coefficient with the right sign but
	// the wrong magnitude.
	SignPoints = 1

	// CoefTolerance is the absolute difference still counted as exact.
	CoefTolerance = 0.01
)

// Term labels used in feedback messages.
const (
	TermA = "a (x²)"
	TermB = "b (x)"
	TermC = "c (costante)"
)

// Result is the per-term breakdown of a typed equation.
type Result struct {
	Points    int      `json:"points"`
	MaxPoints int      `json:"maxPoints"`
	Errors    []string `json:"errors"`
}

// Perfect reports whether every term matched.
func (r Result) Perfect() bool {
	return r.Points == r.MaxPoints
}

// Awarded is the amount credited to the session: the raw points, plus
// bonus when the answer is perfect.
func (r Result) Awarded(bonus int) int {
	if r.Perfect() {
		return r.Points + bonus
	}
	return r.Points
}

// Summary returns the feedback lines for an imperfect result: a headline
// followed by the per-term errors. A perfect result yields the success
// message alone.
func (r Result) Summary() []string {
	if r.Perfect() {
		return []string{"Perfetto! Equazione corretta."}
	}
	head := "Nessun coefficiente corretto."
	if r.Points > 0 {
		head = fmt.Sprintf("Punteggio parziale: %d/%d", r.Points, r.MaxPoints)
	}
	return append([]string{head}, r.Errors...)
}

// ScoreFreeText grades each coefficient of p against correct. A missing
// term counts as 0.
func ScoreFreeText(p equation.Parsed, correct quadratic.Quadratic) Result {
	var r Result
	scoreTerm(&r, TermA, p.A.Or0(), correct.A)
	scoreTerm(&r, TermB, p.B.Or0(), correct.B)
	scoreTerm(&r, TermC, p.C.Or0(), correct.C)
	return r
}

func scoreTerm(r *Result, name string, user, want float64) {
	r.MaxPoints += PointsPerTerm

	switch {
	case math.Abs(user-want) < CoefTolerance:
		r.Points += PointsPerTerm
	case user != 0 && want != 0 && math.Signbit(user) == math.Signbit(want):
		r.Points += SignPoints
		r.Errors = append(r.Errors, fmt.Sprintf("Coefficiente %s errato. (Segno corretto)", name))
	default:
		r.Errors = append(r.Errors, fmt.Sprintf("Coefficiente %s errato. (Corretto: %s)", name, quadratic.Num(want)))
	}
}

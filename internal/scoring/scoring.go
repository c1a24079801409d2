// Package scoring compares a player's answer with the ground truth.
//
// Every function here is total: a well-formed input always yields a
// result, and a wrong answer is reported through the result fields.
package scoring

import (
	"github.com/Bradwave/parabolawhat/internal/problemgen"
)

// Policy holds the flat point awards that are not part of a per-term
// breakdown.
type Policy struct {
	// ChoicePoints is awarded for a correct multiple-choice pick.
	ChoicePoints int

	// DrawingPoints is awarded when every drawing check passes.
	DrawingPoints int

	// PerfectBonus is added on top of a perfect typed equation.
	PerfectBonus int
}

// DefaultPolicy matches the classroom app: picks award nothing, a good
// drawing is worth 10 and a perfect equation gets one bonus point.
func DefaultPolicy() Policy {
	return Policy{
		ChoicePoints:  0,
		DrawingPoints: 10,
		PerfectBonus:  1,
	}
}

// ScoreChoice reports whether candidate is the correct option. Options
// are compared by canonical text, not by coefficients.
func ScoreChoice(candidate, correct problemgen.Question) bool {
	return candidate.Text == correct.Text
}

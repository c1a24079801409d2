package problemgen

import "github.com/Bradwave/parabolawhat/internal/quadratic"

// ChoiceCount is the number of options in a multiple-choice round,
// the correct answer included.
const ChoiceCount = 4

// Question is one quiz instance. It is a plain value with no shared
// references, so handing it out cannot let a caller alter another round.
type Question struct {
	// Coeffs is the ground-truth parabola.
	Coeffs quadratic.Quadratic `json:"coefficients"`

	// Text is the canonical display string, e.g. "-x² + 2x - 3".
	// It doubles as the identity used for de-duplication.
	Text string `json:"text"`
}

// NewQuestion wraps q with its canonical text.
func NewQuestion(q quadratic.Quadratic) Question {
	return Question{Coeffs: q, Text: quadratic.Format(q)}
}

// Equation returns the display form prefixed with "y = ".
func (q Question) Equation() string {
	return "y = " + q.Text
}

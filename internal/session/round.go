package session

import (
	"fmt"

	"github.com/Bradwave/parabolawhat/internal/equation"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

// Feedback messages.
const (
	MsgChoiceCorrect = "Corretto!"
	MsgChoiceWrong   = "Sbagliato!"
	MsgDrawingGood   = "Ottimo lavoro!"
)

// Round is one question together with the answer shape its mode expects.
// The set of implementations is closed: *DrawRound, *PickPlotRound,
// *PickEqRound and *TypeRound.
type Round interface {
	Mode() Mode
	Question() problemgen.Question
	round()
}

// Outcome is the scored result of one submission.
type Outcome struct {
	Correct bool `json:"correct"`

	// Points is what the submission adds to the total score.
	Points int `json:"points"`

	// Messages are the feedback lines, most important first.
	Messages []string `json:"messages"`

	// Answer is a printable form of what was submitted.
	Answer string `json:"answer"`

	// Exactly one of the following is set, matching the round kind.
	Choice  *ChoiceResult          `json:"choice,omitempty"`
	Text    *scoring.Result        `json:"text,omitempty"`
	Drawing *scoring.DrawingResult `json:"drawing,omitempty"`
}

// ChoiceResult records a multiple-choice pick.
type ChoiceResult struct {
	Chosen  int `json:"chosen"`
	Correct int `json:"correct"`
}

// DrawRound asks the player to sketch the parabola.
type DrawRound struct {
	q problemgen.Question
}

func (r *DrawRound) Mode() Mode                    { return ModeDrawPlot }
func (r *DrawRound) Question() problemgen.Question { return r.q }
func (r *DrawRound) round()                        {}

// Score analyses s and checks it against the question.
func (r *DrawRound) Score(s stroke.Stroke, p scoring.Policy) (Outcome, error) {
	f, ok := stroke.Analyze(s)
	if !ok {
		return Outcome{}, ErrStrokeTooShort
	}
	res := scoring.ScoreDrawing(f, r.q.Coeffs)

	out := Outcome{
		Correct: res.OK,
		Drawing: &res,
		Answer:  fmt.Sprintf("stroke(%d points, concavity %+d, y0 %.2f, slope %.2f, crossings %d)", s.Len(), f.Concavity, f.YIntercept, f.Slope, f.Crossings),
	}
	if res.OK {
		out.Points = p.DrawingPoints
		out.Messages = []string{MsgDrawingGood}
	} else {
		out.Messages = append([]string(nil), res.FailedChecks...)
	}
	return out, nil
}

// choiceRound is shared by both multiple-choice modes.
type choiceRound struct {
	q       problemgen.Question
	options []problemgen.Question
	correct int
}

func (r *choiceRound) Question() problemgen.Question { return r.q }
func (r *choiceRound) round()                        {}

// Options returns a copy of the four options in display order.
func (r *choiceRound) Options() []problemgen.Question {
	return append([]problemgen.Question(nil), r.options...)
}

// CorrectIndex returns the position of the right option.
func (r *choiceRound) CorrectIndex() int { return r.correct }

// Score checks the option at index i.
func (r *choiceRound) Score(i int, p scoring.Policy) (Outcome, error) {
	if i < 0 || i >= len(r.options) {
		return Outcome{}, fmt.Errorf("%w: %d of %d", ErrChoiceOutOfRange, i, len(r.options))
	}
	ok := scoring.ScoreChoice(r.options[i], r.q)

	out := Outcome{
		Correct: ok,
		Answer:  r.options[i].Text,
		Choice:  &ChoiceResult{Chosen: i, Correct: r.correct},
	}
	if ok {
		out.Points = p.ChoicePoints
		out.Messages = []string{MsgChoiceCorrect}
	} else {
		out.Messages = []string{MsgChoiceWrong}
	}
	return out, nil
}

// PickPlotRound shows an equation and four plots.
type PickPlotRound struct{ choiceRound }

func (r *PickPlotRound) Mode() Mode { return ModePickPlot }

// PickEqRound shows a plot and four equations.
type PickEqRound struct{ choiceRound }

func (r *PickEqRound) Mode() Mode { return ModePickEq }

// TypeRound shows a plot and expects the equation as text.
type TypeRound struct {
	q problemgen.Question
}

func (r *TypeRound) Mode() Mode                    { return ModeTypeEq }
func (r *TypeRound) Question() problemgen.Question { return r.q }
func (r *TypeRound) round()                        {}

// Score parses text and grades each coefficient.
func (r *TypeRound) Score(text string, p scoring.Policy) Outcome {
	res := scoring.ScoreFreeText(equation.Parse(text), r.q.Coeffs)
	return Outcome{
		Correct:  res.Perfect(),
		Points:   res.Awarded(p.PerfectBonus),
		Messages: res.Summary(),
		Answer:   text,
		Text:     &res,
	}
}

// newRound builds the round for mode around q. Choice modes draw their
// distractors from gen.
func newRound(mode Mode, q problemgen.Question, gen *problemgen.Generator) (Round, error) {
	switch mode {
	case ModeDrawPlot:
		return &DrawRound{q: q}, nil
	case ModeTypeEq:
		return &TypeRound{q: q}, nil
	case ModePickPlot, ModePickEq:
		opts, idx, err := gen.Choices(q)
		if err != nil {
			return nil, fmt.Errorf("build choices: %w", err)
		}
		cr := choiceRound{q: q, options: opts, correct: idx}
		if mode == ModePickPlot {
			return &PickPlotRound{cr}, nil
		}
		return &PickEqRound{cr}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

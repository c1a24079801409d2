package session

import "fmt"

// Mode selects the kind of exercise.
type Mode string

const (
	ModeDrawPlot Mode = "draw-plot"
	ModePickPlot Mode = "pick-plot"
	ModePickEq   Mode = "pick-eq"
	ModeTypeEq   Mode = "type-eq"

	// ModeRandom is a menu choice only. It resolves to one of the four
	// playable modes when the quiz starts.
	ModeRandom Mode = "random"
)

// Modes lists the playable modes in menu order.
var Modes = []Mode{ModeDrawPlot, ModePickPlot, ModePickEq, ModeTypeEq}

// ParseMode validates a mode identifier.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	switch m {
	case ModeDrawPlot, ModePickPlot, ModePickEq, ModeTypeEq, ModeRandom:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// DisplayName returns the title shown for the mode.
func (m Mode) DisplayName() string {
	switch m {
	case ModeDrawPlot:
		return "Disegna il Grafico"
	case ModePickPlot:
		return "Trova il Grafico"
	case ModePickEq:
		return "Trova l'Equazione"
	case ModeTypeEq:
		return "Scrivi l'Equazione"
	case ModeRandom:
		return "Casuale"
	}
	return string(m)
}

// Prompt returns the instruction shown above a question.
func (m Mode) Prompt() string {
	switch m {
	case ModeDrawPlot:
		return "Disegna il grafico di:"
	case ModePickPlot:
		return "Seleziona il grafico di:"
	case ModePickEq:
		return "Qual è l'equazione di questa parabola?"
	case ModeTypeEq:
		return "Scrivi l'equazione della parabola:"
	}
	return ""
}

// AllowsRetry reports whether a wrong answer can be attempted again on
// the same question.
func (m Mode) AllowsRetry() bool {
	return m == ModeDrawPlot || m == ModeTypeEq
}

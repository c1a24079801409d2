package explain

import (
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/session"
)

// Input describes a wrongly answered round.
type Input struct {
	Question problemgen.Question
	Mode     session.Mode

	// Answer is the printable form of what the player submitted.
	Answer string

	// Feedback holds the scorer's messages for the answer.
	Feedback []string
}

// InputFromOutcome builds an Input from a scored round.
func InputFromOutcome(q problemgen.Question, mode session.Mode, out session.Outcome) Input {
	return Input{
		Question: q,
		Mode:     mode,
		Answer:   out.Answer,
		Feedback: append([]string(nil), out.Messages...),
	}
}

// Focus names the part of the equation an explanation is about.
type Focus string

const (
	FocusA     Focus = "a"
	FocusB     Focus = "b"
	FocusC     Focus = "c"
	FocusShape Focus = "shape"
)

// Explanation is a short tutoring note for one mistake.
type Explanation struct {
	Text  string `json:"explanation"`
	Tip   string `json:"tip"`
	Focus Focus  `json:"focus"`
}

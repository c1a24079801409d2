package session

import (
	"context"
	"math"
	"time"
)

// StatsKey is the well-known key the stats record is stored under.
const StatsKey = "parabola_stats"

// Stats are the lifetime totals kept across runs.
type Stats struct {
	TotalScore int `json:"totalScore"`
	Attempts   int `json:"attempts"`
	Correct    int `json:"correct"`
}

// Accuracy returns the share of correct attempts as a rounded
// percentage, or 0 before the first attempt.
func (s Stats) Accuracy() int {
	if s.Attempts == 0 {
		return 0
	}
	return int(math.Round(float64(s.Correct) / float64(s.Attempts) * 100))
}

// Record returns s updated with one scored submission.
func (s Stats) Record(o Outcome) Stats {
	s.Attempts++
	if o.Correct {
		s.Correct++
	}
	s.TotalScore += o.Points
	return s
}

// StatsStore persists Stats. Load returns zero Stats and no error when
// nothing has been saved yet.
type StatsStore interface {
	Load(ctx context.Context) (Stats, error)
	Save(ctx context.Context, s Stats) error
}

// AnswerEvent describes one scored submission.
type AnswerEvent struct {
	SessionID string
	Mode      Mode
	Question  string
	Answer    string
	Correct   bool
	Points    int
	Duration  time.Duration
	Timestamp time.Time
}

// AnswerRecorder receives an AnswerEvent after every scored submission.
type AnswerRecorder interface {
	AppendAnswer(ctx context.Context, ev AnswerEvent) error
}

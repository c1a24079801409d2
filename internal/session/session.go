// Package session runs a quiz: it picks rounds for the selected mode,
// scores submissions, keeps the streak and writes lifetime stats through
// an injected store.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

var (
	ErrInvalidState     = errors.New("action not allowed in current state")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrWrongAnswerKind  = errors.New("answer does not match round kind")
	ErrChoiceOutOfRange = errors.New("choice out of range")

	// ErrStrokeTooShort means the drawing cannot be judged yet. It is not
	// a wrong answer and leaves stats untouched.
	ErrStrokeTooShort = errors.New("stroke too short")
)

// State is the lifecycle position of the session.
type State int

const (
	StateMenu State = iota
	StateQuestionLoaded
	StateAwaitingAnswer
	StateScored
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateQuestionLoaded:
		return "question_loaded"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateScored:
		return "scored"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Options configures a Session. Generator is required; everything else
// has a usable default.
type Options struct {
	Generator *problemgen.Generator
	Policy    scoring.Policy

	// Stats persists lifetime totals. Nil keeps them in memory only.
	Stats StatsStore

	// Recorder, when set, receives every scored submission.
	Recorder AnswerRecorder

	Logger *slog.Logger

	// Rand resolves ModeRandom. Nil means time-seeded.
	Rand *rand.Rand

	// Now defaults to time.Now.
	Now func() time.Time
}

// Session is not safe for concurrent use; callers serving several
// goroutines must serialize access.
type Session struct {
	id       string
	gen      *problemgen.Generator
	policy   scoring.Policy
	store    StatsStore
	recorder AnswerRecorder
	logger   *slog.Logger
	rng      *rand.Rand
	now      func() time.Time

	state       State
	mode        Mode
	round       Round
	last        *Outcome
	presentedAt time.Time

	stats     Stats
	streak    int
	summary   Summary
	startedAt time.Time
}

// New creates a session in the menu state and loads lifetime stats once.
// A failing store is logged and the session carries on with zero stats.
func New(ctx context.Context, opts Options) (*Session, error) {
	if opts.Generator == nil {
		return nil, errors.New("session: generator is required")
	}
	s := &Session{
		id:       uuid.New().String(),
		gen:      opts.Generator,
		policy:   opts.Policy,
		store:    opts.Stats,
		recorder: opts.Recorder,
		logger:   opts.Logger,
		rng:      opts.Rand,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	if s.store != nil {
		st, err := s.store.Load(ctx)
		if err != nil {
			s.logger.Warn("load stats failed, starting from zero", "err", err)
		} else {
			s.stats = st
		}
	}
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Mode returns the resolved mode, or "" in the menu.
func (s *Session) Mode() Mode { return s.mode }

// Round returns the active round, or nil in the menu.
func (s *Session) Round() Round { return s.round }

// Last returns the outcome of the latest submission in this round.
func (s *Session) Last() (Outcome, bool) {
	if s.last == nil {
		return Outcome{}, false
	}
	return *s.last, true
}

// Stats returns the lifetime totals.
func (s *Session) Stats() Stats { return s.stats }

// Streak returns the number of consecutive correct rounds.
func (s *Session) Streak() int { return s.streak }

// Start leaves the menu and loads the first question of mode.
// ModeRandom picks one of the four modes.
func (s *Session) Start(mode Mode) error {
	if s.state != StateMenu {
		return fmt.Errorf("start: %w (%s)", ErrInvalidState, s.state)
	}
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}
	if mode == ModeRandom {
		mode = Modes[s.rng.IntN(len(Modes))]
	}

	if err := s.load(mode); err != nil {
		return err
	}
	s.mode = mode
	s.summary = Summary{Mode: mode}
	s.startedAt = s.now()
	return nil
}

func (s *Session) load(mode Mode) error {
	r, err := newRound(mode, s.gen.Generate(), s.gen)
	if err != nil {
		return err
	}
	s.round = r
	s.last = nil
	s.state = StateQuestionLoaded
	return nil
}

// Present marks the loaded question as shown to the player.
func (s *Session) Present() error {
	if s.state != StateQuestionLoaded {
		return fmt.Errorf("present: %w (%s)", ErrInvalidState, s.state)
	}
	s.state = StateAwaitingAnswer
	s.presentedAt = s.now()
	return nil
}

// SubmitChoice answers a pick-plot or pick-eq round with an option index.
func (s *Session) SubmitChoice(ctx context.Context, index int) (Outcome, error) {
	if err := s.expectAnswer(); err != nil {
		return Outcome{}, err
	}
	var cr *choiceRound
	switch r := s.round.(type) {
	case *PickPlotRound:
		cr = &r.choiceRound
	case *PickEqRound:
		cr = &r.choiceRound
	default:
		return Outcome{}, fmt.Errorf("%w: %s round takes no choice", ErrWrongAnswerKind, s.round.Mode())
	}
	out, err := cr.Score(index, s.policy)
	if err != nil {
		return Outcome{}, err
	}
	return s.commit(ctx, out), nil
}

// SubmitText answers a type-eq round.
func (s *Session) SubmitText(ctx context.Context, text string) (Outcome, error) {
	if err := s.expectAnswer(); err != nil {
		return Outcome{}, err
	}
	r, ok := s.round.(*TypeRound)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s round takes no text", ErrWrongAnswerKind, s.round.Mode())
	}
	return s.commit(ctx, r.Score(text, s.policy)), nil
}

// SubmitStroke answers a draw-plot round. A stroke shorter than
// stroke.MinPoints returns ErrStrokeTooShort and the round keeps waiting.
func (s *Session) SubmitStroke(ctx context.Context, st stroke.Stroke) (Outcome, error) {
	if err := s.expectAnswer(); err != nil {
		return Outcome{}, err
	}
	r, ok := s.round.(*DrawRound)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s round takes no drawing", ErrWrongAnswerKind, s.round.Mode())
	}
	out, err := r.Score(st, s.policy)
	if err != nil {
		return Outcome{}, err
	}
	return s.commit(ctx, out), nil
}

func (s *Session) expectAnswer() error {
	if s.state != StateAwaitingAnswer {
		return fmt.Errorf("submit: %w (%s)", ErrInvalidState, s.state)
	}
	return nil
}

// commit moves to Scored, writes stats through and records the event.
// Persistence failures are logged; the round result stands regardless.
func (s *Session) commit(ctx context.Context, out Outcome) Outcome {
	now := s.now()
	s.state = StateScored
	s.last = &out

	s.stats = s.stats.Record(out)
	if s.store != nil {
		if err := s.store.Save(ctx, s.stats); err != nil {
			s.logger.Warn("save stats failed, keeping in memory", "err", err)
		}
	}

	s.summary.Answered++
	s.summary.Points += out.Points
	if out.Correct {
		s.summary.Correct++
	}

	if s.recorder != nil {
		ev := AnswerEvent{
			SessionID: s.id,
			Mode:      s.mode,
			Question:  s.round.Question().Text,
			Answer:    out.Answer,
			Correct:   out.Correct,
			Points:    out.Points,
			Duration:  now.Sub(s.presentedAt),
			Timestamp: now,
		}
		if err := s.recorder.AppendAnswer(ctx, ev); err != nil {
			s.logger.Warn("record answer failed", "err", err)
		}
	}

	s.logger.Debug("answer scored",
		"session", s.id, "mode", s.mode, "question", s.round.Question().Text,
		"correct", out.Correct, "points", out.Points)
	return out
}

// Retry reopens a wrongly answered draw or type round on the same question.
func (s *Session) Retry() error {
	if s.state != StateScored || s.last == nil || s.last.Correct || !s.mode.AllowsRetry() {
		return fmt.Errorf("retry: %w (%s)", ErrInvalidState, s.state)
	}
	s.state = StateAwaitingAnswer
	s.presentedAt = s.now()
	return nil
}

// Next settles the streak on the latest outcome and loads a new question
// in the same mode.
func (s *Session) Next() error {
	if s.state != StateScored {
		return fmt.Errorf("next: %w (%s)", ErrInvalidState, s.state)
	}
	if s.last != nil && s.last.Correct {
		s.streak++
		s.summary.BestStreak = max(s.summary.BestStreak, s.streak)
	} else {
		s.streak = 0
	}
	return s.load(s.mode)
}

// Exit returns to the menu from any state and reports what was played.
// An in-flight round is dropped unscored.
func (s *Session) Exit() Summary {
	sum := s.summary
	if !s.startedAt.IsZero() {
		sum.Duration = s.now().Sub(s.startedAt)
	}
	s.state = StateMenu
	s.mode = ""
	s.round = nil
	s.last = nil
	s.summary = Summary{}
	s.startedAt = time.Time{}
	return sum
}

// ResetStats zeroes the lifetime totals and saves them. The in-memory
// totals are cleared even when saving fails.
func (s *Session) ResetStats(ctx context.Context) error {
	s.stats = Stats{}
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.stats); err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}
	return nil
}

// Summary describes one stint in a mode, from Start to Exit.
type Summary struct {
	Mode       Mode          `json:"mode"`
	Answered   int           `json:"answered"`
	Correct    int           `json:"correct"`
	Points     int           `json:"points"`
	BestStreak int           `json:"bestStreak"`
	Duration   time.Duration `json:"duration"`
}

// Accuracy returns the correct share in [0, 1].
func (s Summary) Accuracy() float64 {
	if s.Answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Answered)
}

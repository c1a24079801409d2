package session

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

// fakeStats is an in-memory StatsStore that can be told to fail.
type fakeStats struct {
	stored  Stats
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeStats) Load(context.Context) (Stats, error) {
	if f.loadErr != nil {
		return Stats{}, f.loadErr
	}
	return f.stored, nil
}

func (f *fakeStats) Save(_ context.Context, s Stats) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = s
	return nil
}

type fakeRecorder struct {
	events []AnswerEvent
}

func (f *fakeRecorder) AppendAnswer(_ context.Context, ev AnswerEvent) error {
	f.events = append(f.events, ev)
	return nil
}

func newTestSession(t *testing.T, store StatsStore, rec AnswerRecorder) *Session {
	t.Helper()
	gen, err := problemgen.New(problemgen.DefaultConfig(), rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("problemgen.New: %v", err)
	}
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	opts := Options{
		Generator: gen,
		Policy:    scoring.DefaultPolicy(),
		Rand:      rand.New(rand.NewPCG(3, 4)),
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	if store != nil {
		opts.Stats = store
	}
	if rec != nil {
		opts.Recorder = rec
	}
	s, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func startAndPresent(t *testing.T, s *Session, mode Mode) {
	t.Helper()
	if err := s.Start(mode); err != nil {
		t.Fatalf("Start(%s): %v", mode, err)
	}
	if err := s.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
}

// traceCurve samples the question's parabola symmetrically around its
// vertex, wide enough to include the y axis and every real root.
func traceCurve(q problemgen.Question) stroke.Stroke {
	const step = 0.05
	xv, _ := q.Coeffs.Vertex()
	half := int(math.Ceil((math.Abs(xv) + 3) / step))
	pts := make([]stroke.Point, 0, 2*half+1)
	for i := -half; i <= half; i++ {
		x := xv + float64(i)*step
		pts = append(pts, stroke.Point{X: x, Y: q.Coeffs.Eval(x)})
	}
	return stroke.New(pts...)
}

func TestNew_LoadsStats(t *testing.T) {
	store := &fakeStats{stored: Stats{TotalScore: 42, Attempts: 7, Correct: 5}}
	s := newTestSession(t, store, nil)

	if got := s.Stats(); got != store.stored {
		t.Errorf("Stats() = %+v, want %+v", got, store.stored)
	}
	if s.State() != StateMenu {
		t.Errorf("State() = %s, want menu", s.State())
	}
}

func TestNew_LoadFailureFallsBackToZero(t *testing.T) {
	store := &fakeStats{loadErr: errors.New("disk on fire")}
	s := newTestSession(t, store, nil)

	if got := s.Stats(); got != (Stats{}) {
		t.Errorf("Stats() = %+v, want zero", got)
	}
}

func TestStart_Random(t *testing.T) {
	s := newTestSession(t, nil, nil)
	if err := s.Start(ModeRandom); err != nil {
		t.Fatalf("Start: %v", err)
	}
	found := false
	for _, m := range Modes {
		if s.Mode() == m {
			found = true
		}
	}
	if !found {
		t.Errorf("Mode() = %q, want one of %v", s.Mode(), Modes)
	}
	if s.Round().Mode() != s.Mode() {
		t.Errorf("round mode %q != session mode %q", s.Round().Mode(), s.Mode())
	}
}

func TestStart_Errors(t *testing.T) {
	s := newTestSession(t, nil, nil)
	if err := s.Start("juggling"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Start(unknown) = %v, want ErrUnknownMode", err)
	}
	if err := s.Start(ModeTypeEq); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(ModeTypeEq); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Start = %v, want ErrInvalidState", err)
	}
}

func TestTypeRound_PerfectAnswer(t *testing.T) {
	store := &fakeStats{}
	rec := &fakeRecorder{}
	s := newTestSession(t, store, rec)
	startAndPresent(t, s, ModeTypeEq)

	q := s.Round().Question()
	out, err := s.SubmitText(context.Background(), "y = "+q.Text)
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	if !out.Correct || out.Points != 10 {
		t.Errorf("outcome = %+v, want correct with 10 points", out)
	}
	if out.Text == nil || out.Text.Points != 9 {
		t.Errorf("text result = %+v, want 9/9", out.Text)
	}
	if s.State() != StateScored {
		t.Errorf("State() = %s, want scored", s.State())
	}

	want := Stats{TotalScore: 10, Attempts: 1, Correct: 1}
	if store.stored != want {
		t.Errorf("saved stats = %+v, want %+v", store.stored, want)
	}

	if len(rec.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(rec.events))
	}
	ev := rec.events[0]
	if ev.SessionID != s.ID() || ev.Mode != ModeTypeEq || ev.Question != q.Text || !ev.Correct {
		t.Errorf("event = %+v", ev)
	}
	if ev.Duration != time.Second {
		t.Errorf("event duration = %v, want 1s", ev.Duration)
	}
}

func TestTypeRound_RetryAfterWrong(t *testing.T) {
	s := newTestSession(t, &fakeStats{}, nil)
	startAndPresent(t, s, ModeTypeEq)

	out, err := s.SubmitText(context.Background(), "")
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	if out.Correct {
		t.Fatal("empty answer should be wrong")
	}
	if len(out.Messages) < 2 {
		t.Errorf("Messages = %q, want headline plus errors", out.Messages)
	}

	if err := s.Retry(); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if s.State() != StateAwaitingAnswer {
		t.Errorf("State() = %s, want awaiting_answer", s.State())
	}

	q := s.Round().Question()
	out, _ = s.SubmitText(context.Background(), q.Text)
	if !out.Correct {
		t.Errorf("second attempt should be correct: %+v", out)
	}
	if err := s.Retry(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Retry after correct = %v, want ErrInvalidState", err)
	}
	if got := s.Stats().Attempts; got != 2 {
		t.Errorf("Attempts = %d, want 2", got)
	}
}

func TestChoiceRound(t *testing.T) {
	for _, mode := range []Mode{ModePickPlot, ModePickEq} {
		s := newTestSession(t, &fakeStats{}, nil)
		startAndPresent(t, s, mode)

		var opts []problemgen.Question
		var correct int
		switch r := s.Round().(type) {
		case *PickPlotRound:
			opts, correct = r.Options(), r.CorrectIndex()
		case *PickEqRound:
			opts, correct = r.Options(), r.CorrectIndex()
		default:
			t.Fatalf("%s: round is %T", mode, s.Round())
		}
		if len(opts) != problemgen.ChoiceCount {
			t.Fatalf("%s: %d options", mode, len(opts))
		}

		out, err := s.SubmitChoice(context.Background(), correct)
		if err != nil {
			t.Fatalf("%s: SubmitChoice: %v", mode, err)
		}
		if !out.Correct || out.Messages[0] != MsgChoiceCorrect {
			t.Errorf("%s: outcome = %+v", mode, out)
		}
		if out.Points != 0 {
			t.Errorf("%s: Points = %d, want 0 under the default policy", mode, out.Points)
		}
		if err := s.Retry(); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: Retry = %v, want ErrInvalidState", mode, err)
		}

		if err := s.Next(); err != nil {
			t.Fatalf("%s: Next: %v", mode, err)
		}
		if err := s.Present(); err != nil {
			t.Fatalf("%s: Present: %v", mode, err)
		}
		var wrong int
		switch r := s.Round().(type) {
		case *PickPlotRound:
			wrong = (r.CorrectIndex() + 1) % problemgen.ChoiceCount
		case *PickEqRound:
			wrong = (r.CorrectIndex() + 1) % problemgen.ChoiceCount
		}
		out, _ = s.SubmitChoice(context.Background(), wrong)
		if out.Correct || out.Messages[0] != MsgChoiceWrong {
			t.Errorf("%s: wrong pick outcome = %+v", mode, out)
		}
		if _, err := s.SubmitChoice(context.Background(), 0); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s: double submit = %v, want ErrInvalidState", mode, err)
		}
	}
}

func TestChoiceRound_OutOfRange(t *testing.T) {
	s := newTestSession(t, nil, nil)
	startAndPresent(t, s, ModePickEq)
	if _, err := s.SubmitChoice(context.Background(), 4); !errors.Is(err, ErrChoiceOutOfRange) {
		t.Errorf("SubmitChoice(4) = %v, want ErrChoiceOutOfRange", err)
	}
	if s.State() != StateAwaitingAnswer {
		t.Errorf("State() = %s, want awaiting_answer", s.State())
	}
}

func TestDrawRound(t *testing.T) {
	store := &fakeStats{}
	s := newTestSession(t, store, nil)
	startAndPresent(t, s, ModeDrawPlot)

	short := stroke.New(make([]stroke.Point, stroke.MinPoints-1)...)
	if _, err := s.SubmitStroke(context.Background(), short); !errors.Is(err, ErrStrokeTooShort) {
		t.Fatalf("short stroke = %v, want ErrStrokeTooShort", err)
	}
	if s.State() != StateAwaitingAnswer || store.saves != 0 {
		t.Fatalf("short stroke changed state (%s) or saved stats (%d)", s.State(), store.saves)
	}

	for i := 0; i < 50; i++ {
		q := s.Round().Question()
		out, err := s.SubmitStroke(context.Background(), traceCurve(q))
		if err != nil {
			t.Fatalf("SubmitStroke: %v", err)
		}
		if !out.Correct || out.Points != 10 {
			t.Fatalf("tracing %q: outcome = %+v, drawing = %+v", q.Text, out, out.Drawing)
		}
		if err := s.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
		if err := s.Present(); err != nil {
			t.Fatalf("Present: %v", err)
		}
	}
	if s.Streak() != 50 {
		t.Errorf("Streak() = %d, want 50", s.Streak())
	}
}

func TestWrongAnswerKind(t *testing.T) {
	s := newTestSession(t, nil, nil)
	startAndPresent(t, s, ModeTypeEq)

	if _, err := s.SubmitChoice(context.Background(), 0); !errors.Is(err, ErrWrongAnswerKind) {
		t.Errorf("SubmitChoice on type round = %v, want ErrWrongAnswerKind", err)
	}
	if _, err := s.SubmitStroke(context.Background(), stroke.New()); !errors.Is(err, ErrWrongAnswerKind) {
		t.Errorf("SubmitStroke on type round = %v, want ErrWrongAnswerKind", err)
	}
}

func TestSubmitBeforePresent(t *testing.T) {
	s := newTestSession(t, nil, nil)
	if err := s.Start(ModeTypeEq); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SubmitText(context.Background(), "x^2"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SubmitText before Present = %v, want ErrInvalidState", err)
	}
	if err := s.Next(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Next before scoring = %v, want ErrInvalidState", err)
	}
}

func TestStreak(t *testing.T) {
	s := newTestSession(t, nil, nil)
	startAndPresent(t, s, ModeTypeEq)
	ctx := context.Background()

	points := 0
	answer := func(correct bool) {
		t.Helper()
		text := ""
		if correct {
			text = s.Round().Question().Text
		}
		out, err := s.SubmitText(ctx, text)
		if err != nil {
			t.Fatal(err)
		}
		points += out.Points
		if err := s.Next(); err != nil {
			t.Fatal(err)
		}
		if err := s.Present(); err != nil {
			t.Fatal(err)
		}
	}

	answer(true)
	answer(true)
	if s.Streak() != 2 {
		t.Errorf("Streak() = %d, want 2", s.Streak())
	}
	answer(false)
	if s.Streak() != 0 {
		t.Errorf("Streak() = %d after a miss, want 0", s.Streak())
	}
	answer(true)

	sum := s.Exit()
	if sum.Answered != 4 || sum.Correct != 3 || sum.BestStreak != 2 || sum.Points != points {
		t.Errorf("summary = %+v", sum)
	}
	if s.State() != StateMenu || s.Round() != nil {
		t.Errorf("after Exit: state %s, round %v", s.State(), s.Round())
	}
}

func TestSaveFailureKeepsInMemoryStats(t *testing.T) {
	store := &fakeStats{saveErr: errors.New("read-only")}
	s := newTestSession(t, store, nil)
	startAndPresent(t, s, ModeTypeEq)

	out, err := s.SubmitText(context.Background(), s.Round().Question().Text)
	if err != nil {
		t.Fatalf("SubmitText: %v", err)
	}
	if !out.Correct {
		t.Fatal("expected correct outcome")
	}
	if got := s.Stats(); got.TotalScore != 10 || got.Attempts != 1 {
		t.Errorf("Stats() = %+v, want in-memory update", got)
	}
}

func TestExitDiscardsInFlightRound(t *testing.T) {
	store := &fakeStats{}
	s := newTestSession(t, store, nil)
	startAndPresent(t, s, ModeDrawPlot)

	sum := s.Exit()
	if sum.Answered != 0 {
		t.Errorf("Answered = %d, want 0", sum.Answered)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
	if err := s.Start(ModePickEq); err != nil {
		t.Errorf("Start after Exit: %v", err)
	}
}

func TestResetStats(t *testing.T) {
	store := &fakeStats{stored: Stats{TotalScore: 5, Attempts: 2, Correct: 1}}
	s := newTestSession(t, store, nil)

	if err := s.ResetStats(context.Background()); err != nil {
		t.Fatalf("ResetStats: %v", err)
	}
	if s.Stats() != (Stats{}) || store.stored != (Stats{}) {
		t.Errorf("stats not cleared: session %+v, store %+v", s.Stats(), store.stored)
	}

	store.saveErr = errors.New("nope")
	if err := s.ResetStats(context.Background()); err == nil {
		t.Error("expected error from failing store")
	}
}

func TestStatsAccuracy(t *testing.T) {
	tests := []struct {
		s    Stats
		want int
	}{
		{Stats{}, 0},
		{Stats{Attempts: 3, Correct: 2}, 67},
		{Stats{Attempts: 8, Correct: 1}, 13},
		{Stats{Attempts: 4, Correct: 4}, 100},
	}
	for _, tc := range tests {
		if got := tc.s.Accuracy(); got != tc.want {
			t.Errorf("%+v.Accuracy() = %d, want %d", tc.s, got, tc.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range append(Modes, ModeRandom) {
		got, err := ParseMode(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %q, %v", m, got, err)
		}
	}
	if _, err := ParseMode("draw"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(draw) = %v, want ErrUnknownMode", err)
	}
}

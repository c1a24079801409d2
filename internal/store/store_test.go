package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Bradwave/parabolawhat/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestParseDriver(t *testing.T) {
	tests := []struct {
		in   string
		want Driver
	}{
		{"", DriverSQLite},
		{"sqlite", DriverSQLite},
		{"sqlite3", DriverSQLite},
		{"postgres", DriverPostgres},
		{"pgx", DriverPostgres},
	}
	for _, tt := range tests {
		got, err := ParseDriver(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseDriver(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseDriver("mysql"); err == nil {
		t.Error("ParseDriver(mysql) should fail")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{tableKV, tableAnswers, tableLLM, "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestStatsLoadEmpty(t *testing.T) {
	s := openTestStore(t)

	got, err := s.StatsRepo().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (session.Stats{}) {
		t.Errorf("load = %+v, want zero", got)
	}
}

func TestStatsSaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	repo := s.StatsRepo()
	ctx := context.Background()

	first := session.Stats{TotalScore: 12, Attempts: 3, Correct: 2}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := session.Stats{TotalScore: 22, Attempts: 4, Correct: 3}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != second {
		t.Errorf("load = %+v, want %+v", got, second)
	}

	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM kv").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("kv rows = %d, want 1", n)
	}
}

func TestStatsRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", `{{{`},
		{"negative", `{"totalScore": -1, "attempts": 0, "correct": 0}`},
		{"missing field", `{"totalScore": 3, "attempts": 1}`},
		{"fractional", `{"totalScore": 1.5, "attempts": 1, "correct": 1}`},
		{"wrong type", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openTestStore(t)
			_, err := s.DB().Exec(
				"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)",
				session.StatsKey, tt.value, time.Now().UnixMilli(),
			)
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			if _, err := s.StatsRepo().Load(context.Background()); !errors.Is(err, ErrInvalidStats) {
				t.Errorf("load = %v, want ErrInvalidStats", err)
			}
		})
	}
}

func TestStatsClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.StatsRepo()
	ctx := context.Background()

	if err := repo.Save(ctx, session.Stats{TotalScore: 5, Attempts: 1, Correct: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (session.Stats{}) {
		t.Errorf("load after clear = %+v, want zero", got)
	}
}

func TestAnswerAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnswerRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	events := []session.AnswerEvent{
		{SessionID: "a", Mode: session.ModeTypeEq, Question: "x^2", Answer: "x^2", Correct: true, Points: 10, Duration: 3 * time.Second, Timestamp: base},
		{SessionID: "a", Mode: session.ModePickEq, Question: "-x^2 + 1", Answer: "x^2 + 1", Correct: false, Points: 0, Duration: time.Second, Timestamp: base.Add(time.Minute)},
		{SessionID: "b", Mode: session.ModeDrawPlot, Question: "2x^2 - 3", Answer: "stroke", Correct: true, Points: 10, Duration: 1500 * time.Millisecond, Timestamp: base.Add(2 * time.Minute)},
	}
	for i, ev := range events {
		if err := repo.AppendAnswer(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recent, err := repo.Recent(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent len = %d, want 2", len(recent))
	}
	if recent[0].Question != "2x^2 - 3" || recent[1].Question != "-x^2 + 1" {
		t.Errorf("order = %q, %q; want newest first", recent[0].Question, recent[1].Question)
	}
	if recent[0].Duration != 1500*time.Millisecond || !recent[0].Correct || recent[0].Mode != session.ModeDrawPlot {
		t.Errorf("round trip = %+v", recent[0].AnswerEvent)
	}
	if !recent[0].Timestamp.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("timestamp = %v", recent[0].Timestamp)
	}

	onlyA, err := repo.Recent(ctx, QueryOpts{SessionID: "a"})
	if err != nil {
		t.Fatalf("recent by session: %v", err)
	}
	if len(onlyA) != 2 {
		t.Errorf("session a events = %d, want 2", len(onlyA))
	}

	older, err := repo.Recent(ctx, QueryOpts{Before: recent[1].Sequence})
	if err != nil {
		t.Fatalf("recent before: %v", err)
	}
	if len(older) != 1 || older[0].Question != "x^2" {
		t.Errorf("before page = %+v", older)
	}
}

func TestTallyByMode(t *testing.T) {
	s := openTestStore(t)
	repo := s.AnswerRepo()
	ctx := context.Background()

	add := func(mode session.Mode, correct bool, points int) {
		t.Helper()
		err := repo.AppendAnswer(ctx, session.AnswerEvent{
			SessionID: "s", Mode: mode, Question: "x^2", Correct: correct, Points: points,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	add(session.ModeTypeEq, true, 10)
	add(session.ModeTypeEq, false, 4)
	add(session.ModePickPlot, true, 0)

	tally, err := repo.TallyByMode(ctx)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if len(tally) != 2 {
		t.Fatalf("tally len = %d, want 2", len(tally))
	}
	// Ordered by mode name.
	if tally[0].Mode != session.ModePickPlot || tally[0].Answered != 1 || tally[0].Correct != 1 {
		t.Errorf("pick-plot tally = %+v", tally[0])
	}
	if tally[1].Mode != session.ModeTypeEq || tally[1].Answered != 2 || tally[1].Correct != 1 || tally[1].Points != 14 {
		t.Errorf("type-eq tally = %+v", tally[1])
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock-model", Purpose: "explain",
		InputTokens: 120, OutputTokens: 40, LatencyMs: 350, Success: true,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock-model", Purpose: "explain",
		LatencyMs: 20, ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append failure: %v", err)
	}

	events, err := repo.RecentLLMRequests(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Success || events[0].ErrorMessage != "rate limited" {
		t.Errorf("newest = %+v", events[0])
	}
	if !events[1].Success || events[1].InputTokens != 120 || events[1].OutputTokens != 40 {
		t.Errorf("oldest = %+v", events[1])
	}
}

func TestSequenceSharedAcrossEventKinds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.AnswerRepo().AppendAnswer(ctx, session.AnswerEvent{SessionID: "s", Mode: session.ModeTypeEq, Question: "x^2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "m"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AnswerRepo().AppendAnswer(ctx, session.AnswerEvent{SessionID: "s", Mode: session.ModeTypeEq, Question: "x^2 + 1"}); err != nil {
		t.Fatal(err)
	}

	answers, _ := s.AnswerRepo().Recent(ctx, QueryOpts{})
	llm, _ := s.EventRepo().RecentLLMRequests(ctx, 0)
	if len(answers) != 2 || len(llm) != 1 {
		t.Fatalf("answers=%d llm=%d", len(answers), len(llm))
	}
	if answers[1].Sequence != 1 || llm[0].Sequence != 2 || answers[0].Sequence != 3 {
		t.Errorf("sequences = %d, %d, %d; want 1, 2, 3",
			answers[1].Sequence, llm[0].Sequence, answers[0].Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Open already seeded the counter; a second seed must not reset it.
	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}

	if _, err := newSequenceCounter(s.DB()); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	seq, _ := sc.Next(ctx)
	if seq != 6 {
		t.Errorf("after reseed seq = %d, want 6", seq)
	}
}

func TestMemoryStats(t *testing.T) {
	var m MemoryStats
	ctx := context.Background()

	got, err := m.Load(ctx)
	if err != nil || got != (session.Stats{}) {
		t.Fatalf("empty load = %+v, %v", got, err)
	}
	want := session.Stats{TotalScore: 3, Attempts: 1}
	if err := m.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.Load(ctx); got != want {
		t.Errorf("load = %+v, want %+v", got, want)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("PARABOLA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := dir + "/parabolawhat/parabolawhat.db"; p != want {
		t.Errorf("path = %q, want %q", p, want)
	}

	override := dir + "/custom/quiz.db"
	t.Setenv("PARABOLA_DB", override)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("override path: %v", err)
	}
	if p != override {
		t.Errorf("path = %q, want %q", p, override)
	}
}

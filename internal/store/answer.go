package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/Bradwave/parabolawhat/internal/session"
)

// AnswerRepo appends and queries scored submissions. It implements
// session.AnswerRecorder.
type AnswerRepo struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

var _ session.AnswerRecorder = (*AnswerRepo)(nil)

// AnswerRecord is a stored session.AnswerEvent.
type AnswerRecord struct {
	Sequence int64
	session.AnswerEvent
}

func (r *AnswerRepo) AppendAnswer(ctx context.Context, ev session.AnswerEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder(r.dialect).
		Insert(tableAnswers).
		Columns("sequence", "session_id", "mode", "question", "answer",
			"correct", "points", "duration_ms", "created_at").
		Values(seqNum, ev.SessionID, string(ev.Mode), ev.Question, ev.Answer,
			ev.Correct, ev.Points, ev.Duration.Milliseconds(), ts.UnixMilli()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// Recent returns answer events newest first.
func (r *AnswerRepo) Recent(ctx context.Context, opts QueryOpts) ([]AnswerRecord, error) {
	b := builder(r.dialect)
	sel := b.Select("sequence", "session_id", "mode", "question", "answer",
		"correct", "points", "duration_ms", "created_at").
		From(b.Table(tableAnswers))

	var preds []*entsql.Predicate
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec        AnswerRecord
			mode       string
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&rec.Sequence, &rec.SessionID, &mode, &rec.Question, &rec.Answer,
			&rec.Correct, &rec.Points, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.Mode = session.Mode(mode)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.Timestamp = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answer events: %w", err)
	}
	return out, nil
}

// ModeTally is the per-mode breakdown of recorded answers.
type ModeTally struct {
	Mode     session.Mode
	Answered int
	Correct  int
	Points   int
}

// TallyByMode aggregates every recorded answer per mode.
func (r *AnswerRepo) TallyByMode(ctx context.Context) ([]ModeTally, error) {
	b := builder(r.dialect)
	sel := b.Select().
		AppendSelect("mode").
		AppendSelectExprAs(entsql.Expr("COUNT(*)"), "answered").
		AppendSelectExprAs(entsql.Expr("SUM(CASE WHEN correct THEN 1 ELSE 0 END)"), "correct_count").
		AppendSelectExprAs(entsql.Expr("SUM(points)"), "points_sum").
		From(b.Table(tableAnswers)).
		GroupBy("mode").
		OrderBy("mode")

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tally answers: %w", err)
	}
	defer rows.Close()

	var out []ModeTally
	for rows.Next() {
		var (
			t    ModeTally
			mode string
		)
		if err := rows.Scan(&mode, &t.Answered, &t.Correct, &t.Points); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		t.Mode = session.Mode(mode)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}
	return out, nil
}

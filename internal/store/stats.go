package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/Bradwave/parabolawhat/internal/session"
)

// ErrInvalidStats is returned by Load when the stored record does not
// match the stats schema.
var ErrInvalidStats = errors.New("invalid stats record")

const statsSchemaURL = "schema://parabola_stats.json"

const statsSchema = `{
	"type": "object",
	"properties": {
		"totalScore": {"type": "integer", "minimum": 0},
		"attempts":   {"type": "integer", "minimum": 0},
		"correct":    {"type": "integer", "minimum": 0}
	},
	"required": ["totalScore", "attempts", "correct"]
}`

var (
	statsSchemaOnce     sync.Once
	statsSchemaCompiled *jsonschema.Schema
	statsSchemaErr      error
)

func compiledStatsSchema() (*jsonschema.Schema, error) {
	statsSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(statsSchema)))
		if err != nil {
			statsSchemaErr = fmt.Errorf("parse stats schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(statsSchemaURL, doc); err != nil {
			statsSchemaErr = fmt.Errorf("add stats schema: %w", err)
			return
		}
		statsSchemaCompiled, statsSchemaErr = c.Compile(statsSchemaURL)
	})
	return statsSchemaCompiled, statsSchemaErr
}

// StatsRepo keeps session.Stats as a JSON document in the kv table. It
// implements session.StatsStore.
type StatsRepo struct {
	db      *sql.DB
	dialect string
}

var _ session.StatsStore = (*StatsRepo)(nil)

// Load returns the saved stats, or zero Stats when none were saved.
func (r *StatsRepo) Load(ctx context.Context) (session.Stats, error) {
	query, args := builder(r.dialect).
		Select("value").
		From(builder(r.dialect).Table(tableKV)).
		Where(entsql.EQ("key", session.StatsKey)).
		Query()

	var raw string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Stats{}, nil
	}
	if err != nil {
		return session.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return decodeStats([]byte(raw))
}

// Save upserts the stats record.
func (r *StatsRepo) Save(ctx context.Context, s session.Stats) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	query, args := builder(r.dialect).
		Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(session.StatsKey, string(b), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// Clear removes the stats record entirely.
func (r *StatsRepo) Clear(ctx context.Context) error {
	query, args := builder(r.dialect).
		Delete(tableKV).
		Where(entsql.EQ("key", session.StatsKey)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	return nil
}

// decodeStats validates raw against the stats schema before decoding.
func decodeStats(raw []byte) (session.Stats, error) {
	sch, err := compiledStatsSchema()
	if err != nil {
		return session.Stats{}, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return session.Stats{}, fmt.Errorf("%w: %v", ErrInvalidStats, err)
	}
	if err := sch.Validate(doc); err != nil {
		return session.Stats{}, fmt.Errorf("%w: %v", ErrInvalidStats, err)
	}

	var s session.Stats
	if err := json.Unmarshal(raw, &s); err != nil {
		return session.Stats{}, fmt.Errorf("%w: %v", ErrInvalidStats, err)
	}
	return s, nil
}

// MemoryStats is a session.StatsStore that lives only as long as the
// process. It is used when no database can be opened.
type MemoryStats struct {
	mu    sync.Mutex
	stats session.Stats
}

var _ session.StatsStore = (*MemoryStats)(nil)

func (m *MemoryStats) Load(context.Context) (session.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats, nil
}

func (m *MemoryStats) Save(_ context.Context, s session.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = s
	return nil
}

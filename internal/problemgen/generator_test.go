package problemgen

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Bradwave/parabolawhat/internal/equation"
	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

func newTestGenerator(t *testing.T, cfg Config) *Generator {
	t.Helper()
	g, err := New(cfg, rand.New(rand.NewPCG(42, 7)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGenerate_NeverZeroA(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	for i := 0; i < 2000; i++ {
		q := g.Generate()
		if q.Coeffs.A == 0 {
			t.Fatalf("draw %d: a = 0 (%q)", i, q.Text)
		}
	}
}

func TestGenerate_WithinDomain(t *testing.T) {
	cfg := DefaultConfig()
	g := newTestGenerator(t, cfg)
	allowed := map[float64]bool{}
	for _, a := range cfg.AValues {
		allowed[a] = true
	}

	for i := 0; i < 500; i++ {
		q := g.Generate()
		if !allowed[q.Coeffs.A] {
			t.Errorf("a = %v not in configured set", q.Coeffs.A)
		}
		if q.Coeffs.B < float64(cfg.BMin) || q.Coeffs.B > float64(cfg.BMax) || q.Coeffs.B != math.Trunc(q.Coeffs.B) {
			t.Errorf("b = %v outside [%d, %d] or not an integer", q.Coeffs.B, cfg.BMin, cfg.BMax)
		}
		if q.Coeffs.C < float64(cfg.CMin) || q.Coeffs.C > float64(cfg.CMax) || q.Coeffs.C != math.Trunc(q.Coeffs.C) {
			t.Errorf("c = %v outside [%d, %d] or not an integer", q.Coeffs.C, cfg.CMin, cfg.CMax)
		}
		if q.Text != quadratic.Format(q.Coeffs) {
			t.Errorf("Text = %q, want %q", q.Text, quadratic.Format(q.Coeffs))
		}
	}
}

func TestGenerate_RoundTripsThroughParser(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	for i := 0; i < 1000; i++ {
		q := g.Generate()
		got := equation.Parse(q.Text).Quadratic()
		if math.Abs(got.A-q.Coeffs.A) > 1e-9 || math.Abs(got.B-q.Coeffs.B) > 1e-9 || math.Abs(got.C-q.Coeffs.C) > 1e-9 {
			t.Fatalf("Parse(%q) = %+v, want %+v", q.Text, got, q.Coeffs)
		}
	}
}

func TestGenerate_DoesNotMutatePriorQuestions(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	first := g.Generate()
	snapshot := first
	for i := 0; i < 100; i++ {
		g.Generate()
	}
	if first != snapshot {
		t.Errorf("prior question changed: got %+v, want %+v", first, snapshot)
	}
}

func TestChoices_FourDistinct(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	for i := 0; i < 300; i++ {
		target := g.Generate()
		opts, idx, err := g.Choices(target)
		if err != nil {
			t.Fatalf("Choices: %v", err)
		}
		if len(opts) != ChoiceCount {
			t.Fatalf("len(opts) = %d, want %d", len(opts), ChoiceCount)
		}
		if opts[idx].Text != target.Text {
			t.Errorf("opts[%d] = %q, want target %q", idx, opts[idx].Text, target.Text)
		}
		seen := map[string]bool{}
		for _, o := range opts {
			if seen[o.Text] {
				t.Errorf("duplicate option %q in %v", o.Text, opts)
			}
			seen[o.Text] = true
		}
	}
}

func TestGenerateDistractors_ExcludesTarget(t *testing.T) {
	g := newTestGenerator(t, DefaultConfig())
	target := NewQuestion(quadratic.Quadratic{A: 1})
	ds, err := g.GenerateDistractors(target, 10)
	if err != nil {
		t.Fatalf("GenerateDistractors: %v", err)
	}
	if len(ds) != 10 {
		t.Fatalf("got %d distractors, want 10", len(ds))
	}
	for _, d := range ds {
		if d.Text == target.Text {
			t.Errorf("distractor equals excluded question %q", target.Text)
		}
	}
}

func TestGenerateDistractors_TinyDomainWidens(t *testing.T) {
	// Only two equations exist before widening: x² and -x².
	cfg := Config{
		AValues:      []float64{1, -1},
		MaxAttempts:  5,
		MaxWidenings: 1,
	}
	g := newTestGenerator(t, cfg)

	target := g.Generate()
	opts, _, err := g.Choices(target)
	if err != nil {
		t.Fatalf("Choices: %v", err)
	}
	if len(opts) != ChoiceCount {
		t.Errorf("len(opts) = %d, want %d", len(opts), ChoiceCount)
	}
}

func TestGenerateDistractors_DomainTooSmall(t *testing.T) {
	cfg := Config{
		AValues:      []float64{1},
		MaxAttempts:  5,
		MaxWidenings: 1,
	}
	g := newTestGenerator(t, cfg)

	// 9 equations exist after one widening; ask for more than that.
	_, err := g.GenerateDistractors(g.Generate(), 20)
	if !errors.Is(err, ErrDomainTooSmall) {
		t.Errorf("err = %v, want ErrDomainTooSmall", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero a", func(c *Config) { c.AValues = []float64{1, 0} }, true},
		{"empty a", func(c *Config) { c.AValues = nil }, true},
		{"empty b range", func(c *Config) { c.BMin, c.BMax = 2, 1 }, true},
		{"no attempts", func(c *Config) { c.MaxAttempts = 0 }, true},
		{"too small", func(c *Config) {
			c.AValues = []float64{1}
			c.BMin, c.BMax, c.CMin, c.CMax = 0, 0, 0, 0
			c.MaxWidenings = 0
		}, true},
	}

	for _, tc := range tests {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestConfigValidate_WideRangeStopsEarly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BMin, cfg.BMax = -800, 800
	cfg.CMin, cfg.CMax = -800, 800

	calls := 0
	cfg.enumerate(cfg.MaxWidenings, func(quadratic.Quadratic) bool {
		calls++
		return calls < ChoiceCount
	})
	if calls != ChoiceCount {
		t.Fatalf("enumerate visited %d triples after being told to stop at %d", calls, ChoiceCount)
	}

	if n := cfg.capacity(cfg.MaxWidenings, ChoiceCount); n != ChoiceCount {
		t.Errorf("capacity = %d, want %d", n, ChoiceCount)
	}

	start := time.Now()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if _, err := New(cfg, rand.New(rand.NewPCG(1, 1))); err != nil {
		t.Fatalf("New: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("validation of a wide domain took %v", elapsed)
	}
}

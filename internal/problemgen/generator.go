package problemgen

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

// Generator draws random parabolas from a configured domain.
// It is safe for concurrent use.
type Generator struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator. A nil rng is replaced by a time-seeded one;
// tests pass a fixed-seed source for reproducible draws.
func New(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Generator{cfg: cfg, rng: rng}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate returns a fresh random question.
func (g *Generator) Generate() Question {
	g.mu.Lock()
	defer g.mu.Unlock()
	return NewQuestion(g.draw(0))
}

// draw must be called with g.mu held.
func (g *Generator) draw(widen int) quadratic.Quadratic {
	a := g.cfg.AValues[g.rng.IntN(len(g.cfg.AValues))]
	b := g.intIn(g.cfg.BMin-widen, g.cfg.BMax+widen)
	c := g.intIn(g.cfg.CMin-widen, g.cfg.CMax+widen)
	return quadratic.Quadratic{A: a, B: float64(b), C: float64(c)}
}

func (g *Generator) intIn(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

// GenerateDistractors returns count questions whose canonical strings are
// pairwise distinct and different from exclude.
//
// Random draws are capped at MaxAttempts per pass; each failed pass widens
// the b and c ranges by one. Once MaxWidenings is exhausted the remaining
// slots are filled from a shuffled enumeration of the widest domain, so the
// call only fails when that domain is genuinely too small.
func (g *Generator) GenerateDistractors(exclude Question, count int) ([]Question, error) {
	if count <= 0 {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	seen := map[string]bool{exclude.Text: true}
	out := make([]Question, 0, count)

	for widen := 0; widen <= g.cfg.MaxWidenings; widen++ {
		for attempt := 0; attempt < g.cfg.MaxAttempts && len(out) < count; attempt++ {
			q := NewQuestion(g.draw(widen))
			if seen[q.Text] {
				continue
			}
			seen[q.Text] = true
			out = append(out, q)
		}
		if len(out) == count {
			return out, nil
		}
	}

	var pool []Question
	g.cfg.enumerate(g.cfg.MaxWidenings, func(c quadratic.Quadratic) bool {
		q := NewQuestion(c)
		if !seen[q.Text] {
			seen[q.Text] = true
			pool = append(pool, q)
		}
		return true
	})
	g.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	need := count - len(out)
	if len(pool) < need {
		return nil, fmt.Errorf("%w: found %d of %d distractors", ErrDomainTooSmall, len(out)+len(pool), count)
	}
	return append(out, pool[:need]...), nil
}

// Choices returns the target plus ChoiceCount-1 distractors in random
// order, along with the index of the target.
func (g *Generator) Choices(target Question) ([]Question, int, error) {
	distractors, err := g.GenerateDistractors(target, ChoiceCount-1)
	if err != nil {
		return nil, 0, err
	}

	options := append([]Question{target}, distractors...)

	g.mu.Lock()
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	g.mu.Unlock()

	for i, o := range options {
		if o.Text == target.Text {
			return options, i, nil
		}
	}
	// Unreachable: target is always in options.
	return options, 0, nil
}

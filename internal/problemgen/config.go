package problemgen

import (
	"errors"
	"fmt"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
)

// ErrDomainTooSmall is returned when the configured coefficient ranges
// cannot produce enough distinct canonical strings for a choice set.
var ErrDomainTooSmall = errors.New("coefficient domain too small for distinct choices")

// Config controls the coefficient domain of generated parabolas.
type Config struct {
	// AValues is the set of leading coefficients to draw from.
	// Zero is not allowed.
	AValues []float64

	// BMin..BMax and CMin..CMax are inclusive integer ranges.
	BMin, BMax int
	CMin, CMax int

	// MaxAttempts caps random draws per distractor batch before the
	// b and c ranges are widened by one on each side.
	MaxAttempts int

	// MaxWidenings caps how many times the ranges are widened before
	// the remaining distractors are picked by exhaustive enumeration.
	MaxWidenings int
}

// DefaultConfig returns the classroom defaults: a ∈ {±0.5, ±1, ±2},
// b and c in [-4, 4].
func DefaultConfig() Config {
	return Config{
		AValues:      []float64{-2, -1, -0.5, 0.5, 1, 2},
		BMin:         -4,
		BMax:         4,
		CMin:         -4,
		CMax:         4,
		MaxAttempts:  200,
		MaxWidenings: 3,
	}
}

// Validate rejects configurations that could emit a = 0 or that can
// never fill a choice set.
func (c Config) Validate() error {
	if len(c.AValues) == 0 {
		return errors.New("a_values must not be empty")
	}
	for _, a := range c.AValues {
		if a == 0 {
			return errors.New("a_values must not contain 0")
		}
	}
	if c.BMin > c.BMax {
		return fmt.Errorf("b range [%d, %d] is empty", c.BMin, c.BMax)
	}
	if c.CMin > c.CMax {
		return fmt.Errorf("c range [%d, %d] is empty", c.CMin, c.CMax)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive, got %d", c.MaxAttempts)
	}
	if c.MaxWidenings < 0 {
		return fmt.Errorf("max_widenings must not be negative, got %d", c.MaxWidenings)
	}
	if n := c.capacity(c.MaxWidenings, ChoiceCount); n < ChoiceCount {
		return fmt.Errorf("%w: %d distinct equations available, need %d", ErrDomainTooSmall, n, ChoiceCount)
	}
	return nil
}

// capacity counts distinct canonical strings reachable after widen
// range widenings, stopping once limit have been seen.
func (c Config) capacity(widen, limit int) int {
	seen := make(map[string]struct{})
	c.enumerate(widen, func(q quadratic.Quadratic) bool {
		seen[quadratic.Format(q)] = struct{}{}
		return len(seen) < limit
	})
	return len(seen)
}

// enumerate calls fn for every coefficient triple in the domain widened
// by widen on each side of the b and c ranges, until fn returns false.
func (c Config) enumerate(widen int, fn func(quadratic.Quadratic) bool) {
	for _, a := range c.AValues {
		for b := c.BMin - widen; b <= c.BMax+widen; b++ {
			for cc := c.CMin - widen; cc <= c.CMax+widen; cc++ {
				if !fn(quadratic.Quadratic{A: a, B: float64(b), C: float64(cc)}) {
					return
				}
			}
		}
	}
}

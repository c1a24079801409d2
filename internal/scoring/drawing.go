package scoring

import (
	"fmt"
	"math"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

// Drawing tolerances, in graph units.
const (
	InterceptTolerance = 2.0
	FlatSlopeB         = 0.3
	FlatSlopeMax       = 1.0

	// NearTangentDelta is the |Δ| below which the drawn root count may be
	// off by one.
	NearTangentDelta = 1.0
)

// Failure labels for drawing checks.
const (
	FailConcavity = "Concavità errata"
	FailIntercept = "Intercetta Y errata"
	FailSlope     = "Pendenza all'origine errata"
)

// DrawingResult reports which drawing checks failed.
type DrawingResult struct {
	OK            bool     `json:"ok"`
	FailedChecks  []string `json:"failedChecks"`
	ExpectedRoots int      `json:"expectedRoots"`
}

// ScoreDrawing runs the four shape checks against correct. All of them
// must pass for the drawing to be accepted.
func ScoreDrawing(f stroke.Features, correct quadratic.Quadratic) DrawingResult {
	res := DrawingResult{ExpectedRoots: correct.ExpectedRoots()}

	if f.Concavity != correct.Concavity() {
		res.FailedChecks = append(res.FailedChecks, FailConcavity)
	}

	if math.Abs(f.YIntercept-correct.C) >= InterceptTolerance {
		res.FailedChecks = append(res.FailedChecks, FailIntercept)
	}

	if !slopeOK(f.Slope, correct.B) {
		res.FailedChecks = append(res.FailedChecks, FailSlope)
	}

	tolerance := 0
	if math.Abs(correct.Discriminant()) < NearTangentDelta {
		tolerance = 1
	}
	if abs(f.Crossings-res.ExpectedRoots) > tolerance {
		res.FailedChecks = append(res.FailedChecks,
			fmt.Sprintf("Intersezioni asse X errate (attese: %d)", res.ExpectedRoots))
	}

	res.OK = len(res.FailedChecks) == 0
	return res
}

// slopeOK requires a near-flat stroke when b is near zero, otherwise a
// matching sign.
func slopeOK(slope, b float64) bool {
	if math.Abs(b) < FlatSlopeB {
		return math.Abs(slope) < FlatSlopeMax
	}
	return sign(slope) == sign(b)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

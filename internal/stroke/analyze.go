package stroke

import "math"

// slopeOffset is how many samples either side of the intercept are used
// for the finite-difference slope.
const slopeOffset = 5

// Features are the coarse shape properties read off a drawing.
type Features struct {
	// Concavity is +1 when both ends sit above the middle sample, else -1.
	Concavity int `json:"concavity"`

	// YIntercept is the y of the sample closest to the y axis.
	YIntercept     float64 `json:"yIntercept"`
	InterceptIndex int     `json:"interceptIndex"`

	// Slope is the local slope around InterceptIndex.
	Slope float64 `json:"slope"`

	// Crossings counts sign changes of y between consecutive samples.
	Crossings int `json:"xInterceptsCount"`
}

// Analyze derives Features from s. It returns false when the stroke is
// too short to say anything, which callers must treat as "not answered
// yet" rather than as a wrong answer.
func Analyze(s Stroke) (Features, bool) {
	if s.TooShort() {
		return Features{}, false
	}

	f := Features{Concavity: concavity(s.points)}
	f.InterceptIndex = closestToYAxis(s.points)
	f.YIntercept = s.points[f.InterceptIndex].Y
	f.Slope = slopeAround(s.points, f.InterceptIndex)
	f.Crossings = crossings(s.points)
	return f, true
}

// concavity compares the two endpoints with the sample at n/2.
func concavity(pts []Point) int {
	first, mid, last := pts[0], pts[len(pts)/2], pts[len(pts)-1]
	if first.Y > mid.Y && last.Y > mid.Y {
		return 1
	}
	return -1
}

// closestToYAxis returns the index of the sample with the smallest |x|.
// The earliest sample wins ties.
func closestToYAxis(pts []Point) int {
	best := 0
	bestDist := math.Abs(pts[0].X)
	for i, p := range pts {
		if d := math.Abs(p.X); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// slopeAround takes the samples slopeOffset before and after i, clamped
// to the ends of the stroke. Equal x values give a slope of 0.
func slopeAround(pts []Point, i int) float64 {
	p1 := pts[max(i-slopeOffset, 0)]
	p2 := pts[min(i+slopeOffset, len(pts)-1)]
	if p2.X == p1.X {
		return 0
	}
	return (p2.Y - p1.Y) / (p2.X - p1.X)
}

// crossings counts i where sign(y[i]) differs from sign(y[i-1]) and y[i]
// is not exactly zero. A sample landing on the axis is therefore counted
// once, when the curve leaves it, not twice.
func crossings(pts []Point) int {
	n := 0
	for i := 1; i < len(pts); i++ {
		if sign(pts[i].Y) != sign(pts[i-1].Y) && pts[i].Y != 0 {
			n++
		}
	}
	return n
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

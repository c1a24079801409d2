package stroke

import "math"

const (
	// SmoothingFactor is the fraction of the remaining distance the brush
	// travels toward the pointer on each tick.
	SmoothingFactor = 0.25

	// MoveThreshold is the smallest per-axis screen distance that still
	// moves the brush and records a sample.
	MoveThreshold = 0.1
)

// Capture builds a Stroke from raw pointer positions. The brush follows
// the pointer with exponential smoothing; each tick that moves the brush
// appends one world-space sample. Capture is driven by a single event
// loop and is not safe for concurrent use.
type Capture struct {
	vp Viewport

	pointerX, pointerY float64
	brushX, brushY     float64
	down               bool
	points             []Point
}

// NewCapture returns an idle capture that converts through vp.
func NewCapture(vp Viewport) *Capture {
	return &Capture{vp: vp}
}

// SetViewport changes the screen-to-world mapping for later samples.
func (c *Capture) SetViewport(vp Viewport) {
	c.vp = vp
}

// Begin starts a new stroke at the given screen position, discarding
// any samples from a previous one.
func (c *Capture) Begin(sx, sy float64) {
	c.down = true
	c.pointerX, c.pointerY = sx, sy
	c.brushX, c.brushY = sx, sy
	c.points = []Point{c.vp.ScreenToWorld(sx, sy)}
}

// Move records the latest pointer position. Nothing is sampled until Tick.
func (c *Capture) Move(sx, sy float64) {
	if !c.down {
		return
	}
	c.pointerX, c.pointerY = sx, sy
}

// Tick advances the brush one smoothing step and reports whether a new
// sample was appended.
func (c *Capture) Tick() bool {
	if !c.down {
		return false
	}
	dx := c.pointerX - c.brushX
	dy := c.pointerY - c.brushY
	if math.Abs(dx) <= MoveThreshold && math.Abs(dy) <= MoveThreshold {
		return false
	}
	c.brushX += dx * SmoothingFactor
	c.brushY += dy * SmoothingFactor
	c.points = append(c.points, c.vp.ScreenToWorld(c.brushX, c.brushY))
	return true
}

// Active reports whether the pointer is down.
func (c *Capture) Active() bool { return c.down }

// Len returns the number of samples captured so far.
func (c *Capture) Len() int { return len(c.points) }

// Samples returns a copy of the samples captured so far, for live drawing.
func (c *Capture) Samples() []Point {
	return append([]Point(nil), c.points...)
}

// Finish lifts the pointer and returns the frozen stroke. The capture is
// left empty.
func (c *Capture) Finish() Stroke {
	s := Stroke{points: c.points}
	c.down = false
	c.points = nil
	return s
}

// Reset drops an in-flight stroke without producing anything, e.g. when
// the player leaves the round mid-gesture.
func (c *Capture) Reset() {
	c.down = false
	c.points = nil
}

package stroke

import (
	"math"
	"testing"
)

func TestViewport_RoundTrip(t *testing.T) {
	vp := Viewport{Width: 400, Height: 300, ScaleX: 40, ScaleY: 40}

	p := vp.ScreenToWorld(200, 150)
	if p != (Point{0, 0}) {
		t.Errorf("centre maps to %v, want origin", p)
	}

	p = vp.ScreenToWorld(240, 70)
	if p != (Point{1, 2}) {
		t.Errorf("ScreenToWorld(240, 70) = %v, want {1 2}", p)
	}

	sx, sy := vp.WorldToScreen(Point{-2, -1})
	if sx != 120 || sy != 190 {
		t.Errorf("WorldToScreen({-2 -1}) = (%v, %v), want (120, 190)", sx, sy)
	}

	lo, hi := vp.XRange()
	if lo != -5 || hi != 5 {
		t.Errorf("XRange() = (%v, %v), want (-5, 5)", lo, hi)
	}
	lo, hi = vp.YRange()
	if lo != -3.75 || hi != 3.75 {
		t.Errorf("YRange() = (%v, %v), want (-3.75, 3.75)", lo, hi)
	}
}

func TestCapture_SmoothsTowardPointer(t *testing.T) {
	c := NewCapture(Viewport{Width: 400, Height: 400, ScaleX: 40, ScaleY: 40})
	c.Begin(200, 200)
	c.Move(240, 200)

	if !c.Tick() {
		t.Fatal("first tick should move the brush")
	}
	// Brush at screen x 210 is world x 0.25.
	if got := c.Samples()[c.Len()-1].X; got != 0.25 {
		t.Errorf("sample x after one tick = %v, want 0.25", got)
	}

	ticks := 1
	for c.Tick() {
		ticks++
		if ticks > 100 {
			t.Fatal("brush never settled")
		}
	}

	if got := c.Samples()[c.Len()-1].X; math.Abs(got-1) > MoveThreshold/40 {
		t.Errorf("brush settled at world x %v, want within %v of 1", got, MoveThreshold/40)
	}
	if c.Len() != ticks+1 {
		t.Errorf("Len() = %d, want %d (start sample + one per tick)", c.Len(), ticks+1)
	}

	s := c.Finish()
	if s.Len() != ticks+1 {
		t.Errorf("stroke length = %d, want %d", s.Len(), ticks+1)
	}
	if s.At(0) != (Point{0, 0}) {
		t.Errorf("first sample = %v, want origin", s.At(0))
	}
	if c.Active() || c.Len() != 0 {
		t.Error("capture should be idle and empty after Finish")
	}
}

func TestCapture_IgnoresMoveWhenIdle(t *testing.T) {
	c := NewCapture(Viewport{Width: 100, Height: 100, ScaleX: 10, ScaleY: 10})
	c.Move(80, 80)
	if c.Tick() {
		t.Error("Tick on idle capture should not sample")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCapture_ResetDiscardsStroke(t *testing.T) {
	c := NewCapture(Viewport{Width: 100, Height: 100, ScaleX: 10, ScaleY: 10})
	c.Begin(10, 10)
	c.Move(90, 90)
	c.Tick()
	c.Reset()

	if c.Active() || c.Len() != 0 {
		t.Error("Reset should leave an idle, empty capture")
	}
	if s := c.Finish(); s.Len() != 0 {
		t.Errorf("Finish after Reset returned %d samples", s.Len())
	}
}

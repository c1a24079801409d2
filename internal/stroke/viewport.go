package stroke

// Viewport maps between screen coordinates (origin top-left, y down) and
// world coordinates (origin at the viewport centre, y up).
type Viewport struct {
	Width  float64
	Height float64

	// ScaleX and ScaleY are screen units per world unit. Terminal cells
	// are roughly twice as tall as wide, so the two usually differ there.
	ScaleX float64
	ScaleY float64
}

// Origin returns the screen position of world (0, 0).
func (v Viewport) Origin() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// ScreenToWorld converts a screen position to world coordinates.
func (v Viewport) ScreenToWorld(sx, sy float64) Point {
	ox, oy := v.Origin()
	return Point{
		X: (sx - ox) / v.ScaleX,
		Y: -(sy - oy) / v.ScaleY,
	}
}

// WorldToScreen converts a world point to screen coordinates.
func (v Viewport) WorldToScreen(p Point) (float64, float64) {
	ox, oy := v.Origin()
	return ox + p.X*v.ScaleX, oy - p.Y*v.ScaleY
}

// XRange returns the world x interval visible in the viewport.
func (v Viewport) XRange() (float64, float64) {
	ox, _ := v.Origin()
	return -ox / v.ScaleX, (v.Width - ox) / v.ScaleX
}

// YRange returns the world y interval visible in the viewport.
func (v Viewport) YRange() (float64, float64) {
	_, oy := v.Origin()
	return -(v.Height - oy) / v.ScaleY, oy / v.ScaleY
}

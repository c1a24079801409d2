// Package stroke turns a freehand drawing into geometric features that can
// be compared against a parabola.
package stroke

// MinPoints is the shortest stroke that can be analysed.
const MinPoints = 10

// Point is a sample in world (graph) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is a finished, time-ordered sequence of points. The x values may
// go back and forth. A Stroke never changes after construction.
type Stroke struct {
	points []Point
}

// New copies pts into a new Stroke.
func New(pts ...Point) Stroke {
	return Stroke{points: append([]Point(nil), pts...)}
}

// Len returns the number of samples.
func (s Stroke) Len() int { return len(s.points) }

// At returns the i-th sample.
func (s Stroke) At(i int) Point { return s.points[i] }

// Points returns a copy of the samples.
func (s Stroke) Points() []Point {
	return append([]Point(nil), s.points...)
}

// TooShort reports whether the stroke has fewer than MinPoints samples.
func (s Stroke) TooShort() bool {
	return len(s.points) < MinPoints
}

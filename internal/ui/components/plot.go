package components

import (
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
	"github.com/Bradwave/parabolawhat/internal/stroke"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

// Curve is one parabola drawn on a Plot.
type Curve struct {
	Q     quadratic.Quadratic
	Color color.Color
	Glyph rune
}

// Plot renders parabolas and a freehand stroke on a character grid.
// Screen units are terminal cells, so the viewport doubles as the
// drawing canvas for mouse input.
type Plot struct {
	Viewport stroke.Viewport
	Curves   []Curve
	Ink      []stroke.Point
}

// NewPlot returns a cols x rows plot showing xSpan world units across and
// ySpan world units top to bottom, centred on the origin.
func NewPlot(cols, rows int, xSpan, ySpan float64) Plot {
	return Plot{Viewport: stroke.Viewport{
		Width:  float64(cols),
		Height: float64(rows),
		ScaleX: float64(cols) / xSpan,
		ScaleY: float64(rows) / ySpan,
	}}
}

// WithCurve returns a copy of p with q added on top.
func (p Plot) WithCurve(q quadratic.Quadratic, c color.Color, glyph rune) Plot {
	p.Curves = append(append([]Curve(nil), p.Curves...), Curve{Q: q, Color: c, Glyph: glyph})
	return p
}

type cell struct {
	r     rune
	color color.Color
}

// View renders the grid.
func (p Plot) View() string {
	cols, rows := int(p.Viewport.Width), int(p.Viewport.Height)
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}

	p.drawAxes(grid)
	for _, c := range p.Curves {
		p.drawCurve(grid, c)
	}
	for _, pt := range p.Ink {
		sx, sy := p.Viewport.WorldToScreen(pt)
		setCell(grid, int(math.Floor(sx)), int(math.Floor(sy)), cell{r: '●', color: theme.Ink})
	}

	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.color == nil {
				b.WriteRune(c.r)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(c.color).Render(string(c.r)))
		}
	}
	return b.String()
}

func (p Plot) drawAxes(grid [][]cell) {
	ox, oy := p.Viewport.Origin()
	col, row := int(math.Floor(ox)), int(math.Floor(oy))
	for i := range grid {
		setCell(grid, col, i, cell{r: '│', color: theme.Axis})
	}
	for j := range grid[0] {
		r := '─'
		if j == col {
			r = '┼'
		}
		setCell(grid, j, row, cell{r: r, color: theme.Axis})
	}
}

// drawCurve samples q at each column centre and joins consecutive
// samples vertically so steep branches stay connected. Values beyond the
// visible band are pinned one row past the edge.
func (p Plot) drawCurve(grid [][]cell, c Curve) {
	rows := len(grid)
	ylo, yhi := p.Viewport.YRange()
	margin := 1 / p.Viewport.ScaleY
	prev := math.MinInt
	for col := range grid[0] {
		x := p.Viewport.ScreenToWorld(float64(col)+0.5, 0).X
		y := min(max(c.Q.Eval(x), ylo-margin), yhi+margin)
		_, sy := p.Viewport.WorldToScreen(stroke.Point{X: x, Y: y})
		row := int(math.Floor(sy))

		if prev != math.MinInt {
			lo, hi := min(prev, row), max(prev, row)
			lo, hi = max(lo, -1), min(hi, rows)
			for r := lo + 1; r < hi; r++ {
				setCell(grid, col, r, cell{r: c.Glyph, color: c.Color})
			}
		}
		setCell(grid, col, row, cell{r: c.Glyph, color: c.Color})
		prev = row
	}
}

func setCell(grid [][]cell, col, row int, c cell) {
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = c
}

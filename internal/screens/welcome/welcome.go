package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/quadratic"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/stroke"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	drawEnd      = 1500 * time.Millisecond
	totalDur     = 2500 * time.Millisecond
)

// Splash curve and the window it is drawn in.
var (
	splashCurve = quadratic.Quadratic{A: 0.5, B: 0, C: -2}
	splashSpanX = 10.0
	splashSpanY = 6.0
)

type tickMsg time.Time

// WelcomeScreen traces a parabola as a splash, then hands over to the
// home screen on the first key press.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= totalDur {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

// trace returns the part of the splash curve drawn after elapsed.
func trace(elapsed time.Duration, vp stroke.Viewport) []stroke.Point {
	frac := min(float64(elapsed)/float64(drawEnd), 1)
	lo, hi := vp.XRange()
	end := lo + (hi-lo)*frac
	step := 1 / vp.ScaleX

	var pts []stroke.Point
	for x := lo; x <= end; x += step {
		pts = append(pts, stroke.Point{X: x, Y: splashCurve.Eval(x)})
	}
	return pts
}

func (w *WelcomeScreen) View(width, height int) string {
	cols := min(max(width-10, 20), 50)
	p := components.NewPlot(cols, 9, splashSpanX, splashSpanY)
	p.Ink = trace(w.elapsed, p.Viewport)

	sections := []string{p.View()}

	if w.elapsed >= drawEnd {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Disegna, riconosci, scrivi: y = ax² + bx + c"),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("premi un tasto per continuare"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

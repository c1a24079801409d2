package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/stroke"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd {
	return nil
}

func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	return s, nil
}

func (s *stubScreen) View(int, int) string {
	return "home"
}

func (s *stubScreen) Title() string {
	return "Home"
}

func newTestWelcomeWithCounter() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()

	if strings.Contains(w.View(80, 24), "premi un tasto") {
		t.Error("hint should not be visible at start")
	}

	sendTicks(w, 15)
	if w.elapsed != drawEnd {
		t.Errorf("elapsed = %v, want %v", w.elapsed, drawEnd)
	}
	if !strings.Contains(w.View(80, 24), "premi un tasto") {
		t.Error("hint should be visible once the curve is drawn")
	}
}

func TestTicksStopAtTotal(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	if cmd := sendTicks(w, 45); cmd != nil {
		t.Error("ticking should stop after the animation")
	}
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want %v", w.elapsed, totalDur)
	}
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
}

func TestTraceGrows(t *testing.T) {
	vp := stroke.Viewport{Width: 50, Height: 9, ScaleX: 5, ScaleY: 1.5}
	if n := len(trace(0, vp)); n != 1 {
		t.Errorf("points at start = %d, want 1", n)
	}
	half, full := len(trace(drawEnd/2, vp)), len(trace(drawEnd, vp))
	if half >= full || full < 45 {
		t.Errorf("half %d, full %d", half, full)
	}
	if len(trace(2*drawEnd, vp)) != full {
		t.Error("trace should stop at the right edge")
	}
}

func TestKeypressEmitsReplaceOnce(t *testing.T) {
	w, callCount := newTestWelcomeWithCounter()
	sendTicks(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("keypress should trigger the transition")
	}
	if msg, ok := cmd().(router.ReplaceScreenMsg); !ok || msg.Screen == nil {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}

	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'b'}); cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory should be called exactly once, got %d", *callCount)
	}
}

func TestTitleEmpty(t *testing.T) {
	w, _ := newTestWelcomeWithCounter()
	if w.Title() != "" {
		t.Errorf("expected empty title, got %q", w.Title())
	}
}

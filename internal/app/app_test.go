package app

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/screens/home"
	quizscreen "github.com/Bradwave/parabolawhat/internal/screens/session"
	"github.com/Bradwave/parabolawhat/internal/screens/welcome"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
)

type probeScreen struct {
	mouse  bool
	clicks []tea.Mouse
	sizes  []tea.WindowSizeMsg
}

func (p *probeScreen) Init() tea.Cmd { return nil }
func (p *probeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseClickMsg:
		p.clicks = append(p.clicks, msg.Mouse())
	case tea.WindowSizeMsg:
		p.sizes = append(p.sizes, msg)
	}
	return p, nil
}
func (p *probeScreen) View(int, int) string { return "probe" }
func (p *probeScreen) Title() string        { return "Probe" }
func (p *probeScreen) WantsMouse() bool     { return p.mouse }

func newTestModel(s screen.Screen) AppModel {
	return AppModel{router: router.New(s)}
}

func TestMouseIsRelativeToContent(t *testing.T) {
	probe := &probeScreen{}
	m := newTestModel(probe)
	m.Update(tea.MouseClickMsg{X: 12, Y: 10, Button: tea.MouseLeft})

	if len(probe.clicks) != 1 {
		t.Fatalf("clicks = %d", len(probe.clicks))
	}
	if got := probe.clicks[0]; got.X != 12 || got.Y != 10-layout.HeaderHeight {
		t.Errorf("click at %d,%d", got.X, got.Y)
	}
}

func TestNavigationResendsSize(t *testing.T) {
	m := newTestModel(&probeScreen{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(AppModel)

	pushed := &probeScreen{}
	m.Update(router.PushScreenMsg{Screen: pushed})
	if len(pushed.sizes) != 1 || pushed.sizes[0].Width != 100 {
		t.Fatalf("pushed screen sizes = %+v", pushed.sizes)
	}
}

func TestMouseModeFollowsScreen(t *testing.T) {
	probe := &probeScreen{}
	m := newTestModel(probe)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(AppModel)

	if v := m.View(); v.MouseMode != tea.MouseModeNone {
		t.Errorf("mouse mode = %v, want none", v.MouseMode)
	}
	probe.mouse = true
	if v := m.View(); v.MouseMode != tea.MouseModeCellMotion {
		t.Errorf("mouse mode = %v, want cell motion", v.MouseMode)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(&probeScreen{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("got %T", cmd())
	}
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	gen, err := problemgen.New(problemgen.DefaultConfig(), rand.New(rand.NewPCG(2, 9)))
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	s, err := session.New(context.Background(), session.Options{Generator: gen})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s
}

func TestInitialScreen(t *testing.T) {
	s := testSession(t)

	m := newAppModel(Options{Session: s})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("default: active = %T, want splash", m.router.Active())
	}

	m = newAppModel(Options{Session: s, SkipSplash: true})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("skip splash: active = %T, want home", m.router.Active())
	}

	if err := s.Start(session.ModePickEq); err != nil {
		t.Fatalf("start: %v", err)
	}
	m = newAppModel(Options{Session: s})
	if _, ok := m.router.Active().(*quizscreen.QuizScreen); !ok {
		t.Errorf("started session: active = %T, want quiz", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want home beneath the quiz", m.router.Depth())
	}
	if s.State() != session.StateAwaitingAnswer {
		t.Errorf("state = %s, want the question presented", s.State())
	}
}

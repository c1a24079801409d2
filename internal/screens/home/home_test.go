package home

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/scoring"
	"github.com/Bradwave/parabolawhat/internal/screens/placeholder"
	quizscreen "github.com/Bradwave/parabolawhat/internal/screens/session"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func testHome(t *testing.T) (*HomeScreen, *session.Session, *store.MemoryStats) {
	t.Helper()
	gen, err := problemgen.New(problemgen.DefaultConfig(), rand.New(rand.NewPCG(3, 5)))
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	stats := &store.MemoryStats{}
	if err := stats.Save(context.Background(), session.Stats{TotalScore: 20, Attempts: 4, Correct: 2}); err != nil {
		t.Fatalf("seed stats: %v", err)
	}
	s, err := session.New(context.Background(), session.Options{
		Generator: gen,
		Policy:    scoring.DefaultPolicy(),
		Stats:     stats,
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return New(Options{Session: s}), s, stats
}

func TestHome_ViewShowsStats(t *testing.T) {
	h, _, _ := testHome(t)
	view := h.View(80, 30)
	for _, want := range []string{"ParabolaWhat", "Punteggio 20", "Risposte 4", "Corrette 2", "Cronologia"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHome_StartPushesQuiz(t *testing.T) {
	h, s, _ := testHome(t)

	_, cmd := h.Update(keyPress('4'))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("msg = %T, want PushScreenMsg", cmd())
	}
	if _, ok := push.Screen.(*quizscreen.QuizScreen); !ok {
		t.Errorf("pushed %T, want *QuizScreen", push.Screen)
	}
	if s.Mode() != session.ModeTypeEq || s.State() == session.StateMenu {
		t.Errorf("session mode %q state %s", s.Mode(), s.State())
	}
}

func TestHome_HistoryWithoutDatabase(t *testing.T) {
	h, _, _ := testHome(t)

	_, cmd := h.Update(keyPress('6'))
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*placeholder.PlaceholderScreen); !ok {
		t.Errorf("pushed %T, want placeholder", push.Screen)
	}
}

func TestHome_ResetConfirm(t *testing.T) {
	h, s, stats := testHome(t)

	h.Update(keyPress('7'))
	if !strings.Contains(h.View(80, 30), resetQuestion) {
		t.Fatal("expected the confirmation dialog")
	}

	h.Update(keyPress('n'))
	if s.Stats().TotalScore != 20 {
		t.Fatal("cancel must keep the stats")
	}

	h.Update(keyPress('7'))
	h.Update(keyPress('s'))
	if s.Stats() != (session.Stats{}) {
		t.Errorf("stats = %+v, want zero", s.Stats())
	}
	if saved, _ := stats.Load(context.Background()); saved != (session.Stats{}) {
		t.Errorf("saved stats = %+v, want zero", saved)
	}
	if !strings.Contains(h.View(80, 30), "Statistiche azzerate.") {
		t.Error("expected the reset notice")
	}
}

func TestHome_QuitKeys(t *testing.T) {
	h, _, _ := testHome(t)
	for _, r := range []rune{'q', '8'} {
		_, cmd := h.Update(keyPress(r))
		if cmd == nil {
			t.Fatalf("%q: expected quit", r)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%q: msg = %T, want QuitMsg", r, cmd())
		}
	}
}

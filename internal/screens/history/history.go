package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/store"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

// recentLimit caps the answers listed.
const recentLimit = 50

// Source is the answer log the screen reads. *store.AnswerRepo
// satisfies it.
type Source interface {
	Recent(ctx context.Context, opts store.QueryOpts) ([]store.AnswerRecord, error)
	TallyByMode(ctx context.Context) ([]store.ModeTally, error)
}

type historyLoadedMsg struct {
	Answers []store.AnswerRecord
	Tallies []store.ModeTally
	Err     error
}

// HistoryScreen lists recent answers and a per-mode breakdown.
type HistoryScreen struct {
	source   Source
	answers  []store.AnswerRecord
	tallies  []store.ModeTally
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		ctx := context.Background()

		answers, err := src.Recent(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		tallies, err := src.TallyByMode(ctx)
		if err != nil {
			return historyLoadedMsg{Answers: answers}
		}
		return historyLoadedMsg{Answers: answers, Tallies: tallies}
	}
}

func (s *HistoryScreen) Title() string {
	return "Cronologia"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Invio", Description: "Dettagli"},
		{Key: "↑↓", Description: "Scorri"},
		{Key: "Esc", Description: "Indietro"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.answers = msg.Answers
			s.tallies = msg.Tallies
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.answers)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nErrore: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Caricamento...")
	}
	if len(s.answers) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  Nessuna risposta ancora. Inizia a giocare!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, t := range s.tallies {
		line := fmt.Sprintf("%s  %d/%d corrette  %d punti",
			runewidth.FillRight(t.Mode.DisplayName(), 20), t.Correct, t.Answered, t.Points)
		b.WriteString(center(theme.Body.Render(line)))
		b.WriteString("\n")
	}
	if len(s.tallies) > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))))
		b.WriteString("\n")
	}

	// Keep the selection on screen.
	rows := max(height-len(s.tallies)-3, 3)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}

	for i := start; i < len(s.answers) && i < start+rows; i++ {
		a := s.answers[i]
		mark := theme.Incorrect.Render("✗")
		if a.Correct {
			mark = theme.Correct.Render("✓")
		}
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s  %s  %s",
			prefix,
			a.Timestamp.Format("02/01 15:04"),
			runewidth.FillRight(a.Mode.DisplayName(), 20),
			runewidth.FillRight(runewidth.Truncate("y = "+a.Question, 24, "…"), 24))

		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(center(style.Render(line) + " " + mark))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    Risposta: %s   Punti: %d   Tempo: %.1fs",
				runewidth.Truncate(a.Answer, 40, "…"), a.Points, a.Duration.Seconds())
			b.WriteString(center(theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

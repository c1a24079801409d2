package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

// SummaryScreen shows what was played in one mode.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Riepilogo"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Invio", Description: "Menu"},
		{Key: "Esc", Description: "Menu"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "space", " ":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center(theme.Title.Render("Partita terminata!")))
	b.WriteString("\n")
	if sum.Mode != "" {
		b.WriteString(center(theme.Subtitle.Render(sum.Mode.DisplayName())))
	}
	b.WriteString("\n\n")

	if sum.Answered == 0 {
		b.WriteString(center(theme.Hint.Render("Nessuna risposta data.")))
		return b.String()
	}

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint.Render(fmt.Sprintf("Durata: %d:%02d", mins, secs))))
	b.WriteString("\n\n")

	line := fmt.Sprintf("Risposte: %d        Corrette: %d        Punti: %d",
		sum.Answered, sum.Correct, sum.Points)
	b.WriteString(center(theme.Body.Render(line)))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Precisione", int(sum.Accuracy()*100+0.5), min(width-8, 60))
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	if sum.BestStreak > 0 {
		b.WriteString(center(lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Render(fmt.Sprintf("Serie migliore: %d", sum.BestStreak))))
		b.WriteString("\n")
	}
	return b.String()
}

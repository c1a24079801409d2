package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/quadratic"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/screens/history"
	"github.com/Bradwave/parabolawhat/internal/screens/placeholder"
	quizscreen "github.com/Bradwave/parabolawhat/internal/screens/session"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

const resetQuestion = "Sei sicuro di voler resettare le statistiche?"

// Options wires the home screen. History and Explainer may be nil.
type Options struct {
	Session   *session.Session
	History   history.Source
	Explainer *explain.Service
}

// HomeScreen is the mode menu with the lifetime stats card.
type HomeScreen struct {
	sess         *session.Session
	history      history.Source
	explainer    *explain.Service
	menu         components.Menu
	confirmReset bool
	notice       string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{
		sess:      opts.Session,
		history:   opts.History,
		explainer: opts.Explainer,
	}

	var items []components.MenuItem
	for _, m := range append(append([]session.Mode(nil), session.Modes...), session.ModeRandom) {
		items = append(items, components.MenuItem{
			Label:  m.DisplayName(),
			Hint:   modeHint(m),
			Action: func() tea.Cmd { return h.start(m) },
		})
	}
	items = append(items,
		components.MenuItem{Label: "Cronologia", Action: h.openHistory},
		components.MenuItem{Label: "Azzera statistiche", Action: func() tea.Cmd {
			h.confirmReset = true
			h.notice = ""
			return nil
		}},
		components.MenuItem{Label: "Esci", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
	return h
}

func modeHint(m session.Mode) string {
	switch m {
	case session.ModeDrawPlot:
		return "con il mouse"
	case session.ModePickPlot:
		return "4 grafici"
	case session.ModePickEq:
		return "4 equazioni"
	case session.ModeTypeEq:
		return "es. -x^2 + 2x - 3"
	case session.ModeRandom:
		return "una modalità a sorpresa"
	}
	return ""
}

// start leaves any stale round and opens the quiz in mode.
func (h *HomeScreen) start(mode session.Mode) tea.Cmd {
	if h.sess.State() != session.StateMenu {
		h.sess.Exit()
	}
	if err := h.sess.Start(mode); err != nil {
		h.notice = "Impossibile iniziare: " + err.Error()
		return nil
	}
	h.notice = ""
	quiz := quizscreen.New(h.sess, h.explainer)
	return func() tea.Msg { return router.PushScreenMsg{Screen: quiz} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	var next screen.Screen
	if h.history == nil {
		next = placeholder.New("Cronologia", "La cronologia richiede un database.\nAvvia senza --memory per salvarla.")
	} else {
		next = history.New(h.history)
	}
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Menu"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.confirmReset {
		return []layout.KeyHint{
			{Key: "S", Description: "Azzera"},
			{Key: "N", Description: "Annulla"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scorri"},
		{Key: "Invio", Description: "Scegli"},
		{Key: "1-8", Description: "Scelta rapida"},
		{Key: "Ctrl+C", Description: "Esci"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if h.confirmReset {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			switch kmsg.String() {
			case "s", "S", "y", "Y":
				h.confirmReset = false
				if err := h.sess.ResetStats(context.Background()); err != nil {
					h.notice = "Salvataggio non riuscito: " + err.Error()
				} else {
					h.notice = "Statistiche azzerate."
				}
			case "n", "N", "esc":
				h.confirmReset = false
			}
		}
		return h, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && (kmsg.String() == "q" || kmsg.String() == "esc") {
		return h, tea.Quit
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	if h.confirmReset {
		dialog := theme.Dialog.Render(
			theme.Title.Render(resetQuestion) + "\n\n" +
				lipgloss.NewStyle().Foreground(theme.Error).Render("[S] Sì, azzera") + "\n" +
				lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, annulla"))
		return layout.Center(dialog, width, height)
	}

	cw := min(max(width-6, 20), 60)
	compact := height < 26

	var sections []string
	sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Title.Render("ParabolaWhat")+"\n"+theme.Subtitle.Render("Impara a leggere le parabole")))
	if !compact {
		logo := components.NewPlot(cw-4, 7, 6, 4).
			WithCurve(quadratic.Quadratic{A: 0.5, C: -1.5}, theme.Curve, '•')
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(logo.View()))
	}
	sections = append(sections, renderStatsCard(h.sess.Stats(), cw))
	sections = append(sections, h.menu.View())
	if h.notice != "" {
		sections = append(sections, theme.Hint.Render(h.notice))
	}

	return layout.Center(strings.Join(sections, "\n"), width, height)
}

func renderStatsCard(st session.Stats, cw int) string {
	line := fmt.Sprintf("%s   %s   %s",
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("Punteggio %d", st.TotalScore)),
		theme.Body.Render(fmt.Sprintf("Risposte %d", st.Attempts)),
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("Corrette %d", st.Correct)))
	bar := components.NewProgressBar("Precisione", st.Accuracy(), cw-6)
	return theme.Card.Width(cw).Render(line + "\n" + bar.View())
}

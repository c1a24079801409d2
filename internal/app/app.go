package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/screens/history"
	"github.com/Bradwave/parabolawhat/internal/screens/home"
	quizscreen "github.com/Bradwave/parabolawhat/internal/screens/session"
	"github.com/Bradwave/parabolawhat/internal/screens/welcome"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
)

// Options holds dependencies for the TUI.
type Options struct {
	Session   *session.Session
	History   history.Source
	Explainer *explain.Service

	// SkipSplash opens the menu directly. A session that is already
	// started opens straight into the quiz, with the menu beneath it.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   *session.Session
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the splash screen.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(home.Options{
			Session:   opts.Session,
			History:   opts.History,
			Explainer: opts.Explainer,
		})
	}

	var r *router.Router
	switch {
	case opts.Session != nil && opts.Session.State() != session.StateMenu:
		r = router.New(homeFactory())
		r.Push(quizscreen.New(opts.Session, opts.Explainer))
	case opts.SkipSplash:
		r = router.New(homeFactory())
	default:
		r = router.New(welcome.New(homeFactory))
	}
	return AppModel{
		router: r,
		sess:   opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Update(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.sess != nil && m.sess.State() != session.StateMenu {
				m.sess.Exit()
			}
			return m, tea.Quit
		}

	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		// The new top screen has not seen the terminal size yet.
		cmd := m.router.Update(msg)
		if m.width > 0 {
			cmd = tea.Batch(cmd, m.router.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height}))
		}
		return m, cmd

	// Mouse positions are made relative to the content area.
	case tea.MouseClickMsg:
		return m, m.router.Update(tea.MouseClickMsg(contentMouse(msg.Mouse())))
	case tea.MouseMotionMsg:
		return m, m.router.Update(tea.MouseMotionMsg(contentMouse(msg.Mouse())))
	case tea.MouseReleaseMsg:
		return m, m.router.Update(tea.MouseReleaseMsg(contentMouse(msg.Mouse())))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func contentMouse(mouse tea.Mouse) tea.Mouse {
	mouse.Y -= layout.HeaderHeight
	return mouse
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}
	if mc, ok := active.(screen.MouseCapturer); ok && mc.WantsMouse() {
		v.MouseMode = tea.MouseModeCellMotion
	}

	var info layout.HeaderInfo
	if m.sess != nil {
		info = layout.HeaderInfo{Score: m.sess.Stats().TotalScore, Streak: m.sess.Streak()}
	}
	header := layout.RenderHeader(title, info, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Indietro"},
			{Key: "Ctrl+C", Description: "Esci"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Esci"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Errore:", err)
		return err
	}
	return nil
}

package session

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/router"
	"github.com/Bradwave/parabolawhat/internal/screen"
	"github.com/Bradwave/parabolawhat/internal/screens/summary"
	sess "github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/stroke"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/layout"
)

const (
	msgStrokeTooShort = "Tratto troppo corto, riprova."
	msgExplaining     = "Il tutor sta scrivendo..."
)

// QuizScreen plays rounds of one mode until the player leaves.
type QuizScreen struct {
	sess      *sess.Session
	explainer *explain.Service

	width, height int

	input   components.TextInput
	choices components.MultiChoice
	capture *stroke.Capture
	ink     []stroke.Point

	showSolution bool
	confirmQuit  bool
	explaining   bool
	explanation  *explain.Explanation
	notice       string

	showExplanation bool
	errMsg          string

	// scored counts scored answers; brushChain counts mouse presses.
	scored     int
	brushChain int
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.MouseCapturer   = (*QuizScreen)(nil)
)

// New returns the quiz screen for a session that has already been
// started. explainer may be nil.
func New(s *sess.Session, explainer *explain.Service) *QuizScreen {
	q := &QuizScreen{
		sess:      s,
		explainer: explainer,
		width:     layout.MinWidth,
		height:    layout.ContentHeight(layout.MinHeight),
	}
	q.capture = stroke.NewCapture(q.canvas().Viewport)
	q.resetRound()
	return q
}

func (q *QuizScreen) Init() tea.Cmd {
	if q.sess.State() == sess.StateQuestionLoaded {
		if err := q.sess.Present(); err != nil {
			q.errMsg = err.Error()
			return nil
		}
	}
	return q.input.Init()
}

func (q *QuizScreen) Title() string {
	return q.sess.Mode().DisplayName()
}

// WantsMouse is true while a drawing round is on screen.
func (q *QuizScreen) WantsMouse() bool {
	return q.sess.Mode() == sess.ModeDrawPlot
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	if q.confirmQuit {
		return []layout.KeyHint{
			{Key: "S", Description: "Termina"},
			{Key: "N", Description: "Continua"},
		}
	}
	if q.sess.State() == sess.StateScored {
		hints := []layout.KeyHint{{Key: "Invio", Description: "Prossima"}}
		if q.canRetry() {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Riprova"})
		}
		if q.hasSolutionOverlay() {
			hints = append(hints, layout.KeyHint{Key: "S", Description: "Soluzione"})
		}
		if q.canExplain() {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "Spiegami"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Menu"})
	}

	switch q.sess.Mode() {
	case sess.ModeDrawPlot:
		return []layout.KeyHint{
			{Key: "Mouse", Description: "Disegna"},
			{Key: "Esc", Description: "Menu"},
		}
	case sess.ModeTypeEq:
		return []layout.KeyHint{
			{Key: "Invio", Description: "Conferma"},
			{Key: "Esc", Description: "Menu"},
		}
	}
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Scegli"},
		{Key: "A-D", Description: "Rispondi"},
		{Key: "Esc", Description: "Menu"},
	}
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		q.width = msg.Width
		q.height = layout.ContentHeight(msg.Height)
		q.capture.SetViewport(q.canvas().Viewport)
		if r, ok := q.sess.Round().(*sess.PickPlotRound); ok {
			q.choices.Options = q.plotOptions(r.Options())
		}
		return q, nil

	case tea.MouseClickMsg:
		return q.handleMouseDown(msg.Mouse())
	case tea.MouseMotionMsg:
		c := q.canvas()
		m := msg.Mouse()
		q.capture.Move(c.local(m.X, m.Y))
		return q, nil
	case tea.MouseReleaseMsg:
		return q.handleMouseUp()

	case brushTickMsg:
		if msg.chain != q.brushChain || !q.capture.Active() {
			return q, nil
		}
		q.capture.Tick()
		q.ink = q.capture.Samples()
		return q, brushTick(msg.chain)

	case explainDoneMsg:
		if msg.scored != q.scored || q.sess.State() != sess.StateScored {
			return q, nil
		}
		q.explaining = false
		if msg.Err != nil {
			q.notice = explainErrorText(msg.Err)
			return q, nil
		}
		q.notice = ""
		q.explanation = msg.Explanation
		q.showExplanation = true
		return q, nil

	case tea.KeyMsg:
		return q.handleKey(msg)
	}

	if q.sess.Mode() == sess.ModeTypeEq && q.sess.State() == sess.StateAwaitingAnswer {
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd
	}
	return q, nil
}

func (q *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if q.errMsg != "" {
		return q.exit()
	}

	if q.confirmQuit {
		switch key {
		case "s", "S", "y", "Y":
			q.confirmQuit = false
			return q.exit()
		case "n", "N", "esc":
			q.confirmQuit = false
		}
		return q, nil
	}

	if key == "esc" {
		if q.sess.State() == sess.StateScored {
			return q.exit()
		}
		q.capture.Reset()
		q.confirmQuit = true
		return q, nil
	}

	if q.sess.State() == sess.StateScored {
		return q.handleScoredKey(key)
	}
	if q.sess.State() != sess.StateAwaitingAnswer {
		return q, nil
	}

	switch q.sess.Mode() {
	case sess.ModeTypeEq:
		if key == "enter" {
			return q.submitText()
		}
		var cmd tea.Cmd
		q.input, cmd = q.input.Update(msg)
		return q, cmd

	case sess.ModePickPlot, sess.ModePickEq:
		var chosen bool
		q.choices, chosen = q.choices.Update(msg)
		if chosen {
			return q.submitChoice(q.choices.Chosen)
		}
	}
	return q, nil
}

func (q *QuizScreen) handleScoredKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter", "n", "N", "space", " ":
		if err := q.sess.Next(); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		if err := q.sess.Present(); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		q.resetRound()
		return q, q.input.Init()

	case "r", "R":
		if !q.canRetry() {
			return q, nil
		}
		if err := q.sess.Retry(); err != nil {
			q.errMsg = err.Error()
			return q, nil
		}
		q.afterScore()
		q.ink = nil
		return q, q.input.Reset()

	case "s", "S":
		if q.hasSolutionOverlay() {
			q.showSolution = !q.showSolution
		}

	case "e", "E":
		if q.explanation != nil {
			q.showExplanation = !q.showExplanation
			return q, nil
		}
		if q.canExplain() && !q.explaining {
			q.explaining = true
			q.notice = msgExplaining
			return q, q.explainCmd()
		}
	}
	return q, nil
}

func (q *QuizScreen) handleMouseDown(m tea.Mouse) (screen.Screen, tea.Cmd) {
	if q.sess.Mode() != sess.ModeDrawPlot || q.sess.State() != sess.StateAwaitingAnswer || q.confirmQuit {
		return q, nil
	}
	if m.Button != tea.MouseLeft {
		return q, nil
	}
	c := q.canvas()
	if !c.contains(m.X, m.Y) {
		return q, nil
	}
	q.notice = ""
	q.capture.Begin(c.local(m.X, m.Y))
	q.ink = q.capture.Samples()
	q.brushChain++
	return q, brushTick(q.brushChain)
}

func (q *QuizScreen) handleMouseUp() (screen.Screen, tea.Cmd) {
	if !q.capture.Active() {
		return q, nil
	}
	st := q.capture.Finish()
	q.ink = st.Points()

	_, err := q.sess.SubmitStroke(context.Background(), st)
	switch {
	case errors.Is(err, sess.ErrStrokeTooShort):
		q.notice = msgStrokeTooShort
		q.ink = nil
		return q, nil
	case err != nil:
		q.errMsg = err.Error()
		return q, nil
	}
	q.afterScore()
	return q, nil
}

func (q *QuizScreen) submitText() (screen.Screen, tea.Cmd) {
	out, err := q.sess.SubmitText(context.Background(), q.input.Value())
	if err != nil {
		q.errMsg = err.Error()
		return q, nil
	}
	q.input.Submit(out.Correct)
	q.afterScore()
	return q, nil
}

func (q *QuizScreen) submitChoice(i int) (screen.Screen, tea.Cmd) {
	out, err := q.sess.SubmitChoice(context.Background(), i)
	if err != nil {
		q.errMsg = err.Error()
		return q, nil
	}
	if out.Choice != nil {
		q.choices.Reveal(out.Choice.Correct)
	}
	q.afterScore()
	return q, nil
}

func (q *QuizScreen) afterScore() {
	q.scored++
	q.explaining = false
	q.notice = ""
	q.explanation = nil
	q.showExplanation = false
	q.showSolution = false
}

// resetRound prepares the widgets for the round now on screen.
func (q *QuizScreen) resetRound() {
	q.ink = nil
	q.capture.Reset()
	q.afterScore()
	q.input = components.NewTextInput("ax² + bx + c", 32)

	switch r := q.sess.Round().(type) {
	case *sess.PickPlotRound:
		q.choices = components.NewMultiChoice(q.plotOptions(r.Options()), 2)
	case *sess.PickEqRound:
		labels := make([]string, 0, len(r.Options()))
		for _, o := range r.Options() {
			labels = append(labels, o.Text)
		}
		q.choices = components.NewMultiChoice(labels, len(labels))
	}
}

func (q *QuizScreen) canRetry() bool {
	out, ok := q.sess.Last()
	return ok && !out.Correct && q.sess.Mode().AllowsRetry()
}

func (q *QuizScreen) canExplain() bool {
	out, ok := q.sess.Last()
	return ok && !out.Correct && q.explainer.Enabled()
}

// hasSolutionOverlay reports whether the round has a hidden answer the
// player can reveal. Multiple choice reveals it on its own.
func (q *QuizScreen) hasSolutionOverlay() bool {
	m := q.sess.Mode()
	return m == sess.ModeDrawPlot || m == sess.ModeTypeEq
}

func (q *QuizScreen) explainCmd() tea.Cmd {
	out, _ := q.sess.Last()
	in := explain.InputFromOutcome(q.sess.Round().Question(), q.sess.Mode(), out)
	svc := q.explainer
	scored := q.scored
	return func() tea.Msg {
		exp, err := svc.Explain(context.Background(), in)
		return explainDoneMsg{Explanation: exp, Err: err, scored: scored}
	}
}

func (q *QuizScreen) exit() (screen.Screen, tea.Cmd) {
	q.capture.Reset()
	sum := q.sess.Exit()
	return q, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func explainErrorText(err error) string {
	switch {
	case errors.Is(err, explain.ErrUnavailable):
		return "Spiegazioni non disponibili."
	case errors.Is(err, context.DeadlineExceeded):
		return "Il tutor non ha risposto in tempo."
	}
	return "Spiegazione non riuscita, riprova più tardi."
}

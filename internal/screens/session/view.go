package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/equation"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	sess "github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

// World window shown by every plot, centred on the origin.
const (
	worldSpanX = 12.0
	worldSpanY = 12.0
)

// Rows above the main plot: info line, rule, prompt and a blank line.
const bodyTop = 4

// canvas is the main plot and where it sits in the content area.
type canvas struct {
	components.Plot
	x0, y0 int
}

// local converts a content-area cell to plot screen units, aiming at
// the centre of the cell.
func (c canvas) local(x, y int) (float64, float64) {
	return float64(x-c.x0) + 0.5, float64(y-c.y0) + 0.5
}

func (c canvas) contains(x, y int) bool {
	return x >= c.x0 && x < c.x0+int(c.Viewport.Width) &&
		y >= c.y0 && y < c.y0+int(c.Viewport.Height)
}

// canvas computes the main plot geometry. Rows below it are kept free
// for the answer widgets and feedback of the current mode.
func (q *QuizScreen) canvas() canvas {
	reserve := 4
	switch q.sess.Mode() {
	case sess.ModeTypeEq:
		reserve = 6
	case sess.ModePickEq:
		reserve = 7
	}
	cols := min(max(q.width-8, 20), 61)
	rows := min(max(q.height-bodyTop-2-reserve, 5), 21)
	return canvas{
		Plot: components.NewPlot(cols, rows, worldSpanX, worldSpanY),
		x0:   (q.width-(cols+2))/2 + 1,
		y0:   bodyTop + 1,
	}
}

// plotOptions renders each option of a pick-plot round as a small plot
// sized for a 2x2 grid.
func (q *QuizScreen) plotOptions(opts []problemgen.Question) []string {
	cellWidth := q.choiceCellWidth(2)
	cols := max(cellWidth-4, 8)
	avail := q.height - bodyTop - 2
	rows := max(avail/2-3, 3)

	views := make([]string, 0, len(opts))
	for _, o := range opts {
		p := components.NewPlot(cols, rows, worldSpanX, worldSpanY).
			WithCurve(o.Coeffs, theme.Curve, '•')
		views = append(views, p.View())
	}
	return views
}

func (q *QuizScreen) choiceCellWidth(columns int) int {
	return max((q.width-4)/columns, 10)
}

func (q *QuizScreen) View(width, height int) string {
	if q.errMsg != "" {
		return renderError(width, q.errMsg)
	}
	if q.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	r := q.sess.Round()
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(q.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")
	b.WriteString(q.renderPrompt(width))
	b.WriteString("\n\n")

	if q.showExplanation && q.explanation != nil {
		b.WriteString(q.renderExplanation(width))
		return b.String()
	}

	switch q.sess.Mode() {
	case sess.ModeDrawPlot:
		b.WriteString(q.renderCanvas())
	case sess.ModeTypeEq:
		b.WriteString(q.renderCanvas())
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q.input.View()))
	case sess.ModePickPlot:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q.choices.View(q.choiceCellWidth(2))))
	case sess.ModePickEq:
		b.WriteString(q.renderCanvas())
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, q.choices.View(q.choiceCellWidth(4))))
	}

	b.WriteString("\n")
	b.WriteString(q.renderFeedback(width))
	return b.String()
}

func (q *QuizScreen) renderInfoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + q.sess.Mode().DisplayName())

	st := q.sess.Stats()
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Risposte %d  Corrette %d  Precisione %d%%", st.Attempts, st.Correct, st.Accuracy()))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderPrompt states the task. Modes that show the curve keep its
// equation hidden.
func (q *QuizScreen) renderPrompt(width int) string {
	prompt := q.sess.Mode().Prompt()
	switch q.sess.Mode() {
	case sess.ModeDrawPlot, sess.ModePickPlot:
		prompt += "  " + theme.Equation.Render(q.sess.Round().Question().Equation())
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Body.Render(prompt))
}

func (q *QuizScreen) renderCanvas() string {
	c := q.canvas()
	question := q.sess.Round().Question()
	scored := q.sess.State() == sess.StateScored

	p := c.Plot
	switch q.sess.Mode() {
	case sess.ModeDrawPlot:
		p.Ink = q.ink
		if scored && q.showSolution {
			p = p.WithCurve(question.Coeffs, theme.Answer, '•')
		}
	case sess.ModeTypeEq:
		p = p.WithCurve(question.Coeffs, theme.Curve, '•')
		if scored {
			if guess := equation.Parse(q.input.Value()).Quadratic(); guess.A != 0 {
				p = p.WithCurve(guess, theme.Ink, '∙')
			}
		}
	default:
		p = p.WithCurve(question.Coeffs, theme.Curve, '•')
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(p.View())
	return lipgloss.NewStyle().MarginLeft(c.x0 - 1).Render(box)
}

func (q *QuizScreen) renderFeedback(width int) string {
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
	}

	var lines []string
	if out, ok := q.sess.Last(); ok {
		if out.Correct {
			head := "Corretto!"
			if len(out.Messages) > 0 {
				head = out.Messages[0]
			}
			if out.Points > 0 {
				head += fmt.Sprintf("  +%d punti", out.Points)
			}
			lines = append(lines, center(theme.Correct.Render(head)))
		} else {
			lines = append(lines, center(theme.Incorrect.Render(strings.Join(out.Messages, "  ·  "))))
		}
		if q.showSolution && q.sess.Mode() == sess.ModeTypeEq {
			lines = append(lines, center(theme.Equation.Render("Soluzione: "+q.sess.Round().Question().Equation())))
		}
	}
	if q.notice != "" {
		lines = append(lines, center(theme.Hint.Render(q.notice)))
	}
	return strings.Join(lines, "\n")
}

func (q *QuizScreen) renderExplanation(width int) string {
	e := q.explanation
	body := theme.Body.Width(min(width-12, 70)).Render(e.Text)
	if e.Tip != "" {
		body += "\n\n" + theme.Hint.Width(min(width-12, 70)).Render("Suggerimento: "+e.Tip)
	}
	card := theme.Card.Render(theme.Subtitle.Render("Spiegazione") + "\n\n" + body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Terminare la partita?"))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Le statistiche sono già salvate."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render("[S] Sì, torna al menu"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, continua"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Dialog.Render(b.String()))
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Errore: %s\n\n  Premi un tasto per tornare al menu.", errMsg))
}

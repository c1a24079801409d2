package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/ui/components"
	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

const (
	worldSpan = 12.0

	linePlotCols = 41
	linePlotRows = 15

	lineOptionCols = 23
	lineOptionRows = 9
)

// lineModes are the modes that can be answered from a keyboard alone.
var lineModes = []session.Mode{session.ModePickPlot, session.ModePickEq, session.ModeTypeEq}

var errNeedsMouse = errors.New("la modalità draw-plot richiede il mouse: usa 'parabolawhat play' in un terminale")

// lineQuiz plays rounds on a plain reader/writer pair, one answer per
// line. It works without a tty, so it serves pipes and scripted input.
type lineQuiz struct {
	sess   *session.Session
	in     *bufio.Scanner
	out    io.Writer
	rounds int
	rng    *rand.Rand
}

func newLineQuiz(sess *session.Session, in io.Reader, out io.Writer, rounds int) *lineQuiz {
	return &lineQuiz{
		sess:   sess,
		in:     bufio.NewScanner(in),
		out:    colorprofile.NewWriter(out, os.Environ()),
		rounds: rounds,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// run plays until rounds are exhausted (0 means unlimited), the input
// ends or the player types "q".
func (l *lineQuiz) run(ctx context.Context, mode session.Mode) error {
	switch mode {
	case session.ModeDrawPlot:
		return errNeedsMouse
	case session.ModeRandom:
		mode = lineModes[l.rng.IntN(len(lineModes))]
	}
	if err := l.sess.Start(mode); err != nil {
		return err
	}

	fmt.Fprintf(l.out, "%s\n%s\n\n", mode.DisplayName(), mode.Prompt())
	for i := 1; l.rounds == 0 || i <= l.rounds; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := l.sess.Present(); err != nil {
			return err
		}
		fmt.Fprintf(l.out, "── Domanda %d ──\n", i)
		out, ok, err := l.play()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		l.feedback(out)
		if err := l.sess.Next(); err != nil {
			return err
		}
	}

	l.summary(l.sess.Exit())
	return nil
}

// play renders the current round and reads one answer. ok is false when
// the player quit or the input ended.
func (l *lineQuiz) play() (session.Outcome, bool, error) {
	ctx := context.Background()
	switch r := l.sess.Round().(type) {
	case *session.PickEqRound:
		fmt.Fprintln(l.out, bigPlot(r.Question()))
		for i, o := range r.Options() {
			fmt.Fprintf(l.out, "  %c) %s\n", 'A'+i, o.Equation())
		}
		return l.choose(ctx, len(r.Options()))

	case *session.PickPlotRound:
		fmt.Fprintln(l.out, r.Question().Equation())
		fmt.Fprintln(l.out, optionGrid(r.Options()))
		return l.choose(ctx, len(r.Options()))

	case *session.TypeRound:
		fmt.Fprintln(l.out, bigPlot(r.Question()))
		line, ok := l.ask("y = ")
		if !ok {
			return session.Outcome{}, false, nil
		}
		out, err := l.sess.SubmitText(ctx, line)
		return out, true, err
	}
	return session.Outcome{}, false, errNeedsMouse
}

func (l *lineQuiz) choose(ctx context.Context, n int) (session.Outcome, bool, error) {
	for {
		line, ok := l.ask("Risposta (A-D): ")
		if !ok {
			return session.Outcome{}, false, nil
		}
		idx, valid := parseChoice(line, n)
		if !valid {
			fmt.Fprintln(l.out, "Scelta non valida.")
			continue
		}
		out, err := l.sess.SubmitChoice(ctx, idx)
		return out, true, err
	}
}

// ask prints prompt and reads a trimmed line. "q" counts as quitting.
func (l *lineQuiz) ask(prompt string) (string, bool) {
	fmt.Fprint(l.out, prompt)
	if !l.in.Scan() {
		fmt.Fprintln(l.out)
		return "", false
	}
	line := strings.TrimSpace(l.in.Text())
	if strings.EqualFold(line, "q") {
		return "", false
	}
	return line, true
}

func (l *lineQuiz) feedback(out session.Outcome) {
	if out.Correct {
		fmt.Fprintln(l.out, "Corretto!")
	} else {
		fmt.Fprintln(l.out, strings.Join(out.Messages, " · "))
	}
	if out.Points > 0 {
		fmt.Fprintf(l.out, "+%d punti\n", out.Points)
	}
	switch {
	case out.Choice != nil && !out.Correct:
		fmt.Fprintf(l.out, "Risposta giusta: %c\n", 'A'+out.Choice.Correct)
	case out.Text != nil && !out.Correct:
		fmt.Fprintf(l.out, "Soluzione: %s\n", l.sess.Round().Question().Equation())
	}
	fmt.Fprintln(l.out)
}

func (l *lineQuiz) summary(s session.Summary) {
	if s.Answered == 0 {
		fmt.Fprintln(l.out, "Nessuna risposta data.")
		return
	}
	fmt.Fprintf(l.out, "Risposte: %d  Corrette: %d  Punti: %d  Precisione: %.0f%%\n",
		s.Answered, s.Correct, s.Points, s.Accuracy()*100)
}

// parseChoice accepts a letter (A-D) or a 1-based number.
func parseChoice(s string, n int) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	var idx int
	switch {
	case c >= 'a' && c <= 'z':
		idx = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		idx = int(c - 'A')
	case c >= '1' && c <= '9':
		idx = int(c - '1')
	default:
		return 0, false
	}
	return idx, idx < n
}

func bigPlot(q problemgen.Question) string {
	return components.NewPlot(linePlotCols, linePlotRows, worldSpan, worldSpan).
		WithCurve(q.Coeffs, theme.Curve, '•').
		View()
}

// optionGrid lays the options out two per row, each labelled.
func optionGrid(opts []problemgen.Question) string {
	cells := make([]string, len(opts))
	for i, o := range opts {
		p := components.NewPlot(lineOptionCols, lineOptionRows, worldSpan, worldSpan).
			WithCurve(o.Coeffs, theme.Curve, '•')
		cells[i] = lipgloss.JoinVertical(lipgloss.Center, fmt.Sprintf("%c)", 'A'+i), p.View())
	}
	var rows []string
	for i := 0; i < len(cells); i += 2 {
		end := min(i+2, len(cells))
		row := make([]string, 0, 3)
		for j, c := range cells[i:end] {
			if j > 0 {
				row = append(row, "   ")
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

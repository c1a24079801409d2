package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

// ChoiceLabels names the options in display order.
var ChoiceLabels = []string{"A", "B", "C", "D"}

// MultiChoice lays out up to four options in a grid and lets the player
// pick one with the arrows, the letters A-D or the digits 1-4. Options
// may span several lines, e.g. small plots.
type MultiChoice struct {
	Options []string
	Columns int

	Selected  int
	Submitted bool
	Chosen    int

	// Correct is revealed after submission; -1 while unknown.
	Correct int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string, columns int) MultiChoice {
	if columns < 1 {
		columns = 1
	}
	return MultiChoice{
		Options: options,
		Columns: columns,
		Chosen:  -1,
		Correct: -1,
	}
}

// Update handles navigation. It returns true in the second result when
// the player has just made a choice.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Submitted {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	n := len(m.Options)
	switch key := strings.ToLower(kmsg.String()); key {
	case "left", "h":
		if m.Selected > 0 {
			m.Selected--
		}
	case "right", "l":
		if m.Selected < n-1 {
			m.Selected++
		}
	case "up", "k":
		if m.Selected-m.Columns >= 0 {
			m.Selected -= m.Columns
		}
	case "down", "j":
		if m.Selected+m.Columns < n {
			m.Selected += m.Columns
		}
	case "enter", "space", " ":
		return m.choose(m.Selected), true
	default:
		if i := choiceIndex(key); i >= 0 && i < n {
			return m.choose(i), true
		}
	}
	return m, false
}

func choiceIndex(key string) int {
	switch key {
	case "a", "1":
		return 0
	case "b", "2":
		return 1
	case "c", "3":
		return 2
	case "d", "4":
		return 3
	}
	return -1
}

func (m MultiChoice) choose(i int) MultiChoice {
	m.Selected = i
	m.Chosen = i
	m.Submitted = true
	return m
}

// Reveal marks the right option after scoring.
func (m *MultiChoice) Reveal(correct int) {
	m.Correct = correct
}

// View renders the options as cells of cellWidth columns.
func (m MultiChoice) View(cellWidth int) string {
	var rows []string
	for start := 0; start < len(m.Options); start += m.Columns {
		end := min(start+m.Columns, len(m.Options))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.cell(i, cellWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m MultiChoice) cell(i, width int) string {
	border := theme.Border
	labelStyle := theme.Unselected
	switch {
	case m.Submitted && i == m.Correct:
		border, labelStyle = theme.Success, theme.Correct
	case m.Submitted && i == m.Chosen:
		border, labelStyle = theme.Error, theme.Incorrect
	case !m.Submitted && i == m.Selected:
		border, labelStyle = theme.Primary, theme.Selected
	}

	label := ""
	if i < len(ChoiceLabels) {
		label = ChoiceLabels[i] + ")"
	}

	inner := max(width-4, 1)
	var lines []string
	for _, line := range strings.Split(m.Options[i], "\n") {
		lines = append(lines, padCell(line, inner))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(labelStyle.Render(label) + "\n" + strings.Join(lines, "\n"))
}

// padCell truncates or pads s to exactly width terminal columns. Plain
// text only; styled options must be pre-sized by the caller.
func padCell(s string, width int) string {
	if strings.Contains(s, "\x1b") {
		return s
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

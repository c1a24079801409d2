package session

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Bradwave/parabolawhat/internal/explain"
)

// brushInterval is the smoothing step of the drawing brush.
const brushInterval = 16 * time.Millisecond

// brushTickMsg advances the brush while the mouse button is held. Each
// press starts a new chain; ticks from an older chain are ignored.
type brushTickMsg struct {
	chain int
}

// explainDoneMsg carries the tutor's note. scored identifies the answer
// it was requested for; a reply for an earlier answer is dropped.
type explainDoneMsg struct {
	Explanation *explain.Explanation
	Err         error
	scored      int
}

func brushTick(chain int) tea.Cmd {
	return tea.Tick(brushInterval, func(time.Time) tea.Msg {
		return brushTickMsg{chain: chain}
	})
}

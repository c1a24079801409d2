package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Disegna il Grafico", HeaderInfo{Score: 42, Streak: 3}, 100)
	for _, want := range []string{"ParabolaWhat", "Disegna il Grafico", "Punti 42", "Serie 3"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if lipgloss.Height(h) != HeaderHeight {
		t.Errorf("header height = %d, want %d", lipgloss.Height(h), HeaderHeight)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("x", HeaderInfo{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Indietro"}}, 80)
	frame := RenderFrame(header, strings.Repeat("riga\n", 100), footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(24); got != 18 {
		t.Errorf("ContentHeight(24) = %d, want 18", got)
	}
	if got := ContentHeight(2); got != 0 {
		t.Errorf("ContentHeight(2) = %d, want 0", got)
	}
}

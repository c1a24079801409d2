package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/Bradwave/parabolawhat/internal/ui/theme"
)

const bannerArt = `┏━┓┏━┓┏━┓┏━┓┏┓ ┏━┓╻  ┏━┓   ╻ ╻╻ ╻┏━┓╺┳╸
┣━┛┣━┫┣┳┛┣━┫┣┻┓┃ ┃┃  ┣━┫   ┃╻┃┣━┫┣━┫ ┃
╹  ╹ ╹╹┗╸╹ ╹┗━┛┗━┛┗━╸╹ ╹   ┗┻┛╹ ╹╹ ╹ ╹`

const bannerCompact = "P A R A B O L A   W H A T"

// RenderBanner returns the title banner in the primary color, with a
// one-line fallback for narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+4 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

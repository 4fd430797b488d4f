package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/ui/theme"
)

const bannerArt = `
 ██╗    ██╗███████╗ █████╗ ██╗  ████████╗██╗  ██╗
 ██║    ██║██╔════╝██╔══██╗██║  ╚══██╔══╝██║  ██║
 ██║ █╗ ██║█████╗  ███████║██║     ██║   ███████║
 ██║███╗██║██╔══╝  ██╔══██║██║     ██║   ██╔══██║
 ╚███╔███╔╝███████╗██║  ██║███████╗██║   ██║  ██║
  ╚══╝╚══╝ ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝   ╚═╝  ╚═╝`

const bannerCompact = "W E A L T H N A V"

// RenderBanner returns the banner, or a one-line version when the
// terminal is narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 54 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

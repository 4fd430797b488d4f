// Package theme holds the rehearsal program's palette and shared styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/assessment"
)

// Palette. Tier colours match the chat cards.
var (
	Primary   = lipgloss.Color("#06C755") // LINE green
	Secondary = lipgloss.Color("#1DB446")
	Accent    = lipgloss.Color("#FFB800")
	Success   = lipgloss.Color("#06C755")
	Error     = lipgloss.Color("#FF5555")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	PartHeader = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)
)

var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Cursor = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Checked = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// TierColor returns the foreground colour for a result tier.
func TierColor(t assessment.Tier) color.Color {
	return lipgloss.Color(t.Info().Color)
}

// TierCard returns a bordered card style tinted for t.
func TierCard(t assessment.Tier) lipgloss.Style {
	return Card.BorderForeground(TierColor(t))
}

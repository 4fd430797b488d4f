// Package screen defines the contract every rehearsal screen satisfies.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wealthnav/internal/ui/layout"
)

// Screen is one page of the rehearsal program.
type Screen interface {
	Init() tea.Cmd

	// Update handles a message and returns the screen to keep on the stack.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body of the screen, excluding header and footer.
	View(width, height int) string

	// Title is shown in the centre of the header.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProgressProvider lets a screen report its position in the question bank
// for the header. total is zero when there is nothing to report.
type ProgressProvider interface {
	Progress() (current, total int)
}

// Package app wires the rehearsal screens into a Bubble Tea program.
package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/router"
	"github.com/abhisek/wealthnav/internal/screen"
	"github.com/abhisek/wealthnav/internal/screens/quiz"
	"github.com/abhisek/wealthnav/internal/screens/result"
	"github.com/abhisek/wealthnav/internal/screens/welcome"
	"github.com/abhisek/wealthnav/internal/session"
	"github.com/abhisek/wealthnav/internal/ui/layout"
)

// Options configures the rehearsal.
type Options struct {
	// Advisor, when set, writes a note on the result screen.
	Advisor        result.Advisor
	AdvisorTimeout time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(engine *session.Engine, opts Options) AppModel {
	var newQuiz func() screen.Screen
	finish := func(r assessment.Result) screen.Screen {
		var ropts []result.Option
		if opts.Advisor != nil {
			ropts = append(ropts, result.WithAdvisor(opts.Advisor, opts.AdvisorTimeout))
		}
		return result.New(r, engine.Bank(), newQuiz, ropts...)
	}
	newQuiz = func() screen.Screen { return quiz.New(engine, finish) }

	return AppModel{
		router: router.New(welcome.New(engine.Bank().Len(), newQuiz)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	var title string
	var current, total int
	hints := []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.ProgressProvider); ok {
			current, total = p.Progress()
		}
		if h, ok := active.(screen.KeyHintProvider); ok {
			hints = h.KeyHints()
		}
	}

	header := layout.RenderHeader(title, current, total, m.width)
	footer := layout.RenderFooter(hints, m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the rehearsal program over engine and blocks until the user
// quits.
func Run(engine *session.Engine, opts Options) error {
	p := tea.NewProgram(newAppModel(engine, opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

// Package welcome is the rehearsal's opening screen.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/router"
	"github.com/abhisek/wealthnav/internal/screen"
	"github.com/abhisek/wealthnav/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	introAt      = 500 * time.Millisecond
	hintAt       = 1500 * time.Millisecond
)

const introText = "本測試共 %d 題，請根據您的實際狀況選擇最符合的答案。\n" +
	"完成後將為您分析財務健康狀況並提供專家建議。"

type tickMsg time.Time

// WelcomeScreen shows the banner and introduction, then hands over to the
// quiz on the first key press.
type WelcomeScreen struct {
	questions    int
	quizFactory  func() screen.Screen
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the screen. questions is the bank size shown in the
// introduction.
func New(questions int, quizFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{questions: questions, quizFactory: quizFactory}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed >= hintAt {
			return w, nil
		}
		w.elapsed += tickInterval
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

// transition replaces this screen with the quiz. It fires once.
func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	quiz := w.quizFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: quiz}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderBanner(width), ""}

	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render("📋 財務壓力測試"))

	if w.elapsed >= introAt {
		sections = append(sections, "", theme.Subtitle.Render(fmt.Sprintf(introText, w.questions)))
	}
	if w.elapsed >= hintAt {
		sections = append(sections, "", theme.Hint.Render("press any key to start"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

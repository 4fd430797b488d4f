// Package result shows a finished rehearsal's score card.
package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/router"
	"github.com/abhisek/wealthnav/internal/screen"
	"github.com/abhisek/wealthnav/internal/ui/layout"
	"github.com/abhisek/wealthnav/internal/ui/theme"
)

// Advisor writes a follow-up note for a result.
type Advisor interface {
	Note(ctx context.Context, r assessment.Result) (string, error)
}

type noteMsg struct {
	Note string
	Err  error
}

// ResultScreen renders the tier card, the profile answers and, when an
// advisor is set, its note.
type ResultScreen struct {
	result  assessment.Result
	bank    questionnaire.Bank
	restart func() screen.Screen

	advisor Advisor
	timeout time.Duration
	note    string
	noteErr error
	waiting bool
}

var (
	_ screen.Screen          = (*ResultScreen)(nil)
	_ screen.KeyHintProvider = (*ResultScreen)(nil)
)

// Option configures a ResultScreen.
type Option func(*ResultScreen)

// WithAdvisor requests a note when the screen opens.
func WithAdvisor(a Advisor, timeout time.Duration) Option {
	return func(s *ResultScreen) {
		s.advisor = a
		s.timeout = timeout
	}
}

// New creates the screen. restart builds a fresh quiz for the "r" key.
func New(r assessment.Result, bank questionnaire.Bank, restart func() screen.Screen, opts ...Option) *ResultScreen {
	s := &ResultScreen{result: r, bank: bank, restart: restart}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ResultScreen) Title() string { return "測試結果" }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Retake"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.advisor == nil {
		return nil
	}
	s.waiting = true
	a, r, timeout := s.advisor, s.result, s.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		note, err := a.Note(ctx, r)
		return noteMsg{Note: note, Err: err}
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteMsg:
		s.waiting = false
		s.note, s.noteErr = msg.Note, msg.Err
	case tea.KeyPressMsg:
		switch msg.String() {
		case "r", "R":
			next := s.restart()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "q", "Q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	r := s.result
	info := r.Tier.Info()
	wrap := min(width-12, 64)

	var b strings.Builder
	b.WriteString(theme.Title.Render("📊 財務壓力測試結果"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TierColor(r.Tier)).Bold(true).Render(r.Level))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("總分：%d / %d 分", r.Score, r.MaxScore)))
	b.WriteString("\n\n")
	b.WriteString(section("📋 診斷", info.Description, wrap))
	b.WriteString(section("💡 建議", info.Suggestion, wrap))

	if lines := s.profileLines(); len(lines) > 0 {
		b.WriteString(section("👤 您的背景", strings.Join(lines, "\n"), wrap))
	}

	switch {
	case s.waiting:
		b.WriteString(theme.Hint.Render("正在產生個人化建議…"))
	case s.note != "":
		b.WriteString(section("💬 給您的小建議", s.note, wrap))
	case s.noteErr != nil:
		b.WriteString(theme.Hint.Render("個人化建議暫時無法產生。"))
	}

	card := theme.TierCard(r.Tier).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// profileLines lists the answers to unscored questions in bank order.
func (s *ResultScreen) profileLines() []string {
	var lines []string
	for i := range s.bank.Questions {
		a, ok := s.result.Profile[questionnaire.Key(i)]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s：%s", questionnaire.Key(i), a.String()))
	}
	return lines
}

func section(title, body string, width int) string {
	return theme.PartHeader.Render(title) + "\n" +
		theme.Body.Width(width).Render(body) + "\n\n"
}

// Package quiz is the rehearsal screen that walks one local user through
// the question bank using the same engine the chat bot uses.
package quiz

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/router"
	"github.com/abhisek/wealthnav/internal/screen"
	"github.com/abhisek/wealthnav/internal/session"
	"github.com/abhisek/wealthnav/internal/ui/components"
	"github.com/abhisek/wealthnav/internal/ui/layout"
)

// UserID identifies the rehearsal user to the engine.
const UserID = "rehearsal"

const (
	invalidText     = "請選擇有效的選項。"
	invalidMultiple = "請選擇有效的選項，或按「完成選擇」。"
	needSelectText  = "請至少選擇一個選項，再按「完成選擇」。"
	expiredText     = "測試已結束，按任意鍵重新開始。"

	// doneText is what the done row sends, as a chat user would type it.
	doneText = "完成"
)

// QuizScreen asks the current question and forwards answers to the engine.
type QuizScreen struct {
	engine *session.Engine
	finish func(assessment.Result) screen.Screen

	question questionnaire.Question
	index    int
	showPart bool
	selected []string

	list   components.OptionList
	input  components.TextInput
	typing bool

	notice      string
	expired     bool
	confirmQuit bool
}

var (
	_ screen.Screen           = (*QuizScreen)(nil)
	_ screen.KeyHintProvider  = (*QuizScreen)(nil)
	_ screen.ProgressProvider = (*QuizScreen)(nil)
)

// New creates a quiz over engine. finish builds the screen that replaces
// the quiz once a result is available.
func New(engine *session.Engine, finish func(assessment.Result) screen.Screen) *QuizScreen {
	return &QuizScreen{
		engine: engine,
		finish: finish,
		input:  components.NewTextInput("輸入選項代號或內容", 100),
	}
}

// Init starts a fresh session, discarding any earlier rehearsal.
func (s *QuizScreen) Init() tea.Cmd {
	s.show(s.engine.Start(UserID), 0, true)
	s.expired = false
	return s.input.Init()
}

func (s *QuizScreen) Title() string {
	if s.question.Part != "" {
		return s.question.Part
	}
	return "財務壓力測試"
}

func (s *QuizScreen) Progress() (int, int) {
	return s.index + 1, s.engine.Bank().Len()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.typing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Tab", Description: "Options"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.question.IsMultiple() {
		hints[1].Description = "Toggle"
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: "Type"},
		layout.KeyHint{Key: "Esc", Description: "Quit"},
	)
}

func (s *QuizScreen) show(q questionnaire.Question, index int, showPart bool) {
	s.question = q
	s.index = index
	s.showPart = showPart
	s.selected = nil
	s.list = components.NewOptionList(q)
	s.input.Reset()
	s.notice = ""
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		return s.handleOutcome(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	if s.typing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.expired {
		return s, s.Init()
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.engine.Cancel(UserID)
			return s, tea.Quit
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "tab":
		s.typing = !s.typing
		return s, nil
	}

	if s.typing {
		if key == "enter" {
			if s.input.Empty() {
				return s, nil
			}
			text := s.input.Value()
			s.input.Reset()
			return s, s.submit(text)
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if key == "enter" {
		if s.list.OnDone() {
			return s, s.submit(doneText)
		}
		if opt, ok := s.list.Current(); ok {
			return s, s.submit(opt.Code())
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// submit sends text to the engine off the UI goroutine; a result sink may
// touch disk.
func (s *QuizScreen) submit(text string) tea.Cmd {
	engine := s.engine
	return func() tea.Msg {
		out, err := engine.Submit(context.Background(), UserID, text)
		return submittedMsg{Outcome: out, Err: err}
	}
}

func (s *QuizScreen) handleOutcome(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, session.ErrNoActiveSession) {
			s.expired = true
			s.notice = expiredText
			return s, nil
		}
		s.notice = msg.Err.Error()
		return s, nil
	}

	switch out := msg.Outcome.(type) {
	case session.Invalid:
		s.notice = invalidText
		if s.question.IsMultiple() {
			s.notice = invalidMultiple
		}
	case session.NeedSelection:
		s.notice = needSelectText
	case session.MultipleContinue:
		s.selected = out.Selected
		s.list.SetChecked(out.Selected)
		s.notice = ""
		if len(out.Selected) > 0 {
			s.notice = "已選擇：" + strings.Join(out.Selected, "、")
		}
	case session.Next:
		s.show(out.Question, out.Index, out.PartChanged)
	case session.Complete:
		next := s.finish(out.Result)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	return s, nil
}

package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wealthnav/internal/screen"
)

type stubScreen struct {
	title   string
	initRan bool
	seen    []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

func TestPushAndPop(t *testing.T) {
	welcome := &stubScreen{title: "welcome"}
	r := New(welcome)

	quiz := &stubScreen{title: "quiz"}
	r.Push(quiz)
	if r.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", r.Depth())
	}
	if !quiz.initRan {
		t.Error("Init not run on pushed screen")
	}
	if got := r.Active().Title(); got != "quiz" {
		t.Errorf("active = %q, want quiz", got)
	}

	r.Pop()
	if got := r.Active().Title(); got != "welcome" {
		t.Errorf("active after pop = %q, want welcome", got)
	}
}

func TestPopKeepsLastScreen(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})
	r.Pop()
	r.Pop()
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})
	r.Push(&stubScreen{title: "quiz"})

	result := &stubScreen{title: "result"}
	r.Update(ReplaceScreenMsg{Screen: result})

	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if got := r.Active().Title(); got != "result" {
		t.Errorf("active = %q, want result", got)
	}
	if !result.initRan {
		t.Error("Init not run on replacement")
	}
}

func TestNavigationMessagesAreNotForwarded(t *testing.T) {
	welcome := &stubScreen{title: "welcome"}
	r := New(welcome)

	r.Update(PushScreenMsg{Screen: &stubScreen{title: "quiz"}})
	r.Update(PopScreenMsg{})
	r.Update(tea.KeyPressMsg{Code: 'a'})

	if len(welcome.seen) != 1 {
		t.Fatalf("welcome saw %d messages, want 1", len(welcome.seen))
	}
	if _, ok := welcome.seen[0].(tea.KeyPressMsg); !ok {
		t.Errorf("forwarded %T, want tea.KeyPressMsg", welcome.seen[0])
	}
}

func TestViewRendersActive(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})
	if got := r.View(80, 24); got != "welcome" {
		t.Errorf("View = %q", got)
	}
}

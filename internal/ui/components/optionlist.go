package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/ui/theme"
)

// DoneLabel is the extra row multi-select lists end with.
const DoneLabel = "✓ 完成選擇"

// OptionList shows a question's options with a movable cursor. Selected
// values on multi-select questions are drawn with a check mark; the list
// itself never decides what is selected.
type OptionList struct {
	Options  []questionnaire.Option
	Multiple bool
	Cursor   int
	checked  []string
}

// NewOptionList creates a list for q.
func NewOptionList(q questionnaire.Question) OptionList {
	return OptionList{
		Options:  q.Options,
		Multiple: q.IsMultiple(),
	}
}

// SetChecked replaces the set of values drawn as selected.
func (l *OptionList) SetChecked(values []string) {
	l.checked = append([]string{}, values...)
}

// Update moves the cursor. Option choice is left to the caller.
func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return l, nil
	}
	switch kmsg.String() {
	case "up", "ctrl+p":
		if l.Cursor > 0 {
			l.Cursor--
		}
	case "down", "ctrl+n":
		if l.Cursor < l.rows()-1 {
			l.Cursor++
		}
	}
	return l, nil
}

func (l OptionList) rows() int {
	if l.Multiple {
		return len(l.Options) + 1
	}
	return len(l.Options)
}

// OnDone reports whether the cursor is on the done row.
func (l OptionList) OnDone() bool {
	return l.Multiple && l.Cursor == len(l.Options)
}

// Current returns the option under the cursor.
func (l OptionList) Current() (questionnaire.Option, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Options) {
		return questionnaire.Option{}, false
	}
	return l.Options[l.Cursor], true
}

// View renders one line per option.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Cursor {
			prefix = "▸ "
		}
		mark := ""
		if l.Multiple {
			mark = "[ ] "
			if slices.Contains(l.checked, opt.Canonical()) {
				mark = "[✓] "
			}
		}
		line := fmt.Sprintf("%s%s%s", prefix, mark, opt.Label)

		switch {
		case i == l.Cursor:
			b.WriteString(theme.Cursor.Render(line))
		case mark == "[✓] ":
			b.WriteString(theme.Checked.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	if l.Multiple {
		prefix := "  "
		style := theme.Hint
		if l.OnDone() {
			prefix = "▸ "
			style = theme.Cursor
		}
		b.WriteString("\n" + style.Render(prefix+DoneLabel) + "\n")
	}
	return b.String()
}

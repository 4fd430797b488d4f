package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wealthnav/internal/ui/components"
	"github.com/abhisek/wealthnav/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}

	var b strings.Builder

	bar := components.NewProgressBar("", s.index, s.engine.Bank().Len(), min(width-8, 60))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	if s.showPart && s.question.Part != "" {
		b.WriteString(theme.PartHeader.Render(fmt.Sprintf("【%s】", s.question.Part)))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(min(width-8, 72)).
		Render(s.question.Text))
	b.WriteString("\n\n")

	b.WriteString(s.list.View())
	b.WriteString("\n")

	if s.typing {
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}

	if s.notice != "" {
		style := theme.Warning
		if len(s.selected) > 0 && strings.HasPrefix(s.notice, "已選擇") {
			style = theme.Checked
		}
		b.WriteString("\n" + style.Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderQuitConfirm(width, height int) string {
	box := theme.Card.Render(
		theme.Body.Bold(true).Render("要結束這次測試嗎？") + "\n\n" +
			theme.Hint.Render("作答紀錄不會保存。 (y/n)"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

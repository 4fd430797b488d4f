package flex

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/line"
	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// Keywords the rendered buttons send back.
const (
	DoneKeyword    = "完成"
	RestartKeyword = "財務壓力測試"
)

// Question renders q with one button per option. showPart prefixes the
// prompt with the part header.
func Question(q questionnaire.Question, showPart bool) line.Message {
	header := q.Text
	if showPart && q.Part != "" {
		header = fmt.Sprintf("【%s】\n\n%s", q.Part, q.Text)
	}
	return message(q.Text, bubble(
		text(header, "md", colorText).wrap().bold(),
		spacer("xl"),
		optionList(q, q.IsMultiple()),
	))
}

// MultipleContinue re-renders a multi-select question with the current
// selections listed above the buttons.
func MultipleContinue(q questionnaire.Question, selected []string) line.Message {
	return message("請繼續選擇或按完成", bubble(
		text("已選擇："+strings.Join(selected, "、"), "md", colorGreen).wrap().bold(),
		spacer("md"),
		text("還要選擇其他選項嗎？選完請按「完成選擇」", "sm", colorMuted).wrap(),
		spacer("xl"),
		optionList(q, true),
	))
}

// Result renders the final score card.
func Result(r assessment.Result) line.Message {
	info := r.Tier.Info()
	level := vbox(text(r.Level, "lg", info.Color).bold().centre().wrap())
	level.BackgroundColor = info.Background
	level.CornerRadius = "lg"
	level.PaddingAll = "lg"

	body := []Component{
		text("📊 財務壓力測試結果", "xl", colorText).bold().centre(),
		spacer("xl"),
		level,
		spacer("lg"),
		text(fmt.Sprintf("總分：%d / %d 分", r.Score, r.MaxScore), "md", colorText).centre().bold(),
		spacer("xl"),
		text("📋 診斷", "md", colorText).bold(),
		text(r.Description, "sm", colorMuted).wrap(),
		spacer("lg"),
		text("💡 專家建議", "md", colorText).bold(),
		text(r.Suggestion, "sm", colorMuted).wrap(),
	}
	body = append(body, profileSection(r.Profile)...)

	restart := vbox(text("🔄 重新測試", "md", colorText).centre())
	restart.BackgroundColor = colorSurface
	restart.CornerRadius = "lg"
	restart.PaddingAll = "md"
	restart.BorderColor = colorBorder
	restart.BorderWidth = "normal"
	body = append(body, spacer("xl"), restart.tappable(RestartKeyword))

	return message("測試結果："+r.Level, bubble(body...))
}

// Registered confirms a completed registration.
func Registered(name string) line.Message {
	return line.NewText(fmt.Sprintf("✅ 報名成功！\n\n%s 您好，感謝您的報名，我們將盡快與您聯繫。", name))
}

func profileSection(p assessment.Profile) []Component {
	var lines []Component
	if a, ok := p["Q5"]; ok && len(a.Values) > 0 {
		lines = append(lines, profileLine("📌 您的理財挑戰："+strings.Join(a.Values, ", ")))
	}
	if a, ok := p["Q7"]; ok && a.String() != "" {
		lines = append(lines, profileLine("📌 年度理財預算："+a.String()))
	}
	if a, ok := p["Q8"]; ok && a.String() != "" {
		lines = append(lines, profileLine("📌 最想解決的問題："+a.String()))
	}
	if len(lines) == 0 {
		return nil
	}
	head := []Component{spacer("xl"), {Type: "separator", Color: colorBorder}, spacer("lg")}
	return append(head, lines...)
}

func profileLine(s string) Component {
	return text(s, "sm", colorMuted).wrap()
}

// optionList renders the option buttons separated by spacers, with the
// done button last when withDone is set.
func optionList(q questionnaire.Question, withDone bool) Component {
	var buttons []Component
	for i, opt := range q.Options {
		if i > 0 {
			buttons = append(buttons, spacer("md"))
		}
		buttons = append(buttons, optionButton(opt))
	}
	if withDone {
		if len(buttons) > 0 {
			buttons = append(buttons, spacer("md"))
		}
		buttons = append(buttons, doneButton())
	}
	list := vbox(buttons...)
	list.Spacing = "md"
	return list
}

func optionButton(opt questionnaire.Option) Component {
	b := vbox(text(opt.Label, "md", colorText).centre().wrap())
	b.BackgroundColor = colorSurface
	b.CornerRadius = "lg"
	b.PaddingAll = "lg"
	b.BorderColor = colorBorder
	b.BorderWidth = "normal"
	return b.tappable(opt.Code())
}

func doneButton() Component {
	b := vbox(text("✓ 完成選擇", "md", colorSurface).centre().bold())
	b.BackgroundColor = colorGreen
	b.CornerRadius = "lg"
	b.PaddingAll = "lg"
	return b.tappable(DoneKeyword)
}

func message(alt string, b Bubble) line.Message {
	raw, err := json.Marshal(b)
	if err != nil {
		// Bubble holds only strings and slices of itself.
		panic(fmt.Sprintf("flex: marshal bubble: %v", err))
	}
	return line.NewFlex(alt, raw)
}

package flex

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/questionnaire"
)

func question(t *testing.T, i int) questionnaire.Question {
	t.Helper()
	q, ok := questionnaire.Default().At(i)
	require.True(t, ok)
	return q
}

func TestQuestion_Single(t *testing.T) {
	q := question(t, 0)
	msg := Question(q, true)

	assert.Equal(t, "flex", msg.Type)
	assert.Equal(t, q.Text, msg.AltText)

	doc := gjson.ParseBytes(msg.Contents)
	assert.Equal(t, "giga", doc.Get("size").String())
	assert.Equal(t, "#F5F5F5", doc.Get("body.backgroundColor").String())
	assert.Equal(t, "【"+q.Part+"】\n\n"+q.Text, doc.Get("body.contents.0.text").String())

	buttons := doc.Get("body.contents.2.contents").Array()
	// Options interleaved with spacers, no trailing spacer.
	require.Len(t, buttons, 2*len(q.Options)-1)
	assert.Equal(t, "spacer", buttons[1].Get("type").String())
	assert.Equal(t, "A", buttons[0].Get("action.text").String())
	assert.Equal(t, q.Options[0].Label, buttons[0].Get("contents.0.text").String())
	assert.Equal(t, "D", buttons[len(buttons)-1].Get("action.text").String())
}

func TestQuestion_WithoutPartHeader(t *testing.T) {
	q := question(t, 1)
	doc := gjson.ParseBytes(Question(q, false).Contents)
	assert.Equal(t, q.Text, doc.Get("body.contents.0.text").String())
}

func TestQuestion_MultipleHasDoneButton(t *testing.T) {
	q := question(t, 4)
	require.True(t, q.IsMultiple())

	buttons := gjson.GetBytes(Question(q, false).Contents, "body.contents.2.contents").Array()
	require.Len(t, buttons, 2*len(q.Options)+1)
	done := buttons[len(buttons)-1]
	assert.Equal(t, DoneKeyword, done.Get("action.text").String())
	assert.Equal(t, "✓ 完成選擇", done.Get("contents.0.text").String())
	assert.Equal(t, "#06C755", done.Get("backgroundColor").String())
}

func TestMultipleContinue(t *testing.T) {
	q := question(t, 4)
	msg := MultipleContinue(q, []string{"害怕虧損", "工作太忙沒時間"})

	assert.Equal(t, "請繼續選擇或按完成", msg.AltText)
	doc := gjson.ParseBytes(msg.Contents)
	assert.Equal(t, "已選擇：害怕虧損、工作太忙沒時間", doc.Get("body.contents.0.text").String())
	assert.Equal(t, "還要選擇其他選項嗎？選完請按「完成選擇」", doc.Get("body.contents.2.text").String())

	buttons := doc.Get("body.contents.4.contents").Array()
	assert.Equal(t, DoneKeyword, buttons[len(buttons)-1].Get("action.text").String())
}

func TestResult(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		profile     assessment.Profile
		color       string
		wantProfile []string
	}{
		{
			name:  "green with profile",
			score: 35,
			profile: assessment.Profile{
				"Q5": assessment.Multi([]string{"害怕虧損", "工作太忙沒時間"}),
				"Q7": assessment.Single("10-50萬"),
				"Q8": assessment.Single("讓資產不被通膨吃掉"),
			},
			color: "#06C755",
			wantProfile: []string{
				"📌 您的理財挑戰：害怕虧損, 工作太忙沒時間",
				"📌 年度理財預算：10-50萬",
				"📌 最想解決的問題：讓資產不被通膨吃掉",
			},
		},
		{name: "yellow without profile", score: 20, color: "#FFB800"},
		{name: "red", score: 5, color: "#FF5555"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assessment.NewResult(tt.score, 5, 42, tt.profile)
			msg := Result(r)
			assert.Equal(t, "測試結果："+r.Level, msg.AltText)

			doc := gjson.ParseBytes(msg.Contents)
			body := doc.Get("body.contents").Array()
			assert.Equal(t, "📊 財務壓力測試結果", body[0].Get("text").String())
			assert.Equal(t, tt.color, body[2].Get("contents.0.color").String())
			assert.Equal(t, r.Level, body[2].Get("contents.0.text").String())
			assert.Contains(t, doc.Raw, "總分："+strconv.Itoa(tt.score)+" / 42 分")

			restart := body[len(body)-1]
			assert.Equal(t, RestartKeyword, restart.Get("action.text").String())

			separators := doc.Get(`body.contents.#(type=="separator")#`).Array()
			if len(tt.wantProfile) == 0 {
				assert.Empty(t, separators)
				return
			}
			assert.Len(t, separators, 1)
			for _, line := range tt.wantProfile {
				assert.Contains(t, doc.Raw, line)
			}
		})
	}
}

func TestRegistered(t *testing.T) {
	msg := Registered("王小明")
	assert.Equal(t, "text", msg.Type)
	assert.Contains(t, msg.Text, "王小明")
}

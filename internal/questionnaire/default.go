package questionnaire

const (
	partSecurity = "第一部分：金錢安全感"
	partDefense  = "第二部分：風險防禦力"
	partHabits   = "第三部分：理財慣性"
	partProfile  = "第四部分：基本背景"
)

// Default returns the reference stress-test bank: five scored
// single-choice questions (Q1-Q4, Q6), one multi-select (Q5) and two
// profile questions (Q7, Q8). Scores range from 5 to 42.
func Default() Bank {
	return Bank{Questions: []Question{
		{
			Part:   partSecurity,
			Text:   "Q1. 如果您現在停止工作，現有的存款在不改變生活品質的前提下，能支撐您多久？",
			Kind:   KindSingle,
			Scored: true,
			Options: []Option{
				{Label: "A. 3個月以內", Score: 1},
				{Label: "B. 6個月-1年", Score: 4},
				{Label: "C. 1年-3年", Score: 7},
				{Label: "D. 3年以上", Score: 10},
			},
		},
		{
			Part:   partSecurity,
			Text:   "Q2. 您是否發現，儘管薪水增加了，但每個月能存下來的購買力卻越來越少？",
			Kind:   KindSingle,
			Scored: true,
			Options: []Option{
				{Label: "A. 非常有感", Score: 1},
				{Label: "B. 偶爾覺得", Score: 4},
				{Label: "C. 沒感覺，覺得物價還好", Score: 6},
			},
		},
		{
			Part:   partDefense,
			Text:   "Q3. 若發生金融海嘯或地緣政治危機，您的資產中有多少比例是能「立刻變現」且「全球通用」的實體財富？",
			Kind:   KindSingle,
			Scored: true,
			Options: []Option{
				{Label: "A. 完全沒有", Score: 1},
				{Label: "B. 5%以下", Score: 4},
				{Label: "C. 5%-10%", Score: 7},
				{Label: "D. 10%以上", Score: 10},
			},
		},
		{
			Part:   partDefense,
			Text:   "Q4. 當股市大幅震盪時，您的心理狀態通常是：",
			Kind:   KindSingle,
			Scored: true,
			Options: []Option{
				{Label: "A. 非常焦慮，想立刻賣掉", Score: 1},
				{Label: "B. 有點擔心，但觀望", Score: 4},
				{Label: "C. 很淡定，因為我有防禦性資產", Score: 6},
			},
		},
		{
			Part: partHabits,
			Text: "Q5. 關於理財，您目前面臨最大的挑戰是什麼？（可多選，選完請輸入「完成」）",
			Kind: KindMultiple,
			Options: []Option{
				{Label: "A. 工作太忙沒時間", Value: "工作太忙沒時間"},
				{Label: "B. 害怕虧損", Value: "害怕虧損"},
				{Label: "C. 不知道怎麼選標的", Value: "不知道怎麼選標的"},
				{Label: "D. 想要紀律存錢但失敗", Value: "想要紀律存錢但失敗"},
			},
		},
		{
			Part:   partHabits,
			Text:   "Q6. 您是否希望有一套系統，能幫您在「提供保障」的同時，也讓資金自動增值？",
			Kind:   KindSingle,
			Scored: true,
			Options: []Option{
				{Label: "A. 非常渴望", Score: 10},
				{Label: "B. 有興趣了解", Score: 6},
				{Label: "C. 目前不需要", Score: 1},
			},
		},
		{
			Part: partProfile,
			Text: "Q7. 您的年度理財預算（包含儲蓄與投資）大約落在：",
			Kind: KindSingle,
			Options: []Option{
				{Label: "A. 10萬以下", Value: "10萬以下"},
				{Label: "B. 10-50萬", Value: "10-50萬"},
				{Label: "C. 50-100萬", Value: "50-100萬"},
				{Label: "D. 100萬以上", Value: "100萬以上"},
			},
		},
		{
			Part: partProfile,
			Text: "Q8. 如果您能透過一個月的學習掌握一套「保值+增值」的配置法，您最希望解決的問題是？",
			Kind: KindSingle,
			Options: []Option{
				{Label: "A. 讓資產不被通膨吃掉", Value: "讓資產不被通膨吃掉"},
				{Label: "B. 留一筆錢給下一代", Value: "留一筆錢給下一代"},
				{Label: "C. 建立穩定的被動收入", Value: "建立穩定的被動收入"},
			},
		},
	}}
}

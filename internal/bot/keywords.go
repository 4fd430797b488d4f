package bot

import "slices"

var (
	startKeywords    = []string{"財務壓力測試", "開始測試", "壓力測試", "測試"}
	cancelKeywords   = []string{"取消", "取消測試", "結束", "放棄"}
	registerKeywords = []string{"報名", "註冊"}
)

func isStart(text string) bool    { return slices.Contains(startKeywords, text) }
func isCancel(text string) bool   { return slices.Contains(cancelKeywords, text) }
func isRegister(text string) bool { return slices.Contains(registerKeywords, text) }

const (
	introText = "📋 財務壓力測試\n\n" +
		"歡迎參加財務壓力測試！\n" +
		"本測試共 %d 題，請根據您的實際狀況選擇最符合的答案。\n\n" +
		"完成後將為您分析財務健康狀況並提供專家建議。\n\n" +
		"讓我們開始吧！"
	welcomeText      = "歡迎使用財富導航！\n\n請輸入「財務壓力測試」開始測試您的財務健康狀況。"
	cancelledText    = "已取消測試。如需重新開始，請輸入「財務壓力測試」。"
	noTestText       = "您目前沒有進行中的測試。"
	pickOptionText   = "請點選下方選項。"
	pickOrDoneText   = "請選擇選項或按「完成選擇」。"
	needSelectText   = "請至少選擇一個選項，再按「完成選擇」。"
	askNameText      = "📝 報名\n\n請輸入您的姓名："
	registeredText   = "您已完成報名，感謝您！如需協助請直接留言。"
	invalidNameText  = "請輸入有效的姓名（100 字以內）。"
	registryDownText = "報名系統暫時無法使用，請稍後再試。"
	advisorPrefix    = "💬 給您的小建議\n\n"
)

// Package assessment turns a stress-test score into a tier and the
// advice shown to the user.
package assessment

import "strings"

// Tier is the classification bucket of a final score.
type Tier int

const (
	TierRed Tier = iota
	TierYellow
	TierGreen
)

// Score thresholds. A score at or above GreenThreshold is Green; at or
// above YellowThreshold is Yellow; anything lower is Red.
const (
	GreenThreshold  = 29
	YellowThreshold = 16
)

func (t Tier) String() string {
	switch t {
	case TierGreen:
		return "green"
	case TierYellow:
		return "yellow"
	default:
		return "red"
	}
}

// Classify maps a score to its tier.
func Classify(score int) Tier {
	switch {
	case score >= GreenThreshold:
		return TierGreen
	case score >= YellowThreshold:
		return TierYellow
	default:
		return TierRed
	}
}

// TierInfo is the user-facing copy and palette for a tier.
type TierInfo struct {
	Level       string
	Description string
	Suggestion  string
	Color       string
	Background  string
}

var tierInfo = map[Tier]TierInfo{
	TierGreen: {
		Level:       "🟢【綠色穩健】財富方舟族",
		Description: "您已經具備基礎的財富配置架構。",
		Suggestion:  "下一階段應關注「資產傳承」與「極致避險」，優化您的實體資產比例。",
		Color:       "#06C755",
		Background:  "#E8F5E9",
	},
	TierYellow: {
		Level:       "🟡【黃色轉型】財富焦慮族",
		Description: "您有一定的理財意識，但工具過於單一（可能只有存款或股票）。在動盪時期，您的資產波動會讓您睡不著覺。",
		Suggestion:  "建議導入「自動化配置工具」，平衡風險與收益。",
		Color:       "#FFB800",
		Background:  "#FFF8E1",
	},
	TierRed: {
		Level:       "🔴【紅色警戒】財富裸奔族",
		Description: "您的財富極度缺乏防火牆，一旦通膨加速或收入中斷，生活品質會迅速滑落。",
		Suggestion:  "您目前最需要的是建立「緊急防禦資產」，先學會鎖住財富價值。",
		Color:       "#FF5555",
		Background:  "#FFEBEE",
	},
}

// Info returns the copy and palette for t.
func (t Tier) Info() TierInfo {
	return tierInfo[t]
}

// Answer is a profile entry: a single value, or a list for multi-select
// questions.
type Answer struct {
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Single builds a single-value answer.
func Single(v string) Answer { return Answer{Value: v} }

// Multi builds a multi-value answer from a copy of vs.
func Multi(vs []string) Answer {
	return Answer{Values: append([]string{}, vs...)}
}

// IsMulti reports whether the answer came from a multi-select question.
func (a Answer) IsMulti() bool { return a.Values != nil }

// String joins multi-select values with the ideographic comma.
func (a Answer) String() string {
	if a.IsMulti() {
		return strings.Join(a.Values, "、")
	}
	return a.Value
}

// Profile holds the answers to unscored questions, keyed by question key.
type Profile map[string]Answer

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := make(Profile, len(p))
	for k, a := range p {
		if a.IsMulti() {
			a = Multi(a.Values)
		}
		out[k] = a
	}
	return out
}

// Result is the outcome of a finished session.
type Result struct {
	Score       int
	MinScore    int
	MaxScore    int
	Tier        Tier
	Level       string
	Description string
	Suggestion  string
	Profile     Profile
}

// NewResult classifies score and fills in the tier copy.
func NewResult(score, minScore, maxScore int, profile Profile) Result {
	tier := Classify(score)
	info := tier.Info()
	if profile == nil {
		profile = Profile{}
	}
	return Result{
		Score:       score,
		MinScore:    minScore,
		MaxScore:    maxScore,
		Tier:        tier,
		Level:       info.Level,
		Description: info.Description,
		Suggestion:  info.Suggestion,
		Profile:     profile,
	}
}

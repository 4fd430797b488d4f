// Package advisor asks an LLM for a short, personalised follow-up note
// once a stress test completes.
package advisor

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/llm"
	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// Purpose labels advisor requests in the llm_requests log.
const Purpose = "advisor"

// Config tunes the advisor requests.
type Config struct {
	MaxTokens   int
	Temperature float64
	// MaxRunes caps the note length; longer notes are cut at a rune
	// boundary.
	MaxRunes int
}

func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.4, MaxRunes: 200}
}

// Advisor turns a result into a note.
type Advisor struct {
	provider llm.Provider
	bank     questionnaire.Bank
	cfg      Config
}

// New creates an advisor that asks provider for notes. bank supplies the
// question texts the prompt quotes the user's answers against.
func New(provider llm.Provider, bank questionnaire.Bank, cfg Config) *Advisor {
	return &Advisor{provider: provider, bank: bank, cfg: cfg}
}

type noteOutput struct {
	Note string `json:"note"`
}

// Note returns a follow-up note for r. An empty note from the model is an
// error.
func (a *Advisor) Note(ctx context.Context, r assessment.Result) (string, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	msg, err := a.buildMessage(r)
	if err != nil {
		return "", fmt.Errorf("build advisor prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(msg),
		Schema:      NoteSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("advisor note: %w", err)
	}

	var out noteOutput
	if err := resp.Decode(&out); err != nil {
		return "", err
	}
	note := strings.TrimSpace(out.Note)
	if note == "" {
		return "", fmt.Errorf("advisor note: empty note")
	}
	return truncate(note, a.cfg.MaxRunes), nil
}

type profileLine struct {
	Question string
	Answer   string
}

type promptData struct {
	Score    int
	MaxScore int
	Level    string
	Tier     string
	Profile  []profileLine
}

func (a *Advisor) buildMessage(r assessment.Result) (string, error) {
	data := promptData{Score: r.Score, MaxScore: r.MaxScore, Level: r.Level, Tier: r.Tier.String()}
	for i := range a.bank.Len() {
		ans, ok := r.Profile[questionnaire.Key(i)]
		if !ok {
			continue
		}
		q, _ := a.bank.At(i)
		data.Profile = append(data.Profile, profileLine{Question: q.Text, Answer: ans.String()})
	}

	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

const systemPrompt = `你是一位親切的理財顧問。使用者剛完成財務壓力測試。
請根據分數、等級與使用者的理財概況，用繁體中文寫一段 2 到 3 句的個人化建議。
- 不要重複分數或等級本身。
- 不要推薦特定金融商品。
- 語氣鼓勵、具體、可立即行動。`

var userTemplate = template.Must(template.New("advisor").Parse(`分數：{{.Score}} / {{.MaxScore}}
等級：{{.Level}} ({{.Tier}})
{{if .Profile}}理財概況：
{{range .Profile}}- {{.Question}}：{{.Answer}}
{{end}}{{end}}`))

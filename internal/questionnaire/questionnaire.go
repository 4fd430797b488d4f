// Package questionnaire defines the static question bank a stress-test
// session walks through.
package questionnaire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind distinguishes single-answer questions from multi-select ones.
type Kind string

const (
	KindSingle   Kind = "single"
	KindMultiple Kind = "multiple"
)

// Codes are the canonical option codes in positional order. A question
// may not carry more options than there are codes.
var Codes = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Option is one selectable answer.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Score int    `json:"score,omitempty" yaml:"score,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Code returns the first rune of the label, which is the option's
// canonical short code.
func (o Option) Code() string {
	r, _ := utf8.DecodeRuneInString(o.Label)
	if r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Canonical returns the value recorded in a profile when the option is
// chosen: Value if set, otherwise the full label.
func (o Option) Canonical() string {
	if o.Value != "" {
		return o.Value
	}
	return o.Label
}

// Question is an entry in the bank. Its position in the bank is its
// identity.
type Question struct {
	Part    string   `json:"part" yaml:"part"`
	Text    string   `json:"question" yaml:"question"`
	Kind    Kind     `json:"type" yaml:"type"`
	Scored  bool     `json:"scored" yaml:"scored"`
	Options []Option `json:"options" yaml:"options"`
}

// IsMultiple reports whether the question accepts several options.
func (q Question) IsMultiple() bool {
	return q.Kind == KindMultiple
}

// Codes returns the canonical codes for this question's options.
func (q Question) Codes() []string {
	n := min(len(q.Options), len(Codes))
	return Codes[:n]
}

// Key returns the profile key of the question at index i ("Q1" for 0).
func Key(i int) string {
	return fmt.Sprintf("Q%d", i+1)
}

// Bank is an ordered, immutable list of questions.
type Bank struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// Len returns the number of questions.
func (b Bank) Len() int { return len(b.Questions) }

// At returns the question at index i.
func (b Bank) At(i int) (Question, bool) {
	if i < 0 || i >= len(b.Questions) {
		return Question{}, false
	}
	return b.Questions[i], true
}

// PartChanged reports whether question i opens a new part: always true for
// the first question, otherwise true when its part differs from the
// previous question's.
func (b Bank) PartChanged(i int) bool {
	if i <= 0 {
		return true
	}
	if i >= len(b.Questions) {
		return false
	}
	return b.Questions[i].Part != b.Questions[i-1].Part
}

// MinScore is the lowest achievable total.
func (b Bank) MinScore() int {
	return b.sumScored(func(lo, _ int) int { return lo })
}

// MaxScore is the highest achievable total.
func (b Bank) MaxScore() int {
	return b.sumScored(func(_, hi int) int { return hi })
}

func (b Bank) sumScored(pick func(lo, hi int) int) int {
	total := 0
	for _, q := range b.Questions {
		if !q.Scored || q.IsMultiple() || len(q.Options) == 0 {
			continue
		}
		lo, hi := q.Options[0].Score, q.Options[0].Score
		for _, o := range q.Options[1:] {
			lo = min(lo, o.Score)
			hi = max(hi, o.Score)
		}
		total += pick(lo, hi)
	}
	return total
}

// ValidationError describes a malformed question.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %s: %s", Key(e.Index), e.Reason)
}

// Validate checks the structural invariants every bank must satisfy.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("question bank is empty")
	}
	for i, q := range b.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return &ValidationError{Index: i, Reason: "empty question text"}
		}
		switch q.Kind {
		case KindSingle, KindMultiple:
		default:
			return &ValidationError{Index: i, Reason: fmt.Sprintf("unknown type %q", q.Kind)}
		}
		if q.IsMultiple() && q.Scored {
			return &ValidationError{Index: i, Reason: "multiple-choice questions cannot be scored"}
		}
		if len(q.Options) == 0 {
			return &ValidationError{Index: i, Reason: "no options"}
		}
		if len(q.Options) > len(Codes) {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("%d options exceeds the %d available codes", len(q.Options), len(Codes))}
		}
		for j, o := range q.Options {
			if o.Code() != Codes[j] {
				return &ValidationError{Index: i, Reason: fmt.Sprintf("option %d label %q must start with %s", j+1, o.Label, Codes[j])}
			}
		}
	}
	return nil
}

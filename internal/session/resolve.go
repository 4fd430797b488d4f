package session

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// CompletionKeywords end a multi-select question.
var CompletionKeywords = []string{
	"完成", "完成選擇", "OK", "ok", "下一題", "好了", "確定", "done", "complete", "next",
}

// IsCompletionKeyword reports whether text is a completion keyword,
// ignoring case and surrounding whitespace.
func IsCompletionKeyword(text string) bool {
	t := strings.TrimSpace(text)
	for _, k := range CompletionKeywords {
		if strings.EqualFold(t, k) {
			return true
		}
	}
	return false
}

// resolveOption maps free text to an option index of q. In order it tries
// an exact code ("b"), a leading code not followed by a letter ("B. 6個月"),
// then a substring of an option label ("6個月"). Input such as "banana"
// resolves to nothing.
func resolveOption(q questionnaire.Question, text string) (int, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	upper := strings.ToUpper(trimmed)
	codes := q.Codes()

	for i, c := range codes {
		if upper == c {
			return i, true
		}
	}

	first, size := utf8.DecodeRuneInString(upper)
	if next, _ := utf8.DecodeRuneInString(upper[size:]); size == len(upper) || !isASCIILetter(next) {
		for i, c := range codes {
			if string(first) == c {
				return i, true
			}
		}
	}

	for i, o := range q.Options {
		if strings.Contains(o.Label, trimmed) {
			return i, true
		}
	}
	return 0, false
}

func isASCIILetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

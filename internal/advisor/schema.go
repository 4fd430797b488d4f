package advisor

import "github.com/abhisek/wealthnav/internal/llm"

// NoteSchema constrains the advisor reply to a single note string.
var NoteSchema = &llm.Schema{
	Name:        "advisor-note",
	Description: "A short personalised follow-up note",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"note": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of advice in Traditional Chinese",
			},
		},
		"required":             []string{"note"},
		"additionalProperties": false,
	},
}

package line

import "encoding/json"

// MaxMessages is the most messages one reply or push may carry.
const MaxMessages = 5

// Message is an outbound message. Build with NewText or NewFlex.
type Message struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	AltText    string          `json:"altText,omitempty"`
	Contents   json.RawMessage `json:"contents,omitempty"`
	QuickReply *QuickReply     `json:"quickReply,omitempty"`
}

// QuickReply holds the buttons shown above the keyboard.
type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// Action is a message action: tapping sends Text as the user.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// MessageAction builds a message action.
func MessageAction(label, text string) Action {
	return Action{Type: "message", Label: label, Text: text}
}

func NewText(text string) Message {
	return Message{Type: "text", Text: text}
}

// NewFlex wraps a rendered flex container.
func NewFlex(altText string, contents json.RawMessage) Message {
	return Message{Type: "flex", AltText: altText, Contents: contents}
}

// WithQuickReply attaches one quick-reply button per label, each sending
// its own label.
func (m Message) WithQuickReply(labels ...string) Message {
	qr := &QuickReply{}
	for _, l := range labels {
		qr.Items = append(qr.Items, QuickReplyItem{Type: "action", Action: MessageAction(l, l)})
	}
	m.QuickReply = qr
	return m
}

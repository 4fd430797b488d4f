// Package line speaks the LINE Messaging API: webhook parsing and
// signature checks on the way in, reply and push calls on the way out.
package line

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Event types the bot reacts to.
const (
	EventMessage  = "message"
	EventPostback = "postback"
	EventFollow   = "follow"
	EventUnfollow = "unfollow"
)

// Webhook is the body LINE posts to the callback URL.
type Webhook struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events" validate:"dive"`
}

// Event is one webhook event. Only the fields the bot uses are decoded.
type Event struct {
	Type       string           `json:"type" validate:"required"`
	ReplyToken string           `json:"replyToken"`
	Timestamp  int64            `json:"timestamp"`
	Source     Source           `json:"source"`
	Message    *MessageContent  `json:"message,omitempty" validate:"required_if=Type message"`
	Postback   *PostbackContent `json:"postback,omitempty" validate:"required_if=Type postback"`
}

// Source identifies the sender.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// MessageContent is the message payload of a message event.
type MessageContent struct {
	ID   string `json:"id"`
	Type string `json:"type" validate:"required"`
	Text string `json:"text"`
}

// PostbackContent is the payload of a postback event.
type PostbackContent struct {
	Data string `json:"data"`
}

var validate = validator.New()

// ParseWebhook decodes and validates a webhook body.
func ParseWebhook(body []byte) (Webhook, error) {
	var wh Webhook
	if err := json.Unmarshal(body, &wh); err != nil {
		return Webhook{}, fmt.Errorf("decode webhook: %w", err)
	}
	if err := validate.Struct(wh); err != nil {
		return Webhook{}, fmt.Errorf("validate webhook: %w", err)
	}
	return wh, nil
}

// Text returns the user's text for message events with a text payload,
// and the "answer" value for postback events. ok is false otherwise.
func (e Event) Text() (string, bool) {
	switch e.Type {
	case EventMessage:
		if e.Message != nil && e.Message.Type == "text" {
			return e.Message.Text, true
		}
	case EventPostback:
		if e.Postback == nil {
			return "", false
		}
		q, err := url.ParseQuery(e.Postback.Data)
		if err != nil {
			return "", false
		}
		if v := strings.TrimSpace(q.Get("answer")); v != "" {
			return v, true
		}
	}
	return "", false
}

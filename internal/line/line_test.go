package line

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	sig := Sign("secret", body)

	tests := []struct {
		name   string
		secret string
		body   []byte
		sig    string
		ok     bool
	}{
		{"valid", "secret", body, sig, true},
		{"wrong secret", "other", body, sig, false},
		{"tampered body", "secret", []byte(`{"events":[{}]}`), sig, false},
		{"not base64", "secret", body, "%%%", false},
		{"empty signature", "secret", body, "", false},
		{"empty secret", "", body, sig, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.secret, tt.body, tt.sig)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSignature)
			}
		})
	}
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"destination": "Ubot",
		"events": [
			{"type":"message","replyToken":"r1","source":{"type":"user","userId":"U1"},
			 "message":{"id":"m1","type":"text","text":"財務壓力測試"}},
			{"type":"postback","replyToken":"r2","source":{"type":"user","userId":"U1"},
			 "postback":{"data":"answer=B"}},
			{"type":"message","replyToken":"r3","source":{"type":"user","userId":"U1"},
			 "message":{"id":"m2","type":"sticker"}},
			{"type":"follow","replyToken":"r4","source":{"type":"user","userId":"U2"}}
		]
	}`)

	wh, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Len(t, wh.Events, 4)

	text, ok := wh.Events[0].Text()
	assert.True(t, ok)
	assert.Equal(t, "財務壓力測試", text)

	text, ok = wh.Events[1].Text()
	assert.True(t, ok)
	assert.Equal(t, "B", text)

	_, ok = wh.Events[2].Text()
	assert.False(t, ok, "stickers carry no text")

	_, ok = wh.Events[3].Text()
	assert.False(t, ok)
	assert.Equal(t, "U2", wh.Events[3].Source.UserID)
}

func TestParseWebhook_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing type", `{"events":[{"replyToken":"r"}]}`},
		{"message without payload", `{"events":[{"type":"message","replyToken":"r"}]}`},
		{"postback without payload", `{"events":[{"type":"postback","replyToken":"r"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWebhook([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestEventText_PostbackWithoutAnswer(t *testing.T) {
	e := Event{Type: EventPostback, Postback: &PostbackContent{Data: "action=noop"}}
	_, ok := e.Text()
	assert.False(t, ok)
}

func TestClient_Reply(t *testing.T) {
	var got []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		got, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient("token", server.URL)
	flex := NewFlex("alt", json.RawMessage(`{"type":"bubble"}`))
	err := c.Reply(context.Background(), "rt", NewText("hi").WithQuickReply("取消"), flex)
	require.NoError(t, err)

	assert.Equal(t, "rt", gjson.GetBytes(got, "replyToken").String())
	assert.Equal(t, "text", gjson.GetBytes(got, "messages.0.type").String())
	assert.Equal(t, "取消", gjson.GetBytes(got, "messages.0.quickReply.items.0.action.text").String())
	assert.Equal(t, "bubble", gjson.GetBytes(got, "messages.1.contents.type").String())
	assert.Equal(t, "alt", gjson.GetBytes(got, "messages.1.altText").String())
}

func TestClient_PushAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The request body has 1 error(s)","details":[{"message":"must be specified","property":"to"}]}`))
	}))
	defer server.Close()

	err := NewClient("token", server.URL).Push(context.Background(), "", NewText("hi"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "to: must be specified")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	require.NoError(t, NewClient("token", server.URL).Push(context.Background(), "U1", NewText("hi")))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_MessageLimits(t *testing.T) {
	c := NewClient("token", "http://127.0.0.1:0")
	assert.NoError(t, c.Reply(context.Background(), "rt"), "no messages is a no-op")

	msgs := make([]Message, MaxMessages+1)
	for i := range msgs {
		msgs[i] = NewText("x")
	}
	assert.ErrorIs(t, c.Reply(context.Background(), "rt", msgs...), ErrTooManyMessages)
}

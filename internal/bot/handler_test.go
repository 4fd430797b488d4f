package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/line"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/registry"
	"github.com/abhisek/wealthnav/internal/session"
)

type sent struct {
	target string
	msgs   []line.Message
}

type fakeMessenger struct {
	mu      sync.Mutex
	replies []sent
	pushes  []sent
	err     error
}

func (f *fakeMessenger) Reply(_ context.Context, token string, msgs ...line.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, sent{token, msgs})
	return f.err
}

func (f *fakeMessenger) Push(_ context.Context, to string, msgs ...line.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, sent{to, msgs})
	return f.err
}

type fakeAdvisor struct {
	note string
	err  error
}

func (f fakeAdvisor) Note(context.Context, assessment.Result) (string, error) {
	return f.note, f.err
}

func newHandler(t *testing.T, opts ...Option) (*Handler, *fakeMessenger) {
	t.Helper()
	m := &fakeMessenger{}
	engine := session.NewEngine(questionnaire.Default(), nil)
	return New(engine, m, opts...), m
}

// headline returns the first text of a flex message body.
func headline(m line.Message) string {
	return gjson.GetBytes(m.Contents, "body.contents.0.text").String()
}

func TestRespond_StartShowsIntroAndFirstQuestion(t *testing.T) {
	h, _ := newHandler(t)
	msgs := h.Respond(context.Background(), "U1", " 財務壓力測試 ")

	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "本測試共 8 題")
	assert.Equal(t, "flex", msgs[1].Type)
	assert.Contains(t, headline(msgs[1]), "【", "first question carries the part header")
}

func TestRespond_Cancel(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()

	assert.Equal(t, noTestText, h.Respond(ctx, "U1", "取消")[0].Text)
	h.Respond(ctx, "U1", "測試")
	assert.Equal(t, cancelledText, h.Respond(ctx, "U1", "放棄")[0].Text)
	assert.Equal(t, welcomeText, h.Respond(ctx, "U1", "A")[0].Text, "answers after cancel are not in a test")
}

func TestRespond_FullRun(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()
	h.Respond(ctx, "U1", "測試")

	// Q1 -> Q2 stays in the same part.
	msgs := h.Respond(ctx, "U1", "D")
	require.Len(t, msgs, 1)
	assert.NotContains(t, headline(msgs[0]), "【")

	// Q2 -> Q3 opens a new part.
	msgs = h.Respond(ctx, "U1", "C")
	assert.Contains(t, headline(msgs[0]), "【")

	h.Respond(ctx, "U1", "D")
	msgs = h.Respond(ctx, "U1", "C") // onto the multi-select Q5
	q5 := headline(msgs[0])
	assert.Contains(t, q5, "可多選")

	msgs = h.Respond(ctx, "U1", "完成")
	require.Len(t, msgs, 2)
	assert.Equal(t, needSelectText, msgs[0].Text)

	msgs = h.Respond(ctx, "U1", "B")
	assert.Equal(t, "請繼續選擇或按完成", msgs[0].AltText)

	msgs = h.Respond(ctx, "U1", "zzz")
	require.Len(t, msgs, 2)
	assert.Equal(t, pickOrDoneText, msgs[0].Text)
	assert.Contains(t, headline(msgs[1]), "已選擇：")

	h.Respond(ctx, "U1", "完成")
	h.Respond(ctx, "U1", "A")
	h.Respond(ctx, "U1", "B")
	msgs = h.Respond(ctx, "U1", "A")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].AltText, "測試結果：")
	assert.Contains(t, string(msgs[0].Contents), "總分：42 / 42 分")
}

func TestRespond_InvalidSingleAnswer(t *testing.T) {
	h, _ := newHandler(t)
	ctx := context.Background()
	h.Respond(ctx, "U1", "測試")

	msgs := h.Respond(ctx, "U1", "banana")
	require.Len(t, msgs, 2)
	assert.Equal(t, pickOptionText, msgs[0].Text)
	assert.Equal(t, "flex", msgs[1].Type)
}

func TestRespond_DefaultWelcome(t *testing.T) {
	h, _ := newHandler(t)
	msgs := h.Respond(context.Background(), "U1", "hello")
	require.Len(t, msgs, 1)
	assert.Equal(t, welcomeText, msgs[0].Text)
}

func TestRespond_Registration(t *testing.T) {
	svc := registry.NewService(registry.NewMemoryBackend())
	h, _ := newHandler(t, WithRegistry(svc))
	ctx := context.Background()

	assert.Equal(t, askNameText, h.Respond(ctx, "U1", "報名")[0].Text)
	assert.Equal(t, invalidNameText, h.Respond(ctx, "U1", "   ")[0].Text)

	msgs := h.Respond(ctx, "U1", "王小明")
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "王小明")

	assert.Equal(t, registeredText, h.Respond(ctx, "U1", "註冊")[0].Text)
	assert.Equal(t, welcomeText, h.Respond(ctx, "U1", "hello")[0].Text)
}

func TestRespond_RegistrationDisabled(t *testing.T) {
	h, _ := newHandler(t)
	assert.Equal(t, welcomeText, h.Respond(context.Background(), "U1", "報名")[0].Text)
}

func TestHandleEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     line.Event
		wantReply bool
		wantText  string
	}{
		{
			name:      "follow greets",
			event:     line.Event{Type: line.EventFollow, ReplyToken: "r", Source: line.Source{UserID: "U1"}},
			wantReply: true,
			wantText:  welcomeText,
		},
		{
			name: "text message",
			event: line.Event{Type: line.EventMessage, ReplyToken: "r", Source: line.Source{UserID: "U1"},
				Message: &line.MessageContent{Type: "text", Text: "取消"}},
			wantReply: true,
			wantText:  noTestText,
		},
		{
			name: "postback answer",
			event: line.Event{Type: line.EventPostback, ReplyToken: "r", Source: line.Source{UserID: "U1"},
				Postback: &line.PostbackContent{Data: "answer=結束"}},
			wantReply: true,
			wantText:  noTestText,
		},
		{
			name: "sticker ignored",
			event: line.Event{Type: line.EventMessage, ReplyToken: "r", Source: line.Source{UserID: "U1"},
				Message: &line.MessageContent{Type: "sticker"}},
		},
		{
			name:  "no user",
			event: line.Event{Type: line.EventFollow, ReplyToken: "r"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newHandler(t)
			require.NoError(t, h.HandleEvent(context.Background(), tt.event))
			if !tt.wantReply {
				assert.Empty(t, m.replies)
				return
			}
			require.Len(t, m.replies, 1)
			assert.Equal(t, "r", m.replies[0].target)
			assert.Equal(t, tt.wantText, m.replies[0].msgs[0].Text)
		})
	}
}

func TestHandleEvent_UnfollowCancels(t *testing.T) {
	h, m := newHandler(t)
	h.Respond(context.Background(), "U1", "測試")
	require.NoError(t, h.HandleEvent(context.Background(), line.Event{Type: line.EventUnfollow, Source: line.Source{UserID: "U1"}}))
	assert.False(t, h.engine.IsActive("U1"))
	assert.Empty(t, m.replies)
}

func TestHandleEvent_ReplyError(t *testing.T) {
	h, m := newHandler(t)
	m.err = errors.New("boom")
	err := h.HandleEvent(context.Background(), line.Event{Type: line.EventFollow, ReplyToken: "r", Source: line.Source{UserID: "U1"}})
	assert.ErrorContains(t, err, "boom")
}

func finishTest(h *Handler, userID string) {
	ctx := context.Background()
	for _, in := range []string{"測試", "A", "A", "A", "A", "A", "完成", "A", "A", "A"} {
		h.Respond(ctx, userID, in)
	}
}

func TestAdvisorNotePushed(t *testing.T) {
	h, m := newHandler(t, WithAdvisor(fakeAdvisor{note: "先建立緊急預備金。"}, time.Second))
	finishTest(h, "U1")
	h.Wait()

	require.Len(t, m.pushes, 1)
	assert.Equal(t, "U1", m.pushes[0].target)
	assert.Equal(t, advisorPrefix+"先建立緊急預備金。", m.pushes[0].msgs[0].Text)
}

func TestAdvisorFailureIsQuiet(t *testing.T) {
	h, m := newHandler(t, WithAdvisor(fakeAdvisor{err: errors.New("down")}, time.Second))
	finishTest(h, "U1")
	h.Wait()
	assert.Empty(t, m.pushes)
}

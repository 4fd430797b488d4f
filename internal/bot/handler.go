// Package bot turns incoming chat events into questionnaire moves and
// the messages that answer them.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/flex"
	"github.com/abhisek/wealthnav/internal/line"
	"github.com/abhisek/wealthnav/internal/registry"
	"github.com/abhisek/wealthnav/internal/session"
)

// Messenger delivers outbound messages. *line.Client satisfies it.
type Messenger interface {
	Reply(ctx context.Context, replyToken string, msgs ...line.Message) error
	Push(ctx context.Context, to string, msgs ...line.Message) error
}

// Advisor writes a follow-up note for a finished test.
type Advisor interface {
	Note(ctx context.Context, r assessment.Result) (string, error)
}

// Handler routes events. The zero value is not usable; build with New.
type Handler struct {
	engine    *session.Engine
	messenger Messenger
	registry  *registry.Service
	advisor   Advisor

	adviceTimeout time.Duration
	tracer        trace.Tracer
	wg            sync.WaitGroup
}

// Option configures a Handler.
type Option func(*Handler)

// WithRegistry enables the sign-up conversation.
func WithRegistry(s *registry.Service) Option {
	return func(h *Handler) { h.registry = s }
}

// WithAdvisor pushes an advisor note after each completed test.
func WithAdvisor(a Advisor, timeout time.Duration) Option {
	return func(h *Handler) {
		h.advisor = a
		h.adviceTimeout = timeout
	}
}

// New creates a handler that runs questionnaires on engine and replies
// through messenger. Registration and advisor notes are off unless the
// matching options are given.
func New(engine *session.Engine, messenger Messenger, opts ...Option) *Handler {
	h := &Handler{
		engine:        engine,
		messenger:     messenger,
		adviceTimeout: 30 * time.Second,
		tracer:        otel.Tracer("github.com/abhisek/wealthnav/internal/bot"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleEvent answers one webhook event.
func (h *Handler) HandleEvent(ctx context.Context, ev line.Event) error {
	userID := ev.Source.UserID
	ctx, span := h.tracer.Start(ctx, "bot.HandleEvent", trace.WithAttributes(
		attribute.String("line.event", ev.Type),
	))
	defer span.End()

	if userID == "" {
		return nil
	}

	var msgs []line.Message
	switch ev.Type {
	case line.EventFollow:
		msgs = []line.Message{line.NewText(welcomeText)}
	case line.EventUnfollow:
		h.engine.Cancel(userID)
		return nil
	default:
		text, ok := ev.Text()
		if !ok {
			return nil
		}
		msgs = h.Respond(ctx, userID, text)
	}

	if len(msgs) == 0 || ev.ReplyToken == "" {
		return nil
	}
	if err := h.messenger.Reply(ctx, ev.ReplyToken, msgs...); err != nil {
		span.RecordError(err)
		return fmt.Errorf("reply to %s: %w", userID, err)
	}
	return nil
}

// Respond computes the reply to one line of user text.
func (h *Handler) Respond(ctx context.Context, userID, text string) []line.Message {
	text = strings.TrimSpace(text)

	switch {
	case isStart(text):
		return h.start(userID)
	case isCancel(text):
		if h.engine.Cancel(userID) {
			return texts(cancelledText)
		}
		return texts(noTestText)
	case isRegister(text) && h.registry != nil:
		return h.beginRegistration(ctx, userID)
	}

	if h.engine.IsActive(userID) {
		return h.answer(ctx, userID, text)
	}
	if h.registry != nil {
		if msgs, ok := h.submitName(ctx, userID, text); ok {
			return msgs
		}
	}
	return texts(welcomeText)
}

// Wait blocks until pending advisor pushes finish.
func (h *Handler) Wait() { h.wg.Wait() }

func (h *Handler) start(userID string) []line.Message {
	// Start discards any session in progress.
	q := h.engine.Start(userID)
	return []line.Message{
		line.NewText(fmt.Sprintf(introText, h.engine.Bank().Len())),
		flex.Question(q, true),
	}
}

func (h *Handler) answer(ctx context.Context, userID, text string) []line.Message {
	out, err := h.engine.Submit(ctx, userID, text)
	if errors.Is(err, session.ErrNoActiveSession) {
		// Lost a race with cancel or sweep.
		return texts(welcomeText)
	}
	if err != nil {
		log.Printf("warning: submit for %s: %v", userID, err)
		return texts(welcomeText)
	}

	switch o := out.(type) {
	case session.Invalid:
		return h.reprompt(userID)
	case session.NeedSelection:
		return []line.Message{line.NewText(needSelectText), flex.Question(o.Question, false)}
	case session.MultipleContinue:
		return []line.Message{flex.MultipleContinue(o.Question, o.Selected)}
	case session.Next:
		return []line.Message{flex.Question(o.Question, o.PartChanged)}
	case session.Complete:
		h.adviseLater(ctx, userID, o.Result)
		return []line.Message{flex.Result(o.Result)}
	}
	return nil
}

func (h *Handler) reprompt(userID string) []line.Message {
	q, ok := h.engine.CurrentQuestion(userID)
	if !ok {
		return texts(welcomeText)
	}
	if q.IsMultiple() {
		if sel := h.engine.PendingSelection(userID); len(sel) > 0 {
			return []line.Message{line.NewText(pickOrDoneText), flex.MultipleContinue(q, sel)}
		}
	}
	return []line.Message{line.NewText(pickOptionText), flex.Question(q, false)}
}

func (h *Handler) beginRegistration(ctx context.Context, userID string) []line.Message {
	status, err := h.registry.Begin(ctx, userID)
	if err != nil {
		log.Printf("warning: begin registration for %s: %v", userID, err)
		return texts(registryDownText)
	}
	if status == registry.StatusRegistered {
		return texts(registeredText)
	}
	return texts(askNameText)
}

// submitName consumes text as a name when the user is awaiting one.
func (h *Handler) submitName(ctx context.Context, userID, text string) ([]line.Message, bool) {
	status, err := h.registry.State(ctx, userID)
	if err != nil {
		log.Printf("warning: registration state for %s: %v", userID, err)
		return nil, false
	}
	if status != registry.StatusAwaitingName {
		return nil, false
	}

	rec, err := h.registry.SubmitName(ctx, userID, text)
	switch {
	case err == nil:
		return []line.Message{flex.Registered(rec.Name)}, true
	case errors.Is(err, registry.ErrNotAwaitingName):
		return nil, false
	case errors.Is(err, registry.ErrInvalidName):
		return texts(invalidNameText), true
	default:
		log.Printf("warning: submit name for %s: %v", userID, err)
		return texts(registryDownText), true
	}
}

// adviseLater pushes an advisor note without holding up the reply.
func (h *Handler) adviseLater(ctx context.Context, userID string, r assessment.Result) {
	if h.advisor == nil {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.adviceTimeout)
		defer cancel()

		note, err := h.advisor.Note(ctx, r)
		if err != nil {
			log.Printf("warning: advisor note for %s: %v", userID, err)
			return
		}
		if err := h.messenger.Push(ctx, userID, line.NewText(advisorPrefix+note)); err != nil {
			log.Printf("warning: push advisor note to %s: %v", userID, err)
		}
	}()
}

func texts(s ...string) []line.Message {
	out := make([]line.Message, len(s))
	for i, t := range s {
		out[i] = line.NewText(t)
	}
	return out
}

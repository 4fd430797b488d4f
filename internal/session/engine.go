// Package session runs per-user stress-test questionnaires: it tracks
// where each user is in the bank, applies answers, and produces the final
// assessment.
package session

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/wealthnav/internal/assessment"
	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// ErrNoActiveSession is returned by Submit when the user has no session.
var ErrNoActiveSession = errors.New("no active session")

// ResultSink receives finished results. The engine ignores its errors
// beyond logging them.
type ResultSink interface {
	RecordResult(ctx context.Context, userID string, score int, level string) error
}

// Engine drives questionnaire sessions over a Store.
type Engine struct {
	bank   questionnaire.Bank
	store  Store
	sink   ResultSink
	now    func() time.Time
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the destination for finished results.
func WithSink(s ResultSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine for bank. If store is nil an in-memory store
// is used.
func NewEngine(bank questionnaire.Bank, store Store, opts ...Option) *Engine {
	if store == nil {
		store = NewMemoryStore()
	}
	e := &Engine{
		bank:   bank,
		store:  store,
		now:    time.Now,
		tracer: otel.Tracer("github.com/abhisek/wealthnav/internal/session"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bank returns the question bank the engine serves.
func (e *Engine) Bank() questionnaire.Bank { return e.bank }

// Start begins a fresh session for userID, discarding any existing one,
// and returns the first question.
func (e *Engine) Start(userID string) questionnaire.Question {
	defer e.store.Lock(userID)()

	now := e.now()
	e.store.Put(userID, &State{
		SessionID: uuid.NewString(),
		Profile:   assessment.Profile{},
		Answers:   []assessment.Answer{},
		Pending:   []string{},
		StartedAt: now,
		UpdatedAt: now,
	})
	q, _ := e.bank.At(0)
	return q
}

// CurrentQuestion returns the question the user is on.
func (e *Engine) CurrentQuestion(userID string) (questionnaire.Question, bool) {
	defer e.store.Lock(userID)()

	st, ok := e.store.Get(userID)
	if !ok {
		return questionnaire.Question{}, false
	}
	return e.bank.At(st.CurrentIndex)
}

// IsActive reports whether userID has a session.
func (e *Engine) IsActive(userID string) bool {
	defer e.store.Lock(userID)()

	_, ok := e.store.Get(userID)
	return ok
}

// IsCurrentMultiple reports whether the user's current question is
// multi-select.
func (e *Engine) IsCurrentMultiple(userID string) bool {
	q, ok := e.CurrentQuestion(userID)
	return ok && q.IsMultiple()
}

// PendingSelection returns a copy of the user's in-progress multi-select
// values. It is empty, never nil, when there are none.
func (e *Engine) PendingSelection(userID string) []string {
	defer e.store.Lock(userID)()

	st, ok := e.store.Get(userID)
	if !ok {
		return []string{}
	}
	return append([]string{}, st.Pending...)
}

// Snapshot returns a copy of the user's session state.
func (e *Engine) Snapshot(userID string) (State, bool) {
	defer e.store.Lock(userID)()

	st, ok := e.store.Get(userID)
	if !ok {
		return State{}, false
	}
	return st.Clone(), true
}

// Cancel removes the user's session and reports whether one existed.
func (e *Engine) Cancel(userID string) bool {
	defer e.store.Lock(userID)()
	return e.store.Delete(userID)
}

// Submit applies one line of user input to the session.
func (e *Engine) Submit(ctx context.Context, userID, text string) (Outcome, error) {
	ctx, span := e.tracer.Start(ctx, "session.Submit")
	defer span.End()

	out, result, err := e.submitLocked(userID, text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("session.outcome", outcomeName(out)))

	if result != nil {
		e.record(ctx, userID, *result)
	}
	return out, nil
}

func (e *Engine) submitLocked(userID, text string) (Outcome, *assessment.Result, error) {
	defer e.store.Lock(userID)()

	st, ok := e.store.Get(userID)
	if !ok {
		return nil, nil, ErrNoActiveSession
	}
	q, ok := e.bank.At(st.CurrentIndex)
	if !ok {
		// A session past the end of the bank has nothing left to answer.
		e.store.Delete(userID)
		return nil, nil, ErrNoActiveSession
	}
	st.UpdatedAt = e.now()
	key := questionnaire.Key(st.CurrentIndex)

	if q.IsMultiple() && IsCompletionKeyword(text) {
		if len(st.Pending) == 0 {
			e.store.Put(userID, st)
			return NeedSelection{Question: q}, nil, nil
		}
		committed := assessment.Multi(st.Pending)
		st.Profile[key] = committed
		st.Answers = append(st.Answers, committed)
		st.Pending = []string{}
		out, result := e.advance(userID, st)
		return out, result, nil
	}

	idx, ok := resolveOption(q, text)
	if !ok {
		e.store.Put(userID, st)
		return Invalid{}, nil, nil
	}
	opt := q.Options[idx]

	if q.IsMultiple() {
		st.toggle(opt.Canonical())
		e.store.Put(userID, st)
		return MultipleContinue{
			Selected: append([]string{}, st.Pending...),
			Question: q,
		}, nil, nil
	}

	st.Answers = append(st.Answers, assessment.Single(opt.Code()))
	if q.Scored {
		st.Score += opt.Score
	} else {
		st.Profile[key] = assessment.Single(opt.Canonical())
	}
	out, result := e.advance(userID, st)
	return out, result, nil
}

// advance moves to the next question, finalizing when the bank is
// exhausted. Callers hold the user's lock.
func (e *Engine) advance(userID string, st *State) (Outcome, *assessment.Result) {
	st.CurrentIndex++
	if next, ok := e.bank.At(st.CurrentIndex); ok {
		e.store.Put(userID, st)
		return Next{
			Question:    next,
			Index:       st.CurrentIndex,
			PartChanged: e.bank.PartChanged(st.CurrentIndex),
		}, nil
	}

	result := assessment.NewResult(st.Score, e.bank.MinScore(), e.bank.MaxScore(), st.Profile.Clone())
	e.store.Delete(userID)
	return Complete{Result: result}, &result
}

func (e *Engine) record(ctx context.Context, userID string, r assessment.Result) {
	if e.sink == nil {
		return
	}
	ctx = assessment.WithResultID(ctx, uuid.NewString())
	if err := e.sink.RecordResult(ctx, userID, r.Score, r.Level); err != nil {
		log.Printf("warning: record result for %s: %v", userID, err)
	}
}

// Sweep removes sessions idle for longer than idle and returns how many
// were removed. A non-positive idle removes nothing.
func (e *Engine) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := e.now().Add(-idle)

	var ids []string
	e.store.Range(func(userID string, _ *State) bool {
		ids = append(ids, userID)
		return true
	})

	removed := 0
	for _, userID := range ids {
		unlock := e.store.Lock(userID)
		if st, ok := e.store.Get(userID); ok && st.UpdatedAt.Before(cutoff) {
			if e.store.Delete(userID) {
				removed++
			}
		}
		unlock()
	}
	return removed
}

func outcomeName(o Outcome) string {
	switch o.(type) {
	case Invalid:
		return "invalid"
	case NeedSelection:
		return "need_selection"
	case MultipleContinue:
		return "multiple_continue"
	case Next:
		return "next"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

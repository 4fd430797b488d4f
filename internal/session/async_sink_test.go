package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wealthnav/internal/assessment"
)

func fastAsyncConfig() AsyncConfig {
	return AsyncConfig{
		QueueSize:   4,
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

// flakySink fails the first failures calls.
type flakySink struct {
	mu       sync.Mutex
	failures int
	calls    int
	got      []recordedResult
	ids      []string
}

func (f *flakySink) RecordResult(ctx context.Context, userID string, score int, level string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.ids = append(f.ids, assessment.ResultIDFrom(ctx))
	if f.calls <= f.failures {
		return errors.New("transient")
	}
	f.got = append(f.got, recordedResult{userID, score, level})
	return nil
}

func TestAsyncSinkDelivers(t *testing.T) {
	inner := &flakySink{}
	s := NewAsyncSink(inner, fastAsyncConfig())

	require.NoError(t, s.RecordResult(context.Background(), "u1", 30, "green"))
	require.NoError(t, s.RecordResult(context.Background(), "u2", 10, "red"))
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, []recordedResult{{"u1", 30, "green"}, {"u2", 10, "red"}}, inner.got)
}

func TestAsyncSinkRetries(t *testing.T) {
	inner := &flakySink{failures: 2}
	s := NewAsyncSink(inner, fastAsyncConfig())

	require.NoError(t, s.RecordResult(context.Background(), "u1", 30, "green"))
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, 3, inner.calls)
	assert.Len(t, inner.got, 1)
}

func TestAsyncSinkRetriesCarryOneResultID(t *testing.T) {
	inner := &flakySink{failures: 2}
	s := NewAsyncSink(inner, fastAsyncConfig())

	require.NoError(t, s.RecordResult(context.Background(), "u1", 30, "green"))
	require.NoError(t, s.RecordResult(assessment.WithResultID(context.Background(), "given"), "u2", 10, "red"))
	require.NoError(t, s.Close(context.Background()))

	require.Len(t, inner.ids, 4)
	assert.NotEmpty(t, inner.ids[0])
	assert.Equal(t, inner.ids[0], inner.ids[1])
	assert.Equal(t, inner.ids[0], inner.ids[2])
	assert.Equal(t, "given", inner.ids[3])
}

func TestAsyncSinkGivesUp(t *testing.T) {
	inner := &flakySink{failures: 10}
	s := NewAsyncSink(inner, fastAsyncConfig())

	require.NoError(t, s.RecordResult(context.Background(), "u1", 30, "green"))
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, 3, inner.calls)
	assert.Empty(t, inner.got)
}

func TestAsyncSinkIgnoresCallerCancel(t *testing.T) {
	inner := &flakySink{}
	s := NewAsyncSink(inner, fastAsyncConfig())

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.RecordResult(ctx, "u1", 30, "green"))
	cancel()
	require.NoError(t, s.Close(context.Background()))
	assert.Len(t, inner.got, 1)
}

// blockingSink holds every call until released.
type blockingSink struct {
	release chan struct{}
}

func (b *blockingSink) RecordResult(context.Context, string, int, string) error {
	<-b.release
	return nil
}

func TestAsyncSinkDropsWhenFull(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{})}
	cfg := fastAsyncConfig()
	cfg.QueueSize = 1
	s := NewAsyncSink(inner, cfg)

	// One job may be in flight and one queued; the rest must be dropped.
	var full bool
	for range 5 {
		if err := s.RecordResult(context.Background(), "u", 1, "red"); errors.Is(err, ErrSinkFull) {
			full = true
		}
	}
	assert.True(t, full)

	close(inner.release)
	require.NoError(t, s.Close(context.Background()))
}

func TestAsyncSinkClosed(t *testing.T) {
	s := NewAsyncSink(&flakySink{}, fastAsyncConfig())
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))

	err := s.RecordResult(context.Background(), "u1", 1, "red")
	assert.ErrorIs(t, err, ErrSinkClosed)
}

func TestAsyncSinkCloseTimeout(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{})}
	s := NewAsyncSink(inner, fastAsyncConfig())
	require.NoError(t, s.RecordResult(context.Background(), "u1", 1, "red"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(inner.release)
}

func TestEngineWithAsyncSink(t *testing.T) {
	inner := &flakySink{}
	s := NewAsyncSink(inner, fastAsyncConfig())
	e, _ := newTestEngine(t, WithSink(s))

	e.Start("u1")
	out := submitAll(t, e, "u1", "A", "A", "A", "A", "B", "完成", "C", "B", "C")
	require.IsType(t, Complete{}, out)

	require.NoError(t, s.Close(context.Background()))
	require.Len(t, inner.got, 1)
	assert.Equal(t, 5, inner.got[0].score)
}

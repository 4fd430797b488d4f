package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/abhisek/wealthnav/internal/assessment"
)

var (
	// ErrSinkFull is returned when the result queue has no room. The
	// result is dropped.
	ErrSinkFull = errors.New("result queue full")

	// ErrSinkClosed is returned after Close.
	ErrSinkClosed = errors.New("result sink closed")
)

var sinkTracer = otel.Tracer("github.com/abhisek/wealthnav/internal/session")

// AsyncConfig tunes an AsyncSink.
type AsyncConfig struct {
	QueueSize   int
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultAsyncConfig returns the settings used by the server.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		QueueSize:   64,
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}

// AsyncSink forwards results to another sink on a background worker.
// RecordResult never blocks; delivery failures are retried with
// exponential backoff and then logged.
type AsyncSink struct {
	inner   ResultSink
	config  AsyncConfig
	mu      sync.RWMutex
	closed  bool
	pending chan resultJob
	done    chan struct{}
}

type resultJob struct {
	ctx    context.Context
	userID string
	score  int
	level  string
}

// NewAsyncSink starts the worker.
func NewAsyncSink(inner ResultSink, cfg AsyncConfig) *AsyncSink {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultAsyncConfig().QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	s := &AsyncSink{
		inner:   inner,
		config:  cfg,
		pending: make(chan resultJob, cfg.QueueSize),
		done:    make(chan struct{}),
	}
	go s.processLoop()
	return s
}

// RecordResult enqueues the result. The caller's cancellation does not
// reach the delivery. Results arriving without an ID get one here, so
// retries of the same job are recognisable downstream.
func (s *AsyncSink) RecordResult(ctx context.Context, userID string, score int, level string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}

	ctx = context.WithoutCancel(ctx)
	if assessment.ResultIDFrom(ctx) == "" {
		ctx = assessment.WithResultID(ctx, uuid.NewString())
	}
	job := resultJob{ctx: ctx, userID: userID, score: score, level: level}
	select {
	case s.pending <- job:
		return nil
	default:
		return ErrSinkFull
	}
}

func (s *AsyncSink) processLoop() {
	defer close(s.done)
	for job := range s.pending {
		if err := s.deliver(job); err != nil {
			log.Printf("warning: persist result for %s (score %d): %v", job.userID, job.score, err)
		}
	}
}

func (s *AsyncSink) deliver(job resultJob) error {
	ctx, span := sinkTracer.Start(job.ctx, "session.RecordResult")
	defer span.End()
	span.SetAttributes(
		attribute.Int("result.score", job.score),
		attribute.String("result.level", job.level),
	)

	var lastErr error
	for attempt := range s.config.MaxAttempts {
		err := s.inner.RecordResult(ctx, job.userID, job.score, job.level)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == s.config.MaxAttempts-1 {
			break
		}
		time.Sleep(s.backoff(attempt))
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, lastErr.Error())
	return fmt.Errorf("after %d attempts: %w", s.config.MaxAttempts, lastErr)
}

func (s *AsyncSink) backoff(attempt int) time.Duration {
	wait := float64(s.config.InitialWait) * math.Pow(s.config.Multiplier, float64(attempt))
	if s.config.MaxWait > 0 && wait > float64(s.config.MaxWait) {
		wait = float64(s.config.MaxWait)
	}
	return time.Duration(wait)
}

// Close stops accepting results and waits for queued ones to be
// delivered, or for ctx to expire.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.pending)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain result queue: %w", ctx.Err())
	}
}

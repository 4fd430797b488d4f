package registry

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps registrations in process. It is used when no
// durable backend is configured and in tests.
type MemoryBackend struct {
	mu   sync.Mutex
	rows map[string]Record
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{rows: make(map[string]Record)}
}

func (m *MemoryBackend) Find(_ context.Context, userID string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[userID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryBackend) Create(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[rec.UserID] = rec
	return nil
}

func (m *MemoryBackend) UpdateName(_ context.Context, userID, name string) error {
	return m.update(userID, func(r *Record) { r.Name = name })
}

func (m *MemoryBackend) Complete(_ context.Context, userID, paymentCode string, at time.Time) error {
	return m.update(userID, func(r *Record) {
		r.PaymentCode = paymentCode
		r.RegisteredAt = at
		r.Status = StatusRegistered
	})
}

func (m *MemoryBackend) RecordResult(_ context.Context, userID string, score int, level string, at time.Time) error {
	return m.update(userID, func(r *Record) {
		r.Score = &score
		r.Level = level
		r.TestedAt = at
	})
}

func (m *MemoryBackend) update(userID string, fn func(*Record)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.rows[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&rec)
	m.rows[userID] = rec
	return nil
}

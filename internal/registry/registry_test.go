package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend()
	s := NewService(b)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s, b
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status Status
		label  string
	}{
		{StatusAwaitingName, "註冊中"},
		{StatusRegistered, "待追蹤"},
		{StatusUnknown, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.status.Label())
		assert.Equal(t, tt.status, ParseLabel(tt.label))
	}
	assert.Equal(t, StatusUnknown, ParseLabel("已成交"))
}

func TestBeginNewUser(t *testing.T) {
	s, b := newTestService(t)
	ctx := context.Background()

	st, err := s.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, st)

	st, err = s.Begin(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingName, st)

	rec, err := b.Find(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingName, rec.Status)
	assert.Empty(t, rec.Name)
}

func TestBeginIsIdempotentWhileAwaiting(t *testing.T) {
	s, b := newTestService(t)
	ctx := context.Background()
	_, err := s.Begin(ctx, "u1")
	require.NoError(t, err)
	_, err = s.Begin(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, b.rows, 1)
}

func TestSubmitNameCompletes(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	_, err := s.Begin(ctx, "u1")
	require.NoError(t, err)

	rec, err := s.SubmitName(ctx, "u1", "  王小明 ")
	require.NoError(t, err)
	assert.Equal(t, "王小明", rec.Name)
	assert.Equal(t, StatusRegistered, rec.Status)
	assert.Equal(t, s.now(), rec.RegisteredAt)

	st, err := s.State(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusRegistered, st)

	// Registered users are reported as such, even with no payment code.
	st, err = s.Begin(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusRegistered, st)
}

func TestSubmitNameRejects(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.SubmitName(ctx, "stranger", "Amy")
	assert.ErrorIs(t, err, ErrNotAwaitingName)

	_, err = s.Begin(ctx, "u1")
	require.NoError(t, err)
	_, err = s.SubmitName(ctx, "u1", "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.SubmitName(ctx, "u1", "Amy")
	require.NoError(t, err)
	_, err = s.SubmitName(ctx, "u1", "Amy again")
	assert.ErrorIs(t, err, ErrNotAwaitingName)
}

func TestRecordResult(t *testing.T) {
	s, b := newTestService(t)
	ctx := context.Background()
	_, err := s.Begin(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, s.RecordResult(ctx, "u1", 33, "🟢【綠色穩健】財富方舟族"))
	rec, err := b.Find(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec.Score)
	assert.Equal(t, 33, *rec.Score)
	assert.Equal(t, s.now(), rec.TestedAt)

	// Unregistered users are skipped silently.
	assert.NoError(t, s.RecordResult(ctx, "ghost", 10, "red"))
}

type failingBackend struct{ MemoryBackend }

func (f *failingBackend) Find(context.Context, string) (Record, error) {
	return Record{}, errors.New("quota exceeded")
}

func TestBackendErrorsAreWrapped(t *testing.T) {
	s := NewService(&failingBackend{})
	_, err := s.Begin(context.Background(), "u1")
	assert.ErrorContains(t, err, "find registration: quota exceeded")

	_, err = s.State(context.Background(), "u1")
	assert.Error(t, err)
}

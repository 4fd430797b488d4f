package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wealthnav/internal/session"
	"github.com/abhisek/wealthnav/internal/store"
)

type failingSink struct{ calls int }

func (f *failingSink) RecordResult(context.Context, string, int, string) error {
	f.calls++
	return errors.New("sheet unavailable")
}

func TestFanoutRecordsHistoryDespiteFailure(t *testing.T) {
	st, err := store.Open("file:cmd_fanout?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	bad := &failingSink{}
	sink := fanout{historySink{repo: st.Results()}, bad}

	err = sink.RecordResult(context.Background(), "U1", 30, "green")
	assert.ErrorContains(t, err, "sheet unavailable")
	assert.Equal(t, 1, bad.calls)

	got, err := st.Results().Query(context.Background(), "U1", store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 30, got[0].Score)
}

func TestAsyncFanoutRetriesWriteHistoryOnce(t *testing.T) {
	st, err := store.Open("file:cmd_async_fanout?mode=memory&cache=shared")
	require.NoError(t, err)
	defer st.Close()

	bad := &failingSink{}
	async := session.NewAsyncSink(fanout{historySink{repo: st.Results()}, bad}, session.AsyncConfig{
		QueueSize:   1,
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		Multiplier:  1,
	})
	require.NoError(t, async.RecordResult(context.Background(), "U1", 30, "green"))
	require.NoError(t, async.Close(context.Background()))

	assert.Equal(t, 3, bad.calls)
	got, err := st.Results().Query(context.Background(), "U1", store.QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "財務壓", truncate("財務壓力測試", 3))
	assert.Equal(t, "gpt", truncate("gpt", 10))
}

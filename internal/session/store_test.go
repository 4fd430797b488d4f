package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreBasics(t *testing.T) {
	s := NewMemoryStore()
	_, ok := s.Get("u1")
	assert.False(t, ok)

	s.Put("u1", &State{Score: 3})
	st, ok := s.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, 3, st.Score)

	assert.True(t, s.Delete("u1"))
	assert.False(t, s.Delete("u1"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreRangeAllowsReentry(t *testing.T) {
	s := NewMemoryStore()
	s.Put("a", &State{})
	s.Put("b", &State{})

	seen := 0
	s.Range(func(userID string, _ *State) bool {
		seen++
		s.Delete(userID)
		return true
	})
	assert.Equal(t, 2, seen)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreRangeStops(t *testing.T) {
	s := NewMemoryStore()
	s.Put("a", &State{})
	s.Put("b", &State{})

	seen := 0
	s.Range(func(string, *State) bool {
		seen++
		return false
	})
	assert.Equal(t, 1, seen)
}

func TestMemoryStoreLockSerializesSameUser(t *testing.T) {
	s := NewMemoryStore()
	unlock := s.Lock("u1")

	acquired := make(chan struct{})
	go func() {
		defer close(acquired)
		s.Lock("u1")()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired
}

func TestMemoryStoreLockDistinctUsers(t *testing.T) {
	s := NewMemoryStore()
	unlock := s.Lock("u1")
	defer unlock()

	done := make(chan struct{})
	go func() {
		s.Lock("u2")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on u2 blocked by u1")
	}
}

func TestMemoryStoreLockEntriesReleased(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock("u1")()
		}()
	}
	wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.locks)
}

func TestStateCloneIsDeep(t *testing.T) {
	st := &State{Pending: []string{"a"}}
	st.toggle("b")
	c := st.Clone()
	c.Pending[0] = "x"
	assert.Equal(t, []string{"a", "b"}, st.Pending)

	st.toggle("a")
	assert.Equal(t, []string{"b"}, st.Pending)
}

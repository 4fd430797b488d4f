package session

import "sync"

// Store holds session state keyed by user. Implementations must make
// Lock a per-user mutual exclusion: two callers locking the same user
// serialize, callers for different users do not block each other.
type Store interface {
	Get(userID string) (*State, bool)
	Put(userID string, st *State)
	Delete(userID string) bool
	Lock(userID string) (unlock func())
	Range(fn func(userID string, st *State) bool)
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State
	locks    map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*State),
		locks:    make(map[string]*userLock),
	}
}

func (s *MemoryStore) Get(userID string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[userID]
	return st, ok
}

func (s *MemoryStore) Put(userID string, st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = st
}

func (s *MemoryStore) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Lock acquires the user's mutex. Lock entries are reference counted and
// dropped once no caller holds or waits on them.
func (s *MemoryStore) Lock(userID string) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// Range calls fn for a snapshot of the stored sessions until fn returns
// false. fn may call back into the store.
func (s *MemoryStore) Range(fn func(userID string, st *State) bool) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	states := make([]*State, 0, len(s.sessions))
	for id, st := range s.sessions {
		ids = append(ids, id)
		states = append(states, st)
	}
	s.mu.Unlock()

	for i, id := range ids {
		if !fn(id, states[i]) {
			return
		}
	}
}

// Len returns the number of stored sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

package session

import (
	"sync"
	"time"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps one Session per session id for the lifetime of the process.
type Store struct {
	greeting string
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates a registry whose sessions are seeded with greeting.
func NewStore(greeting string) *Store {
	return &Store{
		greeting: greeting,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Get returns the initialized session for id, creating it on first use.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		sess := New(s.greeting)
		sess.Initialize()
		e = &entry{session: sess}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e.session
}

// Delete forgets the session for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops sessions not touched within maxIdle and returns how many were
// removed. A non-positive maxIdle keeps everything.
func (s *Store) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len is the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

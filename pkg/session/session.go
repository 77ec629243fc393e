package session

import (
	"sync"
)

// Session is the conversation state for one user. The zero value is not
// usable; call New.
//
// Exchanges on a Session are serialised: Lock/Unlock bracket a whole
// submission so only one request per session is in flight.
type Session struct {
	greeting string

	exchange sync.Mutex

	mu         sync.RWMutex
	transcript []Turn
	log        []Turn
}

// New returns an empty, unseeded session. An empty greeting falls back to
// DefaultGreeting.
func New(greeting string) *Session {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	return &Session{greeting: greeting}
}

// Initialize seeds an empty transcript with the assistant greeting and resets
// the conversation log. A transcript that already has turns is left alone.
func (s *Session) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.transcript) > 0 {
		return
	}

	s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Content: s.greeting})
	s.log = nil
}

// AppendExchange appends the user turn and then the assistant turn to both the
// transcript and the conversation log.
func (s *Session) AppendExchange(userText, assistantText string) {
	user := Turn{Role: RoleUser, Content: userText}
	assistant := Turn{Role: RoleAssistant, Content: assistantText}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcript = append(s.transcript, user, assistant)
	s.log = append(s.log, user, assistant)
}

// Recent returns up to n trailing turns of the transcript, oldest first.
func (s *Session) Recent(n int) []Turn {
	if n <= 0 {
		return []Turn{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := max(len(s.transcript)-n, 0)
	out := make([]Turn, len(s.transcript)-start)
	copy(out, s.transcript[start:])
	return out
}

// Transcript returns a copy of the full displayed history.
func (s *Session) Transcript() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn(nil), s.transcript...)
}

// ConversationLog returns a copy of the internal conversation log.
func (s *Session) ConversationLog() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Turn(nil), s.log...)
}

// Len is the transcript length.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcript)
}

// Lock claims the session for one submission.
func (s *Session) Lock() { s.exchange.Lock() }

// Unlock releases a claim taken with Lock.
func (s *Session) Unlock() { s.exchange.Unlock() }

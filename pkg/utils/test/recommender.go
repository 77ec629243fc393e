// Package test holds fakes shared by package tests.
package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockRecommender is an httptest server standing in for the recommendation
// endpoint. It records every received content value.
type MockRecommender struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	reply    string
	received []string
}

// NewMockRecommender answers every POST with status and {"reply": reply}.
func NewMockRecommender(status int, reply string) *MockRecommender {
	m := &MockRecommender{status: status, reply: reply}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

func (m *MockRecommender) handle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	raw, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(raw, &body)

	m.mu.Lock()
	m.received = append(m.received, body.Content)
	status, reply := m.status, m.reply
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusOK {
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": reply})
		return
	}
	_, _ = w.Write([]byte(`{"detail":"unavailable"}`))
}

// Received returns the content of every request so far.
func (m *MockRecommender) Received() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.received...)
}

// StubDispatcher returns Reply for every query and records the queries.
type StubDispatcher struct {
	Reply string

	mu   sync.Mutex
	seen []string
}

func (s *StubDispatcher) Dispatch(_ context.Context, text string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, text)
	return s.Reply
}

// Seen returns the dispatched queries.
func (s *StubDispatcher) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

// Package inmem provides an in-memory session.Store for tests and local
// development. Production deployments supply a durable implementation.
package inmem

import (
	"context"
	"sync"

	"github.com/goadesign/agentcore/session"
)

// Store is an in-memory implementation of session.Store safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	messages map[string][]session.Message
}

// New returns an empty Store.
func New() *Store {
	return &Store{messages: make(map[string][]session.Message)}
}

// Append implements session.Store.
func (s *Store) Append(_ context.Context, sessionID string, msg session.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return nil
}

// History implements session.Store.
func (s *Store) History(_ context.Context, sessionID string) ([]session.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	existing := s.messages[sessionID]
	out := make([]session.Message, len(existing))
	copy(out, existing)
	return out, nil
}

var _ session.Store = (*Store)(nil)

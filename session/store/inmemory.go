package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/researchkit/deepresearch/session"
)

// InMemoryStore keeps session records in process memory, suitable for
// tests and single-process deployments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string][]*session.Record
}

// NewInMemoryStore creates an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string][]*session.Record),
	}
}

// Append adds a record to its session's history.
func (s *InMemoryStore) Append(_ context.Context, rec *session.Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.SessionID] = append(s.records[rec.SessionID], rec.Clone())
	return nil
}

// History returns the session's records in append order.
func (s *InMemoryStore) History(_ context.Context, sessionID string) ([]*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.records[sessionID]
	out := make([]*session.Record, len(stored))
	for i, rec := range stored {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Clear drops the session's history.
func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

// Count returns the number of records in the session.
func (s *InMemoryStore) Count(_ context.Context, sessionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[sessionID]), nil
}

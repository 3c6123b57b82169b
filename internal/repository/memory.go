package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/rivermin01/personal-study-guide/internal/models"
)

// MemorySessionStore keeps sessions in process memory. Nothing survives a
// restart. Payloads are copied on the way in and out, so callers never share
// a map with the store.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions []models.SavedSession
	index    map[string]int
}

// NewMemorySessionStore creates an empty in-memory store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{index: make(map[string]int)}
}

func (s *MemorySessionStore) Append(ctx context.Context, session *models.SavedSession) (string, error) {
	if err := ensureID(session); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[session.ID]; exists {
		return "", fmt.Errorf("failed to append session %s: %w", session.ID, ErrDuplicateID)
	}
	s.index[session.ID] = len(s.sessions)
	s.sessions = append(s.sessions, session.Clone())

	return session.ID, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.SavedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	session := s.sessions[i].Clone()
	return &session, nil
}

// Len returns the number of stored sessions
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// List returns a copy of all sessions in append order
func (s *MemorySessionStore) List() []models.SavedSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SavedSession, len(s.sessions))
	for i, session := range s.sessions {
		out[i] = session.Clone()
	}
	return out
}

func (s *MemorySessionStore) Close() error { return nil }

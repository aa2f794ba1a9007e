// File: services/session/memory.go
package session

import (
	"context"
	"sync"
	"time"

	"frontdesk/models"
)

// MemoryStore is an in-process Store for tests and redis-less
// development. Expiry is checked lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, callerID string) (*models.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[callerID]
	s.mu.RUnlock()
	if !ok || s.expired(sess) {
		return models.NewSession(callerID), nil
	}
	// Hand out a copy; the caller commits changes via Put.
	cp := *sess
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *models.Session) error {
	sess.Touch()
	cp := *sess
	s.mu.Lock()
	s.sessions[sess.CallerID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, callerID string) error {
	s.mu.Lock()
	delete(s.sessions, callerID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) expired(sess *models.Session) bool {
	return s.ttl > 0 && time.Since(sess.UpdatedAt) > s.ttl
}

package memory

import (
	"sync"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// SessionStore holds operator sessions in process memory only.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]model.Session)}
}

// Set replaces the operator session. An empty session clears it.
func (s *SessionStore) Set(operatorID int64, session model.Session) model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == "" {
		delete(s.sessions, operatorID)
		return ""
	}
	s.sessions[operatorID] = session
	return session
}

// Get returns the operator session if one was accepted.
func (s *SessionStore) Get(operatorID int64) (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[operatorID]
	return session, ok
}

// Has reports whether the operator has a session.
func (s *SessionStore) Has(operatorID int64) bool {
	_, ok := s.Get(operatorID)
	return ok
}

// Clear forgets the operator session.
func (s *SessionStore) Clear(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, operatorID)
}

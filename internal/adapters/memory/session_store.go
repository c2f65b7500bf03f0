package memory

import (
	"sync"

	"github.com/bnema/podwatch/internal/domain"
	"github.com/bnema/podwatch/internal/ports"
)

// SessionStore is the in-process session table. State lives for the process
// lifetime only; there is no persistence across restarts.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionKey]domain.Session
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionKey]domain.Session),
	}
}

func (s *SessionStore) Get(key domain.SessionKey) (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[key]
	return session, ok
}

func (s *SessionStore) Put(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Key] = session
}

func (s *SessionStore) Delete(key domain.SessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
}

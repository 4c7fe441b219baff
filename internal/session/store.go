package session

import (
	"sync"

	"github.com/pawan0320/ecovoyage-backend/internal/domain/checkout"
)

// Store holds in-progress checkout sessions. Sessions are ephemeral and
// process-local; once confirmed or cancelled the caller removes them.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*checkout.Session)}
}

func (s *Store) Put(sess *checkout.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *Store) Get(id string) (*checkout.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Package session holds the local user's identity. One Store corresponds
// to one client context, the way a browser tab owns its session storage:
// identities are never shared between contexts and vanish with them.
package session

import (
	"sync"

	"github.com/scrumprime/poker/internal/core/ports"
)

// Store is an in-memory, single-slot session store.
type Store struct {
	mu   sync.Mutex
	sess ports.Session
	ok   bool
}

func NewStore() *Store {
	return &Store{}
}

var _ ports.SessionStore = (*Store)(nil)

// Get returns the active session, if any.
func (s *Store) Get() (ports.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, s.ok
}

// Set replaces the active session.
func (s *Store) Set(sess ports.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.ok = true
}

// Clear drops the active session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = ports.Session{}
	s.ok = false
}

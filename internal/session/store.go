package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liamwears/moviecards/internal/controller"
)

// Store keeps one controller per browser session in process memory.
// View state is never persisted; an expired or unknown session starts empty.
type Store struct {
	newController func() *controller.Controller
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	ctrl     *controller.Controller
	lastSeen time.Time
}

// NewStore creates a new session store
func NewStore(newController func() *controller.Controller, ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = time.Hour // default 1 hour
	}
	return &Store{
		newController: newController,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[uuid.UUID]*entry),
	}
}

// Create starts a new session
func (s *Store) Create() (uuid.UUID, *controller.Controller) {
	id := uuid.New()
	ctrl := s.newController()

	s.mu.Lock()
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	s.mu.Unlock()

	return id, ctrl
}

// Get returns the controller of a live session and refreshes its TTL
func (s *Store) Get(id uuid.UUID) (*controller.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}

	// Refresh TTL on access
	e.lastSeen = s.now()
	return e.ctrl, true
}

// Delete removes a session
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
}

// Len returns the number of sessions held
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep drops every session idle for longer than the TTL and returns how many were dropped
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

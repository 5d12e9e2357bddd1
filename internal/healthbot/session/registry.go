package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a session ID is not registered.
var ErrNotFound = errors.New("session not found")

// Registry keeps the live sessions of a multi-user surface in memory.
// Sessions are isolated from each other; turns within one session are
// serialised by With. Nothing survives a process restart.
type Registry struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// NewRegistry creates an empty registry. Sessions idle for longer than
// idleTimeout are removed by Sweep; zero disables expiry.
func NewRegistry(idleTimeout time.Duration) *Registry {
	return &Registry{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create registers a new session for model and returns it.
func (r *Registry) Create(model string) *Session {
	s := NewSession(model)

	r.mu.Lock()
	r.sessions[s.ID] = &entry{session: s, lastSeen: r.now()}
	r.mu.Unlock()

	return s
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	e, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.session, nil
}

// List returns the live sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.session)
	}
	r.mu.RUnlock()

	sortByCreation(out)
	return out
}

func sortByCreation(sessions []*Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}

// With runs fn while holding the session's turn lock, so at most one
// turn per session is in flight.
func (r *Registry) With(id string, fn func(s *Session) error) error {
	now := r.now()

	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastSeen = now
	}
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s := e.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatedAt = now

	return fn(s)
}

// Transcript returns the display log of a session without waiting for a turn
// in flight. It counts as activity for Sweep.
func (r *Registry) Transcript(id string) ([]Entry, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok {
		e.lastSeen = r.now()
	}
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.session.Transcript().Entries(), nil
}

// Delete ends a session. A turn already in flight completes against the
// detached session and is then discarded.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle since before now minus the idle timeout and
// returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	cutoff := now.Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Package session keeps per-client color editor state in memory.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-color-mood/internal/colorstate"
	"go-color-mood/internal/mood"
	"go-color-mood/internal/strategy"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Session is one editor: the active control set, the color it shows and
// the outcome of the latest prediction. LastMood is cleared whenever the
// color or mode changes; LastModel stays as the selected model.
type Session struct {
	ID        string                `json:"id"`
	Mode      strategy.Mode         `json:"mode"`
	Color     colorstate.ColorState `json:"color"`
	LastModel mood.ModelID          `json:"last_model"`
	LastMood  string                `json:"last_mood,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// Store holds sessions until they have been idle for the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session in RGB mode with the default color.
func (s *Store) Create() Session {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		Mode:      strategy.ModeRGB,
		Color:     colorstate.Default(),
		LastModel: mood.LogisticRegression,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a live session and refreshes its idle timer.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.UpdatedAt = s.now()
	s.sessions[id] = sess
	return sess, nil
}

// Update applies fn to a copy of the session and stores the result if fn
// succeeds. The session is locked for the duration of fn.
func (s *Store) Update(id string, fn func(*Session) error) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	next := sess
	if err := fn(&next); err != nil {
		return sess, err
	}
	next.ID = sess.ID
	next.CreatedAt = sess.CreatedAt
	next.UpdatedAt = s.now()
	s.sessions[id] = next
	return next, nil
}

// Sweep drops idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives
// each non-zero removal count.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 && onSweep != nil {
				onSweep(removed)
			}
		}
	}
}

// live must be called with mu held.
func (s *Store) live(id string) (Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	if s.now().Sub(sess.UpdatedAt) > s.ttl {
		delete(s.sessions, id)
		return Session{}, false
	}
	return sess, true
}

// Package session keeps draft emails on the server between generation and
// finalize. Nothing here is persisted.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/recruitica/internal/entity"
)

const DefaultTTL = 30 * time.Minute

type DraftStore struct {
	sessions map[string]*entity.DraftSession
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DraftStore{
		sessions: make(map[string]*entity.DraftSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Save stores a copy of s under a fresh id and returns it.
func (s *DraftStore) Save(in *entity.DraftSession) *entity.DraftSession {
	now := s.now()
	stored := clone(in)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.ExpiresAt = now.Add(s.ttl)

	s.mu.Lock()
	s.sessions[stored.ID] = stored
	s.mu.Unlock()

	return clone(stored)
}

// Get returns the session when it exists, has not expired and belongs to
// userID. Anything else is entity.ErrNotFound.
func (s *DraftStore) Get(userID, id string) (*entity.DraftSession, error) {
	now := s.now()

	s.mu.RLock()
	stored, ok := s.sessions[id]
	if !ok || stored.UserID != userID {
		s.mu.RUnlock()
		return nil, entity.ErrNotFound
	}
	expired := now.After(stored.ExpiresAt)
	var out *entity.DraftSession
	if !expired {
		out = clone(stored)
	}
	s.mu.RUnlock()

	if expired {
		s.Delete(userID, id)
		return nil, entity.ErrNotFound
	}
	return out, nil
}

// Update applies fn under the store lock and extends the expiry.
func (s *DraftStore) Update(userID, id string, fn func(*entity.DraftSession)) (*entity.DraftSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok || stored.UserID != userID {
		return nil, entity.ErrNotFound
	}
	now := s.now()
	if now.After(stored.ExpiresAt) {
		delete(s.sessions, id)
		return nil, entity.ErrNotFound
	}

	fn(stored)
	stored.ID = id
	stored.UserID = userID
	stored.ExpiresAt = now.Add(s.ttl)

	return clone(stored), nil
}

func (s *DraftStore) Delete(userID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.sessions[id]; ok && stored.UserID == userID {
		delete(s.sessions, id)
	}
}

// Run removes expired sessions every interval until ctx is done.
func (s *DraftStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *DraftStore) cleanup() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, stored := range s.sessions {
		if now.After(stored.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (s *DraftStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func clone(in *entity.DraftSession) *entity.DraftSession {
	out := *in
	out.Contacts = append([]entity.Contact(nil), in.Contacts...)
	out.Transcript = append([]entity.ChatTurn(nil), in.Transcript...)
	return &out
}

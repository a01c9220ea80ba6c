// Package memory implements the repositories over process memory. It backs
// local runs without DATABASE_URL and the usecase tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/xavierca1/recruitica/internal/entity"
)

type Store struct {
	mu         sync.RWMutex
	lists      map[string]*entity.ClientList
	clients    map[string]*entity.Client
	entries    map[string]*entity.ClientListEntry
	candidates map[string]*entity.Candidate
	cleanups   map[string]*entity.PendingCleanup

	// Err, when set, is returned by every write.
	Err error
}

func NewStore() *Store {
	return &Store{
		lists:      map[string]*entity.ClientList{},
		clients:    map[string]*entity.Client{},
		entries:    map[string]*entity.ClientListEntry{},
		candidates: map[string]*entity.Candidate{},
		cleanups:   map[string]*entity.PendingCleanup{},
	}
}

func (s *Store) ClientLists() *ClientListRepository { return &ClientListRepository{s} }
func (s *Store) Clients() *ClientRepository { return &ClientRepository{s} }
func (s *Store) Entries() *ClientListEntryRepository { return &ClientListEntryRepository{s} }
func (s *Store) Candidates() *CandidateRepository { return &CandidateRepository{s} }
func (s *Store) PendingCleanups() *PendingCleanupRepository { return &PendingCleanupRepository{s} }

func (s *Store) entryFor(listID, clientID string) *entity.ClientListEntry {
	for _, e := range s.entries {
		if e.ClientListID == listID && e.ClientID == clientID {
			return e
		}
	}
	return nil
}

type ClientListRepository struct{ s *Store }

func (r *ClientListRepository) Create(ctx context.Context, l *entity.ClientList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *l
	r.s.lists[l.ID] = &cp
	return nil
}

func (r *ClientListRepository) ListByUser(ctx context.Context, userID string) ([]*entity.ClientList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.ClientList{}
	for _, l := range r.s.lists {
		if l.UserID == userID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ClientListRepository) FindByID(ctx context.Context, userID, id string) (*entity.ClientList, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lists[id]
	if !ok || l.UserID != userID {
		return nil, entity.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *ClientListRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	lists, _ := r.ListByUser(ctx, userID)
	return len(lists), nil
}

type ClientRepository struct{ s *Store }

func (r *ClientRepository) Search(ctx context.Context, userID, query, excludeListID string, limit int) ([]*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []*entity.Client{}
	for _, c := range r.s.clients {
		if c.UserID != userID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(strings.ToLower(c.CompanyName), q) {
			continue
		}
		if excludeListID != "" && r.s.entryFor(excludeListID, c.ID) != nil {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ClientRepository) AttachByEmail(ctx context.Context, listID string, c *entity.Client) (*entity.AttachResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	l, ok := r.s.lists[listID]
	if !ok || l.UserID != c.UserID {
		return nil, entity.ErrNotFound
	}

	var existing *entity.Client
	for _, cl := range r.s.clients {
		if cl.UserID == c.UserID && cl.Email == c.Email {
			existing = cl
			break
		}
	}
	if existing != nil && r.s.entryFor(listID, existing.ID) != nil {
		return nil, entity.ErrDuplicateInList
	}

	created := existing == nil
	if created {
		cp := *c
		existing = &cp
		r.s.clients[cp.ID] = existing
	}

	entry := entity.NewClientListEntry(listID, existing.ID)
	r.s.entries[entry.ID] = entry

	client := *existing
	e := *entry
	return &entity.AttachResult{Client: &client, Entry: &e, ClientCreated: created}, nil
}

func (r *ClientRepository) FindByID(ctx context.Context, userID, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok || c.UserID != userID {
		return nil, entity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

type ClientListEntryRepository struct{ s *Store }

func (r *ClientListEntryRepository) ListClients(ctx context.Context, listID string) ([]*entity.ListedClient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.ListedClient{}
	for _, e := range r.s.entries {
		if e.ClientListID != listID {
			continue
		}
		c := r.s.clients[e.ClientID]
		out = append(out, &entity.ListedClient{
			ID:          c.ID,
			Name:        c.Name,
			Email:       c.Email,
			CompanyName: c.CompanyName,
			IsActive:    e.IsActive,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClientListEntryRepository) Toggle(ctx context.Context, listID, clientID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return false, r.s.Err
	}
	e := r.s.entryFor(listID, clientID)
	if e == nil {
		return false, entity.ErrNotFound
	}
	e.IsActive = !e.IsActive
	return e.IsActive, nil
}

func (r *ClientListEntryRepository) Delete(ctx context.Context, listID, clientID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	e := r.s.entryFor(listID, clientID)
	if e == nil {
		return entity.ErrNotFound
	}
	delete(r.s.entries, e.ID)
	return nil
}

func (r *ClientListEntryRepository) BatchCreate(ctx context.Context, listID string, clientIDs []string) ([]*entity.ClientListEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	l, ok := r.s.lists[listID]
	if !ok {
		return nil, entity.ErrNotFound
	}
	seen := map[string]bool{}
	for _, id := range clientIDs {
		c, ok := r.s.clients[id]
		if !ok || c.UserID != l.UserID {
			return nil, entity.ErrNotFound
		}
		if seen[id] || r.s.entryFor(listID, id) != nil {
			return nil, entity.ErrDuplicateInList
		}
		seen[id] = true
	}

	out := make([]*entity.ClientListEntry, 0, len(clientIDs))
	for _, id := range clientIDs {
		e := entity.NewClientListEntry(listID, id)
		r.s.entries[e.ID] = e
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

type CandidateRepository struct{ s *Store }

func (r *CandidateRepository) Create(ctx context.Context, c *entity.Candidate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cp := *c
	r.s.candidates[c.ID] = &cp
	return nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, userID, id string) (*entity.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.candidates[id]
	if !ok || c.UserID != userID {
		return nil, entity.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *CandidateRepository) FindLatest(ctx context.Context, userID string) (*entity.Candidate, error) {
	all, _ := r.ListByUser(ctx, userID)
	if len(all) == 0 {
		return nil, entity.ErrNotFound
	}
	return all[0], nil
}

func (r *CandidateRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Candidate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Candidate{}
	for _, c := range r.s.candidates {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type PendingCleanupRepository struct{ s *Store }

func (r *PendingCleanupRepository) Create(ctx context.Context, p *entity.PendingCleanup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.cleanups[cp.ID] = &cp
	return nil
}

func (r *PendingCleanupRepository) ListDue(ctx context.Context, maxAttempts, limit int) ([]*entity.PendingCleanup, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.PendingCleanup
	for _, p := range r.s.cleanups {
		if p.Attempts < maxAttempts {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *PendingCleanupRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.cleanups[id]; ok {
		p.Attempts++
		p.LastError = errMsg
	}
	return nil
}

func (r *PendingCleanupRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.cleanups, id)
	return nil
}

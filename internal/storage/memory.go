// Package storage provides session persistence and the celebration
// history log.
package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/stepchef/internal/domain"
	"github.com/hammamikhairi/stepchef/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in a map for the lifetime of the process.
// Safe for concurrent access. Sessions are stored by pointer: the engine
// mutates what it loads and saves it back.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		log:      log,
	}
}

// Save stores a session, replacing any with the same ID.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	s.log.Debug("session %s saved: recipe=%d variation=%q checked=%d status=%s",
		session.ID, session.ActiveRecipe, session.SelectedVariation,
		session.Completion.Count(session.ActiveRecipe), session.Status)
	return nil
}

// Load returns the session with the given ID or domain.ErrNotFound.
func (s *MemoryStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		s.log.Debug("session %s not found", id)
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// Delete removes a session. Deleting an unknown ID returns
// domain.ErrNotFound.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.log.Debug("session %s deleted", id)
	return nil
}

// ListActive returns the sessions that have not been abandoned, oldest
// first.
func (s *MemoryStore) ListActive(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	out := make([]*domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.Status == domain.SessionActive {
			out = append(out, session)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out, nil
}

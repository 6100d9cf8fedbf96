package repo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pvandewal/dayout/backend/internal/domain"
)

// SessionStore holds itinerary sessions between requests. Sessions are
// ephemeral by design: they expire after the configured TTL, and only an
// explicit save snapshots their contents into a Trip.
type SessionStore interface {
	// Put stores the session, resetting its TTL.
	Put(s *domain.Session)

	// Get returns the session with the given id.
	// Returns domain.ErrNotFound for unknown or expired sessions.
	Get(id uuid.UUID) (*domain.Session, error)

	// Delete removes the session. Deleting an unknown session is a no-op.
	Delete(id uuid.UUID)
}

// cacheSessionStore backs SessionStore with an expiring in-memory cache.
// The session is owned by the single UI session that created it, so no
// cross-writer coordination is needed beyond the cache's own map locking.
type cacheSessionStore struct {
	c *gocache.Cache
}

// NewSessionStore constructs a SessionStore with the given session TTL.
func NewSessionStore(ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &cacheSessionStore{
		c: gocache.New(ttl, ttl/2),
	}
}

func (s *cacheSessionStore) Put(session *domain.Session) {
	s.c.Set(session.ID.String(), session, gocache.DefaultExpiration)
}

func (s *cacheSessionStore) Get(id uuid.UUID) (*domain.Session, error) {
	v, ok := s.c.Get(id.String())
	if !ok {
		return nil, fmt.Errorf("repo.SessionStore.Get: %w", domain.ErrNotFound)
	}
	return v.(*domain.Session), nil
}

func (s *cacheSessionStore) Delete(id uuid.UUID) {
	s.c.Delete(id.String())
}

// Package session keeps server-side login records so a logout can revoke a
// session cookie before it expires.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/damoang/caption-queue/pkg/cache"
	"github.com/google/uuid"
)

// ErrNotFound is returned when the session is unknown, expired, or revoked
var ErrNotFound = errors.New("session not found")

// Record is what the server remembers about a login
type Record struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists session records
type Store interface {
	Create(ctx context.Context, username string, ttl time.Duration) (*Record, error)
	Lookup(ctx context.Context, id string) (*Record, error)
	Destroy(ctx context.Context, id string) error
}

func newID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ---------------------------------------------------------------------------
// Redis

// RedisStore keeps sessions in Redis with a TTL so every API instance sees them
type RedisStore struct {
	cache cache.Service
	now   func() time.Time
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(c cache.Service) *RedisStore {
	return &RedisStore{cache: c, now: time.Now}
}

func (s *RedisStore) key(id string) string {
	return cache.PrefixSession + id
}

func (s *RedisStore) Create(ctx context.Context, username string, ttl time.Duration) (*Record, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := s.now()
	rec := &Record{ID: id, Username: username, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	if err := s.cache.Set(ctx, s.key(id), rec, ttl); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RedisStore) Lookup(ctx context.Context, id string) (*Record, error) {
	var rec Record
	if err := s.cache.Get(ctx, s.key(id), &rec); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, s.key(id))
}

// ---------------------------------------------------------------------------
// Memory

// MemoryStore is the single-process fallback used when Redis is not configured
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Record
	now      func() time.Time
}

// NewMemoryStore creates an in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Record), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, username string, ttl time.Duration) (*Record, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := s.now()
	rec := Record{ID: id, Username: username, CreatedAt: now, ExpiresAt: now.Add(ttl)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.sessions[id] = rec
	return &rec, nil
}

func (s *MemoryStore) Lookup(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(rec.ExpiresAt) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// sweepLocked drops expired records; caller holds s.mu
func (s *MemoryStore) sweepLocked(now time.Time) {
	for id, rec := range s.sessions {
		if !now.Before(rec.ExpiresAt) {
			delete(s.sessions, id)
		}
	}
}

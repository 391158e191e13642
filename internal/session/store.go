// Package session implementa la sesión de servidor: un cookie firmado que
// referencia un registro efímero sid -> user id con TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoSession señala un sid desconocido o expirado.
var ErrNoSession = errors.New("session not found")

// Store guarda el user id asociado a cada sid con expiración.
type Store interface {
	Get(ctx context.Context, sid string) (int64, error)
	Set(ctx context.Context, sid string, userID int64, ttl time.Duration) error
	Delete(ctx context.Context, sid string) error
}

type memoryEntry struct {
	userID    int64
	expiresAt time.Time
}

type memoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry
}

// NewMemoryStore devuelve un Store en memoria para desarrollo y pruebas.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[string]memoryEntry)}
}

func (s *memoryStore) Get(_ context.Context, sid string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.items[sid]
	if !ok {
		return 0, ErrNoSession
	}
	if time.Now().UTC().After(entry.expiresAt) {
		delete(s.items, sid)
		return 0, ErrNoSession
	}
	return entry.userID, nil
}

func (s *memoryStore) Set(_ context.Context, sid string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sid] = memoryEntry{
		userID:    userID,
		expiresAt: time.Now().UTC().Add(ttl),
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sid)
	return nil
}

package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"selectsense/internal/models"
)

// MemoryCache is a process-local ReplyCache, used when no DSN is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	replies map[string]models.Reply
	closed  bool
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{replies: make(map[string]models.Reply)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (*models.Reply, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	r, ok := m.replies[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryCache) Put(ctx context.Context, reply *models.Reply) error {
	if reply == nil || reply.Key == "" {
		return fmt.Errorf("%w: reply key is required", models.ErrValidation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	m.replies[reply.Key] = *reply
	return nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.replies = nil
	return nil
}

var _ ReplyCache = (*MemoryCache)(nil)

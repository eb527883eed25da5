package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/cache"
)

// MemoryCache implements cache.SummaryCache using in-memory storage.
type MemoryCache struct {
	entries map[uuid.UUID]*cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

type cacheEntry struct {
	summary   cache.Summary
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[uuid.UUID]*cacheEntry),
		now:     time.Now,
	}
}

// Get returns the summary for userID, or nil when absent or expired.
func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (*cache.Summary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[userID]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, nil
	}
	s := entry.summary
	return &s, nil
}

// Set stores a summary with TTL.
func (c *MemoryCache) Set(_ context.Context, userID uuid.UUID, s *cache.Summary, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = &cacheEntry{
		summary:   *s,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Invalidate drops the summary of userID.
func (c *MemoryCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

var _ cache.SummaryCache = (*MemoryCache)(nil)

package cache

import (
	"context"
	"sync"
	"time"

	"perfume-pal/internal/infrastructure/config"
	"perfume-pal/internal/pkg/common"

	"go.uber.org/zap"
)

// memoryStore is a size-capped in-process store with TTL expiry and LRU
// eviction when full.
type memoryStore struct {
	config *config.CacheConfig
	mu     sync.Mutex
	store  map[string]memoryEntry
	done   chan struct{}
	stats  memoryStats
}

type memoryEntry struct {
	value       string
	expiresAt   time.Time
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type memoryStats struct {
	hits      int64
	misses    int64
	evictions int64
}

func newMemoryStore(cfg *config.CacheConfig) *memoryStore {
	s := &memoryStore{
		config: cfg,
		store:  make(map[string]memoryEntry),
		done:   make(chan struct{}),
	}

	go s.startCleanup()

	return s
}

func (s *memoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.store[key]
	if !exists {
		s.stats.misses++
		return "", ErrCacheMiss
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.store, key)
		s.stats.evictions++
		s.stats.misses++
		return "", ErrCacheMiss
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	s.store[key] = entry
	s.stats.hits++

	return entry.value, nil
}

func (s *memoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.store) >= s.config.MaxSize {
		evicted := s.cleanupLocked()
		if evicted > 0 {
			common.LogInfo("cache cleanup executed", zap.Int("evicted", evicted))
		}

		if len(s.store) >= s.config.MaxSize {
			s.evictLRULocked()
		}

		if len(s.store) >= s.config.MaxSize {
			common.LogWarn("cache full", zap.Int("size", len(s.store)))
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	s.store[key] = memoryEntry{
		value:      value,
		expiresAt:  now.Add(s.config.TTL),
		createdAt:  now,
		lastAccess: now,
	}

	return nil
}

func (s *memoryStore) startCleanup() {
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			evicted := s.cleanupLocked()
			s.mu.Unlock()
			if evicted > 0 {
				common.LogInfo("cleaned up expired cache entries", zap.Int("count", evicted))
			}
		case <-s.done:
			return
		}
	}
}

// cleanupLocked removes expired entries. Caller must hold mu.
func (s *memoryStore) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, key)
			count++
			s.stats.evictions++
		}
	}
	return count
}

// evictLRULocked removes the least recently used entry. Caller must hold mu.
func (s *memoryStore) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range s.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(s.store, oldestKey)
		s.stats.evictions++
	}
}

func (s *memoryStore) Close() error {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]memoryEntry)

	common.LogInfo("memory cache closed",
		zap.Int64("hits", s.stats.hits),
		zap.Int64("misses", s.stats.misses),
		zap.Int64("evictions", s.stats.evictions),
	)
	return nil
}

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"perfume-pal/internal/infrastructure/config"
	"perfume-pal/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a prompt-response cache backend.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Manager hashes prompts into cache keys and delegates to the configured store.
// A nil *Manager is a valid, disabled cache.
type Manager struct {
	config *config.Config
	store  Store
}

// NewManager creates a cache manager, or nil when caching is disabled or the
// backend cannot be initialized.
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("cache disabled")
		return nil
	}

	var store Store
	switch cfg.Cache.Backend {
	case "redis":
		redisStore, err := newRedisStore(&cfg.Cache)
		if err != nil {
			common.LogError("failed to initialize redis cache", zap.Error(err))
			return nil
		}
		store = redisStore
	default:
		store = newMemoryStore(&cfg.Cache)
	}

	common.LogInfo("cache manager initialized",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("ttl", cfg.Cache.TTL),
	)

	return &Manager{
		config: cfg,
		store:  store,
	}
}

// Get looks up the cached response for a prompt.
func (m *Manager) Get(ctx context.Context, prompt string) (string, error) {
	if m == nil {
		return "", common.ErrCacheDisabled
	}

	value, err := m.store.Get(ctx, promptKey(prompt))
	if err != nil {
		common.LogCacheMiss(m.config.Cache.Backend, promptKey(prompt))
		return "", err
	}

	common.LogCacheHit(m.config.Cache.Backend, promptKey(prompt))
	return value, nil
}

// Set stores the response for a prompt.
func (m *Manager) Set(ctx context.Context, prompt, value string) error {
	if m == nil {
		return nil
	}
	return m.store.Set(ctx, promptKey(prompt), value)
}

// Close shuts down the underlying store.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	return m.store.Close()
}

// promptKey derives a stable cache key from a prompt.
func promptKey(prompt string) string {
	hash := sha256.Sum256([]byte(common.CanonicalPrompt(prompt)))
	return "text:" + hex.EncodeToString(hash[:])
}

package cache

import (
	"context"
	"testing"
	"time"

	"perfume-pal/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(maxSize int, ttl time.Duration) *config.CacheConfig {
	return &config.CacheConfig{
		Enabled:         true,
		Backend:         "memory",
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Minute,
	}
}

func TestMemoryStoreGetSet(t *testing.T) {
	store := newMemoryStore(memoryConfig(10, time.Minute))
	defer store.Close()

	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "k1", "v1"))

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := newMemoryStore(memoryConfig(10, 10*time.Millisecond))
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k1", "v1"))

	time.Sleep(20 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryStoreLRUEviction(t *testing.T) {
	store := newMemoryStore(memoryConfig(2, time.Minute))
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k1", "v1"))
	require.NoError(t, store.Set(ctx, "k2", "v2"))

	// touch k1 so k2 becomes the eviction candidate
	_, err := store.Get(ctx, "k1")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "k3", "v3"))

	_, err = store.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
}

func TestManagerDisabled(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Enabled: false}}
	manager := NewManager(cfg)
	assert.Nil(t, manager)

	// nil manager is a valid disabled cache
	_, err := manager.Get(context.Background(), "prompt")
	assert.Error(t, err)
	assert.NoError(t, manager.Set(context.Background(), "prompt", "value"))
	assert.NoError(t, manager.Close())
}

func TestManagerKeysByCanonicalPrompt(t *testing.T) {
	cfg := &config.Config{
		Cache: *memoryConfig(10, time.Minute),
	}
	manager := NewManager(cfg)
	require.NotNil(t, manager)
	defer manager.Close()

	ctx := context.Background()
	require.NoError(t, manager.Set(ctx, "make   a\nbrief", "cached"))

	// whitespace variations map to the same key
	value, err := manager.Get(ctx, "make a brief")
	require.NoError(t, err)
	assert.Equal(t, "cached", value)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentflow/internal/config"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails every call while down is set.
type flakyStore struct {
	*MemoryStore
	down  bool
	calls int
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.down {
		return nil, errors.New("connection refused")
	}
	return f.MemoryStore.Get(ctx, key)
}

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.5,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "talentflow:2025.06:abc", Key("talentflow", "2025.06", "abc"))
	assert.Equal(t, "v1:abc", Key("", "v1", "abc"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	value := []byte(`{"userId":"u1"}`)
	require.NoError(t, store.Set(ctx, "k", value, time.Minute))
	value[0] = 'X'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"userId":"u1"}`, string(got))

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "forever", []byte("x"), 0))
	now = now.Add(24 * time.Hour)
	_, err = store.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestBreakerIgnoresMisses(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore()}
	store := NewBreakerStore(inner, breakerConfig(), nil)

	for i := 0; i < 10; i++ {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, ErrMiss)
	}
	assert.Equal(t, "closed", Stats(store)["state"])
}

func TestBreakerOpensOnFailures(t *testing.T) {
	ctx := context.Background()
	inner := &flakyStore{MemoryStore: NewMemoryStore(), down: true}
	store := NewBreakerStore(inner, breakerConfig(), nil)

	for i := 0; i < 3; i++ {
		_, err := store.Get(ctx, "k")
		assert.ErrorContains(t, err, "connection refused")
	}
	assert.Equal(t, 3, inner.calls)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "open", Stats(store)["state"])
}

func TestBreakerDisabled(t *testing.T) {
	inner := NewMemoryStore()
	cfg := breakerConfig()
	cfg.Enabled = false

	store := NewBreakerStore(inner, cfg, nil)
	assert.Same(t, inner, store)
	assert.Equal(t, map[string]any{"enabled": true, "circuit_breaker": false}, Stats(store))
	assert.Equal(t, map[string]any{"enabled": false}, Stats(nil))
}

func TestBreakerSetPassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	store := NewBreakerStore(inner, breakerConfig(), nil)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.NoError(t, store.Close())
}

func TestOpenDisabled(t *testing.T) {
	store, err := Open(context.Background(), config.CacheConfig{Enabled: false}, nil)
	assert.NoError(t, err)
	assert.Nil(t, store)
}

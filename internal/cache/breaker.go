package cache

import (
	"context"
	"errors"
	"time"

	"talentflow/internal/config"
	apperrors "talentflow/internal/errors"

	"github.com/sony/gobreaker/v2"
)

// BreakerStore guards a Store with a circuit breaker. Misses count as
// successes; only transport errors move the breaker towards open.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerStore wraps inner. It returns inner unchanged when the breaker
// is disabled.
func NewBreakerStore(inner Store, cfg config.CircuitBreakerConfig, logger *apperrors.Logger) Store {
	if !cfg.Enabled {
		return inner
	}
	logger = apperrors.OrNop(logger)

	settings := gobreaker.Settings{
		Name:        "prediction-cache",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"failure_threshold", cfg.FailureThreshold)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return b.cb.Execute(func() ([]byte, error) {
		return b.inner.Get(ctx, key)
	})
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := b.cb.Execute(func() ([]byte, error) {
		return nil, b.inner.Set(ctx, key, value, ttl)
	})
	return err
}

func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

// GetStats returns circuit breaker statistics
func (b *BreakerStore) GetStats() map[string]any {
	counts := b.cb.Counts()
	return map[string]any{
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"enabled": true,
		"counts": map[string]uint32{
			"requests":              counts.Requests,
			"total_successes":       counts.TotalSuccesses,
			"total_failures":        counts.TotalFailures,
			"consecutive_successes": counts.ConsecutiveSuccesses,
			"consecutive_failures":  counts.ConsecutiveFailures,
		},
	}
}

// Stats reports breaker statistics for any Store.
func Stats(s Store) map[string]any {
	switch st := s.(type) {
	case nil:
		return map[string]any{"enabled": false}
	case *BreakerStore:
		return st.GetStats()
	default:
		return map[string]any{"enabled": true, "circuit_breaker": false}
	}
}

// Open builds the configured store: Redis behind a breaker, or nil when the
// cache is disabled.
func Open(ctx context.Context, cfg config.CacheConfig, logger *apperrors.Logger) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	redisStore, err := NewRedisStore(ctx, cfg)
	if err != nil {
		return nil, apperrors.NewNetworkError(apperrors.ErrCodeCacheUnavailable, "prediction cache unavailable", err).
			WithContext("cache_address", cfg.Address)
	}
	return NewBreakerStore(redisStore, cfg.CircuitBreaker, logger), nil
}

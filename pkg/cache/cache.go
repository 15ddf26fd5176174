// Package cache provides a small key-value store with TTL support,
// backed either by process memory or by Redis.
//
// The contact controller keeps its per-form "submitting" flag here. Use the
// in-memory store for a single instance and Redis when several instances sit
// behind a load balancer.
//
//	state := cache.NewMemory[bool](cache.WithDefaultTTL(2 * time.Minute))
//	defer state.Close()
//
//	state := cache.NewRedis[bool](client, nil, cache.WithPrefix("contact:state"))
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache is a key-value store with per-entry expiry.
//
// TTL semantics for Set:
//   - Positive: the entry expires after the duration
//   - Zero: the store's default TTL applies
//   - Negative: the entry never expires
type Cache[V any] interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Has reports whether key is present and not expired.
	Has(ctx context.Context, key string) (bool, error)

	// Close releases background resources.
	Close() error
}

// Marshaler converts values to bytes for byte-oriented backends.
type Marshaler[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

// JSONMarshaler encodes values as JSON. It is the default for Redis.
type JSONMarshaler[V any] struct{}

func (JSONMarshaler[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func (JSONMarshaler[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

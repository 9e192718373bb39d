// Package cache is a small read-through cache used for public vehicle
// detail lookups. Redis backs it in production; Nop is used when no
// REDIS_URL is configured so callers never branch on availability.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned by Get on a miss or an expired entry.
var ErrNotFound = errors.New("cache: entry not found")

// Cache is a typed key-value store with per-entry TTL.
// A zero TTL passed to Set selects the implementation's default.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Loader is a read-through front for a Cache. Each Loader owns its
// singleflight group, so keys never collide across caches.
//
// Concurrent misses for the same key share one fill. The fill runs detached
// from the caller's cancellation; a caller that gives up returns its own
// ctx.Err() while the others still get the value. A Delete that lands while
// a fill is in flight marks it stale, and the stale value is removed again
// once written.
type Loader[V any] struct {
	cache Cache[V]
	ttl   time.Duration
	group singleflight.Group

	mu    sync.Mutex
	fills map[string]*fill
}

type fill struct{ stale bool }

// NewLoader wraps c. ttl is passed to every Set; zero selects the cache's
// default.
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl, fills: map[string]*fill{}}
}

// GetOrSet returns the cached value for key, or computes it with fn on a
// miss. A failed cache read is treated as a miss and a failed write is
// ignored, so a broken cache degrades to calling fn every time.
func (l *Loader[V]) GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx)
		l.begin(key)
		v, err := fn(fillCtx)
		if err != nil {
			l.end(key)
			return nil, err
		}
		_ = l.cache.Set(fillCtx, key, v, l.ttl)
		if l.end(key) {
			_ = l.cache.Delete(fillCtx, key)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	}
}

// Get reads key straight from the underlying cache.
func (l *Loader[V]) Get(ctx context.Context, key string) (V, error) {
	return l.cache.Get(ctx, key)
}

// Set writes key straight to the underlying cache.
func (l *Loader[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	return l.cache.Set(ctx, key, value, ttl)
}

// Delete evicts keys and marks any in-flight fill for them as stale.
func (l *Loader[V]) Delete(ctx context.Context, keys ...string) error {
	l.mu.Lock()
	for _, k := range keys {
		if f, ok := l.fills[k]; ok {
			f.stale = true
		}
	}
	l.mu.Unlock()
	return l.cache.Delete(ctx, keys...)
}

func (l *Loader[V]) begin(key string) {
	l.mu.Lock()
	l.fills[key] = &fill{}
	l.mu.Unlock()
}

// end unregisters the fill for key and reports whether it went stale.
func (l *Loader[V]) end(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	f := l.fills[key]
	delete(l.fills, key)
	return f != nil && f.stale
}

var _ Cache[any] = (*Loader[any])(nil)

// Nop never stores anything; every Get is a miss.
type Nop[V any] struct{}

func (Nop[V]) Get(context.Context, string) (V, error) {
	var zero V
	return zero, ErrNotFound
}

func (Nop[V]) Set(context.Context, string, V, time.Duration) error { return nil }

func (Nop[V]) Delete(context.Context, ...string) error { return nil }

var _ Cache[any] = Nop[any]{}

func marshal[V any](v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal: %w", err)
	}
	return data, nil
}

func unmarshal[V any](data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cache: unmarshal: %w", err)
	}
	return v, nil
}

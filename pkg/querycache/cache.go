// Package querycache is the in-process query cache the draft store and list
// views read remote data through.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"stockflow/pkg/document"
)

// State is the loading/error view of one key.
type State struct {
	IsLoading bool
	Err       error
	FetchedAt time.Time
}

// Cache keeps fetched results per query key, runs at most one fetch per key
// at a time and drops results on Invalidate. A fetch that was in flight when
// its key got invalidated still returns to the callers that joined it but is
// not cached, and callers arriving after the invalidation start a new fetch.
type Cache[T any] struct {
	items *cache.Cache
	group singleflight.Group

	mu     sync.Mutex
	epochs map[string]uint64
	states map[string]State
}

// New creates a cache whose entries expire after ttl and are purged every
// cleanup interval.
func New[T any](ttl, cleanup time.Duration) *Cache[T] {
	return &Cache[T]{
		items:  cache.New(ttl, cleanup),
		epochs: map[string]uint64{},
		states: map[string]State{},
	}
}

// Get returns a cached value without fetching.
func (c *Cache[T]) Get(key document.QueryKey) (T, bool) {
	if x, found := c.items.Get(key.String()); found {
		return x.(T), true
	}
	var zero T
	return zero, false
}

// Set stores a value, e.g. to prime the cache after a create.
func (c *Cache[T]) Set(key document.QueryKey, value T) {
	c.items.Set(key.String(), value, cache.DefaultExpiration)
}

// Fetch returns the cached value for key or runs fetch once for all
// concurrent callers of the same key. The shared fetch is detached from the
// cancellation of whichever caller started it; each caller still stops
// waiting when its own ctx is done.
func (c *Cache[T]) Fetch(ctx context.Context, key document.QueryKey, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	k := key.String()
	c.mu.Lock()
	if _, ok := c.states[k]; !ok {
		c.states[k] = State{}
	}
	c.mu.Unlock()

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (interface{}, error) {
		c.mu.Lock()
		epoch := c.epochs[k]
		st := c.states[k]
		st.IsLoading = true
		c.states[k] = st
		c.mu.Unlock()

		v, err := fetch(shared)

		c.mu.Lock()
		defer c.mu.Unlock()
		st = c.states[k]
		st.IsLoading = false
		st.Err = err
		if err == nil {
			st.FetchedAt = time.Now()
			if c.epochs[k] == epoch {
				c.items.Set(k, v, cache.DefaultExpiration)
			}
		}
		c.states[k] = st
		return v, err
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Invalidate drops every cached key that has prefix as a prefix and detaches
// fetches in flight for those keys, so the next Fetch of any of them runs
// a new fetch.
func (c *Cache[T]) Invalidate(prefix document.QueryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.items.Items() {
		if matches(k, prefix) {
			c.items.Delete(k)
		}
	}
	for k := range c.states {
		if matches(k, prefix) {
			c.epochs[k]++
			c.group.Forget(k)
		}
	}
}

// State returns the loading/error flags of key.
func (c *Cache[T]) State(key document.QueryKey) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[key.String()]
}

// Flush empties the cache.
func (c *Cache[T]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Flush()
	for k := range c.states {
		c.epochs[k]++
		c.group.Forget(k)
	}
}

func matches(raw string, prefix document.QueryKey) bool {
	key, err := document.ParseKey(raw)
	if err != nil {
		return strings.HasPrefix(raw, prefix.String())
	}
	return key.HasPrefix(prefix)
}

// ABOUTME: Time-stale read cache with in-flight fetch de-duplication
// ABOUTME: Entries refetch after invalidation; errors retry exactly once

package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Status describes an entry's fetch lifecycle.
type Status string

// Entry statuses
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher loads the value for a key.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is a non-blocking view of one entry: the read-side
// data/loading/error contract.
type Snapshot struct {
	Data      any
	Status    Status
	Err       error
	FetchedAt time.Time
}

// fetchOp is one shared in-flight fetch. Waiters that joined this fetch read
// its result here, so a later fetch for the same key cannot cross wires.
// gen records the entry's invalidation generation when the fetch began.
type fetchOp struct {
	done chan struct{} // closed when the fetch completes
	gen  uint64
	data any
	err  error
}

// entry is the cached state for one key. Entries are created on first access
// and live for the process lifetime. gen advances on every invalidation, so
// a fetch that started before an invalidation cannot mark the entry fresh.
type entry struct {
	data      any
	status    Status
	err       error
	fetchedAt time.Time // zero means stale
	gen       uint64
	inflight  *fetchOp // non-nil while a fetch is running
}

// Cache is a keyed read-through cache. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	bindings map[string][]Key // resource name -> dependent keys
	logger   *slog.Logger
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries:  make(map[string]*entry),
		bindings: make(map[string][]Key),
		logger:   slog.Default().With("component", "querycache"),
	}
}

// Get returns the value for key. A success entry younger than staleAfter is
// returned without invoking fetch. Otherwise the caller joins the in-flight
// fetch for the key, starting one if none is running. The shared fetch is
// detached from any single caller's context: cancelling ctx abandons this
// caller's wait (the result is discarded for them) without cancelling the
// fetch other callers may be sharing.
func (c *Cache) Get(ctx context.Context, key Key, fetch Fetcher, staleAfter time.Duration) (any, error) {
	c.mu.Lock()
	e := c.entry(key)

	if e.status == StatusSuccess && !e.fetchedAt.IsZero() && time.Since(e.fetchedAt) < staleAfter {
		data := e.data
		c.mu.Unlock()
		return data, nil
	}

	op := e.inflight
	if op == nil {
		op = &fetchOp{done: make(chan struct{}), gen: e.gen}
		e.inflight = op
		e.status = StatusLoading
		e.err = nil
		c.mu.Unlock()
		go c.run(key, fetch, context.WithoutCancel(ctx), op)
	} else {
		c.mu.Unlock()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-op.done:
	}

	if op.err != nil {
		return nil, op.err
	}
	return op.data, nil
}

// run executes the fetch for key with one automatic retry, then publishes
// the outcome and releases all waiters.
func (c *Cache) run(key Key, fetch Fetcher, ctx context.Context, op *fetchOp) {
	data, err := fetch(ctx)
	if err != nil {
		c.logger.Debug("fetch failed, retrying once", "key", key.String(), "error", err)
		data, err = fetch(ctx)
	}

	c.mu.Lock()
	e := c.entry(key)
	if e.inflight == op {
		e.inflight = nil
	}
	if err != nil {
		e.status = StatusError
		e.err = err
		c.logger.Warn("fetch failed after retry", "key", key.String(), "error", err)
	} else {
		e.status = StatusSuccess
		e.err = nil
		e.data = data
		if e.gen == op.gen {
			e.fetchedAt = time.Now()
		} else {
			// Invalidated while this fetch was running. Waiters still get
			// the fetched value, but the entry stays stale so the next Get
			// refetches the post-invalidation state.
			e.fetchedAt = time.Time{}
		}
	}
	c.mu.Unlock()

	op.data, op.err = data, err
	close(op.done)
}

// Invalidate marks the entry stale. The cached value stays visible in
// snapshots, but the next Get refetches. A fetch already in flight cannot
// mark the entry fresh again; refetches ordered by this call happen after it.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key.String()]; ok {
		e.fetchedAt = time.Time{}
		e.gen++
	}
}

// Bind registers keys whose values are derived from the named resource.
// A later ResourceChanged for that resource invalidates all of them.
// Binding the same key twice is a no-op, so callers may bind at fetch time.
func (c *Cache) Bind(resource string, keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bound := c.bindings[resource]
next:
	for _, key := range keys {
		for _, existing := range bound {
			if existing.String() == key.String() {
				continue next
			}
		}
		bound = append(bound, key)
	}
	c.bindings[resource] = bound
}

// ResourceChanged invalidates every key bound to the resource. Mutations call
// this after a successful write-back; they never touch entries directly.
func (c *Cache) ResourceChanged(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.bindings[resource] {
		if e, ok := c.entries[key.String()]; ok {
			e.fetchedAt = time.Time{}
			e.gen++
		}
	}
}

// Snapshot returns the entry's current state without fetching.
func (c *Cache) Snapshot(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.String()]
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return Snapshot{
		Data:      e.data,
		Status:    e.status,
		Err:       e.err,
		FetchedAt: e.fetchedAt,
	}
}

// entry returns the record for key, creating it on first access.
// Must be called with mu held.
func (c *Cache) entry(key Key) *entry {
	id := key.String()
	e, ok := c.entries[id]
	if !ok {
		e = &entry{status: StatusIdle}
		c.entries[id] = e
	}
	return e
}

// Lookup is a typed wrapper around Cache.Get for callers that know the
// concrete value type stored under a key.
func Lookup[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error), staleAfter time.Duration) (T, error) {
	var zero T

	data, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}, staleAfter)
	if err != nil {
		return zero, err
	}

	value, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T, not %T", key.String(), data, zero)
	}
	return value, nil
}

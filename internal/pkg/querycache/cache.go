// Package querycache caches read query results keyed by resource and
// parameters. Entries carry tags; invalidating a tag marks every entry that
// holds it stale and notifies the tag's subscribers so views can re-fetch.
package querycache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleAfter = 5 * time.Minute
	DefaultRetries    = 3
	DefaultRetryDelay = 200 * time.Millisecond
)

// Key identifies one query: a resource plus its canonical parameters.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a key from params; url.Values.Encode sorts by name, so equal
// parameter sets give equal keys.
func NewKey(resource string, params url.Values) Key {
	return Key{Resource: resource, Params: params.Encode()}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Event is published to subscribers of an invalidated tag.
type Event struct {
	Tag  string
	Keys []Key
}

type entry struct {
	value     any
	tags      []string
	fetchedAt time.Time
	stale     bool
	// gen is the tag generation the value was loaded under.
	gen uint64
}

// flight is a load in progress.
type flight struct {
	tags []string
}

type Cache struct {
	mu          sync.RWMutex
	entries     map[Key]*entry
	subscribers map[string]map[chan Event]struct{}
	group       singleflight.Group
	// generations counts invalidations per tag.
	generations map[string]uint64
	inFlight    map[Key]*flight

	staleAfter time.Duration
	retries    int
	retryDelay time.Duration
	now        func() time.Time
}

type Option func(*Cache)

func WithStaleAfter(d time.Duration) Option {
	return func(c *Cache) { c.staleAfter = d }
}

// WithRetries sets how many extra attempts a failed fetch gets.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *Cache) {
		c.retries = n
		c.retryDelay = delay
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[Key]*entry),
		subscribers: make(map[string]map[chan Event]struct{}),
		generations: make(map[string]uint64),
		inFlight:    make(map[Key]*flight),
		staleAfter:  DefaultStaleAfter,
		retries:     DefaultRetries,
		retryDelay:  DefaultRetryDelay,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Peek returns the cached value for key, fresh or not.
func (c *Cache) Peek(key Key) (value any, fresh bool, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return e.value, c.isFresh(e), true
}

// Set stores value under key with tags, replacing any previous entry.
func (c *Cache) Set(key Key, value any, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		tags:      append([]string(nil), tags...),
		fetchedAt: c.now(),
		gen:       c.generation(tags),
	}
}

// Update replaces the value of an existing entry with fn's result, keeping its
// tags. It reports false when key is not cached.
func (c *Cache) Update(key Key, fn func(any) any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	e.value = fn(e.value)
	return true
}

// Remove drops key from the cache.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Fetch returns the fresh cached value for key, or loads it with fn. Concurrent
// loads of one key share a single call that outlives the cancellation of any
// one caller. A load overtaken by an invalidation of one of its tags is stored
// stale, and callers arriving after the invalidation start a new load.
func (c *Cache) Fetch(ctx context.Context, key Key, tags []string, fn func(ctx context.Context) (any, error)) (any, error) {
	if value, fresh, ok := c.Peek(key); ok && fresh {
		return value, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		f, gen := c.beginLoad(key, tags)
		defer c.endLoad(key, f)

		value, err := c.load(loadCtx, key, fn)
		if err != nil {
			return nil, err
		}
		c.store(key, value, tags, gen)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *Cache) beginLoad(key Key, tags []string) (*flight, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f := &flight{tags: append([]string(nil), tags...)}
	c.inFlight[key] = f
	return f, c.generation(tags)
}

func (c *Cache) endLoad(key Key, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] == f {
		delete(c.inFlight, key)
	}
}

// store keeps a loaded value unless a load started later already stored one.
func (c *Cache) store(key Key, value any, tags []string, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.gen > gen {
		return
	}
	c.entries[key] = &entry{
		value:     value,
		tags:      append([]string(nil), tags...),
		fetchedAt: c.now(),
		stale:     c.generation(tags) != gen,
		gen:       gen,
	}
}

// generation sums the invalidation counters of tags. Counters only grow, so
// the sum changes exactly when one of the tags was invalidated. Callers hold mu.
func (c *Cache) generation(tags []string) uint64 {
	var g uint64
	for _, t := range tags {
		g += c.generations[t]
	}
	return g
}

func (c *Cache) load(ctx context.Context, key Key, fn func(ctx context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			slog.Debug("Retrying query", "key", key.String(), "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, errors.Join(ctx.Err(), lastErr)
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}
		if !Retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("query %s failed after %d attempts: %w", key, c.retries+1, lastErr)
}

// Invalidate marks every entry carrying one of tags stale, detaches loads of
// those tags still in progress and notifies the tag subscribers.
func (c *Cache) Invalidate(tags ...string) {
	events := make([]Event, 0, len(tags))

	c.mu.Lock()
	for _, tag := range tags {
		c.generations[tag]++
		ev := Event{Tag: tag}
		for key, e := range c.entries {
			if hasTag(e.tags, tag) {
				e.stale = true
				ev.Keys = append(ev.Keys, key)
			}
		}
		for key, f := range c.inFlight {
			if hasTag(f.tags, tag) {
				c.group.Forget(key.String())
			}
		}
		events = append(events, ev)
	}
	c.mu.Unlock()

	for _, ev := range events {
		c.publish(ev)
	}
}

// Subscribe registers for invalidation events of tag and returns the event
// channel and a cleanup function.
func (c *Cache) Subscribe(tag string) (<-chan Event, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Event, 10)
	if c.subscribers[tag] == nil {
		c.subscribers[tag] = make(map[chan Event]struct{})
	}
	c.subscribers[tag][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers[tag], ch)
			close(ch)
			if len(c.subscribers[tag]) == 0 {
				delete(c.subscribers, tag)
			}
		})
	}
	return ch, cleanup
}

func (c *Cache) publish(ev Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for ch := range c.subscribers[ev.Tag] {
		select {
		case ch <- ev:
		default:
			slog.Warn("Dropping cache event for slow subscriber", "tag", ev.Tag)
		}
	}
}

func (c *Cache) isFresh(e *entry) bool {
	if e.stale {
		return false
	}
	return c.staleAfter <= 0 || c.now().Sub(e.fetchedAt) < c.staleAfter
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Permanent marks an error that retrying cannot fix.
type Permanent interface {
	Permanent() bool
}

// Retryable reports whether a failed fetch should be attempted again.
func Retryable(err error) bool {
	var p Permanent
	if errors.As(err, &p) {
		return !p.Permanent()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Query is the typed form of Cache.Fetch.
func Query[T any](ctx context.Context, c *Cache, key Key, tags []string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value for %s has type %T", key, v)
	}
	return typed, nil
}

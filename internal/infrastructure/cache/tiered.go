package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pantryport/backend/internal/domain"
)

// Class selects the TTL applied to a cache entry.
type Class string

const (
	// ClassSearch covers multi-result search lookups.
	ClassSearch Class = "search"
	// ClassProduct covers single-product barcode lookups.
	ClassProduct Class = "product"
	// ClassTerm covers autocomplete-style term lookups.
	ClassTerm Class = "term"
	// ClassAssociation covers user-specific product associations.
	ClassAssociation Class = "association"
)

// TTL returns the retention period for the class.
func (c Class) TTL() time.Duration {
	switch c {
	case ClassProduct:
		return 30 * 24 * time.Hour
	case ClassTerm:
		return 24 * time.Hour
	case ClassAssociation:
		return 90 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// DefaultCapacity bounds the in-process tier when no capacity is configured.
const DefaultCapacity = 100

// Tiered is a two-level cache: a capacity-bounded in-process LRU map in
// front of a durable key/value store. Reads promote durable hits into the
// in-process tier; writes go through to both. Expiry is enforced lazily on
// read. The clock and capacity are injected so TTL/LRU behavior is
// deterministic under test.
type Tiered struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used

	store  domain.CacheStore
	clock  func() time.Time
	logger zerolog.Logger
}

// Option configures a Tiered cache.
type Option func(*Tiered)

// WithCapacity bounds the in-process tier. Values below 1 keep the default.
func WithCapacity(n int) Option {
	return func(t *Tiered) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithClock injects the time source.
func WithClock(clock func() time.Time) Option {
	return func(t *Tiered) {
		t.clock = clock
	}
}

// WithLogger injects the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Tiered) {
		t.logger = logger
	}
}

// New creates a two-tier cache in front of the given durable store.
func New(store domain.CacheStore, opts ...Option) *Tiered {
	t := &Tiered{
		capacity: DefaultCapacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		store:    store,
		clock:    time.Now,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Get returns the cached payload for key, consulting the in-process tier
// first and promoting a valid durable-tier entry on the way out. A miss is
// reported by ok=false, never by an error.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	now := t.clock()

	t.mu.Lock()
	if el, exists := t.items[key]; exists {
		entry := el.Value.(*domain.CacheEntry)
		if entry.Valid(now) {
			t.order.MoveToFront(el)
			payload := entry.Payload
			t.mu.Unlock()
			return payload, true
		}
		t.removeLocked(el)
	}
	t.mu.Unlock()

	entry, err := t.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.logger.Warn().Err(err).Str("key", key).Msg("durable cache read failed")
		}
		return nil, false
	}
	if !entry.Valid(now) {
		// Lazily purge the stale durable entry
		if err := t.store.Delete(ctx, key); err != nil {
			t.logger.Warn().Err(err).Str("key", key).Msg("stale cache purge failed")
		}
		return nil, false
	}

	t.mu.Lock()
	t.insertLocked(entry)
	t.mu.Unlock()
	return entry.Payload, true
}

// Put writes the payload through to both tiers under the class's TTL.
// A durable-tier failure is logged and swallowed: the caller's result must
// not depend on the cache.
func (t *Tiered) Put(ctx context.Context, key string, payload []byte, class Class) {
	now := t.clock()
	entry := &domain.CacheEntry{
		Key:        key,
		Payload:    payload,
		CachedAt:   now,
		TTL:        class.TTL(),
		HitCount:   1,
		LastAccess: now,
	}

	t.mu.Lock()
	t.insertLocked(entry)
	t.mu.Unlock()

	if err := t.store.Put(ctx, entry); err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("durable cache write failed")
	}
}

// OnHit records a cache hit for bookkeeping. Best effort: counts may lag
// under concurrency and failures never reach the caller.
func (t *Tiered) OnHit(ctx context.Context, key string) {
	now := t.clock()

	t.mu.Lock()
	if el, exists := t.items[key]; exists {
		entry := el.Value.(*domain.CacheEntry)
		entry.HitCount++
		entry.LastAccess = now
	}
	t.mu.Unlock()

	if err := t.store.Touch(ctx, key, now); err != nil {
		t.logger.Debug().Err(err).Str("key", key).Msg("hit bookkeeping failed")
	}
}

// Sweep bulk-deletes expired entries from the durable tier. Idempotent and
// safe to run concurrently with reads and writes.
func (t *Tiered) Sweep(ctx context.Context) (int, error) {
	return t.store.Sweep(ctx, t.clock())
}

// Len returns the number of entries in the in-process tier.
func (t *Tiered) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order.Len()
}

// insertLocked adds or refreshes an entry at the front of the LRU order,
// evicting the least-recently-used entry when past capacity.
func (t *Tiered) insertLocked(entry *domain.CacheEntry) {
	if el, exists := t.items[entry.Key]; exists {
		el.Value = entry
		t.order.MoveToFront(el)
		return
	}

	t.items[entry.Key] = t.order.PushFront(entry)
	for t.order.Len() > t.capacity {
		oldest := t.order.Back()
		if oldest == nil {
			break
		}
		t.removeLocked(oldest)
	}
}

func (t *Tiered) removeLocked(el *list.Element) {
	entry := el.Value.(*domain.CacheEntry)
	t.order.Remove(el)
	delete(t.items, entry.Key)
}

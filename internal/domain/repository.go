package domain

import (
	"context"
	"time"
)

// CatalogClient defines the interface to the external product catalog.
// Implementations own the timeout/retry policy around their calls and
// normalize raw payloads into Product at the boundary.
type CatalogClient interface {
	// Search returns candidate products for a free-text term. An empty
	// result is not an error.
	Search(ctx context.Context, term string) ([]Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*Product, error)
}

// CacheStore defines the durable key/value tier backing the cache.
// Get returns ErrCacheMiss for absent keys; expiry is the caller's concern.
type CacheStore interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Put(ctx context.Context, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error

	// Touch bumps hit bookkeeping for an existing entry. Missing keys are
	// not an error.
	Touch(ctx context.Context, key string, at time.Time) error

	// Sweep bulk-deletes entries expired as of now and returns how many it
	// removed. Safe to run concurrently with reads and writes.
	Sweep(ctx context.Context, now time.Time) (int, error)

	Close() error
}

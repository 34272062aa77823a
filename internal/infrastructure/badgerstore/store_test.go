package badgerstore

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryport/backend/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("", true, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &domain.CacheEntry{
		Key:        "search:milk",
		Payload:    []byte(`[{"barcode":"123"}]`),
		CachedAt:   now,
		TTL:        7 * 24 * time.Hour,
		HitCount:   1,
		LastAccess: now,
	}

	require.NoError(t, store.Put(ctx, entry))

	got, err := store.Get(ctx, "search:milk")
	require.NoError(t, err)
	assert.Equal(t, entry.Key, got.Key)
	assert.Equal(t, entry.Payload, got.Payload)
	assert.Equal(t, int64(1), got.HitCount)
	assert.True(t, got.CachedAt.Equal(now))
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Put(ctx, &domain.CacheEntry{Key: "k", Payload: []byte("v"), CachedAt: time.Now(), TTL: time.Hour}))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestStoreTouch(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, &domain.CacheEntry{
		Key: "k", Payload: []byte("v"), CachedAt: start, TTL: time.Hour, HitCount: 1, LastAccess: start,
	}))

	later := start.Add(10 * time.Minute)
	require.NoError(t, store.Touch(ctx, "k", later))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.HitCount)
	assert.True(t, got.LastAccess.Equal(later))

	// Touch must not change the entry's lifetime accounting
	assert.True(t, got.CachedAt.Equal(start))
	assert.Equal(t, time.Hour, got.TTL)

	// Touching a missing key is a no-op
	assert.NoError(t, store.Touch(ctx, "missing", later))
}

func TestStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(ctx, &domain.CacheEntry{Key: "stale", Payload: []byte("v"), CachedAt: base, TTL: time.Hour}))
	require.NoError(t, store.Put(ctx, &domain.CacheEntry{Key: "fresh", Payload: []byte("v"), CachedAt: base, TTL: 48 * time.Hour}))

	removed, err := store.Sweep(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)

	// Sweep is idempotent
	removed, err = store.Sweep(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestStoreSweepConcurrentWithWrites(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Now()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = store.Put(ctx, &domain.CacheEntry{Key: "hot", Payload: []byte("v"), CachedAt: base, TTL: time.Hour})
			_, _ = store.Get(ctx, "hot")
		}
	}()

	for i := 0; i < 10; i++ {
		_, err := store.Sweep(ctx, base)
		require.NoError(t, err)
	}
	<-done
}

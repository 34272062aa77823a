package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/rs/zerolog"

	"github.com/pantryport/backend/internal/domain"
)

// Key prefix for cache entries, leaving room for other record types later.
const cacheEntryPrefix = "pcache:"

// Store implements domain.CacheStore on BadgerDB. Entries are stored as
// JSON under a prefixed key; TTL accounting lives in the entry itself so
// hit-count updates never shorten or extend an entry's life.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

var _ domain.CacheStore = (*Store)(nil)

// badgerLoggerAdapter adapts zerolog to the badger.Logger interface.
type badgerLoggerAdapter struct {
	logger zerolog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Debug().Msg(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug().Msg(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB database at the given path, creating the directory
// if needed. With inMemory set, no files are written (used in tests).
func Open(path string, inMemory bool, logger zerolog.Logger) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(path)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", path)
		}
		opts = badger.DefaultOptions(path)
	}

	opts.Logger = &badgerLoggerAdapter{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func makeCacheKey(key string) []byte {
	return []byte(cacheEntryPrefix + key)
}

// Get returns the stored entry for key, or domain.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	var entry domain.CacheEntry
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	return &entry, nil
}

// Put stores the entry, replacing any previous value for the key.
func (s *Store) Put(ctx context.Context, entry *domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeCacheKey(entry.Key), data)
	})
}

// Delete removes the entry for key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(makeCacheKey(key))
	})
}

// Touch increments the entry's hit count and refreshes its last-access
// time. A missing key is ignored.
func (s *Store) Touch(ctx context.Context, key string, at time.Time) error {
	return s.db.Update(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		var entry domain.CacheEntry
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		}); err != nil {
			return err
		}

		entry.HitCount++
		entry.LastAccess = at

		data, err := json.Marshal(&entry)
		if err != nil {
			return err
		}
		return tx.Set(makeCacheKey(key), data)
	})
}

// Sweep deletes every entry expired as of now and returns the count.
// Expired keys are collected under a read transaction first, then deleted
// individually, so the sweep is idempotent and safe alongside normal reads
// and writes.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int, error) {
	var expired []string
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(cacheEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			var entry domain.CacheEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				// A corrupt value should not wedge the sweep
				s.logger.Warn().Err(err).Str("key", string(item.Key())).Msg("skipping unreadable cache entry")
				continue
			}
			if !entry.Valid(now) {
				expired = append(expired, entry.Key)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range expired {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("sweep delete failed")
			continue
		}
		removed++
	}
	return removed, nil
}

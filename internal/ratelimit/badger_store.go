package ratelimit

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const badgerKeyPrefix = "contact-rl:"

// BadgerStore keeps entries in an in-memory badger instance. Each entry
// carries a TTL so badger drops it on its own once it is stale, and the
// explicit sweep catches whatever the TTL has not yet removed.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerStore opens an in-memory badger database. ttl should match the
// limiter's staleness threshold.
func NewBadgerStore(ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

func (s *BadgerStore) Get(_ context.Context, key string) (time.Time, bool, error) {
	var ts time.Time
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodeTimestamp(val)
			if err != nil {
				return err
			}
			ts = decoded
			found = true
			return nil
		})
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read rate limit entry: %w", err)
	}
	return ts, found, nil
}

func (s *BadgerStore) Set(_ context.Context, key string, ts time.Time) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerKeyPrefix+key), encodeTimestamp(ts))
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to write rate limit entry: %w", err)
	}
	return nil
}

func (s *BadgerStore) DeleteBefore(_ context.Context, cutoff time.Time) (int, error) {
	var stale [][]byte

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				ts, err := decodeTimestamp(val)
				if err != nil {
					return err
				}
				if ts.Before(cutoff) {
					stale = append(stale, item.KeyCopy(nil))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan rate limit entries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale rate limit entries: %w", err)
	}
	return len(stale), nil
}

func (s *BadgerStore) Len(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count rate limit entries: %w", err)
	}
	return count, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func encodeTimestamp(ts time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(ts.UnixNano()))
	return buf
}

func decodeTimestamp(val []byte) (time.Time, error) {
	if len(val) != 8 {
		return time.Time{}, fmt.Errorf("corrupt rate limit entry of %d bytes", len(val))
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(val))), nil
}

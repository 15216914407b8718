// Package kv provides a namespaced, expiring, JSON-serializing key-value
// store backed by a Bolt database file. It is the backing store for the local
// annotation backend; every value is stored under its namespace bucket, so
// multiple namespaces can share one database file without key collisions.
package kv

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/boltdb/bolt"
	"github.com/zeebo/errs"
)

// Error is the error class for backing store failures.
var Error = errs.Class("kv")

const (
	// fileMode sets permissions so only the owner can read and write.
	fileMode = 0600

	defaultTimeout = 1 * time.Second
)

// record wraps a stored value with its optional expiry.
type record struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt,omitempty"` // unix millis; zero means no expiry
}

// Store is a namespaced key-value store over a Bolt database. All state is
// per-instance; two stores opened on the same file and namespace observe each
// other's writes through the database, never through shared process state.
type Store struct {
	db        *bolt.DB
	namespace []byte
	logger    *slog.Logger
	now       func() time.Time
}

// Options configures a Store.
type Options struct {
	Logger *slog.Logger

	// Now overrides the clock used for expiry stamping and checks. Nil means
	// time.Now. Intended for tests.
	Now func() time.Time
}

// Open opens (creating if needed) the Bolt database at path and returns a
// store scoped to the given namespace.
func Open(path, namespace string, opts Options) (*Store, error) {
	if namespace == "" {
		return nil, Error.New("namespace must not be empty")
	}
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: defaultTimeout})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		db:        db,
		namespace: []byte(namespace),
		logger:    opts.Logger,
		now:       now,
	}, nil
}

// Wrap builds a second namespaced view over an already open store's database.
// Useful when several backends share one file.
func (s *Store) Wrap(namespace string) (*Store, error) {
	if namespace == "" {
		return nil, Error.New("namespace must not be empty")
	}
	return &Store{
		db:        s.db,
		namespace: []byte(namespace),
		logger:    s.logger,
		now:       s.now,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return Error.Wrap(s.db.Close())
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.db.Path()
}

// Set serializes value to JSON and writes it under key within the namespace.
// A ttl <= 0 means the value persists until explicitly removed; a positive
// ttl marks the record to expire, enforced on subsequent reads.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return Error.Wrap(err)
	}

	rec := record{Value: raw}
	if ttl > 0 {
		rec.ExpiresAt = s.now().Add(ttl).UnixMilli()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return Error.Wrap(err)
	}

	return Error.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.namespace)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	}))
}

// Get reads the value stored under key into out. It returns false when the
// key is absent; an expired record is evicted and reported as absent.
func (s *Store) Get(key string, out any) (bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.namespace)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, Error.Wrap(err)
	}
	if data == nil {
		return false, nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return false, Error.Wrap(err)
	}
	if s.expired(rec) {
		if err := s.Remove(key); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := json.Unmarshal(rec.Value, out); err != nil {
		return false, Error.Wrap(err)
	}
	return true, nil
}

// Remove deletes the key from the namespace. Removing an absent key is not an
// error.
func (s *Store) Remove(key string) error {
	return Error.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.namespace)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}))
}

// All returns the raw JSON of every live value whose key starts with prefix,
// in the store's native key order. Expired records encountered during the
// scan are evicted.
func (s *Store) All(prefix string) ([]json.RawMessage, error) {
	var values []json.RawMessage
	var expiredKeys []string

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.namespace)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if s.expired(rec) {
				expiredKeys = append(expiredKeys, string(k))
				continue
			}
			values = append(values, append(json.RawMessage(nil), rec.Value...))
		}
		return nil
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	for _, k := range expiredKeys {
		if err := s.Remove(k); err != nil {
			return nil, err
		}
		if s.logger != nil {
			s.logger.Debug("evicted expired record", "key", k)
		}
	}
	return values, nil
}

// Clear removes every key under the namespace.
func (s *Store) Clear() error {
	return Error.Wrap(s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(s.namespace) == nil {
			return nil
		}
		return tx.DeleteBucket(s.namespace)
	}))
}

func (s *Store) expired(rec record) bool {
	return rec.ExpiresAt != 0 && rec.ExpiresAt <= s.now().UnixMilli()
}

// Supported probes whether a Bolt database can be opened at path. It is a
// capability check, not a validation of existing contents.
func Supported(path string) bool {
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: defaultTimeout})
	if err != nil {
		return false
	}
	_ = db.Close()
	return true
}

// Exists reports whether a database file is already present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

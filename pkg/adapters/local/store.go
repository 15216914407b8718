// Package local implements the annotation storage backend over the
// namespaced key-value backing store. All records are scoped to the
// configured document URI; keys follow the "annotation.<uuid>" layout inside
// the store's namespace.
package local

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/zeebo/errs"

	"github.com/aretw0/glosa/pkg/adapters/kv"
	"github.com/aretw0/glosa/pkg/core"
)

// Error is the error class for local backend failures.
var Error = errs.Class("local store")

// keyPrefix namespaces annotation records inside the backing store, so other
// record kinds can share the same namespace later.
const keyPrefix = "annotation."

// Config holds the configuration for the local backend.
type Config struct {
	// URI is the current document location. Create stamps it on every new
	// annotation and Query filters against it by default.
	URI string

	// TTL is the record expiry passed to the backing store. Zero or negative
	// means records persist until deleted.
	TTL time.Duration

	// EventBuffer sizes each watch subscriber's channel. Zero means 16.
	EventBuffer int

	Logger *slog.Logger

	// NewID overrides uuid generation. Nil means a random UUIDv4 string.
	NewID func() string
}

// Store implements core.Backend against a kv.Store. Construct one per
// browsing context; instances sharing a kv database (same file and namespace)
// observe each other's records through the store, while the lookup cache and
// watch subscribers stay per-instance.
type Store struct {
	kv     *kv.Store
	config Config
	cache  *cache
	feed   *feed
	newID  func() string
}

// New creates a local backend over the given backing store.
func New(store *kv.Store, config Config) *Store {
	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	buffer := config.EventBuffer
	if buffer <= 0 {
		buffer = 16
	}
	return &Store{
		kv:     store,
		config: config,
		cache:  newCache(),
		feed:   newFeed(buffer),
		newID:  newID,
	}
}

// Create persists a new annotation. The document URI is stamped and a uuid is
// generated when the annotation does not already carry one.
func (s *Store) Create(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return a, err
	}

	a.SetURI(s.config.URI)
	id := a.UUID()
	if id == "" {
		id = s.newID()
		a.SetUUID(id)
	}

	if err := s.kv.Set(keyPrefix+id, a, s.config.TTL); err != nil {
		return a, Error.Wrap(err)
	}
	s.cache.Set(id, a)
	s.feed.publish(core.Event{
		Type:      core.EventCreate,
		UUID:      id,
		URI:       a.URI(),
		Timestamp: time.Now().Unix(),
	})

	if s.config.Logger != nil {
		s.config.Logger.Debug("annotation created", "uuid", id, "uri", a.URI())
	}
	return a, nil
}

// Update overwrites the record addressed by the annotation's uuid. A missing
// uuid is generated on the spot, so an update on an annotation that never had
// one behaves like a create under a new key.
func (s *Store) Update(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return a, err
	}

	id := a.UUID()
	if id == "" {
		id = s.newID()
		a.SetUUID(id)
	}
	if a.URI() == "" {
		a.SetURI(s.config.URI)
	}

	if err := s.kv.Set(keyPrefix+id, a, s.config.TTL); err != nil {
		return a, Error.Wrap(err)
	}
	s.cache.Set(id, a)
	s.feed.publish(core.Event{
		Type:      core.EventModify,
		UUID:      id,
		URI:       a.URI(),
		Timestamp: time.Now().Unix(),
	})
	return a, nil
}

// Delete removes the stored record and evicts the cache entry. Deleting a
// record that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return a, err
	}

	id := a.UUID()
	if id == "" {
		return a, Error.New("annotation has no uuid")
	}

	if err := s.kv.Remove(keyPrefix + id); err != nil {
		return a, Error.Wrap(err)
	}
	s.cache.Evict(id)
	s.feed.publish(core.Event{
		Type:      core.EventDelete,
		UUID:      id,
		URI:       a.URI(),
		Timestamp: time.Now().Unix(),
	})
	return a, nil
}

// Query scans every stored annotation and retains those matching the filter.
// The URI criterion defaults to the store's document URI; values containing
// glob metacharacters are matched as doublestar patterns. The lookup cache is
// repopulated from the result set.
func (s *Store) Query(ctx context.Context, q core.Query) (core.Page, error) {
	if err := ctx.Err(); err != nil {
		return core.Page{}, err
	}

	raws, err := s.kv.All(keyPrefix)
	if err != nil {
		return core.Page{}, Error.Wrap(err)
	}

	target := q.URI
	if target == "" {
		target = s.config.URI
	}

	results := make([]core.Annotation, 0, len(raws))
	for _, raw := range raws {
		var a core.Annotation
		if err := json.Unmarshal(raw, &a); err != nil {
			return core.Page{}, Error.Wrap(err)
		}
		if !matchURI(target, a.URI()) {
			continue
		}
		if q.User != "" && a.User() != q.User {
			continue
		}
		results = append(results, a)
	}

	s.cache.ReplaceAll(results)

	return core.Page{
		Results: results,
		Meta:    core.Meta{"total": len(results)},
	}, nil
}

// Cached returns the annotation for uuid from the per-instance cache, falling
// back to the backing store on a miss.
func (s *Store) Cached(uuid string) (core.Annotation, bool, error) {
	if a, ok := s.cache.Get(uuid); ok {
		return a, true, nil
	}
	var a core.Annotation
	ok, err := s.kv.Get(keyPrefix+uuid, &a)
	if err != nil {
		return nil, false, Error.Wrap(err)
	}
	if ok {
		s.cache.Set(uuid, a)
	}
	return a, ok, nil
}

// Clear removes every annotation record in the namespace and resets the cache.
func (s *Store) Clear() error {
	if err := s.kv.Clear(); err != nil {
		return Error.Wrap(err)
	}
	s.cache.ReplaceAll(nil)
	return nil
}

// Close closes the backing store.
func (s *Store) Close() error {
	return s.kv.Close()
}

// matchURI applies equality, or doublestar matching when the criterion
// contains glob metacharacters.
func matchURI(pattern, uri string) bool {
	if pattern == "" || pattern == uri {
		return true
	}
	if strings.ContainsAny(pattern, "*?[{") {
		ok, err := doublestar.Match(pattern, uri)
		return err == nil && ok
	}
	return false
}

var _ core.Backend = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
var _ core.Closer = (*Store)(nil)

package local

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path        string `json:"path"`
	URI         string `json:"uri"`
	TTLMillis   int64  `json:"ttl_millis"`
	CacheSize   int    `json:"cache_size"`
	Subscribers int    `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.feed.mu.Lock()
	subscribers := len(s.feed.subs)
	s.feed.mu.Unlock()

	return StoreState{
		Path:        s.kv.Path(),
		URI:         s.config.URI,
		TTLMillis:   s.config.TTL.Milliseconds(),
		CacheSize:   s.cache.Len(),
		Subscribers: subscribers,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "local store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

package remote

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Prefix             string `json:"prefix"`
	URI                string `json:"uri"`
	EmulateHTTPMethods bool   `json:"emulate_http_methods"`
	EmulateJSON        bool   `json:"emulate_json"`
	MaxTries           uint   `json:"max_tries"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Prefix:             s.config.Prefix,
		URI:                s.config.URI,
		EmulateHTTPMethods: s.config.EmulateHTTPMethods,
		EmulateJSON:        s.config.EmulateJSON,
		MaxTries:           s.config.MaxTries,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "remote store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

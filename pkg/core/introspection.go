package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	BackendType string `json:"backend_type"`
	FailOpen    bool   `json:"fail_open"`
	HookCount   int    `json:"hook_count"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	backendType := "unknown"
	if s.backend != nil {
		backendType = "backend"
		if comp, ok := s.backend.(introspection.Component); ok {
			backendType = comp.ComponentType()
		}
	}

	s.hooks.mu.RLock()
	hookCount := len(s.hooks.beforeCreated) + len(s.hooks.created) +
		len(s.hooks.beforeUpdated) + len(s.hooks.updated) +
		len(s.hooks.beforeDeleted) + len(s.hooks.deleted) +
		len(s.hooks.loaded)
	s.hooks.mu.RUnlock()

	return ServiceState{
		BackendType: backendType,
		FailOpen:    s.onError != nil,
		HookCount:   hookCount,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)

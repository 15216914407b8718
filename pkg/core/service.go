package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Service mediates between application code and a storage Backend. For every
// mutating operation it runs the before-hooks, delegates to the backend with a
// sanitized copy, merges the backend's record back into the caller's object
// (same map, new contents) and runs the after-hooks:
//
//	before-hook -> backend call -> state merge -> after-hook
//
// The pipeline is strictly sequential per call. Calls addressing the same
// uuid are serialized against each other so their merge steps cannot
// interleave; unrelated calls proceed concurrently.
type Service struct {
	backend Backend
	hooks   *Hooks
	logger  *slog.Logger

	// onError, when set, switches backend failures from fail-closed to
	// notify-and-continue: the error is reported out of band and the
	// operation settles with whatever record state exists.
	onError func(error)

	locks keyedMutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithErrorHandler routes backend failures to fn instead of returning them.
// With a handler installed, operations settle as if successful and the
// failure surfaces only through fn; hooks cannot tell the difference. Leave
// unset to have failures propagate as errors.
func WithErrorHandler(fn func(error)) ServiceOption {
	return func(s *Service) {
		s.onError = fn
	}
}

// NewService creates a Service over the given backend.
func NewService(backend Backend, opts ...ServiceOption) *Service {
	s := &Service{
		backend: backend,
		hooks:   NewHooks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hooks exposes the registry for lifecycle hook registration.
func (s *Service) Hooks() *Hooks {
	return s.hooks
}

// Backend returns the configured storage backend.
func (s *Service) Backend() Backend {
	return s.backend
}

// Create persists a new annotation. The returned annotation is the caller's
// own object with its contents replaced by the stored record.
func (s *Service) Create(ctx context.Context, a Annotation) (Annotation, error) {
	return s.run(ctx, opCreate, a)
}

// Update overwrites an existing annotation. The annotation must already carry
// an identity (id or uuid); otherwise ErrMissingIdentity is returned and the
// backend is not invoked.
func (s *Service) Update(ctx context.Context, a Annotation) (Annotation, error) {
	return s.run(ctx, opUpdate, a)
}

// Delete removes an existing annotation. Identity rules match Update.
func (s *Service) Delete(ctx context.Context, a Annotation) (Annotation, error) {
	return s.run(ctx, opDelete, a)
}

// Query delegates the filter criteria to the backend.
func (s *Service) Query(ctx context.Context, q Query) (Page, error) {
	if s.backend == nil {
		return Page{}, ErrNoBackend
	}
	return s.backend.Query(ctx, q)
}

// Load runs Query and fires the AnnotationsLoaded hook with the result set.
// It does not mutate caller state beyond hook side effects.
func (s *Service) Load(ctx context.Context, q Query) (Page, error) {
	page, err := s.Query(ctx, q)
	if err != nil {
		return page, err
	}
	if err := s.hooks.fireLoaded(ctx, page.Results); err != nil {
		return page, fmt.Errorf("annotations loaded hook: %w", err)
	}
	return page, nil
}

// Watch streams change events from the backend, if it supports a change feed.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.backend.(Watchable)
	if !ok {
		return nil, fmt.Errorf("backend does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Close releases backend resources, if any are held.
func (s *Service) Close() error {
	if c, ok := s.backend.(Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) run(ctx context.Context, op operation, a Annotation) (Annotation, error) {
	if s.backend == nil {
		return a, ErrNoBackend
	}
	if a == nil {
		return nil, fmt.Errorf("%s: nil annotation", op)
	}
	if op != opCreate && !a.HasIdentity() {
		return a, fmt.Errorf("%s: %w", op, ErrMissingIdentity)
	}

	// Serialize operations that target the same annotation.
	if key := a.UUID(); key != "" {
		unlock := s.locks.lock(key)
		defer unlock()
	}

	before, after := s.hooks.snapshot(op)

	if err := s.hooks.fire(ctx, before, a); err != nil {
		return a, fmt.Errorf("before %s hook: %w", op, err)
	}

	returned, err := s.dispatch(ctx, op, a.Sanitized())
	if err != nil {
		if s.onError == nil {
			return a, fmt.Errorf("%s: %w", op, err)
		}
		if s.logger != nil {
			s.logger.Warn("backend operation failed", "op", op.String(), "error", err)
		}
		s.onError(err)
		if returned == nil {
			// Settle with the state we have so the pipeline stays uniform.
			returned = a.Sanitized()
		}
	}

	a.ReplaceWith(returned)

	if err := s.hooks.fire(ctx, after, a); err != nil {
		return a, fmt.Errorf("after %s hook: %w", op, err)
	}
	return a, nil
}

func (s *Service) dispatch(ctx context.Context, op operation, a Annotation) (Annotation, error) {
	switch op {
	case opCreate:
		return s.backend.Create(ctx, a)
	case opUpdate:
		return s.backend.Update(ctx, a)
	case opDelete:
		return s.backend.Delete(ctx, a)
	}
	return nil, fmt.Errorf("unknown operation %d", op)
}

// keyedMutex provides per-key mutual exclusion. Entries are reference counted
// and removed once the last holder releases, so the map does not grow with
// the number of distinct uuids seen.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[string]*lockEntry)
	}
	e := k.entries[key]
	if e == nil {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}

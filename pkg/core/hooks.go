package core

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// AnnotationHook observes or mutates a single annotation at a lifecycle point.
// Before-hooks may mutate the annotation in place; the mutation is visible to
// the backend call that follows.
type AnnotationHook func(ctx context.Context, a Annotation) error

// LoadedHook observes the result set of a load operation.
type LoadedHook func(ctx context.Context, results []Annotation) error

// Hooks holds statically registered handler lists for the closed set of
// lifecycle events fired by the Service. Registration is safe for concurrent
// use; handlers for one event are fanned out in parallel and all must settle
// before the operation pipeline advances.
type Hooks struct {
	mu sync.RWMutex

	beforeCreated []AnnotationHook
	created       []AnnotationHook
	beforeUpdated []AnnotationHook
	updated       []AnnotationHook
	beforeDeleted []AnnotationHook
	deleted       []AnnotationHook
	loaded        []LoadedHook
}

// NewHooks returns an empty hook registry.
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnBeforeAnnotationCreated registers a hook fired before a create reaches the backend.
func (h *Hooks) OnBeforeAnnotationCreated(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeCreated = append(h.beforeCreated, fn)
}

// OnAnnotationCreated registers a hook fired after a create settles.
func (h *Hooks) OnAnnotationCreated(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, fn)
}

// OnBeforeAnnotationUpdated registers a hook fired before an update reaches the backend.
func (h *Hooks) OnBeforeAnnotationUpdated(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeUpdated = append(h.beforeUpdated, fn)
}

// OnAnnotationUpdated registers a hook fired after an update settles.
func (h *Hooks) OnAnnotationUpdated(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updated = append(h.updated, fn)
}

// OnBeforeAnnotationDeleted registers a hook fired before a delete reaches the backend.
func (h *Hooks) OnBeforeAnnotationDeleted(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeDeleted = append(h.beforeDeleted, fn)
}

// OnAnnotationDeleted registers a hook fired after a delete settles.
func (h *Hooks) OnAnnotationDeleted(fn AnnotationHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleted = append(h.deleted, fn)
}

// OnAnnotationsLoaded registers a hook fired with the results of Load.
func (h *Hooks) OnAnnotationsLoaded(fn LoadedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loaded = append(h.loaded, fn)
}

// fire fans out the given handler list and waits for all of them.
func (h *Hooks) fire(ctx context.Context, hooks []AnnotationHook, a Annotation) error {
	if len(hooks) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range hooks {
		g.Go(func() error {
			return fn(ctx, a)
		})
	}
	return g.Wait()
}

func (h *Hooks) fireLoaded(ctx context.Context, results []Annotation) error {
	h.mu.RLock()
	hooks := h.loaded
	h.mu.RUnlock()

	if len(hooks) == 0 {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range hooks {
		g.Go(func() error {
			return fn(ctx, results)
		})
	}
	return g.Wait()
}

// snapshot returns the handler lists for one operation type under the lock.
func (h *Hooks) snapshot(op operation) (before, after []AnnotationHook) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	switch op {
	case opCreate:
		return h.beforeCreated, h.created
	case opUpdate:
		return h.beforeUpdated, h.updated
	case opDelete:
		return h.beforeDeleted, h.deleted
	}
	return nil, nil
}

// operation identifies one of the three mutating pipeline shapes.
type operation int

const (
	opCreate operation = iota
	opUpdate
	opDelete
)

func (op operation) String() string {
	switch op {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	}
	return "unknown"
}

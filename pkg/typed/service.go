package typed

import (
	"context"

	"github.com/aretw0/glosa/pkg/core"
)

// Service wraps a core.Service to provide type-safe access to annotations.
type Service[T any] struct {
	svc *core.Service
}

// NewService creates a new typed service wrapper.
func NewService[T any](svc *core.Service) *Service[T] {
	return &Service[T]{svc: svc}
}

// Create persists a new annotation built from the typed body and returns it
// as an attached model.
func (s *Service[T]) Create(ctx context.Context, body T) (*Model[T], error) {
	raw := core.Annotation{}
	if err := mergeBody(raw, body); err != nil {
		return nil, err
	}

	res, err := s.svc.Create(ctx, raw)
	if err != nil {
		return nil, err
	}
	return fromAnnotation[T](res, s)
}

// Save persists the model, creating it when it has no identity yet and
// updating it otherwise. The model's raw map and body are refreshed with
// whatever the store returned.
func (s *Service[T]) Save(ctx context.Context, m *Model[T]) error {
	if m.raw == nil {
		m.raw = core.Annotation{}
	}
	if err := mergeBody(m.raw, m.Body); err != nil {
		return err
	}

	var (
		res core.Annotation
		err error
	)
	if m.raw.HasIdentity() {
		res, err = s.svc.Update(ctx, m.raw)
	} else {
		res, err = s.svc.Create(ctx, m.raw)
	}
	if err != nil {
		return err
	}

	refreshed, err := fromAnnotation[T](res, s)
	if err != nil {
		return err
	}
	m.raw = refreshed.raw
	m.Body = refreshed.Body
	if m.saver == nil {
		m.saver = s
	}
	return nil
}

// Delete removes the annotation backing the model.
func (s *Service[T]) Delete(ctx context.Context, m *Model[T]) error {
	_, err := s.svc.Delete(ctx, m.raw)
	return err
}

// Query searches the store and converts every result to the typed model.
func (s *Service[T]) Query(ctx context.Context, q core.Query) ([]*Model[T], core.Meta, error) {
	page, err := s.svc.Query(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	result := make([]*Model[T], 0, len(page.Results))
	for _, raw := range page.Results {
		model, err := fromAnnotation[T](raw, Saver[T](s))
		if err != nil {
			return nil, nil, err
		}
		result = append(result, model)
	}
	return result, page.Meta, nil
}

// Watch observes changes in the underlying store.
func (s *Service[T]) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return s.svc.Watch(ctx, pattern)
}

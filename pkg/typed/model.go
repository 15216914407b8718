package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/glosa/pkg/core"
)

// Model wraps a raw core.Annotation with a typed Body field. It acts as a
// typed view of the annotation: the underlying map keeps its identity and
// private fields, while Body exposes the application-defined shape.
type Model[T any] struct {
	Body T

	raw   core.Annotation
	saver Saver[T]
}

// Saver interface avoids tight coupling between Model and Service.
type Saver[T any] interface {
	Save(ctx context.Context, m *Model[T]) error
}

// UUID returns the client-side identity of the underlying annotation.
func (m *Model[T]) UUID() string {
	if m.raw == nil {
		return ""
	}
	return m.raw.UUID()
}

// Annotation exposes the raw map backing this model.
func (m *Model[T]) Annotation() core.Annotation {
	return m.raw
}

// Save persists the model using the attached saver.
func (m *Model[T]) Save(ctx context.Context) error {
	if m.saver == nil {
		return fmt.Errorf("model is detached (missing Saver)")
	}
	return m.saver.Save(ctx, m)
}

// mergeBody writes the typed body's fields over the raw map. Keys the body
// does not produce (uuid, private fields) are left untouched.
func mergeBody[T any](raw core.Annotation, body T) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal typed body: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to convert typed body to map: %w", err)
	}

	for k, v := range fields {
		raw[k] = v
	}
	return nil
}

// Helper to convert a raw annotation into a typed model.
func fromAnnotation[T any](raw core.Annotation, saver Saver[T]) (*Model[T], error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("annotation marshal failed: %w", err)
	}

	var body T
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("unmarshal to target type failed: %w", err)
	}

	return &Model[T]{
		Body:  body,
		raw:   raw,
		saver: saver,
	}, nil
}

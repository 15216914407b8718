package glosa

import (
	"github.com/aretw0/glosa/pkg/core"
	"github.com/aretw0/glosa/pkg/typed"
)

// Model wraps a raw Annotation with a typed Body field.
// It is the generic equivalent of Annotation.
type Model[T any] = typed.Model[T]

// TypedService wraps a Service to provide type-safe access.
// It converts between the open annotation record and typed structs.
type TypedService[T any] = typed.Service[T]

// NewTyped creates a new type-safe wrapper over a storage service.
// T is the shape you want annotations decoded into.
func NewTyped[T any](svc *core.Service) *TypedService[T] {
	return typed.NewService[T](svc)
}

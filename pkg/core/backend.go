package core

import "context"

// Backend defines the storage capability set every pluggable persistence
// implementation must satisfy. Adhering to this interface keeps the core
// independent of the persistence mechanism (embedded KV, HTTP API, memory).
//
// Methods return the stored record as the backend knows it after the
// operation; the Service merges that record back into the caller's object.
// Failures are returned as errors, never swallowed.
type Backend interface {
	// Create persists a new annotation and returns the stored record,
	// including any backend-assigned identity.
	Create(ctx context.Context, a Annotation) (Annotation, error)

	// Update overwrites the record addressed by the annotation's identity.
	Update(ctx context.Context, a Annotation) (Annotation, error)

	// Delete removes the record addressed by the annotation's identity.
	Delete(ctx context.Context, a Annotation) (Annotation, error)

	// Query returns every annotation matching the filter criteria.
	Query(ctx context.Context, q Query) (Page, error)
}

// Watchable is implemented by backends that can emit a change feed.
type Watchable interface {
	// Watch streams change events for annotations whose URI matches the
	// given doublestar pattern ("" or "**" matches everything). The channel
	// closes when ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Initializer is implemented by backends that need setup before first use
// (opening database files, probing capabilities).
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Closer is implemented by backends holding releasable resources.
type Closer interface {
	Close() error
}

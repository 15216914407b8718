// Package glosa is the Composition Root for the glosa annotation store.
//
// It connects the core domain (annotations, lifecycle hooks, the storage
// service) with the infrastructure adapters (embedded key-value persistence,
// remote HTTP APIs) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Glosa persists user-created annotations on documents through pluggable
// storage backends. The core treats an annotation as an open record: a map of
// fields with a dual identity (a client-generated uuid and an optional
// backend-assigned id). The service sequences lifecycle hooks around every
// operation and merges the backend's record back into the caller's object,
// preserving map identity so external references stay valid.
//
// Features:
//
//   - **Pluggable backends**: embedded Bolt-backed local storage and remote
//     HTTP APIs out of the box; anything satisfying `core.Backend` plugs in.
//   - **Lifecycle hooks**: a closed set of before/after extension points,
//     fanned out concurrently and awaited before the pipeline advances.
//   - **Identity-preserving merges**: after any operation the caller's
//     annotation holds exactly what the backend returned, nothing stale.
//   - **Change feed**: the local backend streams create/modify/delete events,
//     filterable by URI glob and bridgeable into a lifecycle runtime.
//
// Usage:
//
//	// Initialize a service with functional options
//	svc, err := glosa.New("./annotations.db",
//		glosa.WithDocumentURI("https://example.com/post/1"),
//		glosa.WithLogger(logger),
//	)
//
//	// Persist an annotation
//	ann := glosa.Annotation{"text": "disagree", "tags": []string{"review"}}
//	_, err = svc.Create(ctx, ann)
package glosa

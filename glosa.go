package glosa

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/glosa/internal/platform"
	"github.com/aretw0/glosa/pkg/core"
)

// --- Types ---

// Annotation is a public alias for the core annotation record.
type Annotation = core.Annotation

// Query is a public alias for the backend filter criteria.
type Query = core.Query

// Page is a public alias for a query result.
type Page = core.Page

// Service is a public alias for the storage service.
type Service = core.Service

// Backend is a public alias for the storage capability set.
type Backend = core.Backend

// Event is a public alias for a change-feed event.
type Event = core.Event

// --- Configuration ---

// Option defines a functional option for configuring glosa.
type Option = platform.Option

// WithBackend allows injecting a custom storage backend.
func WithBackend(b core.Backend) Option {
	return platform.WithBackend(b)
}

// WithAdapter selects the storage adapter by name ("local" or "remote").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDocumentURI sets the document location annotations are scoped to.
func WithDocumentURI(uri string) Option {
	return platform.WithDocumentURI(uri)
}

// WithUser sets the user identity forwarded on queries.
func WithUser(user string) Option {
	return platform.WithUser(user)
}

// WithNamespace sets the backing store namespace for the local adapter.
func WithNamespace(ns string) Option {
	return platform.WithNamespace(ns)
}

// WithTTL sets the record expiry for the local adapter. Zero means records
// persist until deleted.
func WithTTL(ttl time.Duration) Option {
	return platform.WithTTL(ttl)
}

// WithEventBuffer sets the change-feed subscriber buffer size.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithForceTemp forces the local database into a temporary directory
// (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox mechanism for `go run` executions.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithErrorHandler routes backend failures to fn instead of returning them,
// restoring notify-and-continue behavior for callers that prefer it.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithHTTPHeaders adds headers to every request of the remote adapter.
func WithHTTPHeaders(h http.Header) Option {
	return platform.WithHTTPHeaders(h)
}

// WithHTTPClient overrides the HTTP client of the remote adapter.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithEmulateHTTPMethods sends PUT and DELETE as POST plus an override header.
func WithEmulateHTTPMethods(enabled bool) Option {
	return platform.WithEmulateHTTPMethods(enabled)
}

// WithEmulateJSON wraps JSON bodies in a form-encoded field.
func WithEmulateJSON(enabled bool) Option {
	return platform.WithEmulateJSON(enabled)
}

// --- Factory ---

// New creates a glosa Service. The 'target' argument is adapter-specific:
// a database file path for the local adapter, the API prefix for the remote
// adapter.
func New(target string, opts ...Option) (*core.Service, error) {
	return platform.New(target, opts...)
}

// Init builds a storage backend explicitly, without wrapping it in a Service.
func Init(target string, opts ...Option) (core.Backend, error) {
	return platform.Init(target, opts...)
}

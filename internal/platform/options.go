package platform

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/glosa/pkg/core"
)

// options holds the internal configuration for the glosa service.
type options struct {
	backend core.Backend
	logger  *slog.Logger
	adapter string
	config  map[string]any
}

// Option defines a functional option for configuring glosa.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backend: nil,
		logger:  nil,
		adapter: "local",
		config:  make(map[string]any),
	}
}

// WithBackend allows injecting a custom storage backend (e.g. mock, memory).
// If provided, no adapter is constructed.
func WithBackend(b core.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithAdapter selects the storage adapter by name ("local" or "remote").
// Defaults to "local".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithLogger sets the logger for the service and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDocumentURI sets the source document location annotations are scoped to.
func WithDocumentURI(uri string) Option {
	return func(o *options) {
		o.config["document_uri"] = uri
	}
}

// WithUser sets the user identity stamped on queries (remote adapter).
func WithUser(user string) Option {
	return func(o *options) {
		o.config["user"] = user
	}
}

// WithNamespace sets the backing store namespace (local adapter).
// Defaults to "glosa".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.config["namespace"] = ns
	}
}

// WithTTL sets the record expiry for the local adapter. Zero means records
// persist until deleted.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.config["ttl"] = ttl
	}
}

// WithEventBuffer sets the change-feed subscriber buffer size (local adapter).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithForceTemp forces the local database into a temporary directory
// (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox mechanism when running via `go run`.
// By default (true), glosa re-roots the local database into a temporary
// directory to prevent accidental data loss during development.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithErrorHandler switches the service to notify-and-continue error
// handling: backend failures are routed to fn and operations settle as if
// successful. Leave unset to have failures propagate as errors.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["error_handler"] = fn
	}
}

// WithHTTPHeaders adds headers to every request of the remote adapter.
func WithHTTPHeaders(h http.Header) Option {
	return func(o *options) {
		o.config["http_headers"] = h
	}
}

// WithHTTPClient overrides the HTTP client of the remote adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.config["http_client"] = c
	}
}

// WithEmulateHTTPMethods sends PUT and DELETE as POST plus an override
// header (remote adapter legacy mode).
func WithEmulateHTTPMethods(enabled bool) Option {
	return func(o *options) {
		o.config["emulate_http_methods"] = enabled
	}
}

// WithEmulateJSON wraps JSON bodies in a form-encoded field (remote adapter
// legacy mode).
func WithEmulateJSON(enabled bool) Option {
	return func(o *options) {
		o.config["emulate_json"] = enabled
	}
}

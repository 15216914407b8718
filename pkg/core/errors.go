package core

import "errors"

// Common errors.
var (
	// ErrMissingIdentity is returned when update or delete is attempted on an
	// annotation carrying neither a backend id nor a uuid. The backend is not
	// invoked in that case.
	ErrMissingIdentity = errors.New("annotation has no identity")

	// ErrNoBackend is returned by a Service constructed without a backend.
	ErrNoBackend = errors.New("no storage backend configured")
)

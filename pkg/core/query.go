package core

// Query carries filter criteria for a backend search. Each backend interprets
// it on its own terms: the local backend matches URI (exact or glob) against
// every stored record; the HTTP backend forwards everything as request
// parameters.
type Query struct {
	// URI filters annotations by source document location. The local backend
	// treats values containing glob metacharacters ('*', '?', '[', '{') as
	// doublestar patterns; otherwise equality applies.
	URI string

	// User optionally filters by the annotation's user field.
	User string

	// Extra holds additional, backend-specific parameters. The HTTP backend
	// forwards them verbatim as URL query parameters.
	Extra map[string]string
}

// Meta carries backend-provided result metadata. For the HTTP backend this is
// every top-level response field besides "rows".
type Meta map[string]any

// Total returns the advertised total result count, or -1 when the backend did
// not provide one.
func (m Meta) Total() int {
	v, ok := m["total"]
	if !ok {
		return -1
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return -1
	}
}

// Page is the uniform result of a backend query.
type Page struct {
	Results []Annotation
	Meta    Meta
}

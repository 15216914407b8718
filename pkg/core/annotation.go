package core

import "fmt"

// LocalField is the key holding transient, client-only state on an annotation
// (highlight elements, in-progress editor state). It is stripped before the
// annotation is handed to a backend and survives the merge step unchanged.
const LocalField = "_local"

// Annotation is the central entity of the domain: an open record describing a
// user's note or highlight tied to a document location. No schema is enforced;
// well-known keys are "id" (backend-assigned), "uuid" (client-generated),
// "uri", "text", "tags", "quote"/"ranges" and "user".
//
// Annotations are plain maps so that callers, hooks and backends all observe
// the same object. ReplaceWith mutates contents while keeping map identity.
type Annotation map[string]any

// UUID returns the client-generated identifier, or "" if absent.
func (a Annotation) UUID() string {
	s, _ := a["uuid"].(string)
	return s
}

// SetUUID stamps the client-generated identifier.
func (a Annotation) SetUUID(id string) {
	a["uuid"] = id
}

// ID returns the backend-assigned identity rendered as a string, or "" if
// absent. Backends may assign numeric or string ids; both are accepted.
func (a Annotation) ID() string {
	v, ok := a["id"]
	if !ok || v == nil {
		return ""
	}
	switch id := v.(type) {
	case string:
		return id
	default:
		// JSON numbers decode as float64; render without a trailing ".0".
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return fmt.Sprintf("%d", int64(f))
		}
		return fmt.Sprintf("%v", id)
	}
}

// URI returns the source document location, or "" if absent.
func (a Annotation) URI() string {
	s, _ := a["uri"].(string)
	return s
}

// SetURI stamps the source document location.
func (a Annotation) SetURI(uri string) {
	a["uri"] = uri
}

// User returns the annotation's user field, or "" if absent or not a string.
func (a Annotation) User() string {
	s, _ := a["user"].(string)
	return s
}

// HasIdentity reports whether the annotation carries any identifier usable to
// address an existing record (backend id or client uuid).
func (a Annotation) HasIdentity() bool {
	return a.ID() != "" || a.UUID() != ""
}

// Clone returns a shallow copy. Nested values are shared.
func (a Annotation) Clone() Annotation {
	out := make(Annotation, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Sanitized returns a shallow copy with the transient local field removed.
// This is the form handed to backends.
func (a Annotation) Sanitized() Annotation {
	out := a.Clone()
	delete(out, LocalField)
	return out
}

// ReplaceWith clears every field except the transient local one and merges in
// the fields of the returned record. The map identity is preserved, so any
// external reference to the annotation observes the new contents. Caller-set
// fields do not survive unless echoed back by the backend.
func (a Annotation) ReplaceWith(returned Annotation) {
	local, hasLocal := a[LocalField]
	for k := range a {
		delete(a, k)
	}
	if hasLocal {
		a[LocalField] = local
	}
	for k, v := range returned {
		a[k] = v
	}
}

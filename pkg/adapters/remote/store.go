// Package remote implements the annotation storage backend over a remote
// HTTP API. Endpoints are described by Level-1 URI templates relative to a
// configurable prefix; request and response bodies are JSON. Two
// legacy-compatibility modes are supported for servers behind restrictive
// proxies: method emulation (PUT/DELETE sent as POST plus an override header)
// and payload emulation (JSON wrapped in a form-encoded field).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/aretw0/glosa/pkg/core"
)

// methodOverrideHeader carries the real verb under method emulation.
const methodOverrideHeader = "X-HTTP-Method-Override"

// Config holds the configuration for the remote backend.
type Config struct {
	// Prefix is the API root, e.g. "https://example.com/api". Endpoint
	// templates are resolved relative to it.
	Prefix string

	// URI is the current document location, stamped on every outgoing
	// annotation and used as the default search criterion.
	URI string

	// User is an optional user identity forwarded as a search parameter.
	User string

	// Endpoints overrides the URL template per action. The zero value means
	// DefaultURLs.
	Endpoints URLs

	// Headers are added to every request.
	Headers http.Header

	// EmulateHTTPMethods sends PUT and DELETE as POST with an
	// X-HTTP-Method-Override header.
	EmulateHTTPMethods bool

	// EmulateJSON wraps the JSON body inside a form-encoded "json" field.
	EmulateJSON bool

	// Client overrides the HTTP client. Nil means http.DefaultClient.
	Client *http.Client

	// MaxTries bounds attempts for transient failures (network errors,
	// 502/503/504). Zero means 3. Non-transient failures never retry.
	MaxTries uint

	Logger *slog.Logger

	// NewID overrides uuid generation. Nil means a random UUIDv4 string.
	NewID func() string
}

// Store implements core.Backend against a remote annotation API.
type Store struct {
	config    Config
	client    *http.Client
	templates templates
	newID     func() string
}

// New creates a remote backend. It fails when an endpoint template does not
// parse.
func New(config Config) (*Store, error) {
	if config.Endpoints == (URLs{}) {
		config.Endpoints = DefaultURLs()
	}
	tmpl, err := compileTemplates(config.Endpoints)
	if err != nil {
		return nil, err
	}

	client := config.Client
	if client == nil {
		client = http.DefaultClient
	}
	newID := config.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	if config.MaxTries == 0 {
		config.MaxTries = 3
	}

	return &Store{
		config:    config,
		client:    client,
		templates: tmpl,
		newID:     newID,
	}, nil
}

// Create POSTs a new annotation and returns the server's record.
func (s *Store) Create(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	s.stamp(a)
	data, err := s.request(ctx, ActionCreate, http.MethodPost, "", a, nil)
	if err != nil {
		return a, err
	}
	return decodeAnnotation(data, a)
}

// Update PUTs the annotation to the record addressed by its server id.
func (s *Store) Update(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	s.stamp(a)
	data, err := s.request(ctx, ActionUpdate, http.MethodPut, a.ID(), a, nil)
	if err != nil {
		return a, err
	}
	return decodeAnnotation(data, a)
}

// Delete removes the record addressed by the annotation's server id.
func (s *Store) Delete(ctx context.Context, a core.Annotation) (core.Annotation, error) {
	s.stamp(a)
	data, err := s.request(ctx, ActionDelete, http.MethodDelete, a.ID(), nil, nil)
	if err != nil {
		return a, err
	}
	return decodeAnnotation(data, a)
}

// Query GETs the search endpoint. Filter criteria travel as URL parameters;
// the response's "rows" field becomes the result set and every remaining
// top-level field becomes result metadata.
func (s *Store) Query(ctx context.Context, q core.Query) (core.Page, error) {
	params := url.Values{}
	if uri := firstNonEmpty(q.URI, s.config.URI); uri != "" {
		params.Set("uri", uri)
	}
	if user := firstNonEmpty(q.User, s.config.User); user != "" {
		params.Set("user", user)
	}
	for k, v := range q.Extra {
		params.Set(k, v)
	}

	data, err := s.request(ctx, ActionSearch, http.MethodGet, "", nil, params)
	if err != nil {
		return core.Page{}, err
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return core.Page{}, Error.New("malformed search response: %v", err)
	}

	rows, _ := body["rows"].([]any)
	results := make([]core.Annotation, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.(map[string]any); ok {
			results = append(results, core.Annotation(m))
		}
	}
	delete(body, "rows")

	return core.Page{
		Results: results,
		Meta:    core.Meta(body),
	}, nil
}

// stamp ensures the annotation carries a uuid and the current document uri
// before transmission.
func (s *Store) stamp(a core.Annotation) {
	if a == nil {
		return
	}
	if a.UUID() == "" {
		a.SetUUID(s.newID())
	}
	if s.config.URI != "" {
		a.SetURI(s.config.URI)
	}
}

// request performs one API call with bounded retries for transient failures.
// The request is rebuilt per attempt since the body reader is consumed.
func (s *Store) request(ctx context.Context, action Action, method, id string, payload core.Annotation, params url.Values) ([]byte, error) {
	target, err := s.urlFor(action, id)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	attempt := func() ([]byte, error) {
		req, err := s.build(ctx, method, target, payload)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			// Network errors are retryable.
			return nil, Error.Wrap(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, Error.Wrap(err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			reqErr := &RequestError{Action: action, Status: resp.StatusCode, URL: target}
			if transient(resp.StatusCode) {
				return nil, reqErr
			}
			return nil, backoff.Permanent(error(reqErr))
		}
		return data, nil
	}

	data, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.config.MaxTries),
	)
	if err != nil {
		if s.config.Logger != nil {
			s.config.Logger.Warn("api request failed", "action", string(action), "url", target, "error", err)
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) build(ctx context.Context, method, target string, payload core.Annotation) (*http.Request, error) {
	var body io.Reader
	contentType := ""

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		if s.config.EmulateJSON {
			form := url.Values{"json": {string(raw)}}
			body = strings.NewReader(form.Encode())
			contentType = "application/x-www-form-urlencoded"
		} else {
			body = bytes.NewReader(raw)
			contentType = "application/json"
		}
	}

	sendMethod := method
	override := ""
	if s.config.EmulateHTTPMethods && (method == http.MethodPut || method == http.MethodDelete) {
		sendMethod = http.MethodPost
		override = method
	}

	req, err := http.NewRequestWithContext(ctx, sendMethod, target, body)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if override != "" {
		req.Header.Set(methodOverrideHeader, override)
	}
	for key, values := range s.config.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// decodeAnnotation parses a CRUD response body, falling back to the request
// payload when the server returned nothing.
func decodeAnnotation(data []byte, fallback core.Annotation) (core.Annotation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return fallback, nil
	}
	var out core.Annotation
	if err := json.Unmarshal(data, &out); err != nil {
		return fallback, Error.New("malformed response body: %v", err)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ core.Backend = (*Store)(nil)

package platform

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/glosa/pkg/adapters/kv"
	"github.com/aretw0/glosa/pkg/adapters/local"
	"github.com/aretw0/glosa/pkg/adapters/remote"
	"github.com/aretw0/glosa/pkg/core"
)

// Init builds the configured storage backend. The 'target' argument is
// adapter-specific: a database file path for 'local', the API prefix for
// 'remote'.
func Init(target string, opts ...Option) (core.Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	// 1. Check for injected backend
	if o.backend != nil {
		return o.backend, nil
	}

	// 2. Initialize based on adapter
	var backend core.Backend
	var err error

	switch o.adapter {
	case "local":
		backend, err = initLocal(target, o)
	case "remote":
		backend, err = initRemote(target, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	// 3. Run initialization when the backend needs it
	if init, ok := backend.(core.Initializer); ok {
		if err := init.Initialize(context.Background()); err != nil {
			return nil, err
		}
	}

	return backend, nil
}

// New builds a Service over the configured backend.
func New(target string, opts ...Option) (*core.Service, error) {
	backend, err := Init(target, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	svcOpts := []core.ServiceOption{}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithLogger(o.logger))
	}
	if fn, ok := o.config["error_handler"].(func(error)); ok && fn != nil {
		svcOpts = append(svcOpts, core.WithErrorHandler(fn))
	}

	return core.NewService(backend, svcOpts...), nil
}

// initLocal handles the initialization logic for the local adapter.
func initLocal(path string, o *options) (core.Backend, error) {
	namespace, _ := o.config["namespace"].(string)
	if namespace == "" {
		namespace = "glosa"
	}
	ttl, _ := o.config["ttl"].(time.Duration)
	uri, _ := o.config["document_uri"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	tempDir, _ := o.config["temp_dir"].(bool)

	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}
	forceTemp := tempDir || (devSafety && IsDevRun())
	resolved := ResolveStorePath(path, forceTemp)

	if o.logger != nil && forceTemp && resolved != path {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}

	if dir := filepath.Dir(resolved); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	store, err := kv.Open(resolved, namespace, kv.Options{Logger: o.logger})
	if err != nil {
		return nil, err
	}

	return local.New(store, local.Config{
		URI:         uri,
		TTL:         ttl,
		EventBuffer: eventBuffer,
		Logger:      o.logger,
	}), nil
}

// initRemote handles the initialization logic for the remote adapter.
func initRemote(prefix string, o *options) (core.Backend, error) {
	uri, _ := o.config["document_uri"].(string)
	user, _ := o.config["user"].(string)
	headers, _ := o.config["http_headers"].(http.Header)
	client, _ := o.config["http_client"].(*http.Client)
	emulateMethods, _ := o.config["emulate_http_methods"].(bool)
	emulateJSON, _ := o.config["emulate_json"].(bool)

	return remote.New(remote.Config{
		Prefix:             prefix,
		URI:                uri,
		User:               user,
		Headers:            headers,
		Client:             client,
		EmulateHTTPMethods: emulateMethods,
		EmulateJSON:        emulateJSON,
		Logger:             o.logger,
	})
}

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/glosa"
)

// configFile is looked up in the working directory when present.
const configFile = "glosa.yaml"

// Config drives the CLI. Values come from glosa.yaml first, then GLOSA_*
// environment variables override.
type Config struct {
	Adapter   string `env:"GLOSA_ADAPTER" yaml:"adapter"`     // "local" or "remote"
	Path      string `env:"GLOSA_PATH" yaml:"path"`           // local database file
	Namespace string `env:"GLOSA_NAMESPACE" yaml:"namespace"` // local store namespace
	URI       string `env:"GLOSA_URI" yaml:"uri"`             // document location
	User      string `env:"GLOSA_USER" yaml:"user"`
	Prefix    string `env:"GLOSA_PREFIX" yaml:"prefix"` // remote API root
	Token     string `env:"GLOSA_TOKEN" yaml:"token"`   // bearer token for the remote API
}

func loadConfig() (Config, error) {
	cfg := Config{
		Adapter:   "local",
		Path:      "glosa.db",
		Namespace: "glosa",
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", configFile, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, nil
}

// newService wires a glosa service from the CLI configuration.
func newService(cfg Config) (*glosa.Service, error) {
	target := cfg.Path
	opts := []glosa.Option{
		glosa.WithAdapter(cfg.Adapter),
		glosa.WithDocumentURI(cfg.URI),
		glosa.WithNamespace(cfg.Namespace),
		glosa.WithUser(cfg.User),
		glosa.WithLogger(slog.Default()),
	}

	if cfg.Adapter == "remote" {
		target = cfg.Prefix
		if cfg.Token != "" {
			h := http.Header{}
			h.Set("Authorization", "Bearer "+cfg.Token)
			opts = append(opts, glosa.WithHTTPHeaders(h))
		}
	}

	return glosa.New(target, opts...)
}

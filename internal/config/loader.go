package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if TRIAGO_CONFIG is set
//  3. env (prefix TRIAGO_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TRIAGO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TRIAGO_ADDR, TRIAGO_MAX_RADIUS_KM, ...
	// Map env keys like TRIAGO_MAX_RADIUS_KM -> max_radius_km (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TRIAGO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "triago_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxRadiusKM <= 0:
		return fmt.Errorf("%w: max_radius_km must be positive", ErrInvalidConfig)
	case c.RemoteEnabled && c.RemoteEndpoint == "":
		return fmt.Errorf("%w: remote_endpoint required when remote is enabled", ErrInvalidConfig)
	case c.RemoteTimeoutSeconds <= 0:
		return fmt.Errorf("%w: remote_timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

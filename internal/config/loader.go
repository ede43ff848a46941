package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (Default())
//  2. file (YAML) if HELIO_CONFIG is set
//  3. env (prefix HELIO_)
func Load() (*Config, error) {
	base := Default()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HELIO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: HELIO_ADDR, HELIO_PINCH_THRESHOLD, ...
	// Map env keys like HELIO_PINCH_THRESHOLD -> pinch_threshold,
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("HELIO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "helio_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.IdleFPS <= 0 || cfg.ActiveFPS <= 0 {
		return nil, errors.New("frame rates must be positive")
	}
	if cfg.StationCount < 0 {
		return nil, errors.New("station_count must not be negative")
	}
	return &cfg, nil
}

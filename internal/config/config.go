// Package config loads negtest settings using koanf.
// Priority: environment variables (NEGTEST_*) > JSON or YAML config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. NEGTEST_MATCH_MODE=ordered.
const EnvPrefix = "NEGTEST_"

// Configuration holds the settings a session is built from.
type Configuration struct {
	// MatchMode is one of strict, ordered, any_order.
	MatchMode string `koanf:"match_mode"`
	// LogLevel is a zap level name; empty disables logging.
	LogLevel string `koanf:"log_level"`
	// VerifyDiff adds a unified diff of expected vs actual calls to Verify failures.
	VerifyDiff bool `koanf:"verify_diff"`
}

// Defaults returns the default values keyed by koanf path.
func Defaults() map[string]any {
	return map[string]any{
		"match_mode":  "strict",
		"log_level":   "",
		"verify_diff": true,
	}
}

// Load reads configuration from defaults, the file at path (skipped when path is empty
// or the file does not exist) and the environment. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON.
func Load(path string) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if path != "" && fileExists(path) {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks enumerated values.
func Validate(cfg *Configuration) error {
	switch strings.ToLower(cfg.MatchMode) {
	case "", "strict", "ordered", "any_order":
	default:
		return fmt.Errorf("%w: match_mode %q (want strict, ordered or any_order)", ErrInvalidValue, cfg.MatchMode)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q (want debug, info, warn or error)", ErrInvalidValue, cfg.LogLevel)
	}

	return nil
}

// ErrInvalidValue is returned for settings outside their allowed values.
var ErrInvalidValue = errors.New("invalid config value")

func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return json.Parser()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

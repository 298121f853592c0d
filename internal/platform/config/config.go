// Package config loads runtime configuration from an optional TOML file and
// the environment. Environment variables win over the file; the file wins
// over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Storage engine names.
const (
	EngineSQLite = "sqlite"
	EngineBolt   = "bolt"
)

// Config captures everything the CLI needs to wire the deck core.
type Config struct {
	StoragePath   string `env:"STATDECK_STORAGE_PATH"`
	StorageEngine string `env:"STATDECK_STORAGE_ENGINE"`
	ShareOrigin   string `env:"STATDECK_SHARE_ORIGIN"`

	// URLLimits maps browser targets to URL byte limits for the share
	// size classifier. File-only; not settable from the environment.
	URLLimits map[string]int
}

const (
	defaultConfigPath  = "~/.config/statdeck/config.toml"
	defaultShareOrigin = "https://statdeck.app"
)

// Load resolves configuration from defaults, the TOML file at path (or the
// default location when path is empty), and the environment.
func Load(path string) (Config, error) {
	cfg := Config{
		StorageEngine: EngineSQLite,
		ShareOrigin:   defaultShareOrigin,
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	if err := applyFile(&cfg, resolved); err != nil {
		return Config{}, err
	}

	var overrides struct {
		StoragePath   string `env:"STATDECK_STORAGE_PATH"`
		StorageEngine string `env:"STATDECK_STORAGE_ENGINE"`
		ShareOrigin   string `env:"STATDECK_SHARE_ORIGIN"`
	}
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if overrides.StoragePath != "" {
		cfg.StoragePath = overrides.StoragePath
	}
	if overrides.StorageEngine != "" {
		cfg.StorageEngine = overrides.StorageEngine
	}
	if overrides.ShareOrigin != "" {
		cfg.ShareOrigin = overrides.ShareOrigin
	}

	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath(cfg.StorageEngine)
	}

	switch cfg.StorageEngine {
	case EngineSQLite, EngineBolt:
	default:
		return Config{}, fmt.Errorf("unknown storage engine %q", cfg.StorageEngine)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		StoragePath   string         `toml:"storage_path"`
		StorageEngine string         `toml:"storage_engine"`
		ShareOrigin   string         `toml:"share_origin"`
		URLLimits     map[string]int `toml:"url_limits"`
	}
	if err := toml.Unmarshal(contents, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if value := strings.TrimSpace(raw.StoragePath); value != "" {
		cfg.StoragePath = value
	}
	if value := strings.TrimSpace(raw.StorageEngine); value != "" {
		cfg.StorageEngine = value
	}
	if value := strings.TrimSpace(raw.ShareOrigin); value != "" {
		cfg.ShareOrigin = value
	}
	if len(raw.URLLimits) > 0 {
		cfg.URLLimits = raw.URLLimits
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return expand(path)
}

func expand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func defaultStoragePath(engine string) string {
	base := "~/.local/share/statdeck"
	expanded, err := expand(base)
	if err != nil {
		expanded = "."
	}
	name := "statdeck.db"
	if engine == EngineBolt {
		name = "statdeck.bolt"
	}
	return filepath.Join(expanded, name)
}

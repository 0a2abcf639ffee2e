// Package config loads gfabridge settings from TOML or YAML files.
//
// Settings are resolved in three layers: [Default], then the config file
// (if any), then command-line flags applied by the caller. A file only needs
// to set the values it changes.
//
//	[fetch]
//	origin = "https://assemblies.example.org"
//	timeout = "30s"
//	retries = 3
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/gfabridge/pkg/errors"
)

const appName = "gfabridge"

// Config is the complete set of runtime settings.
type Config struct {
	Fetch FetchConfig `toml:"fetch" yaml:"fetch"`
	Cache CacheConfig `toml:"cache" yaml:"cache"`
	Log   LogConfig   `toml:"log" yaml:"log"`
	Serve ServeConfig `toml:"serve" yaml:"serve"`
}

// FetchConfig controls remote document retrieval.
type FetchConfig struct {
	// Origin restricts fetches to one scheme://host[:port]. Relative URLs
	// resolve against it. Empty allows any http(s) URL.
	Origin     string        `toml:"origin" yaml:"origin"`
	Timeout    time.Duration `toml:"timeout" yaml:"timeout"`
	Retries    int           `toml:"retries" yaml:"retries"`
	RetryDelay time.Duration `toml:"retry_delay" yaml:"retry_delay"`
}

// CacheConfig selects the document cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend" yaml:"backend"` // file, redis, none
	Dir       string        `toml:"dir" yaml:"dir"`
	TTL       time.Duration `toml:"ttl" yaml:"ttl"`
	RedisAddr string        `toml:"redis_addr" yaml:"redis_addr"`
}

// LogConfig sets the logger level.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn, error
}

// ServeConfig configures the HTTP query server.
type ServeConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Fetch: FetchConfig{
			Timeout:    30 * time.Second,
			Retries:    3,
			RetryDelay: 500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     CacheDir(),
			TTL:     24 * time.Hour,
		},
		Log:   LogConfig{Level: "info"},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}

	return cfg, cfg.Validate()
}

// LoadDefault loads the user config file if it exists and returns the
// defaults otherwise.
func LoadDefault() (Config, error) {
	path := Path()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges and the origin URL.
func (c Config) Validate() error {
	if c.Fetch.Origin != "" {
		if err := errors.ValidateURL(c.Fetch.Origin); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "fetch.origin")
		}
	}
	if c.Fetch.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.timeout must not be negative")
	}
	if c.Fetch.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.retries must not be negative")
	}
	switch c.Cache.Backend {
	case "", "file", "none":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log.level %q", c.Log.Level)
	}
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the default config file location,
// $XDG_CONFIG_HOME/gfabridge/config.toml, or "" if no home is known.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// CacheDir returns the default document cache directory,
// $XDG_CACHE_HOME/gfabridge, falling back to a temp directory.
func CacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}

// String renders the config as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

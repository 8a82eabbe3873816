// Package config loads steamvent's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/steamvent/config.toml (or
// ~/.config/steamvent/config.toml) and is optional; every key has a default.
// Command-line flags override whatever the file sets.
//
//	origin  = "AA"
//	budget  = 30
//	workers = 4
//	top_k   = 5
//
//	[cache]
//	backend    = "redis"          # "file", "redis" or "none"
//	redis_addr = "localhost:6379"
//	prefix     = "steamvent:"
//	ttl        = "24h"
//	scope      = "staging"        # keys become "staging:..."
//
//	[serve]
//	addr    = ":8080"
//	timeout = "30s"                # per-request limit on /v1
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/steamvent/pkg/errors"
)

const appName = "steamvent"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration file.
type Config struct {
	Origin  string `toml:"origin"`
	Budget  int    `toml:"budget"`
	Workers int    `toml:"workers"`
	TopK    int    `toml:"top_k"`

	Cache CacheConfig `toml:"cache"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend"`
	RedisAddr string        `toml:"redis_addr"`
	Prefix    string        `toml:"prefix"`
	TTL       time.Duration `toml:"ttl"`

	// Scope separates entries of installations sharing one backend.
	Scope string `toml:"scope"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr    string        `toml:"addr"`
	Timeout time.Duration `toml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Origin: "AA",
		Budget: 30,
		TopK:   5,
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			Prefix:    "steamvent:",
		},
		Serve: ServeConfig{Addr: ":8080", Timeout: 30 * time.Second},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path on top of [Default] and validates the result.
// Unknown keys are rejected so that typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path]. A missing file yields [Default].
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := errs.ValidateValveID(c.Origin); err != nil {
		return err
	}
	if err := errs.ValidateBudget(c.Budget); err != nil {
		return err
	}
	if err := errs.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	if c.TopK < 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "top_k must be at least 1: %d", c.TopK)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if strings.ContainsAny(c.Cache.Scope, " \t\n") {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.scope must not contain whitespace: %q", c.Cache.Scope)
	}
	if c.Serve.Timeout <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "serve.timeout must be positive")
	}
	return nil
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

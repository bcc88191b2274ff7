// Package config holds the runtime settings of the cutlist CLI and server.
//
// Settings are layered: built-in defaults, then the JSON config file, then
// .env files, then CUTLIST_* environment variables, then command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CUTLIST_"

// Duration is a time.Duration that reads and writes as text ("30s") in JSON
// and environment variables.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds application-wide defaults and service settings.
type Config struct {
	// Optimizer defaults, used when a project does not set its own.
	KerfWidth     float64 `json:"kerf_width" env:"KERF_WIDTH"`
	OverageFactor float64 `json:"overage_factor" env:"OVERAGE_FACTOR"`

	LogLevel string `json:"log_level" env:"LOG_LEVEL"`

	// HTTP service
	ListenAddr     string   `json:"listen_addr" env:"LISTEN_ADDR"`
	RequestTimeout Duration `json:"request_timeout" env:"REQUEST_TIMEOUT"`

	// Result cache. Redis wins over the file cache when both are set.
	CacheDir      string   `json:"cache_dir" env:"CACHE_DIR"`
	CacheTTL      Duration `json:"cache_ttl" env:"CACHE_TTL"`
	RedisAddr     string   `json:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string   `json:"redis_password,omitempty" env:"REDIS_PASSWORD"`
	RedisDB       int      `json:"redis_db" env:"REDIS_DB"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		KerfWidth:      0.125,
		OverageFactor:  0.15,
		LogLevel:       "info",
		ListenAddr:     ":8080",
		RequestTimeout: Duration(30 * time.Second),
		CacheTTL:       Duration(24 * time.Hour),
	}
}

// DefaultDir returns ~/.cutlist, or ./.cutlist when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cutlist")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.json")
}

// Load reads a Config from the given JSON file on top of the defaults.
// A missing file yields the defaults with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save persists cfg as indented JSON, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadEnvFiles loads .env-style files into the process environment. Variables
// already present in the environment are not overridden. Empty paths are ignored.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %q: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays CUTLIST_* variables onto cfg. A nil environ reads the
// process environment. Unset variables leave the current value alone.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse %s environment: %w", EnvPrefix, err)
	}
	return nil
}

// Validate reports settings the optimizer or server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.KerfWidth < 0 {
		errs = append(errs, fmt.Errorf("kerf width must not be negative, got %g", c.KerfWidth))
	}
	if c.OverageFactor < 0 {
		errs = append(errs, fmt.Errorf("overage factor must not be negative, got %g", c.OverageFactor))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", time.Duration(c.RequestTimeout)))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must not be negative, got %s", time.Duration(c.CacheTTL)))
	}
	return errors.Join(errs...)
}

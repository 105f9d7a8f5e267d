// Package config loads vsxpack settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
	"github.com/matzehuels/vsxpack/pkg/integrations/github"
	"github.com/matzehuels/vsxpack/pkg/integrations/marketplace"
	"github.com/matzehuels/vsxpack/pkg/integrations/openvsx"
)

const appName = "vsxpack"

// Environment variables read at startup.
const (
	EnvConfig      = "VSXPACK_CONFIG"
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvRedisURL    = "VSXPACK_REDIS_URL"
)

// Config holds every tunable setting.
type Config struct {
	MarketplaceURL string   `toml:"marketplace_url"`
	OpenVSXURL     string   `toml:"openvsx_url"`
	GitHubAPIURL   string   `toml:"github_api_url"`
	SnapshotURL    string   `toml:"snapshot_url"`
	SnapshotPath   string   `toml:"snapshot_path"`
	CacheTTL       Duration `toml:"cache_ttl"`
	Concurrency    int      `toml:"concurrency"`
	RedisURL       string   `toml:"redis_url"`

	// Deprecated adds to the built-in deprecation table (old = "replacement").
	Deprecated map[string]string `toml:"deprecated"`
	// Ineligible adds to the built-in ineligible list.
	Ineligible []string `toml:"ineligible"`

	// GitHubToken comes from the environment only.
	GitHubToken string `toml:"-"`
	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Duration is a time.Duration that decodes from strings like "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MarketplaceURL: marketplace.DefaultBaseURL,
		OpenVSXURL:     openvsx.DefaultBaseURL,
		GitHubAPIURL:   github.DefaultBaseURL,
		SnapshotURL:    openvsx.DefaultSnapshotURL,
		SnapshotPath:   filepath.Join(CacheDir(), "openvsx-extensions.json"),
		CacheTTL:       Duration{24 * time.Hour},
		Concurrency:    16,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/vsxpack/config.toml, falling back to
// ~/.config/vsxpack/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// CacheDir returns $XDG_CACHE_HOME/vsxpack, falling back to ~/.cache/vsxpack.
func CacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// LoadEnv loads KEY=value pairs from .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config file at path on top of the defaults. An empty path
// means $VSXPACK_CONFIG or [DefaultPath]; the default file may be absent,
// an explicitly named one may not. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath()
		}
	}

	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			cfg.Path = path
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				sort.Strings(keys)
				return nil, vsxerrors.New(vsxerrors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		case errors.Is(err, os.ErrNotExist):
			return nil, vsxerrors.Wrap(vsxerrors.ErrCodeFileSystem, err, "config file %s not found", path)
		default:
			return nil, vsxerrors.Wrap(vsxerrors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
	}

	cfg.GitHubToken = strings.TrimSpace(os.Getenv(EnvGitHubToken))
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.RedisURL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks URLs, limits, and table entries.
func (c *Config) Validate() error {
	for name, u := range map[string]string{
		"marketplace_url": c.MarketplaceURL,
		"openvsx_url":     c.OpenVSXURL,
		"github_api_url":  c.GitHubAPIURL,
		"snapshot_url":    c.SnapshotURL,
	} {
		if err := vsxerrors.ValidateURL(u); err != nil {
			return vsxerrors.Wrap(vsxerrors.ErrCodeInvalidInput, err, "%s", name)
		}
	}
	if c.SnapshotPath == "" {
		return vsxerrors.New(vsxerrors.ErrCodeInvalidInput, "snapshot_path cannot be empty")
	}
	if c.Concurrency < 1 || c.Concurrency > 256 {
		return vsxerrors.New(vsxerrors.ErrCodeInvalidInput, "concurrency must be between 1 and 256, got %d", c.Concurrency)
	}
	if c.CacheTTL.Duration < 0 {
		return vsxerrors.New(vsxerrors.ErrCodeInvalidInput, "cache_ttl cannot be negative")
	}
	for old := range c.Deprecated {
		if err := vsxerrors.ValidateExtensionID(old); err != nil {
			return vsxerrors.Wrap(vsxerrors.ErrCodeInvalidInput, err, "deprecated entry")
		}
	}
	for _, id := range c.Ineligible {
		if err := vsxerrors.ValidateExtensionID(id); err != nil {
			return vsxerrors.Wrap(vsxerrors.ErrCodeInvalidInput, err, "ineligible entry")
		}
	}
	return nil
}

// Package config loads barstack's user configuration.
//
// The file lives at ~/.config/barstack/config.toml (see [DefaultPath]) and
// supplies defaults that command-line flags override:
//
//	[layout]
//	barmode = "stack"
//	bargap = 0.15
//	width = 900
//
//	[render]
//	formats = ["svg", "png"]
//	style = "dark"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	layout_ttl = "24h"
//
// A missing file is not an error; [Default] is used instead.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/barstack/pkg/cache"
	"github.com/matzehuels/barstack/pkg/chart"
	errs "github.com/matzehuels/barstack/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the parsed configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig holds figure layout defaults. Zero values defer to the
// figure's own layout.
type LayoutConfig struct {
	BarMode     string   `toml:"barmode"`
	BarGap      *float64 `toml:"bargap"`
	BarGroupGap *float64 `toml:"bargroupgap"`
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Bins        int      `toml:"bins"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Style   string   `toml:"style"`
	Scale   float64  `toml:"scale"`
	Titles  bool     `toml:"titles"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	LayoutTTL     time.Duration `toml:"layout_ttl"`
	ArtifactTTL   time.Duration `toml:"artifact_ttl"`
}

// ServerConfig configures `barstack serve`.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{Formats: []string{"svg"}, Style: "simple", Scale: 2},
		Cache: CacheConfig{
			Backend:     BackendFile,
			RedisAddr:   "localhost:6379",
			Prefix:      "barstack:",
			LayoutTTL:   cache.TTLLayout,
			ArtifactTTL: cache.TTLArtifact,
		},
		Server: ServerConfig{Addr: ":8080", MaxBodyBytes: 8 << 20},
	}
}

// DefaultPath returns ~/.config/barstack/config.toml, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "barstack", "config.toml"), nil
}

// DefaultCacheDir returns the file cache root, ~/.cache/barstack.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "barstack"), nil
}

// Load reads path over the defaults. When path is empty the default path is
// used and a missing file yields [Default]. An explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Layout.BarMode != "" && !chart.ValidBarModes[chart.BarMode(c.Layout.BarMode)] {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.barmode: invalid barmode %q", c.Layout.BarMode)
	}
	if v := c.Layout.BarGap; v != nil {
		if err := errs.ValidateFraction("layout.bargap", *v); err != nil {
			return err
		}
	}
	if v := c.Layout.BarGroupGap; v != nil {
		if err := errs.ValidateFraction("layout.bargroupgap", *v); err != nil {
			return err
		}
	}
	if err := errs.ValidateDimension("layout.width", c.Layout.Width); err != nil {
		return err
	}
	if err := errs.ValidateDimension("layout.height", c.Layout.Height); err != nil {
		return err
	}
	if c.Layout.Bins < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "layout.bins cannot be negative")
	}
	if c.Render.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.scale cannot be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend must be one of: file, redis, none (got %q)", c.Cache.Backend)
	}
	if c.Cache.LayoutTTL < 0 || c.Cache.ArtifactTTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache ttls cannot be negative")
	}
	return nil
}

// OpenCache opens the configured backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.Prefix,
		})
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "connect redis %s", c.Cache.RedisAddr)
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "resolve cache dir")
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeCache, err, "open file cache %s", dir)
		}
		return fc, nil
	}
}

// CacheDir returns the file cache root: the configured dir or
// [DefaultCacheDir].
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

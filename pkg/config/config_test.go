package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/barstack/pkg/cache"
	errs "github.com/matzehuels/barstack/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want file", cfg.Cache.Backend)
	}
	if len(cfg.Render.Formats) != 1 || cfg.Render.Formats[0] != "svg" {
		t.Errorf("Formats = %v, want [svg]", cfg.Render.Formats)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[layout]
barmode = "stack"
bargap = 0.1
width = 900

[render]
formats = ["svg", "png"]
style = "dark"

[cache]
backend = "none"
layout_ttl = "24h"
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.Layout.BarMode != "stack" || cfg.Layout.Width != 900 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.BarGap == nil || *cfg.Layout.BarGap != 0.1 {
		t.Errorf("bargap = %v, want 0.1", cfg.Layout.BarGap)
	}
	if cfg.Layout.BarGroupGap != nil {
		t.Error("unset bargroupgap should stay nil")
	}
	if cfg.Render.Style != "dark" || len(cfg.Render.Formats) != 2 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Cache.LayoutTTL != 24*time.Hour {
		t.Errorf("layout_ttl = %v, want 24h", cfg.Cache.LayoutTTL)
	}
	// Untouched keys keep their defaults.
	if cfg.Cache.ArtifactTTL != cache.TTLArtifact || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults lost: %+v %+v", cfg.Cache, cfg.Server)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"syntax", `[layout`},
		{"unknown key", "[layout]\ncolour = 1"},
		{"barmode", "[layout]\nbarmode = \"stacked\""},
		{"bargap", "[layout]\nbargap = 1.5"},
		{"width", "[layout]\nwidth = -1"},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"scale", "[render]\nscale = -2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.in)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nstyle = \"dark\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Render.Style != "dark" {
		t.Errorf("Style = %q, want dark", cfg.Render.Style)
	}

	_, err = Load(filepath.Join(dir, "missing.toml"))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing explicit) error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadDefaultPathMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Render.Style != Default().Render.Style {
		t.Error("missing default config should yield defaults")
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(none) error: %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want NullCache", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(file) error: %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("OpenCache(file) = %T, want FileCache at %s", c, cfg.Cache.Dir)
	}

	cfg.Cache.Backend = BackendRedis
	cfg.Cache.RedisAddr = "127.0.0.1:1"
	tctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := cfg.OpenCache(tctx); !errs.Is(err, errs.ErrCodeCache) {
		t.Errorf("OpenCache(unreachable redis) error = %v, want CACHE_ERROR", err)
	}
}

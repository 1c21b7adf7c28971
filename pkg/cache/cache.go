// Package cache stores computed scenes and rendered artifacts.
//
// Two backends are provided: [FileCache] for the CLI and [RedisCache] for the
// HTTP server when several instances share work. [NullCache] disables caching.
//
// Keys are content addressed. A [Keyer] derives them from the hash of the
// input (figure or scene JSON) plus every option that changes the output, so
// a hit is always safe to reuse:
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(cache.Hash(figureJSON), cache.LayoutKeyOpts{Width: 700})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    ...
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default entry lifetimes.
const (
	TTLFigure   = 1 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts holds the options that affect scene building.
type LayoutKeyOpts struct {
	BarMode    string  `json:"barmode,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	ForExport  bool    `json:"for_export,omitempty"`
	TickTarget int     `json:"tick_target,omitempty"`
	Bins       int     `json:"bins,omitempty"`
}

// ArtifactKeyOpts holds the options that affect rendering a scene.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Style   string  `json:"style,omitempty"`
	Scale   float64 `json:"scale,omitempty"`
	Titles  bool    `json:"titles,omitempty"`
	NoGrid  bool    `json:"no_grid,omitempty"`
	Records bool    `json:"records,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// FigureKey keys a remote figure document by its URL.
	FigureKey(url string) string
	// LayoutKey keys a built scene by figure hash and layout options.
	LayoutKey(figureHash string, opts LayoutKeyOpts) string
	// ArtifactKey keys a rendered artifact by scene hash and render options.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) FigureKey(url string) string {
	return "figure:" + url
}

func (DefaultKeyer) LayoutKey(figureHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", figureHash, opts)
}

func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

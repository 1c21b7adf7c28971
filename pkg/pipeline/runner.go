package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barstack/pkg/cache"
	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/httputil"
	"github.com/matzehuels/barstack/pkg/observability"
	"github.com/matzehuels/barstack/pkg/render/barchart"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state; one Runner can serve concurrent runs
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fetcher loads remote figures. Built from Cache when nil.
	Fetcher *httputil.Fetcher
	// Stdin is read for the "-" source. Defaults to os.Stdin.
	Stdin io.Reader

	LayoutTTL   time.Duration
	ArtifactTTL time.Duration

	fetchOnce sync.Once
}

// NewRunner returns a runner. A nil keyer selects DefaultKeyer, a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		Stdin:       os.Stdin,
		LayoutTTL:   cache.TTLLayout,
		ArtifactTTL: cache.TTLArtifact,
	}
}

func (r *Runner) fetcher() *httputil.Fetcher {
	r.fetchOnce.Do(func() {
		if r.Fetcher == nil {
			f := httputil.NewFetcher(r.Cache)
			f.Keyer = r.Keyer
			r.Fetcher = f
		}
	})
	return r.Fetcher
}

// Execute runs load, layout and render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}

	start := time.Now()
	fig, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Figure = fig
	result.Stats.TraceCount = len(fig.Traces)
	result.Stats.LoadTime = time.Since(start)
	result.CacheInfo.LoadHit = hit
	if data, err := chart.Marshal(fig); err == nil {
		result.FigureHash = cache.Hash(data)
	}
	opts.Logger.Info("loaded figure", "traces", len(fig.Traces), "cached", hit, "duration", result.Stats.LoadTime)

	start = time.Now()
	scene, hit, err := r.LayoutWithCacheInfo(ctx, fig, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.SubplotCount = len(scene.Subplots)
	result.Stats.BarCount = CountBars(scene)
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	if data, err := MarshalScene(scene); err == nil {
		result.SceneHash = cache.Hash(data)
	}
	opts.Logger.Info("computed layout",
		"subplots", result.Stats.SubplotCount,
		"bars", result.Stats.BarCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	opts.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", hit, "duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo reads and validates the figure named by opts. The hit
// flag is set when a remote figure came from the cache.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*chart.Figure, bool, error) {
	data, name, hit, err := r.readSource(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	fig, err := LoadFigure(name, data)
	if err != nil {
		return nil, false, err
	}
	return fig, hit, nil
}

// Load is LoadWithCacheInfo without the hit flag.
func (r *Runner) Load(ctx context.Context, opts Options) (*chart.Figure, error) {
	fig, _, err := r.LoadWithCacheInfo(ctx, opts)
	return fig, err
}

// LayoutWithCacheInfo builds the scene for fig, reusing a cached scene
// when the figure and layout options match.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, fig *chart.Figure, opts Options) (*barchart.Scene, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	f := fig.Clone()
	opts.ApplyLayout(f)
	figData, err := chart.Marshal(f)
	if err != nil {
		return nil, false, fmt.Errorf("serialize figure for cache key: %w", err)
	}
	key := r.Keyer.LayoutKey(cache.Hash(figData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if scene, err := DecodeScene(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return scene, true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("layout cache read failed", "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	scene, err := BuildScene(ctx, fig, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := MarshalScene(scene); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.LayoutTTL); err != nil {
			opts.Logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return scene, false, nil
}

// Layout is LayoutWithCacheInfo without the hit flag.
func (r *Runner) Layout(ctx context.Context, fig *chart.Figure, opts Options) (*barchart.Scene, error) {
	scene, _, err := r.LayoutWithCacheInfo(ctx, fig, opts)
	return scene, err
}

// RenderWithCacheInfo renders scene in every requested format. Cached
// artifacts are reused; only missing formats are rendered. hit is true
// when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *barchart.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	sceneData, err := MarshalScene(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, scene, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// RenderScene is RenderWithCacheInfo without the hit flag.
func (r *Runner) RenderScene(ctx context.Context, scene *barchart.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Package pkg holds the barstack libraries.
//
// # Overview
//
// Barstack lays out bar and histogram charts: it decides where every bar of
// every trace goes (grouped, stacked or overlaid, with gaps and offsets),
// turns those positions into pixel rectangles, and draws them. The packages
// are layered:
//
//  1. [chart] - Figure model: traces, layout, per-point attributes, axes
//  2. [bars] - Bar engine: calc records, positions, stacking, pixel shapes
//  3. [histogram] and [colorscale] - Binning and color mapping used by [bars]
//  4. [render] - Scenes and the SVG, PNG and JSON sinks
//  5. [pipeline] - Orchestration (load → layout → render) with caching
//
// Supporting packages: [cache] (file, Redis and null caches), [httputil]
// (remote figure fetching with retries), [config] (TOML settings),
// [observability] (hooks for logs and counters), [errors] (coded errors)
// and [buildinfo].
//
// # Data Flow
//
//	figure.json / figure.toml / URL
//	         ↓
//	    [chart] Decode + Validate
//	         ↓
//	    [bars] Calc → SetPositions → Render
//	         ↓
//	    [render] barchart.Scene
//	         ↓
//	    SVG / PNG / JSON
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "sales.json",
//	    BarMode: "stack",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := res.Artifacts["svg"]
//
// [chart]: github.com/matzehuels/barstack/pkg/chart
// [bars]: github.com/matzehuels/barstack/pkg/bars
// [histogram]: github.com/matzehuels/barstack/pkg/histogram
// [colorscale]: github.com/matzehuels/barstack/pkg/colorscale
// [render]: github.com/matzehuels/barstack/pkg/render
// [pipeline]: github.com/matzehuels/barstack/pkg/pipeline
// [cache]: github.com/matzehuels/barstack/pkg/cache
// [httputil]: github.com/matzehuels/barstack/pkg/httputil
// [config]: github.com/matzehuels/barstack/pkg/config
// [observability]: github.com/matzehuels/barstack/pkg/observability
// [errors]: github.com/matzehuels/barstack/pkg/errors
// [buildinfo]: github.com/matzehuels/barstack/pkg/buildinfo
package pkg

// Package pipeline runs barstack's load → layout → render pipeline.
//
// The CLI and the HTTP server both go through a [Runner], so caching and
// defaults behave the same everywhere.
//
// # Stages
//
//  1. Load: read a figure from a file, stdin, a URL or inline bytes.
//  2. Layout: build a [barchart.Scene] (calc, positions, pixel bars).
//  3. Render: write the scene as SVG, PNG or JSON. Formats render in
//     parallel.
//
// Layouts are cached by figure hash, artifacts by scene hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "sales.json",
//	    BarMode: "stack",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Stages can also run on their own:
//
//	fig, _, err := runner.LoadWithCacheInfo(ctx, opts)
//	scene, _, err := runner.LayoutWithCacheInfo(ctx, fig, opts)
//	artifacts, _, err := runner.RenderWithCacheInfo(ctx, scene, opts)
//
// [barchart.Scene]: github.com/matzehuels/barstack/pkg/render/barchart.Scene
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barstack/pkg/cache"
	"github.com/matzehuels/barstack/pkg/chart"
	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/render/barchart"
	"github.com/matzehuels/barstack/pkg/render/barchart/styles"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultStyle is the visual style used when none is given.
	DefaultStyle = "simple"

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It is also the request body of the
// server's endpoints.
type Options struct {
	// Source is a file path, "-" for stdin, or an http(s) URL.
	Source string `json:"source,omitempty"`
	// Figure is an inline figure document (JSON or TOML). It takes
	// precedence over Source.
	Figure []byte `json:"-"`
	// Refresh bypasses cached remote figures and layouts.
	Refresh bool `json:"refresh,omitempty"`

	// Layout overrides, applied on top of the figure's own layout.
	BarMode     string   `json:"barmode,omitempty"`
	BarGap      *float64 `json:"bargap,omitempty"`
	BarGroupGap *float64 `json:"bargroupgap,omitempty"`
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Title       string   `json:"title,omitempty"`

	// Layout tuning.
	ForExport  bool `json:"for_export,omitempty"`
	Bins       int  `json:"bins,omitempty"`
	TickTarget int  `json:"tick_target,omitempty"`

	// Render options.
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Titles  bool     `json:"titles,omitempty"`
	NoGrid  bool     `json:"no_grid,omitempty"`
	// Records includes calc records in JSON output.
	Records bool `json:"records,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result is the output of [Runner.Execute].
type Result struct {
	Figure     *chart.Figure
	FigureHash string
	Scene      *barchart.Scene
	SceneHash  string
	Artifacts  map[string][]byte
	Stats      Stats
	CacheInfo  CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	TraceCount   int
	SubplotCount int
	BarCount     int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LoadHit   bool
	LayoutHit bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks a single output format. Formats are lower case.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks a style name.
func ValidateStyle(style string) error {
	if _, err := styles.ByName(style); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidStyle, err, "invalid style")
	}
	return nil
}

// ValidateBarMode checks a barmode override. Empty is allowed.
func ValidateBarMode(mode string) error {
	if mode != "" && !chart.ValidBarModes[chart.BarMode(mode)] {
		return errs.New(errs.ErrCodeInvalidBarMode, "invalid barmode: %q (must be one of: group, stack, overlay)", mode)
	}
	return nil
}

// =============================================================================
// Options methods
// =============================================================================

// ValidateForLayout checks the layout overrides and fills in defaults.
func (o *Options) ValidateForLayout() error {
	if err := ValidateBarMode(o.BarMode); err != nil {
		return err
	}
	if o.BarGap != nil {
		if err := errs.ValidateFraction("bargap", *o.BarGap); err != nil {
			return err
		}
	}
	if o.BarGroupGap != nil {
		if err := errs.ValidateFraction("bargroupgap", *o.BarGroupGap); err != nil {
			return err
		}
	}
	if err := errs.ValidateDimension("width", o.Width); err != nil {
		return err
	}
	if err := errs.ValidateDimension("height", o.Height); err != nil {
		return err
	}
	if o.Bins < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "bins cannot be negative: %d", o.Bins)
	}
	if o.TickTarget <= 0 {
		o.TickTarget = barchart.DefaultTickTarget
	}
	o.setLogger()
	return nil
}

// ValidateForRender checks the render options and fills in defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	o.Style = strings.ToLower(o.Style)
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale cannot be negative: %g", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
	return nil
}

// ValidateAndSetDefaults validates every stage's options.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Figure) == 0 && o.Source == "" {
		return errs.New(errs.ErrCodeInvalidInput, "a figure source is required")
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ApplyLayout writes the layout overrides into f.
func (o *Options) ApplyLayout(f *chart.Figure) {
	if o.BarMode != "" {
		f.Layout.BarMode = chart.BarMode(o.BarMode)
	}
	if o.BarGap != nil {
		v := *o.BarGap
		f.Layout.BarGap = &v
	}
	if o.BarGroupGap != nil {
		v := *o.BarGroupGap
		f.Layout.BarGroupGap = &v
	}
	if o.Width > 0 {
		f.Layout.Width = o.Width
	}
	if o.Height > 0 {
		f.Layout.Height = o.Height
	}
	if o.Title != "" {
		f.Layout.Title = o.Title
	}
}

// LayoutKeyOpts returns the layout cache key options. Overrides already
// applied to the figure are part of the figure hash.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		BarMode:    o.BarMode,
		Width:      o.Width,
		Height:     o.Height,
		ForExport:  o.ForExport,
		TickTarget: o.TickTarget,
		Bins:       o.Bins,
	}
}

// ArtifactKeyOpts returns the artifact cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Style: o.Style}
	switch format {
	case FormatSVG:
		k.Titles = o.Titles
		k.NoGrid = o.NoGrid
	case FormatPNG:
		k.Scale = o.Scale
	case FormatJSON:
		k.Records = o.Records
	}
	return k
}

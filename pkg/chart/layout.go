package chart

import "math"

// BarMode selects how traces sharing a position axis are combined.
type BarMode string

const (
	BarModeGroup   BarMode = "group"
	BarModeStack   BarMode = "stack"
	BarModeOverlay BarMode = "overlay"
)

// ValidBarModes is the set of supported bar modes.
var ValidBarModes = map[BarMode]bool{
	BarModeGroup:   true,
	BarModeStack:   true,
	BarModeOverlay: true,
}

// Layout defaults.
const (
	DefaultBarMode         = BarModeGroup
	DefaultBarGap          = 0.2
	DefaultBarGroupGap     = 0.0
	DefaultMinDiffFallback = 1.0
	DefaultWidth           = 800.0
	DefaultHeight          = 500.0
)

// Layout holds chart-wide settings.
type Layout struct {
	Title           string              `json:"title,omitempty"`
	BarMode         BarMode             `json:"barmode,omitempty"`
	BarGap          *float64            `json:"bargap,omitempty"`
	BarGroupGap     *float64            `json:"bargroupgap,omitempty"`
	MinDiffFallback float64             `json:"mindiff_fallback,omitempty"`
	Width           float64             `json:"width,omitempty"`
	Height          float64             `json:"height,omitempty"`
	Margin          Margin              `json:"margin,omitzero"`
	Axes            map[string]AxisSpec `json:"axes,omitempty"`
}

// Margin is the space around the plot area in pixels.
type Margin struct {
	Left   float64 `json:"l,omitempty"`
	Right  float64 `json:"r,omitempty"`
	Top    float64 `json:"t,omitempty"`
	Bottom float64 `json:"b,omitempty"`
}

// AxisSpec configures one axis by id ("x", "y", "x2", ...).
type AxisSpec struct {
	Type       string    `json:"type,omitempty"`
	Title      string    `json:"title,omitempty"`
	Range      []float64 `json:"range,omitempty"`
	Categories []string  `json:"categories,omitempty"`
}

// BarConfig is the resolved, read-only bar configuration for a layout pass.
type BarConfig struct {
	Mode            BarMode
	Gap             float64
	GroupGap        float64
	MinDiffFallback float64
}

// DefaultBarConfig returns the configuration used when nothing is set.
func DefaultBarConfig() BarConfig {
	return BarConfig{
		Mode:            DefaultBarMode,
		Gap:             DefaultBarGap,
		GroupGap:        DefaultBarGroupGap,
		MinDiffFallback: DefaultMinDiffFallback,
	}
}

// BarConfig resolves defaults and clamps gaps into [0, 1].
func (l Layout) BarConfig() BarConfig {
	cfg := DefaultBarConfig()
	if ValidBarModes[l.BarMode] {
		cfg.Mode = l.BarMode
	}
	if l.BarGap != nil {
		cfg.Gap = clampGap(*l.BarGap, DefaultBarGap)
	}
	if l.BarGroupGap != nil {
		cfg.GroupGap = clampGap(*l.BarGroupGap, DefaultBarGroupGap)
	}
	if l.MinDiffFallback > 0 && isFinite(l.MinDiffFallback) {
		cfg.MinDiffFallback = l.MinDiffFallback
	}
	return cfg
}

// Gapless reports whether neither bargap nor bargroupgap leaves whitespace.
func (c BarConfig) Gapless() bool {
	return c.Gap == 0 && c.GroupGap == 0
}

func clampGap(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return math.Max(0, math.Min(1, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

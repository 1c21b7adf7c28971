package chart

import (
	"encoding/json"
	"fmt"
)

// Orientation is the direction bars grow in.
type Orientation string

const (
	Vertical   Orientation = "v"
	Horizontal Orientation = "h"
)

// TraceType selects how a trace's calc records are produced.
type TraceType string

const (
	TypeBar       TraceType = "bar"
	TypeHistogram TraceType = "histogram"
)

// ValidTraceTypes is the set of supported trace types.
var ValidTraceTypes = map[TraceType]bool{
	TypeBar:       true,
	TypeHistogram: true,
}

// Trace is one data series. Traces are treated as immutable input by the
// bar engine; [Figure.SupplyDefaults] fills in unset attributes.
type Trace struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Type        TraceType       `json:"type,omitempty"`
	Visible     *bool           `json:"visible,omitempty"`
	Orientation Orientation     `json:"orientation,omitempty"`
	X           []any           `json:"x,omitempty"`
	Y           []any           `json:"y,omitempty"`
	X0          float64         `json:"x0,omitempty"`
	DX          float64         `json:"dx,omitempty"`
	Y0          float64         `json:"y0,omitempty"`
	DY          float64         `json:"dy,omitempty"`
	XAxis       string          `json:"xaxis,omitempty"`
	YAxis       string          `json:"yaxis,omitempty"`
	Text        ArrayOk[string] `json:"text,omitzero"`
	Opacity     *float64        `json:"opacity,omitempty"`
	Marker      Marker          `json:"marker,omitzero"`
	NBins       int             `json:"nbins,omitempty"`
}

// Marker styles the bars of a trace.
type Marker struct {
	Opacity    ArrayOk[float64] `json:"opacity,omitzero"`
	Color      ArrayOk[Color]   `json:"color,omitzero"`
	Colorscale Colorscale       `json:"colorscale,omitempty"`
	CMin       *float64         `json:"cmin,omitempty"`
	CMax       *float64         `json:"cmax,omitempty"`
	Line       MarkerLine       `json:"line,omitzero"`
}

// MarkerLine styles bar outlines.
type MarkerLine struct {
	Color      ArrayOk[Color]   `json:"color,omitzero"`
	Colorscale Colorscale       `json:"colorscale,omitempty"`
	CMin       *float64         `json:"cmin,omitempty"`
	CMax       *float64         `json:"cmax,omitempty"`
	Width      ArrayOk[float64] `json:"width,omitzero"`
}

// ColorStop is one entry of a colorscale: a position in [0, 1] and a color.
type ColorStop struct {
	Pos   float64
	Color string
}

// Colorscale maps normalized numeric colors to CSS colors. It is encoded
// as [[pos, color], ...].
type Colorscale []ColorStop

// MarshalJSON encodes stops as two-element arrays.
func (s ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Pos, s.Color})
}

// UnmarshalJSON decodes a [pos, color] pair.
func (s *ColorStop) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("colorscale stop must be [pos, color], got %s", data)
	}
	pos, ok := pair[0].(float64)
	if !ok {
		return fmt.Errorf("colorscale position must be a number, got %v", pair[0])
	}
	col, ok := pair[1].(string)
	if !ok {
		return fmt.Errorf("colorscale color must be a string, got %v", pair[1])
	}
	*s = ColorStop{Pos: pos, Color: col}
	return nil
}

// IsVisible reports whether the trace takes part in layout and rendering.
func (t *Trace) IsVisible() bool {
	return t.Visible == nil || *t.Visible
}

// IsBar reports whether the trace is positioned by the bar engine.
func (t *Trace) IsBar() bool {
	return t.Type == TypeBar || t.Type == TypeHistogram || t.Type == ""
}

// IsHistogram reports whether calc data comes from binning.
func (t *Trace) IsHistogram() bool {
	return t.Type == TypeHistogram
}

// InferOrientation returns the explicit orientation or derives it from the
// supplied arrays. Bars are horizontal when only x is given; histograms are
// horizontal when only y is given.
func (t *Trace) InferOrientation() Orientation {
	if t.Orientation != "" {
		return t.Orientation
	}
	if t.IsHistogram() {
		if len(t.Y) > 0 && len(t.X) == 0 {
			return Horizontal
		}
		return Vertical
	}
	if len(t.X) > 0 && len(t.Y) == 0 {
		return Horizontal
	}
	return Vertical
}

// Coords returns the raw values for axis letter "x" or "y". A missing array
// is generated as start + step*i, sized to the other array.
func (t *Trace) Coords(letter string) []any {
	vals, other, start, step := t.X, t.Y, t.X0, t.DX
	if letter == "y" {
		vals, other, start, step = t.Y, t.X, t.Y0, t.DY
	}
	if len(vals) > 0 || t.IsHistogram() {
		return vals
	}
	if step == 0 {
		step = 1
	}
	gen := make([]any, len(other))
	for i := range gen {
		gen[i] = start + step*float64(i)
	}
	return gen
}

// LineWidthAt returns the outline width for point i: the per-point width,
// else the trace width, else 0.
func (t *Trace) LineWidthAt(i int) float64 {
	if w, ok := t.Marker.Line.Width.PointAt(i); ok && isFinite(w) {
		return w
	}
	if w, ok := t.Marker.Line.Width.Scalar(); ok && isFinite(w) {
		return w
	}
	return 0
}

// HasLine reports whether the trace draws outlines at all. Per-point width
// arrays count as outlined.
func (t *Trace) HasLine() bool {
	if t.Marker.Line.Width.IsArray() {
		return true
	}
	w, ok := t.Marker.Line.Width.Scalar()
	return ok && w != 0
}

// TraceOpacity returns the group opacity, defaulting to 1.
func (t *Trace) TraceOpacity() float64 {
	if t.Opacity == nil {
		return 1
	}
	return clamp01(*t.Opacity)
}

package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/barstack/pkg/errors"
)

// Figure is the complete chart input: traces plus layout.
type Figure struct {
	Traces []Trace `json:"data"`
	Layout Layout  `json:"layout,omitzero"`
}

// Subplot identifies an x/y axis pair.
type Subplot struct {
	XAxis string `json:"xaxis"`
	YAxis string `json:"yaxis"`
}

func (s Subplot) String() string { return s.XAxis + s.YAxis }

// SupplyDefaults fills unset trace and layout attributes in place. It is
// idempotent.
func (f *Figure) SupplyDefaults() {
	taken := make(map[string]bool, len(f.Traces))
	for _, t := range f.Traces {
		if t.ID != "" {
			taken[t.ID] = true
		}
	}
	next := len(f.Traces)
	for i := range f.Traces {
		t := &f.Traces[i]
		if t.ID == "" {
			t.ID = fmt.Sprintf("trace%d", i)
			for taken[t.ID] {
				t.ID = fmt.Sprintf("trace%d", next)
				next++
			}
			taken[t.ID] = true
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		if t.Type == "" {
			t.Type = TypeBar
		}
		if t.XAxis == "" {
			t.XAxis = "x"
		}
		if t.YAxis == "" {
			t.YAxis = "y"
		}
		t.Orientation = t.InferOrientation()
		t.Marker.Opacity = t.Marker.Opacity.Or(1)
		t.Marker.Line.Color = t.Marker.Line.Color.Or(ColorString(NeutralColor))
		t.Marker.Line.Width = t.Marker.Line.Width.Or(0)
		if !t.Marker.Color.IsSet() {
			t.Marker.Color = Scalar(ColorString(DefaultPalette[i%len(DefaultPalette)]))
		}
	}

	cfg := f.Layout.BarConfig()
	f.Layout.BarMode = cfg.Mode
	f.Layout.BarGap = &cfg.Gap
	f.Layout.BarGroupGap = &cfg.GroupGap
	f.Layout.MinDiffFallback = cfg.MinDiffFallback
	if f.Layout.Width <= 0 {
		f.Layout.Width = DefaultWidth
	}
	if f.Layout.Height <= 0 {
		f.Layout.Height = DefaultHeight
	}
	if f.Layout.Margin == (Margin{}) {
		f.Layout.Margin = Margin{Left: 60, Right: 20, Top: 40, Bottom: 50}
	}
}

// DefaultPalette colors traces that do not set marker.color.
var DefaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var (
	xAxisID = regexp.MustCompile(`^x([2-9]|[1-9][0-9]+)?$`)
	yAxisID = regexp.MustCompile(`^y([2-9]|[1-9][0-9]+)?$`)
)

// Validate rejects figures that cannot be laid out. Bad sample values are not
// errors; they are dropped during calc.
func (f *Figure) Validate() error {
	if len(f.Traces) == 0 {
		return errs.New(errs.ErrCodeInvalidFigure, "figure has no traces")
	}
	if f.Layout.BarMode != "" && !ValidBarModes[f.Layout.BarMode] {
		return errs.New(errs.ErrCodeInvalidBarMode, "invalid barmode: %q (must be one of: group, stack, overlay)", f.Layout.BarMode)
	}
	seen := make(map[string]int, len(f.Traces))
	for i, t := range f.Traces {
		if t.Type != "" && !ValidTraceTypes[t.Type] {
			return errs.New(errs.ErrCodeInvalidTrace, "trace %d: invalid type %q", i, t.Type)
		}
		if t.Orientation != "" && t.Orientation != Vertical && t.Orientation != Horizontal {
			return errs.New(errs.ErrCodeInvalidTrace, "trace %d: invalid orientation %q", i, t.Orientation)
		}
		if t.XAxis != "" && !xAxisID.MatchString(t.XAxis) {
			return errs.New(errs.ErrCodeInvalidTrace, "trace %d: invalid xaxis %q (want x, x2, x3, ...)", i, t.XAxis)
		}
		if t.YAxis != "" && !yAxisID.MatchString(t.YAxis) {
			return errs.New(errs.ErrCodeInvalidTrace, "trace %d: invalid yaxis %q (want y, y2, y3, ...)", i, t.YAxis)
		}
		if t.ID == "" {
			continue
		}
		if j, dup := seen[t.ID]; dup {
			return errs.New(errs.ErrCodeInvalidTrace, "traces %d and %d share id %q", j, i, t.ID)
		}
		seen[t.ID] = i
	}
	return nil
}

// Subplots returns the distinct axis pairs used by visible traces, in the
// order they first appear.
func (f *Figure) Subplots() []Subplot {
	var out []Subplot
	seen := make(map[Subplot]bool)
	for _, t := range f.Traces {
		if !t.IsVisible() {
			continue
		}
		sp := Subplot{XAxis: orDefault(t.XAxis, "x"), YAxis: orDefault(t.YAxis, "y")}
		if !seen[sp] {
			seen[sp] = true
			out = append(out, sp)
		}
	}
	return out
}

// TracesOn returns pointers to the traces assigned to sp.
func (f *Figure) TracesOn(sp Subplot) []*Trace {
	var out []*Trace
	for i := range f.Traces {
		t := &f.Traces[i]
		if orDefault(t.XAxis, "x") == sp.XAxis && orDefault(t.YAxis, "y") == sp.YAxis {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep enough copy for SupplyDefaults to run without
// touching the original.
func (f *Figure) Clone() *Figure {
	c := &Figure{Traces: make([]Trace, len(f.Traces)), Layout: f.Layout}
	copy(c.Traces, f.Traces)
	if f.Layout.Axes != nil {
		c.Layout.Axes = make(map[string]AxisSpec, len(f.Layout.Axes))
		for k, v := range f.Layout.Axes {
			c.Layout.Axes[k] = v
		}
	}
	return c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// =============================================================================
// Decoding
// =============================================================================

// ReadJSON decodes a figure from JSON.
func ReadJSON(r io.Reader) (*Figure, error) {
	var f Figure
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFigure, err, "decode figure json")
	}
	return &f, nil
}

// ReadTOML decodes a figure from TOML. The document uses the same keys as
// the JSON form, with traces under [[data]].
func ReadTOML(r io.Reader) (*Figure, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFigure, err, "decode figure toml")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFigure, err, "convert figure toml")
	}
	return ReadJSON(bytes.NewReader(data))
}

// Decode picks JSON or TOML by file extension, falling back to sniffing the
// first non-space byte.
func Decode(name string, data []byte) (*Figure, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return ReadTOML(bytes.NewReader(data))
	case ".json":
		return ReadJSON(bytes.NewReader(data))
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return ReadJSON(bytes.NewReader(data))
	}
	return ReadTOML(bytes.NewReader(data))
}

// Marshal encodes a figure as indented JSON.
func Marshal(f *Figure) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

package bars

import "github.com/matzehuels/barstack/pkg/chart"

// ColorFunc resolves a marker color, numeric or CSS, to a CSS color.
type ColorFunc func(chart.Color) string

// Scales holds the fill and outline colorscales of one trace. Nil funcs
// pass colors through unchanged.
type Scales struct {
	Fill ColorFunc
	Line ColorFunc
}

// Style is the fill and stroke of one bar.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width"`
}

// ResolveStyle computes the style of point i of trace t.
func ResolveStyle(t *chart.Trace, i int, sc Scales) Style {
	st := Style{
		Fill:        resolveColor(t.Marker.Color, i, sc.Fill),
		StrokeWidth: t.LineWidthAt(i),
	}
	if st.StrokeWidth != 0 {
		st.Stroke = resolveColor(t.Marker.Line.Color, i, sc.Line)
	}
	return st
}

// resolveColor applies the colorscale to a per-point color. A color array
// too short to cover point i yields the neutral color.
func resolveColor(c chart.ArrayOk[chart.Color], i int, scale ColorFunc) string {
	if v, ok := c.PointAt(i); ok {
		if scale == nil {
			return v.String()
		}
		return scale(v)
	}
	if c.IsArray() {
		return chart.NeutralColor
	}
	if v, ok := c.Scalar(); ok {
		return v.String()
	}
	return chart.NeutralColor
}

// CrispEdges reports whether anti-aliasing should be disabled for trace t,
// so adjacent opaque bars do not show seams: stacked charts with more than
// one trace, or gapless layouts without outlines.
func CrispEdges(t *chart.Trace, cfg chart.BarConfig, traceCount int) bool {
	return (cfg.Mode == chart.BarModeStack && traceCount > 1) ||
		(cfg.Gapless() && !t.HasLine())
}

// Text returns the label of point i, if any.
func Text(t *chart.Trace, i int) string {
	s, _ := t.Text.ValueAt(i)
	return s
}

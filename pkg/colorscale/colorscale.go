// Package colorscale maps numeric marker colors to CSS colors.
//
// A colorscale is a list of [position, color] stops over [0, 1]. Numeric
// colors are normalized against the trace's cmin/cmax (or the data range
// when unset) and blended between the surrounding stops in RGB space.
package colorscale

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/barstack/pkg/bars"
	"github.com/matzehuels/barstack/pkg/chart"
)

// Default is used when a trace has numeric colors but no colorscale.
var Default = chart.Colorscale{
	{Pos: 0, Color: "#440154"},
	{Pos: 0.25, Color: "#3b528b"},
	{Pos: 0.5, Color: "#21918c"},
	{Pos: 0.75, Color: "#5ec962"},
	{Pos: 1, Color: "#fde725"},
}

type stop struct {
	pos float64
	c   colorful.Color
}

// Func returns a color function for scale over [cmin, cmax]. CSS colors
// pass through unchanged. An empty or unparseable scale falls back to
// [Default].
func Func(scale chart.Colorscale, cmin, cmax float64) bars.ColorFunc {
	stops := parse(scale)
	if len(stops) == 0 {
		stops = parse(Default)
	}
	return func(c chart.Color) string {
		if !c.IsNumeric() {
			return c.String()
		}
		return at(stops, normalize(c.Number(), cmin, cmax)).Hex()
	}
}

// ForTrace returns the fill and line color functions of t. Scales are only
// built for color arrays that hold numbers.
func ForTrace(t *chart.Trace) bars.Scales {
	var sc bars.Scales
	m := t.Marker
	if lo, hi, ok := numericRange(m.Color, m.CMin, m.CMax); ok {
		sc.Fill = Func(m.Colorscale, lo, hi)
	}
	if lo, hi, ok := numericRange(m.Line.Color, m.Line.CMin, m.Line.CMax); ok {
		sc.Line = Func(m.Line.Colorscale, lo, hi)
	}
	return sc
}

func numericRange(c chart.ArrayOk[chart.Color], cmin, cmax *float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range c.Values() {
		if !v.IsNumeric() {
			continue
		}
		ok = true
		lo, hi = math.Min(lo, v.Number()), math.Max(hi, v.Number())
	}
	if !ok {
		return 0, 0, false
	}
	if cmin != nil {
		lo = *cmin
	}
	if cmax != nil {
		hi = *cmax
	}
	return lo, hi, true
}

func parse(scale chart.Colorscale) []stop {
	out := make([]stop, 0, len(scale))
	for _, s := range scale {
		c, _, ok := chart.ParseColor(s.Color)
		if !ok {
			continue
		}
		out = append(out, stop{pos: math.Max(0, math.Min(1, s.Pos)), c: c})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	return out
}

func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

func at(stops []stop, f float64) colorful.Color {
	if f <= stops[0].pos {
		return stops[0].c
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if f <= b.pos {
			if b.pos == a.pos {
				return b.c
			}
			return a.c.BlendRgb(b.c, (f-a.pos)/(b.pos-a.pos)).Clamped()
		}
	}
	return stops[len(stops)-1].c
}

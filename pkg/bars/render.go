package bars

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/barstack/pkg/chart"
)

// Projector maps linear coordinates to pixels.
type Projector interface {
	C2P(v float64) float64
}

// RenderConfig controls pixel snapping.
type RenderConfig struct {
	Bar chart.BarConfig
	// ForExport disables sub-pixel correction, for fixed vector output.
	ForExport bool
}

// Shape is one rendered bar in pixel space.
type Shape struct {
	TraceID string  `json:"trace"`
	Index   int     `json:"i"`
	X0      float64 `json:"x0"`
	Y0      float64 `json:"y0"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
}

// Path returns the closed rectangle path M x0,y0 V y1 H x1 V y0 Z.
func (s Shape) Path() string {
	var b strings.Builder
	b.WriteByte('M')
	b.WriteString(formatPx(s.X0))
	b.WriteByte(',')
	b.WriteString(formatPx(s.Y0))
	b.WriteByte('V')
	b.WriteString(formatPx(s.Y1))
	b.WriteByte('H')
	b.WriteString(formatPx(s.X1))
	b.WriteByte('V')
	b.WriteString(formatPx(s.Y0))
	b.WriteByte('Z')
	return b.String()
}

// Bounds returns the shape as left, top, width, height.
func (s Shape) Bounds() (x, y, w, h float64) {
	return math.Min(s.X0, s.X1), math.Min(s.Y0, s.Y1), math.Abs(s.X1 - s.X0), math.Abs(s.Y1 - s.Y0)
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render maps the records of trace t to pixel rectangles. Bars with a
// non-finite edge, or with zero extent along either axis, are dropped.
func Render(t *chart.Trace, records []CalcRecord, tl TraceLayout, xa, ya Projector, cfg RenderConfig) []Shape {
	horizontal := t.InferOrientation() == chart.Horizontal
	shapes := make([]Shape, 0, len(records))

	for _, r := range records {
		var x0, x1, y0, y1 float64
		if horizontal {
			y0 = ya.C2P(tl.POffset + r.P)
			y1 = ya.C2P(tl.POffset + r.P + tl.BarWidth)
			x0 = xa.C2P(r.B)
			x1 = xa.C2P(r.S + r.B)
		} else {
			x0 = xa.C2P(tl.POffset + r.P)
			x1 = xa.C2P(tl.POffset + r.P + tl.BarWidth)
			y1 = ya.C2P(r.S + r.B)
			y0 = ya.C2P(r.B)
		}

		if !finite(x0) || !finite(x1) || !finite(y0) || !finite(y1) || x0 == x1 || y0 == y1 {
			continue
		}

		if !cfg.ForExport {
			fix := pixelFixer(t, r.Index, cfg.Bar)
			x0 = fix(x0, x1)
			x1 = fix(x1, x0)
			y0 = fix(y0, y1)
			y1 = fix(y1, y0)
		}

		shapes = append(shapes, Shape{TraceID: t.ID, Index: r.Index, X0: x0, Y0: y0, X1: x1, Y1: y1})
	}
	return shapes
}

// pixelFixer picks the snapping rule for one bar. Outlined or translucent
// bars snap to whole pixels, offset so the outline centerline stays crisp.
// Opaque strokeless bars narrower than 2px are widened to a full pixel
// instead, so they never vanish.
func pixelFixer(t *chart.Trace, i int, cfg chart.BarConfig) func(v, vc float64) float64 {
	lw := t.LineWidthAt(i)
	offset := round2(math.Mod(lw/2, 1))

	roundWithLine := func(v float64) float64 {
		if !cfg.Gapless() {
			return v
		}
		return round2(jsRound(v) - offset)
	}
	expandToVisible := func(v, vc float64) float64 {
		if math.Abs(v-vc) >= 2 {
			return roundWithLine(v)
		}
		if v > vc {
			return math.Ceil(v)
		}
		return math.Floor(v)
	}

	if fillAlpha(t, i) < 1 || lw > 0.01 {
		return func(v, _ float64) float64 { return roundWithLine(v) }
	}
	return expandToVisible
}

func fillAlpha(t *chart.Trace, i int) float64 {
	if c, ok := t.Marker.Color.PointAt(i); ok {
		return chart.ColorAlpha(c)
	}
	if c, ok := t.Marker.Color.Scalar(); ok {
		return chart.ColorAlpha(c)
	}
	return 1
}

func round2(v float64) float64 {
	return jsRound(v*100) / 100
}

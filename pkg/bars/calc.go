package bars

import (
	"math"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
)

// Axis is the coordinate collaborator used by the engine. *axis.Axis
// satisfies it.
type Axis interface {
	// D2L converts a raw data value to a linear coordinate.
	D2L(v any) (float64, bool)
	// C2P converts a linear coordinate to pixels.
	C2P(v float64) float64
	// Expand requests that the autorange include vals.
	Expand(vals []float64, opts axis.ExpandOptions)
	// MinDtick requests that ticks be no finer than diff.
	MinDtick(diff, first float64, allow bool)
}

// CalcRecord is one bar: a finite (position, size) pair plus the values the
// positioning pass derives from it.
type CalcRecord struct {
	// Index is the source point index, used for per-point attributes.
	Index int `json:"i"`

	P float64 `json:"p"`
	S float64 `json:"s"`
	// B is the stacked base. Zero outside stack mode.
	B float64 `json:"b"`

	// Center is p + poffset + barwidth/2.
	Center float64 `json:"c"`
	// Top is the size-axis extent of the bar: b + s.
	Top float64 `json:"top"`
}

// HistogramCalc produces calc records for histogram traces.
type HistogramCalc interface {
	Calc(t *chart.Trace, pa, sa Axis) []CalcRecord
}

// Builder converts traces to calc records. The zero value handles bar
// traces; histogram traces need Histogram set.
type Builder struct {
	Histogram HistogramCalc
}

// Calc builds the calc records of a trace using the default builder.
func Calc(t *chart.Trace, xa, ya Axis) []CalcRecord {
	return Builder{}.Calc(t, xa, ya)
}

// Calc returns one record per index where both the position and the size
// convert to finite numbers, up to the shorter of the two arrays. Invisible
// traces, and histograms without a collaborator, yield nil.
func (b Builder) Calc(t *chart.Trace, xa, ya Axis) []CalcRecord {
	if !t.IsVisible() {
		return nil
	}

	pa, sa := xa, ya
	pLetter, sLetter := "x", "y"
	if t.InferOrientation() == chart.Horizontal {
		pa, sa = ya, xa
		pLetter, sLetter = "y", "x"
	}

	if t.IsHistogram() {
		if b.Histogram == nil {
			return nil
		}
		return b.Histogram.Calc(t, pa, sa)
	}

	pos, size := t.Coords(pLetter), t.Coords(sLetter)
	n := min(len(pos), len(size))
	cd := make([]CalcRecord, 0, n)
	for i := range n {
		p, okP := pa.D2L(pos[i])
		s, okS := sa.D2L(size[i])
		if !okP || !okS || !finite(p) || !finite(s) {
			continue
		}
		cd = append(cd, CalcRecord{Index: i, P: p, S: s})
	}
	return cd
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

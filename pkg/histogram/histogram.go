// Package histogram bins histogram trace samples into calc records for the
// bar engine.
//
// A histogram trace supplies a single sample array: x for vertical
// histograms, y for horizontal ones. [Binner] counts the samples into equal
// width bins and returns one record per bin, with the bin center as the
// position and the count as the size. Empty bins are kept so that the bar
// engine sees evenly spaced positions.
//
// Category samples are counted per category instead of binned.
package histogram

import (
	"math"

	"github.com/matzehuels/barstack/pkg/bars"
	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
)

// MaxBins caps the number of bins a trace may request.
const MaxBins = 10000

// Binner implements [bars.HistogramCalc].
type Binner struct {
	// DefaultBins overrides Sturges' rule when a trace sets no nbins.
	DefaultBins int
}

var _ bars.HistogramCalc = Binner{}

// Calc bins the sample array of t along the position axis pa.
func (b Binner) Calc(t *chart.Trace, pa, _ bars.Axis) []bars.CalcRecord {
	samples := t.X
	if t.InferOrientation() == chart.Horizontal {
		samples = t.Y
	}
	if len(samples) == 0 {
		return nil
	}

	if axis.AutoType(samples) == axis.Category {
		return countCategories(samples, pa)
	}

	vals := make([]float64, 0, len(samples))
	for _, s := range samples {
		if v, ok := pa.D2L(s); ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	return binEqual(vals, b.bins(t, len(vals)))
}

func (b Binner) bins(t *chart.Trace, n int) int {
	switch {
	case t.NBins > 0:
		return min(t.NBins, MaxBins)
	case b.DefaultBins > 0:
		return min(b.DefaultBins, MaxBins)
	}
	return Sturges(n)
}

// Sturges returns ceil(log2(n)) + 1, the bin count for n samples.
func Sturges(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func binEqual(vals []float64, nbins int) []bars.CalcRecord {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	// All samples equal: one unit bin centered on the value.
	if lo == hi {
		return []bars.CalcRecord{{P: lo, S: float64(len(vals))}}
	}

	width := (hi - lo) / float64(nbins)
	counts := make([]float64, nbins)
	for _, v := range vals {
		k := int((v - lo) / width)
		if k >= nbins {
			k = nbins - 1
		}
		counts[k]++
	}

	cd := make([]bars.CalcRecord, nbins)
	for k, c := range counts {
		cd[k] = bars.CalcRecord{Index: k, P: lo + (float64(k)+0.5)*width, S: c}
	}
	return cd
}

func countCategories(samples []any, pa bars.Axis) []bars.CalcRecord {
	var order []float64
	counts := make(map[float64]float64)
	for _, s := range samples {
		p, ok := pa.D2L(s)
		if !ok {
			continue
		}
		if _, seen := counts[p]; !seen {
			order = append(order, p)
		}
		counts[p]++
	}

	cd := make([]bars.CalcRecord, len(order))
	for i, p := range order {
		cd[i] = bars.CalcRecord{Index: i, P: p, S: counts[p]}
	}
	return cd
}

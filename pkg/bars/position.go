package bars

import (
	"math"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
)

// TraceLayout is the width and offset shared by every bar of one trace.
type TraceLayout struct {
	BarWidth float64 `json:"barwidth"`
	// POffset is the offset from a bar's position to its near edge.
	POffset float64 `json:"poffset"`
	// DBar is the minimum distinct spacing of the trace's group.
	DBar float64 `json:"dbar"`
}

// SubplotGroup is the set of traces laid out on one axis pair, together
// with their calc records. Calc[i] belongs to Traces[i] and is updated in
// place by [SetPositions].
type SubplotGroup struct {
	XAxis, YAxis     Axis
	XAxisID, YAxisID string
	Traces           []*chart.Trace
	Calc             [][]CalcRecord
}

// Positions maps trace ids to their computed layout. It is produced by one
// positioning pass and read by the renderer.
type Positions struct {
	layouts map[string]TraceLayout
}

// Layout returns the layout of trace id. ok is false for traces that were
// skipped (invisible, other subplot, or no records).
func (p *Positions) Layout(id string) (TraceLayout, bool) {
	tl, ok := p.layouts[id]
	return tl, ok
}

// Len returns the number of positioned traces.
func (p *Positions) Len() int { return len(p.layouts) }

// SetPositions computes bar widths, offsets, centers and stacked bases for
// every visible bar trace of g, vertical traces first, and asks the axes to
// expand to fit. Running it twice on unchanged input gives identical
// results.
func SetPositions(g *SubplotGroup, cfg chart.BarConfig) *Positions {
	pos := &Positions{layouts: make(map[string]TraceLayout)}
	for _, dir := range []chart.Orientation{chart.Vertical, chart.Horizontal} {
		setPositionsDir(g, dir, cfg, pos)
	}
	return pos
}

func setPositionsDir(g *SubplotGroup, dir chart.Orientation, cfg chart.BarConfig, pos *Positions) {
	pa, sa := g.XAxis, g.YAxis
	if dir == chart.Horizontal {
		pa, sa = g.YAxis, g.XAxis
	}

	var bl []int
	for i, t := range g.Traces {
		if t.IsVisible() && t.IsBar() &&
			t.InferOrientation() == dir &&
			t.XAxis == g.XAxisID &&
			t.YAxis == g.YAxisID {
			bl = append(bl, i)
		}
	}
	if len(bl) == 0 {
		return
	}

	if cfg.Mode == chart.BarModeOverlay {
		for _, i := range bl {
			barPosition(g, []int{i}, pa, cfg, pos)
		}
	} else {
		barPosition(g, bl, pa, cfg, pos)
	}

	if cfg.Mode == chart.BarModeStack {
		stackSizes(g, bl, sa, pos)
		return
	}
	for _, i := range bl {
		cd := g.Calc[i]
		tops := make([]float64, len(cd))
		for j := range cd {
			cd[j].B = 0
			cd[j].Top = cd[j].S
			tops[j] = cd[j].S
		}
		sa.Expand(tops, axis.ExpandOptions{ToZero: true, Padded: true})
	}
}

// barPosition derives width and offset for the traces in bl, which share
// one slot per distinct position.
func barPosition(g *SubplotGroup, bl []int, pa Axis, cfg chart.BarConfig, pos *Positions) {
	var pvals []float64
	for _, i := range bl {
		for _, r := range g.Calc[i] {
			pvals = append(pvals, r.P)
		}
	}
	if len(pvals) == 0 {
		return
	}
	dv := DistinctVals(pvals, cfg.MinDiffFallback)

	// Traces whose positions never come within minDiff of an earlier
	// trace's positions keep the full slot, even in group mode. This scan
	// is quadratic in the number of points.
	overlap := false
	if cfg.Mode == chart.BarModeGroup {
		var compare []float64
	scan:
		for _, i := range bl {
			for _, r := range g.Calc[i] {
				for _, cp := range compare {
					if math.Abs(r.P-cp) < dv.MinDiff {
						overlap = true
						break scan
					}
				}
			}
			for _, r := range g.Calc[i] {
				compare = append(compare, r.P)
			}
		}
	}

	pa.MinDtick(dv.MinDiff, dv.Vals[0], overlap)
	pa.Expand(dv.Vals, axis.ExpandOptions{VPad: dv.MinDiff / 2})

	slot := dv.MinDiff * (1 - cfg.Gap)
	if overlap {
		slot /= float64(len(bl))
	}

	for k, i := range bl {
		tl := TraceLayout{BarWidth: slot * (1 - cfg.GroupGap), DBar: dv.MinDiff}
		shift := 0.0
		if overlap {
			shift = float64(2*k+1-len(bl)) * slot
		}
		tl.POffset = (shift - tl.BarWidth) / 2
		pos.layouts[g.Traces[i].ID] = tl

		center := tl.POffset + tl.BarWidth/2
		cd := g.Calc[i]
		for j := range cd {
			cd[j].Center = cd[j].P + center
		}
	}
}

// stackSizes accumulates bases per position bucket, in trace order, and
// expands the size axis over every intermediate top.
func stackSizes(g *SubplotGroup, bl []int, sa Axis, pos *Positions) {
	first, ok := pos.Layout(g.Traces[bl[0]].ID)
	if !ok {
		return
	}
	eps := first.BarWidth / 100

	sums := make(map[int64]float64)
	sMin, sMax := 0.0, 0.0
	for _, i := range bl {
		cd := g.Calc[i]
		for j := range cd {
			key := bucketKey(cd[j].P, eps)
			cd[j].B = sums[key]
			top := cd[j].B + cd[j].S
			cd[j].Top = top
			sums[key] = top
			if finite(top) {
				sMax = math.Max(sMax, top)
				sMin = math.Min(sMin, top)
			}
		}
	}
	sa.Expand([]float64{sMin, sMax}, axis.ExpandOptions{ToZero: true, Padded: true})
}

// bucketKey rounds p to a multiple of eps so positions that differ only by
// floating point noise share a stack.
func bucketKey(p, eps float64) int64 {
	if eps > 0 && finite(eps) {
		k := jsRound(p / eps)
		if finite(k) && math.Abs(k) < 1<<62 {
			return int64(k)
		}
	}
	return int64(math.Float64bits(p))
}

// jsRound rounds half up, toward positive infinity.
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}

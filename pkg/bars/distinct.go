package bars

import (
	"math"
	"slices"
)

// Distinct is the result of [DistinctVals].
type Distinct struct {
	Vals    []float64
	MinDiff float64
}

// DistinctVals sorts and de-duplicates positions and finds the smallest gap
// between neighbors. With fewer than two distinct values there is no gap,
// and MinDiff is fallback; callers pass the slot width suited to the axis
// (1 for categories and plain numbers).
func DistinctVals(positions []float64, fallback float64) Distinct {
	vals := slices.Clone(positions)
	slices.Sort(vals)
	vals = slices.Compact(vals)

	minDiff := math.Inf(1)
	for i := 1; i < len(vals); i++ {
		minDiff = math.Min(minDiff, vals[i]-vals[i-1])
	}
	if len(vals) < 2 {
		minDiff = fallback
	}
	return Distinct{Vals: vals, MinDiff: minDiff}
}

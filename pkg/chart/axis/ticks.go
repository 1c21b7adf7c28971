package axis

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// Tick is one labeled axis position.
type Tick struct {
	Value float64
	Label string
}

// Ticks returns the labeled ticks across the displayed range. Linear axes
// take the major ticks of gonum's Talbot-Lin-Hanrahan search and are moved
// onto the tick0 grid when a min dtick is set. Category axes tick every
// category inside the range, thinned to about target labels.
func (a *Axis) Ticks(target int) []Tick {
	lo, hi := a.rng[0], a.rng[1]
	if hi < lo {
		lo, hi = hi, lo
	}
	if !finite(lo) || !finite(hi) || hi == lo {
		return nil
	}
	if a.Type == Category {
		return a.categoryTicks(lo, hi, target)
	}

	var out []Tick
	for _, tk := range (plot.DefaultTicks{}).Ticks(lo, hi) {
		if tk.IsMinor() {
			continue
		}
		out = append(out, Tick{Value: tk.Value, Label: tk.Label})
	}
	if a.minDtick > 0 && !a.onGrid(out) {
		out = a.gridTicks(lo, hi, majorStep(out))
	}
	return out
}

// onGrid reports whether ticks are at least min dtick apart and sit on
// tick0 + k*minDtick.
func (a *Axis) onGrid(ticks []Tick) bool {
	if len(ticks) > 1 && majorStep(ticks) < a.minDtick*(1-1e-9) {
		return false
	}
	for _, tk := range ticks {
		k := (tk.Value - a.tick0) / a.minDtick
		if math.Abs(k-math.Round(k)) > 1e-6 {
			return false
		}
	}
	return true
}

// gridTicks places ticks on the tick0 grid, using the smallest multiple of
// min dtick that is not denser than step.
func (a *Axis) gridTicks(lo, hi, step float64) []Tick {
	d := a.minDtick
	if step > d {
		d *= math.Ceil(step/d - 1e-9)
	}
	var out []Tick
	for k := math.Ceil((lo - a.tick0) / d); ; k++ {
		v, _ := strconv.ParseFloat(strconv.FormatFloat(a.tick0+k*d, 'g', 12, 64), 64)
		if v > hi+d*1e-9 || len(out) > 1000 {
			break
		}
		out = append(out, Tick{Value: v, Label: a.TickLabel(v)})
	}
	return out
}

func majorStep(ticks []Tick) float64 {
	if len(ticks) < 2 {
		return 0
	}
	return ticks[1].Value - ticks[0].Value
}

func (a *Axis) categoryTicks(lo, hi float64, target int) []Tick {
	every := 1
	if n := len(a.categories); target > 0 && n > 2*target {
		every = int(math.Ceil(float64(n) / float64(target)))
	}
	var out []Tick
	for i := 0; i < len(a.categories); i += every {
		v := float64(i)
		if v < lo || v > hi {
			continue
		}
		out = append(out, Tick{Value: v, Label: a.categories[i]})
	}
	return out
}

// TickLabel formats v the way the axis labels ticks.
func (a *Axis) TickLabel(v float64) string {
	if a.Type == Category {
		i := int(math.Round(v))
		if i >= 0 && i < len(a.categories) && float64(i) == v {
			return a.categories[i]
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Package axis implements the linear and category axes that bar traces are
// laid out on.
//
// An [Axis] converts raw data values to linear coordinates ([Axis.D2L]),
// collects range requests from the bar engine ([Axis.Expand],
// [Axis.MinDtick]), resolves its displayed range ([Axis.Autorange]) and maps
// linear coordinates to pixels ([Axis.C2P]).
package axis

import (
	"math"
	"strconv"
	"strings"
)

// Type is the axis scale type.
type Type string

const (
	Linear   Type = "linear"
	Category Type = "category"
)

// PadFraction is the share of the data span added on padded sides.
const PadFraction = 0.05

// ExpandOptions controls a range expansion request.
type ExpandOptions struct {
	// VPad is added in data units on both sides of every value.
	VPad float64
	// ToZero includes zero in the range, unpadded.
	ToZero bool
	// Padded adds PadFraction of the span to sides not pinned at zero.
	Padded bool
}

type extreme struct {
	val    float64
	padded bool
	set    bool
}

// Axis is one x or y axis. Axes are owned by a single layout pass and are
// not safe for concurrent use.
type Axis struct {
	ID    string
	Type  Type
	Title string

	categories []string
	catIndex   map[string]int

	fixed bool
	rng   [2]float64

	lo, hi extreme

	minDtick    float64
	minDtickSet bool
	tick0       float64

	// Pixel mapping. Vertical axes grow upward.
	pxStart, pxLength float64
	vertical          bool
}

// New returns an axis of type t. id's first letter ("x" or "y") decides the
// pixel direction.
func New(id string, t Type) *Axis {
	if t == "" {
		t = Linear
	}
	return &Axis{
		ID:       id,
		Type:     t,
		catIndex: make(map[string]int),
		vertical: strings.HasPrefix(id, "y"),
		rng:      [2]float64{-1, 6},
	}
}

// SetCategories registers category names in order.
func (a *Axis) SetCategories(names []string) {
	for _, n := range names {
		a.category(n)
	}
}

// Categories returns the registered category names.
func (a *Axis) Categories() []string { return a.categories }

// SetRange fixes the displayed range and disables autorange.
func (a *Axis) SetRange(lo, hi float64) {
	a.fixed = true
	a.rng = [2]float64{lo, hi}
}

// Range returns the displayed range.
func (a *Axis) Range() (float64, float64) { return a.rng[0], a.rng[1] }

// SetDomain places the axis in pixel space.
func (a *Axis) SetDomain(start, length float64) {
	a.pxStart, a.pxLength = start, length
}

// Domain returns the pixel start and length.
func (a *Axis) Domain() (float64, float64) { return a.pxStart, a.pxLength }

// IsVertical reports whether the axis is a y axis.
func (a *Axis) IsVertical() bool { return a.vertical }

// D2L converts a raw data value to a linear coordinate. ok is false for
// values that have no numeric meaning on this axis.
func (a *Axis) D2L(v any) (float64, bool) {
	if a.Type == Category {
		switch t := v.(type) {
		case string:
			if t == "" {
				return math.NaN(), false
			}
			return float64(a.category(t)), true
		case nil, bool:
			return math.NaN(), false
		}
		f, ok := toNumber(v)
		if !ok {
			return math.NaN(), false
		}
		return float64(a.category(strconv.FormatFloat(f, 'g', -1, 64))), true
	}
	return toNumber(v)
}

func (a *Axis) category(name string) int {
	if i, ok := a.catIndex[name]; ok {
		return i
	}
	i := len(a.categories)
	a.categories = append(a.categories, name)
	a.catIndex[name] = i
	return i
}

// C2P maps a linear coordinate to pixels. Non-finite input, or an empty
// range, yields NaN.
func (a *Axis) C2P(v float64) float64 {
	span := a.rng[1] - a.rng[0]
	if !finite(v) || span == 0 || !finite(span) {
		return math.NaN()
	}
	frac := (v - a.rng[0]) / span
	if a.vertical {
		frac = 1 - frac
	}
	return a.pxStart + frac*a.pxLength
}

// Expand widens the autorange to include vals. Non-finite values are
// ignored.
func (a *Axis) Expand(vals []float64, opts ExpandOptions) {
	for _, v := range vals {
		if !finite(v) {
			continue
		}
		a.pushLo(v-opts.VPad, opts.Padded)
		a.pushHi(v+opts.VPad, opts.Padded)
	}
	if opts.ToZero {
		a.pushLo(0, false)
		a.pushHi(0, false)
	}
}

func (a *Axis) pushLo(v float64, padded bool) {
	if !a.lo.set || v < a.lo.val || (v == a.lo.val && !padded) {
		a.lo = extreme{val: v, padded: padded, set: true}
	}
}

func (a *Axis) pushHi(v float64, padded bool) {
	if !a.hi.set || v > a.hi.val || (v == a.hi.val && !padded) {
		a.hi = extreme{val: v, padded: padded, set: true}
	}
}

// Autorange resolves the displayed range from the collected extremes. Fixed
// ranges are left alone. An axis that saw no data keeps its default range.
func (a *Axis) Autorange() {
	if a.fixed || !a.lo.set || !a.hi.set {
		return
	}
	lo, hi := a.lo.val, a.hi.val
	if lo == hi {
		lo, hi = lo-1, hi+1
		a.rng = [2]float64{lo, hi}
		return
	}
	span := hi - lo
	if a.lo.padded {
		lo -= PadFraction * span
	}
	if a.hi.padded {
		hi += PadFraction * span
	}
	a.rng = [2]float64{lo, hi}
}

// ResetRange forgets collected extremes and tick constraints so the axis can
// be laid out again from scratch. Categories are kept.
func (a *Axis) ResetRange() {
	a.lo, a.hi = extreme{}, extreme{}
	a.minDtick, a.minDtickSet, a.tick0 = 0, false, 0
}

// MinDtick requests that ticks be no finer than diff, anchored at first.
// Category axes and allow=false cancel the constraint. Successive requests
// are merged while they stay integer multiples of each other and share the
// same tick anchor; otherwise the constraint is dropped.
func (a *Axis) MinDtick(diff, first float64, allow bool) {
	switch {
	case a.Type == Category || !allow:
		a.minDtick, a.minDtickSet = 0, true
	case !a.minDtickSet:
		a.minDtick, a.tick0, a.minDtickSet = diff, first, true
	case a.minDtick != 0:
		if isMultiple(a.minDtick, diff) && sameAnchor(first, a.tick0, diff) {
			a.minDtick, a.tick0 = diff, first
		} else if !isMultiple(diff, a.minDtick) || !sameAnchor(first, a.tick0, a.minDtick) {
			a.minDtick = 0
		}
	}
}

// MinDtickValue returns the active minimum tick spacing, 0 for none.
func (a *Axis) MinDtickValue() float64 { return a.minDtick }

func isMultiple(big, small float64) bool {
	return math.Mod(big/small+1e-6, 1) < 2e-6
}

func sameAnchor(first, tick0, step float64) bool {
	return math.Mod(math.Mod((first-tick0)/step, 1)+1.000001, 1) < 2e-6
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if s == "" {
			return math.NaN(), false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), false
		}
		f = p
	default:
		return math.NaN(), false
	}
	if !finite(f) {
		return math.NaN(), false
	}
	return f, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IsNumeric reports whether v converts to a finite number on a linear axis.
func IsNumeric(v any) bool {
	_, ok := toNumber(v)
	return ok
}

// AutoType picks Category when any value is a non-empty string that is not
// numeric, Linear otherwise.
func AutoType(values ...[]any) Type {
	for _, vs := range values {
		for _, v := range vs {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" && !IsNumeric(s) {
				return Category
			}
		}
	}
	return Linear
}

// Package chart defines the figure model consumed by the bar engine.
//
// A [Figure] is a list of [Trace] values plus a [Layout]. Traces carry raw
// position and size arrays, which may mix numbers, numeric strings and
// category names; conversion to numbers is left to the axis that a trace is
// assigned to (see package axis).
//
// # Array-valued attributes
//
// Marker color, opacity and outline width, as well as text, may be given
// either as a single value or as one value per point. [ArrayOk] models that
// choice:
//
//	m.Color = chart.Scalar(chart.ColorString("#1f77b4"))
//	m.Color = chart.PerPoint([]chart.Color{chart.ColorNumber(1), chart.ColorNumber(3)})
//
//	c, ok := m.Color.ValueAt(i) // per-point entry, or the scalar
//
// # Defaults
//
// [Figure.SupplyDefaults] resolves ids, axis assignment, orientation and
// marker defaults. [Layout.BarConfig] resolves the bar mode and clamps
// bargap and bargroupgap into [0, 1].
//
// # Input formats
//
// Figures decode from JSON ([ReadJSON]) or TOML ([ReadTOML]). Both use the
// same keys:
//
//	{
//	  "data": [
//	    {"x": [1, 2, 3], "y": [2, 3, 1]},
//	    {"x": [1, 2, 3], "y": [1, 1, 4]}
//	  ],
//	  "layout": {"barmode": "stack"}
//	}
package chart

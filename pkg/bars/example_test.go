package bars_test

import (
	"fmt"

	"github.com/matzehuels/barstack/pkg/bars"
	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
)

func Example() {
	fig := &chart.Figure{
		Traces: []chart.Trace{
			{ID: "a", X: []any{1.0, 2.0, 3.0}, Y: []any{2.0, 3.0, 1.0}},
			{ID: "b", X: []any{1.0, 2.0, 3.0}, Y: []any{1.0, 1.0, 4.0}},
		},
		Layout: chart.Layout{BarMode: chart.BarModeStack},
	}
	fig.SupplyDefaults()

	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
	g := &bars.SubplotGroup{XAxis: xa, YAxis: ya, XAxisID: "x", YAxisID: "y"}
	for i := range fig.Traces {
		t := &fig.Traces[i]
		g.Traces = append(g.Traces, t)
		g.Calc = append(g.Calc, bars.Calc(t, xa, ya))
	}

	pos := bars.SetPositions(g, fig.Layout.BarConfig())
	for i, t := range g.Traces {
		tl, _ := pos.Layout(t.ID)
		fmt.Printf("%s: width=%.2f offset=%.2f\n", t.ID, tl.BarWidth, tl.POffset)
		for _, r := range g.Calc[i] {
			fmt.Printf("  p=%g base=%g top=%g\n", r.P, r.B, r.Top)
		}
	}
	// Output:
	// a: width=0.80 offset=-0.40
	//   p=1 base=0 top=2
	//   p=2 base=0 top=3
	//   p=3 base=0 top=1
	// b: width=0.80 offset=-0.40
	//   p=1 base=2 top=3
	//   p=2 base=3 top=4
	//   p=3 base=1 top=5
}

func ExampleDistinctVals() {
	dv := bars.DistinctVals([]float64{4, 1, 2, 4, 8}, 1)
	fmt.Println(dv.Vals, dv.MinDiff)
	// Output: [1 2 4 8] 1
}

func ExampleShape_Path() {
	s := bars.Shape{X0: 10, Y0: 200, X1: 30, Y1: 120.5}
	fmt.Println(s.Path())
	// Output: M10,200V120.5H30V200Z
}

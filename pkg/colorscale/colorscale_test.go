package colorscale

import (
	"testing"

	"github.com/matzehuels/barstack/pkg/chart"
)

var greys = chart.Colorscale{
	{Pos: 0, Color: "#000000"},
	{Pos: 1, Color: "#ffffff"},
}

func TestFunc(t *testing.T) {
	f := Func(greys, 0, 10)
	tests := []struct {
		in   chart.Color
		want string
	}{
		{chart.ColorNumber(0), "#000000"},
		{chart.ColorNumber(5), "#808080"},
		{chart.ColorNumber(10), "#ffffff"},
		{chart.ColorNumber(-3), "#000000"},
		{chart.ColorNumber(99), "#ffffff"},
		{chart.ColorString("tomato"), "tomato"},
	}

	for _, tt := range tests {
		if got := f(tt.in); got != tt.want {
			t.Errorf("f(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFuncUnsortedStops(t *testing.T) {
	f := Func(chart.Colorscale{{Pos: 1, Color: "#ffffff"}, {Pos: 0, Color: "#000000"}}, 0, 1)
	if got := f(chart.ColorNumber(0)); got != "#000000" {
		t.Errorf("f(0) = %q, want #000000", got)
	}
}

func TestFuncFallsBackToDefault(t *testing.T) {
	f := Func(chart.Colorscale{{Pos: 0, Color: "nope"}}, 0, 1)
	if got := f(chart.ColorNumber(0)); got != Default[0].Color {
		t.Errorf("f(0) = %q, want %q", got, Default[0].Color)
	}
}

func TestFuncFlatRange(t *testing.T) {
	f := Func(greys, 3, 3)
	if got := f(chart.ColorNumber(3)); got != "#808080" {
		t.Errorf("f(3) = %q, want midpoint #808080", got)
	}
}

func TestForTrace(t *testing.T) {
	tr := &chart.Trace{}
	tr.Marker.Color = chart.PerPoint([]chart.Color{chart.ColorNumber(2), chart.ColorNumber(4)})
	tr.Marker.Colorscale = greys
	tr.Marker.Line.Color = chart.Scalar(chart.ColorString("#444"))

	sc := ForTrace(tr)
	if sc.Line != nil {
		t.Error("line scale built for a scalar CSS color")
	}
	if sc.Fill == nil {
		t.Fatal("fill scale missing for numeric colors")
	}
	if got := sc.Fill(chart.ColorNumber(4)); got != "#ffffff" {
		t.Errorf("Fill(4) = %q, want data maximum to map to #ffffff", got)
	}

	lo := 0.0
	tr.Marker.CMin = &lo
	if got := ForTrace(tr).Fill(chart.ColorNumber(2)); got != "#808080" {
		t.Errorf("Fill(2) with cmin=0 = %q, want #808080", got)
	}
}

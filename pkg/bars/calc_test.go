package bars

import (
	"math"
	"testing"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
)

func nums(vs ...float64) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func barTrace(id string, x, y []any) *chart.Trace {
	return &chart.Trace{ID: id, Type: chart.TypeBar, X: x, Y: y, XAxis: "x", YAxis: "y"}
}

func TestCalc(t *testing.T) {
	tests := []struct {
		name  string
		x, y  []any
		wantP []float64
		wantS []float64
	}{
		{
			name:  "all finite",
			x:     nums(1, 2, 3),
			y:     nums(2, 3, 1),
			wantP: []float64{1, 2, 3},
			wantS: []float64{2, 3, 1},
		},
		{
			name:  "drops non-numeric pairs",
			x:     []any{1.0, "two", 3.0, 4.0},
			y:     []any{2.0, 3.0, nil, "5"},
			wantP: []float64{1, 4},
			wantS: []float64{2, 5},
		},
		{
			name:  "truncates to shorter array",
			x:     nums(1, 2, 3, 4),
			y:     nums(9, 8),
			wantP: []float64{1, 2},
			wantS: []float64{9, 8},
		},
		{
			name:  "drops infinities",
			x:     []any{math.Inf(1), 2.0},
			y:     nums(1, math.NaN()),
			wantP: []float64{},
			wantS: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
			cd := Calc(barTrace("a", tt.x, tt.y), xa, ya)

			if len(cd) != len(tt.wantP) {
				t.Fatalf("len(Calc) = %d, want %d", len(cd), len(tt.wantP))
			}
			if len(cd) > min(len(tt.x), len(tt.y)) {
				t.Errorf("Calc returned more records than pairs")
			}
			for i, r := range cd {
				if r.P != tt.wantP[i] || r.S != tt.wantS[i] {
					t.Errorf("record %d = (%v, %v), want (%v, %v)", i, r.P, r.S, tt.wantP[i], tt.wantS[i])
				}
				if r.B != 0 {
					t.Errorf("record %d base = %v, want 0", i, r.B)
				}
				if !finite(r.P) || !finite(r.S) {
					t.Errorf("record %d not finite: %+v", i, r)
				}
			}
		})
	}
}

func TestCalcKeepsSourceIndex(t *testing.T) {
	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
	cd := Calc(barTrace("a", []any{nil, 2.0, 3.0}, nums(1, 2, 3)), xa, ya)
	if len(cd) != 2 {
		t.Fatalf("len(Calc) = %d, want 2", len(cd))
	}
	if cd[0].Index != 1 || cd[1].Index != 2 {
		t.Errorf("indices = %d, %d; want 1, 2", cd[0].Index, cd[1].Index)
	}
}

func TestCalcHorizontal(t *testing.T) {
	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Category)
	tr := barTrace("h", nums(5, 7), []any{"a", "b"})
	tr.Orientation = chart.Horizontal

	cd := Calc(tr, xa, ya)
	if len(cd) != 2 {
		t.Fatalf("len(Calc) = %d, want 2", len(cd))
	}
	if cd[0].P != 0 || cd[1].P != 1 {
		t.Errorf("positions = %v, %v; want category indices 0, 1", cd[0].P, cd[1].P)
	}
	if cd[0].S != 5 || cd[1].S != 7 {
		t.Errorf("sizes = %v, %v; want 5, 7", cd[0].S, cd[1].S)
	}
}

func TestCalcInferredHorizontal(t *testing.T) {
	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
	tr := barTrace("h", nums(4, 6), nil)

	cd := Calc(tr, xa, ya)
	if len(cd) != 2 {
		t.Fatalf("len(Calc) = %d, want 2", len(cd))
	}
	if cd[1].P != 1 || cd[1].S != 6 {
		t.Errorf("record 1 = %+v, want generated position 1 and size 6", cd[1])
	}
}

func TestCalcInvisible(t *testing.T) {
	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
	hidden := false
	tr := barTrace("a", nums(1, 2), nums(1, 2))
	tr.Visible = &hidden

	if cd := Calc(tr, xa, ya); cd != nil {
		t.Errorf("Calc on invisible trace = %v, want nil", cd)
	}
}

type fixedHistogram struct{ called bool }

func (f *fixedHistogram) Calc(t *chart.Trace, pa, sa Axis) []CalcRecord {
	f.called = true
	return []CalcRecord{{P: 0.5, S: 3}}
}

func TestCalcDelegatesHistogram(t *testing.T) {
	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
	tr := &chart.Trace{ID: "h", Type: chart.TypeHistogram, X: nums(1, 1, 2)}

	if cd := Calc(tr, xa, ya); cd != nil {
		t.Errorf("histogram without collaborator = %v, want nil", cd)
	}

	h := &fixedHistogram{}
	cd := Builder{Histogram: h}.Calc(tr, xa, ya)
	if !h.called {
		t.Fatal("histogram collaborator not called")
	}
	if len(cd) != 1 || cd[0].S != 3 {
		t.Errorf("Calc = %v, want collaborator result unchanged", cd)
	}
}

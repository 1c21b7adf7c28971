package barchart

import (
	"github.com/matzehuels/barstack/pkg/bars"
	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
	"github.com/matzehuels/barstack/pkg/colorscale"
	"github.com/matzehuels/barstack/pkg/histogram"
)

// SubplotGap is the vertical space between stacked subplots in pixels.
const SubplotGap = 40.0

// DefaultTickTarget is the approximate number of ticks per axis.
const DefaultTickTarget = 6

// Options controls scene building.
type Options struct {
	// ForExport disables sub-pixel snapping.
	ForExport bool
	// Histogram bins histogram traces. Defaults to histogram.Binner{}.
	Histogram bars.HistogramCalc
	// TickTarget is the approximate tick count per axis.
	TickTarget int
}

// Scene is a fully laid out figure in pixel space.
type Scene struct {
	Title    string        `json:"title,omitempty"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	BarMode  chart.BarMode `json:"barmode"`
	Subplots []Subplot     `json:"subplots"`
}

// Rect is a pixel rectangle.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Subplot is one axis pair with its traces.
type Subplot struct {
	ID     string       `json:"id"`
	Plot   Rect         `json:"plot"`
	X      AxisView     `json:"xaxis"`
	Y      AxisView     `json:"yaxis"`
	Traces []TraceGroup `json:"traces"`
}

// AxisView is the resolved state of one axis.
type AxisView struct {
	ID    string     `json:"id"`
	Type  axis.Type  `json:"type"`
	Title string     `json:"title,omitempty"`
	Range [2]float64 `json:"range"`
	Ticks []Tick     `json:"ticks"`
}

// Tick is an axis tick with its pixel position.
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
	Pos   float64 `json:"pos"`
}

// TraceGroup holds the rendered bars of one trace.
type TraceGroup struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Orientation chart.Orientation `json:"orientation"`
	Opacity     float64           `json:"opacity"`
	CrispEdges  bool              `json:"crisp_edges,omitempty"`
	Layout      bars.TraceLayout  `json:"layout"`
	Records     []bars.CalcRecord `json:"records,omitempty"`
	Bars        []Bar             `json:"bars"`
}

// Bar is one rendered bar.
type Bar struct {
	bars.Shape
	Path    string     `json:"path"`
	Style   bars.Style `json:"style"`
	Opacity float64    `json:"opacity"`
	Text    string     `json:"text,omitempty"`
}

// Build lays out and renders fig. fig is not modified.
func Build(fig *chart.Figure, opts Options) (*Scene, error) {
	if err := fig.Validate(); err != nil {
		return nil, err
	}
	f := fig.Clone()
	f.SupplyDefaults()

	if opts.Histogram == nil {
		opts.Histogram = histogram.Binner{}
	}
	if opts.TickTarget <= 0 {
		opts.TickTarget = DefaultTickTarget
	}

	cfg := f.Layout.BarConfig()
	scene := &Scene{
		Title:   f.Layout.Title,
		Width:   f.Layout.Width,
		Height:  f.Layout.Height,
		BarMode: cfg.Mode,
	}

	subplots := f.Subplots()
	domains := stackDomains(f.Layout, len(subplots))
	axes := figureAxes(f, subplots)

	builder := bars.Builder{Histogram: opts.Histogram}
	groups := make([]*bars.SubplotGroup, len(subplots))
	positions := make([]*bars.Positions, len(subplots))
	for i, sp := range subplots {
		g := &bars.SubplotGroup{
			XAxis:   axes[sp.XAxis],
			YAxis:   axes[sp.YAxis],
			XAxisID: sp.XAxis,
			YAxisID: sp.YAxis,
			Traces:  f.TracesOn(sp),
		}
		for _, t := range g.Traces {
			g.Calc = append(g.Calc, builder.Calc(t, g.XAxis, g.YAxis))
		}
		positions[i] = bars.SetPositions(g, cfg)
		groups[i] = g
	}
	// Ranges are final only once every subplot sharing an axis is placed.
	for _, a := range axes {
		a.Autorange()
	}

	rc := bars.RenderConfig{Bar: cfg, ForExport: opts.ForExport}
	for i, sp := range subplots {
		plot := domains[i]
		xa := axisIn(axes[sp.XAxis], plot.X, plot.W)
		ya := axisIn(axes[sp.YAxis], plot.Y, plot.H)
		out := Subplot{
			ID:   sp.String(),
			Plot: plot,
			X:    axisView(xa, opts.TickTarget),
			Y:    axisView(ya, opts.TickTarget),
		}
		pos := positions[i]
		for j, t := range groups[i].Traces {
			tl, ok := pos.Layout(t.ID)
			if !ok {
				continue
			}
			out.Traces = append(out.Traces, traceGroup(t, groups[i].Calc[j], tl, xa, ya, rc, pos.Len()))
		}
		scene.Subplots = append(scene.Subplots, out)
	}
	return scene, nil
}

// figureAxes builds one axis per axis id. Subplots that name the same id
// share its range and category order.
func figureAxes(f *chart.Figure, subplots []chart.Subplot) map[string]*axis.Axis {
	axes := make(map[string]*axis.Axis)
	add := func(id string, on func(t *chart.Trace) string) {
		if _, ok := axes[id]; ok {
			return
		}
		var traces []*chart.Trace
		for i := range f.Traces {
			if on(&f.Traces[i]) == id {
				traces = append(traces, &f.Traces[i])
			}
		}
		axes[id] = newAxis(id, f.Layout.Axes[id], traces)
	}
	for _, sp := range subplots {
		add(sp.XAxis, func(t *chart.Trace) string { return t.XAxis })
		add(sp.YAxis, func(t *chart.Trace) string { return t.YAxis })
	}
	return axes
}

// axisIn returns a copy of a placed in the pixel span of one subplot.
func axisIn(a *axis.Axis, start, length float64) *axis.Axis {
	v := *a
	v.SetDomain(start, length)
	return &v
}

func traceGroup(t *chart.Trace, cd []bars.CalcRecord, tl bars.TraceLayout, xa, ya *axis.Axis, rc bars.RenderConfig, traceCount int) TraceGroup {
	tg := TraceGroup{
		ID:          t.ID,
		Name:        t.Name,
		Orientation: t.InferOrientation(),
		Opacity:     t.TraceOpacity(),
		CrispEdges:  bars.CrispEdges(t, rc.Bar, traceCount),
		Layout:      tl,
		Records:     cd,
	}

	scales := colorscale.ForTrace(t)
	for _, s := range bars.Render(t, cd, tl, xa, ya, rc) {
		op, ok := t.Marker.Opacity.ValueAt(s.Index)
		if !ok {
			op = 1
		}
		tg.Bars = append(tg.Bars, Bar{
			Shape:   s,
			Path:    s.Path(),
			Style:   bars.ResolveStyle(t, s.Index, scales),
			Opacity: op,
			Text:    bars.Text(t, s.Index),
		})
	}
	return tg
}

// newAxis builds an axis from its layout spec. The type is inferred from
// the traces' values when the layout leaves it unset.
func newAxis(id string, spec chart.AxisSpec, traces []*chart.Trace) *axis.Axis {
	typ := axis.Type(spec.Type)
	if typ != axis.Linear && typ != axis.Category {
		letter := id[:1]
		var vals [][]any
		for _, t := range traces {
			vals = append(vals, t.Coords(letter))
		}
		typ = axis.AutoType(vals...)
	}

	a := axis.New(id, typ)
	a.Title = spec.Title
	a.SetCategories(spec.Categories)
	if len(spec.Range) == 2 {
		a.SetRange(spec.Range[0], spec.Range[1])
	}
	return a
}

func axisView(a *axis.Axis, target int) AxisView {
	lo, hi := a.Range()
	v := AxisView{ID: a.ID, Type: a.Type, Title: a.Title, Range: [2]float64{lo, hi}}
	for _, tk := range a.Ticks(target) {
		v.Ticks = append(v.Ticks, Tick{Value: tk.Value, Label: tk.Label, Pos: a.C2P(tk.Value)})
	}
	return v
}

// stackDomains splits the plot area into n rows, top to bottom.
func stackDomains(l chart.Layout, n int) []Rect {
	m := l.Margin
	x, y := m.Left, m.Top
	w := max(l.Width-m.Left-m.Right, 1)
	h := max(l.Height-m.Top-m.Bottom, 1)
	if n <= 1 {
		return []Rect{{X: x, Y: y, W: w, H: h}}
	}

	rowH := max((h-SubplotGap*float64(n-1))/float64(n), 1)
	out := make([]Rect, n)
	for i := range out {
		out[i] = Rect{X: x, Y: y + float64(i)*(rowH+SubplotGap), W: w, H: rowH}
	}
	return out
}

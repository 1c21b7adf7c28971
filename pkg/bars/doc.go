// Package bars lays out and renders bar traces.
//
// # Overview
//
// Given traces assigned to a shared pair of axes, the engine computes the
// width and offset of every bar under one of three modes, stacks bar
// heights when asked to, widens the axes to fit, and produces pixel
// rectangles ready for an SVG or raster sink:
//
//  1. Calc ([Calc], [Builder]): convert raw arrays to finite (p, s) records.
//  2. Positions ([SetPositions]): derive slot widths, offsets, centers and
//     stacked bases per subplot and orientation.
//  3. Render ([Render]): map records to snapped pixel rectangles.
//  4. Style ([ResolveStyle], [CrispEdges]): fill, stroke and edge hints.
//
// # Bar Modes
//
//   - group: traces whose positions collide split each slot into equal
//     parts; traces that never collide keep the whole slot.
//   - stack: every trace spans the slot and bars at the same position sit
//     on top of each other, in trace order. Negative sizes stack downward
//     from the running total.
//   - overlay: each trace is laid out as if it were alone.
//
// # Slot Width
//
// The slot is the smallest gap between distinct positions of the traces
// laid out together ([DistinctVals]). A single distinct position has no gap;
// the slot then falls back to [chart.BarConfig].MinDiffFallback. bargap
// shrinks the slot; bargroupgap shrinks each bar within its share.
//
// # Usage
//
//	xa, ya := axis.New("x", axis.Linear), axis.New("y", axis.Linear)
//	g := &bars.SubplotGroup{XAxis: xa, YAxis: ya, XAxisID: "x", YAxisID: "y"}
//	for i := range fig.Traces {
//	    t := &fig.Traces[i]
//	    g.Traces = append(g.Traces, t)
//	    g.Calc = append(g.Calc, bars.Calc(t, xa, ya))
//	}
//	pos := bars.SetPositions(g, fig.Layout.BarConfig())
//	xa.Autorange()
//	ya.Autorange()
//
//	for i, t := range g.Traces {
//	    tl, ok := pos.Layout(t.ID)
//	    if !ok {
//	        continue
//	    }
//	    shapes := bars.Render(t, g.Calc[i], tl, xa, ya, bars.RenderConfig{Bar: cfg})
//	    ...
//	}
//
// # Pixel Snapping
//
// Unless exporting, edges are snapped so that bars neither blur nor vanish.
// Outlined or translucent bars round to whole pixels, shifted by half the
// outline width. Opaque bars without outline are widened to at least one
// pixel when thinner than two. Rounding to whole pixels only applies when
// bargap and bargroupgap are both zero, so configured gaps keep their exact
// width; widening thin bars applies in every case.
//
// The engine has no error paths. Unusable samples are dropped during calc
// and degenerate rectangles are dropped during render.
package bars

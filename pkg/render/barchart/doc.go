// Package barchart turns a figure into a renderable scene.
//
// # Overview
//
// [Build] runs the complete bar pipeline for every subplot of a figure:
//
//  1. Defaults: [chart.Figure.SupplyDefaults] on a copy of the figure.
//  2. Axes: one x and one y axis per subplot, typed from the layout or
//     inferred from the data.
//  3. Calc: [bars.Builder] turns each trace into calc records, binning
//     histograms with [histogram.Binner].
//  4. Positions: [bars.SetPositions] computes widths, offsets and stacked
//     bases, then the axes autorange.
//  5. Render: [bars.Render] produces pixel rectangles, styled with
//     [bars.ResolveStyle] and the trace colorscales.
//
// Subplots are stacked vertically in the frame, top to bottom in the order
// their traces first appear.
//
// # Output
//
// A [Scene] is plain data. The [sink] subpackage writes it as SVG, PNG or
// JSON, and [styles] provides the visual themes.
//
//	scene, err := barchart.Build(fig, barchart.Options{})
//	svg := sink.RenderSVG(scene, sink.WithStyle(styles.Dark{}))
//
// [chart.Figure.SupplyDefaults]: github.com/matzehuels/barstack/pkg/chart.Figure.SupplyDefaults
// [bars.Builder]: github.com/matzehuels/barstack/pkg/bars.Builder
// [bars.SetPositions]: github.com/matzehuels/barstack/pkg/bars.SetPositions
// [bars.Render]: github.com/matzehuels/barstack/pkg/bars.Render
// [bars.ResolveStyle]: github.com/matzehuels/barstack/pkg/bars.ResolveStyle
// [histogram.Binner]: github.com/matzehuels/barstack/pkg/histogram.Binner
// [sink]: github.com/matzehuels/barstack/pkg/render/barchart/sink
// [styles]: github.com/matzehuels/barstack/pkg/render/barchart/styles
package barchart

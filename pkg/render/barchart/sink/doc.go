// Package sink provides output format renderers for bar chart scenes.
//
// # Overview
//
// A "sink" transforms a built [barchart.Scene] into a final output format:
//
//   - SVG: vector output with optional hover titles
//   - PNG: raster output drawn with fogleman/gg
//   - JSON: scene data export for external tools and caching
//
// # SVG Output
//
//	svg := sink.RenderSVG(scene,
//	    sink.WithStyle(styles.Dark{}),
//	    sink.WithTitles(),
//	)
//
// Each trace is a <g class="trace bars"> group carrying the trace opacity
// and, where adjacent bars would otherwise show seams,
// shape-rendering="crispEdges". Bars are <path> elements using the
// rectangle path computed by the bar engine.
//
// # PNG Output
//
// [RenderPNG] rasterizes the scene natively, without an external converter:
//
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// # JSON Output
//
// [RenderJSON] exports the scene including per-trace layouts and calc
// records. [WithoutRecords] keeps the output small for large figures.
//
// [barchart.Scene]: github.com/matzehuels/barstack/pkg/render/barchart.Scene
package sink

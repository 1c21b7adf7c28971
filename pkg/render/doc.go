// Package render groups the chart renderers.
//
// [barchart] turns a figure into a [barchart.Scene] of pixel rectangles,
// axes and ticks. Its [sink] subpackage writes scenes as SVG, PNG or JSON,
// and [styles] holds the visual themes:
//
//	scene, err := barchart.Build(fig, barchart.Options{})
//	svg := sink.RenderSVG(scene, sink.WithStyle(styles.Dark{}))
//	png, err := sink.RenderPNG(scene, sink.WithScale(2))
//
// Scenes are plain data, so a scene computed once (and cached as JSON) can
// be rendered in any style or format later.
//
// [barchart]: github.com/matzehuels/barstack/pkg/render/barchart
// [barchart.Scene]: github.com/matzehuels/barstack/pkg/render/barchart.Scene
// [sink]: github.com/matzehuels/barstack/pkg/render/barchart/sink
// [styles]: github.com/matzehuels/barstack/pkg/render/barchart/styles
package render

package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/histogram"
	"github.com/matzehuels/barstack/pkg/observability"
	"github.com/matzehuels/barstack/pkg/render/barchart"
)

// BuildScene applies the layout overrides in opts to a copy of fig and
// builds its scene. fig is not modified.
func BuildScene(ctx context.Context, fig *chart.Figure, opts Options) (*barchart.Scene, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(fig.Traces))
	start := time.Now()

	f := fig.Clone()
	opts.ApplyLayout(f)
	scene, err := barchart.Build(f, barchart.Options{
		ForExport:  opts.ForExport,
		Histogram:  histogram.Binner{DefaultBins: opts.Bins},
		TickTarget: opts.TickTarget,
	})

	subplots := 0
	if scene != nil {
		subplots = len(scene.Subplots)
	}
	hooks.OnLayoutComplete(ctx, subplots, time.Since(start), err)
	return scene, err
}

// CountBars returns the number of rendered bars in s.
func CountBars(s *barchart.Scene) int {
	n := 0
	for _, sp := range s.Subplots {
		for _, tg := range sp.Traces {
			n += len(tg.Bars)
		}
	}
	return n
}

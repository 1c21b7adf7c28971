package sink

import (
	"encoding/json"

	"github.com/matzehuels/barstack/pkg/render/barchart"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	style    string
	compact  bool
	noRecord bool
}

// WithJSONStyle records the style name in the output, for round-trip
// rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// WithoutRecords drops the per-trace calc records and keeps only the
// rendered bars.
func WithoutRecords() JSONOption { return func(r *jsonRenderer) { r.noRecord = true } }

type jsonOutput struct {
	Style string `json:"style,omitempty"`
	*barchart.Scene
}

// RenderJSON exports the scene: frame size, axes with ticks, per-trace
// layout, calc records and rendered bars. It does not modify s.
func RenderJSON(s *barchart.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{Style: r.style, Scene: s}
	if r.noRecord {
		out.Scene = withoutRecords(s)
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func withoutRecords(s *barchart.Scene) *barchart.Scene {
	c := *s
	c.Subplots = make([]barchart.Subplot, len(s.Subplots))
	for i, sp := range s.Subplots {
		traces := make([]barchart.TraceGroup, len(sp.Traces))
		for j, tg := range sp.Traces {
			tg.Records = nil
			traces[j] = tg
		}
		sp.Traces = traces
		c.Subplots[i] = sp
	}
	return &c
}

package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/errgroup"

	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/observability"
	"github.com/matzehuels/barstack/pkg/render/barchart"
	"github.com/matzehuels/barstack/pkg/render/barchart/sink"
	"github.com/matzehuels/barstack/pkg/render/barchart/styles"
)

// Render writes scene in every format of opts.Formats concurrently.
// opts must have passed ValidateForRender.
func Render(ctx context.Context, scene *barchart.Scene, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	out := make([][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for i, format := range opts.Formats {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := RenderFormat(scene, format, opts)
			if err != nil {
				return err
			}
			out[i] = data
			return nil
		})
	}
	err := g.Wait()
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(out))
	for i, format := range opts.Formats {
		artifacts[format] = out[i]
	}
	return artifacts, nil
}

// RenderFormat writes scene in a single format.
func RenderFormat(scene *barchart.Scene, format string, opts Options) ([]byte, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidStyle, err, "render %s", format)
	}

	switch format {
	case FormatSVG:
		svgOpts := []sink.SVGOption{sink.WithStyle(style)}
		if opts.Titles {
			svgOpts = append(svgOpts, sink.WithTitles())
		}
		if opts.NoGrid {
			svgOpts = append(svgOpts, sink.WithoutGrid())
		}
		return sink.RenderSVG(scene, svgOpts...), nil

	case FormatPNG:
		scale := opts.Scale
		if scale == 0 {
			scale = DefaultScale
		}
		data, err := sink.RenderPNG(scene, sink.WithPNGStyle(style), sink.WithScale(scale))
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render png")
		}
		return data, nil

	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONStyle(style.Name())}
		if !opts.Records {
			jsonOpts = append(jsonOpts, sink.WithoutRecords())
		}
		data, err := sink.RenderJSON(scene, jsonOpts...)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeRenderFailed, err, "render json")
		}
		return data, nil
	}
	return nil, ValidateFormat(format)
}

// DecodeScene reads a scene previously written by the JSON sink or
// [MarshalScene].
func DecodeScene(data []byte) (*barchart.Scene, error) {
	var s barchart.Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode scene")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "scene has no frame size")
	}
	return &s, nil
}

// MarshalScene encodes a scene compactly for caching and hashing.
func MarshalScene(s *barchart.Scene) ([]byte, error) {
	return json.Marshal(s)
}

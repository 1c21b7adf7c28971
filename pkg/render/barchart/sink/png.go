package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/render/barchart"
	"github.com/matzehuels/barstack/pkg/render/barchart/styles"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style styles.Style
	scale float64
}

// WithPNGStyle sets the theme whose palette colors the chart chrome.
func WithPNGStyle(s styles.Style) PNGOption {
	return func(r *pngRenderer) { r.style = s }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the scene with fogleman/gg. Tick labels use the
// fixed 7x13 bitmap face, so they do not scale with the palette font size.
func RenderPNG(s *barchart.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: styles.Simple{}, scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, fmt.Errorf("invalid png scale %v", r.scale)
	}

	w, h := int(math.Ceil(s.Width*r.scale)), int(math.Ceil(s.Height*r.scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid png size %dx%d", w, h)
	}

	pal := r.style.Palette()
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)
	dc.SetFontFace(basicfont.Face7x13)

	setColor(dc, pal.Background, 1)
	dc.DrawRectangle(0, 0, s.Width, s.Height)
	dc.Fill()

	if s.Title != "" {
		setColor(dc, pal.Text, 1)
		dc.DrawStringAnchored(s.Title, s.Width/2, titleOffset, 0.5, 0.5)
	}

	for _, sp := range s.Subplots {
		drawSubplot(dc, sp, pal)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSubplot(dc *gg.Context, sp barchart.Subplot, pal styles.Palette) {
	p := sp.Plot
	setColor(dc, pal.Plot, 1)
	dc.DrawRectangle(p.X, p.Y, p.W, p.H)
	dc.Fill()

	setColor(dc, pal.Grid, 1)
	dc.SetLineWidth(1)
	if len(sp.Traces) > 0 && sp.Traces[0].Orientation == chart.Horizontal {
		for _, tk := range sp.X.Ticks {
			dc.DrawLine(tk.Pos, p.Y, tk.Pos, p.Y+p.H)
		}
	} else {
		for _, tk := range sp.Y.Ticks {
			dc.DrawLine(p.X, tk.Pos, p.X+p.W, tk.Pos)
		}
	}
	dc.Stroke()

	dc.Push()
	dc.DrawRectangle(p.X, p.Y, p.W, p.H)
	dc.Clip()
	for _, tg := range sp.Traces {
		for _, b := range tg.Bars {
			drawBar(dc, b, tg.Opacity)
		}
	}
	dc.ResetClip()
	dc.Pop()

	drawAxes(dc, sp, pal)
}

func drawBar(dc *gg.Context, b barchart.Bar, traceOpacity float64) {
	x, y, w, h := b.Bounds()
	alpha := traceOpacity * b.Opacity

	setColor(dc, b.Style.Fill, alpha)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	if b.Style.Stroke != "" && b.Style.StrokeWidth > 0 {
		setColor(dc, b.Style.Stroke, traceOpacity)
		dc.SetLineWidth(b.Style.StrokeWidth)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
	}
}

func drawAxes(dc *gg.Context, sp barchart.Subplot, pal styles.Palette) {
	p := sp.Plot
	bottom, left := p.Y+p.H, p.X

	setColor(dc, pal.Axis, 1)
	dc.SetLineWidth(1)
	dc.DrawLine(p.X, bottom, p.X+p.W, bottom)
	dc.DrawLine(left, p.Y, left, bottom)
	for _, tk := range sp.X.Ticks {
		dc.DrawLine(tk.Pos, bottom, tk.Pos, bottom+tickLength)
	}
	for _, tk := range sp.Y.Ticks {
		dc.DrawLine(left-tickLength, tk.Pos, left, tk.Pos)
	}
	dc.Stroke()

	setColor(dc, pal.Text, 1)
	slot := tickSlot(sp.X, p.W)
	for _, tk := range sp.X.Ticks {
		label := styles.TruncateLabel(tk.Label, slot, basicfontSize)
		dc.DrawStringAnchored(label, tk.Pos, bottom+tickLength+tickPadding, 0.5, 1)
	}
	for _, tk := range sp.Y.Ticks {
		label := styles.TruncateLabel(tk.Label, axisTitlePad, basicfontSize)
		dc.DrawStringAnchored(label, left-tickLength-tickPadding, tk.Pos, 1, 0.35)
	}
	if sp.X.Title != "" {
		dc.DrawStringAnchored(sp.X.Title, p.X+p.W/2, bottom+axisTitlePad, 0.5, 0.5)
	}
	if sp.Y.Title != "" {
		cx, cy := left-axisTitlePad-tickLength, p.Y+p.H/2
		dc.Push()
		dc.RotateAbout(-math.Pi/2, cx, cy)
		dc.DrawStringAnchored(sp.Y.Title, cx, cy, 0.5, 0.5)
		dc.Pop()
	}
}

// basicfontSize is the nominal size of basicfont.Face7x13 for label
// truncation.
const basicfontSize = 13.0

// setColor parses a CSS color and applies it with the given extra alpha.
// Unparseable colors fall back to the neutral marker color.
func setColor(dc *gg.Context, css string, alpha float64) {
	c, a, ok := chart.ParseColor(css)
	if !ok {
		c, a, _ = chart.ParseColor(chart.NeutralColor)
	}
	dc.SetRGBA(c.R, c.G, c.B, a*alpha)
}

package sink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/barstack/pkg/chart"
	"github.com/matzehuels/barstack/pkg/chart/axis"
	"github.com/matzehuels/barstack/pkg/render/barchart"
	"github.com/matzehuels/barstack/pkg/render/barchart/styles"
)

const (
	tickLength   = 5.0
	tickPadding  = 3.0
	titleOffset  = 22.0
	axisTitlePad = 36.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	titles bool
	grid   bool
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithTitles() SVGOption              { return func(r *svgRenderer) { r.titles = true } }
func WithoutGrid() SVGOption             { return func(r *svgRenderer) { r.grid = false } }

// RenderSVG draws the scene: background, grid, bars grouped per trace, then
// axes and labels.
func RenderSVG(s *barchart.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	pal := r.style.Palette()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s" font-size="%s">`+"\n",
		s.Width, s.Height, s.Width, s.Height, styles.EscapeXML(pal.FontFamily), num(pal.FontSize))

	r.style.RenderDefs(&buf)
	renderClipPaths(&buf, s)
	fmt.Fprintf(&buf, `  <rect class="background" width="%s" height="%s" fill="%s"/>`+"\n", num(s.Width), num(s.Height), pal.Background)

	if s.Title != "" {
		fmt.Fprintf(&buf, `  <text class="title" x="%s" y="%s" text-anchor="middle" fill="%s" font-size="%s">%s</text>`+"\n",
			num(s.Width/2), num(titleOffset), pal.Text, num(pal.FontSize*1.4), styles.EscapeXML(s.Title))
	}

	for _, sp := range s.Subplots {
		r.renderSubplot(&buf, sp, pal)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, grid: true}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderClipPaths(buf *bytes.Buffer, s *barchart.Scene) {
	if len(s.Subplots) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	for _, sp := range s.Subplots {
		p := sp.Plot
		fmt.Fprintf(buf, `    <clipPath id="clip-%s"><rect x="%s" y="%s" width="%s" height="%s"/></clipPath>`+"\n",
			styles.EscapeXML(sp.ID), num(p.X), num(p.Y), num(p.W), num(p.H))
	}
	buf.WriteString("  </defs>\n")
}

func (r *svgRenderer) renderSubplot(buf *bytes.Buffer, sp barchart.Subplot, pal styles.Palette) {
	p := sp.Plot
	fmt.Fprintf(buf, `  <g class="subplot" id="subplot-%s">`+"\n", styles.EscapeXML(sp.ID))
	fmt.Fprintf(buf, `    <rect class="plot" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(p.X), num(p.Y), num(p.W), num(p.H), pal.Plot)

	if r.grid {
		renderGrid(buf, sp, pal)
	}

	for _, tg := range sp.Traces {
		r.renderTrace(buf, sp.ID, tg)
	}

	renderAxes(buf, sp, pal)
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderTrace(buf *bytes.Buffer, clipID string, tg barchart.TraceGroup) {
	fmt.Fprintf(buf, `  <g class="trace bars" id="trace-%s" clip-path="url(#clip-%s)"`, styles.EscapeXML(tg.ID), styles.EscapeXML(clipID))
	if tg.Opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%s"`, num(tg.Opacity))
	}
	if tg.CrispEdges {
		buf.WriteString(` shape-rendering="crispEdges"`)
	}
	buf.WriteString(">\n")

	for _, b := range tg.Bars {
		r.style.RenderBar(buf, styleBar(b, r.titles))
	}
	buf.WriteString("  </g>\n")
}

func styleBar(b barchart.Bar, titles bool) styles.Bar {
	x, y, w, h := b.Bounds()
	sb := styles.Bar{
		TraceID:     b.TraceID,
		Index:       b.Index,
		Path:        b.Path,
		X:           x,
		Y:           y,
		W:           w,
		H:           h,
		Fill:        b.Style.Fill,
		Stroke:      b.Style.Stroke,
		StrokeWidth: b.Style.StrokeWidth,
		Opacity:     b.Opacity,
	}
	if titles {
		sb.Title = b.Text
	}
	return sb
}

// renderGrid draws lines across the plot at the size-axis ticks. Subplots
// whose traces are horizontal get vertical grid lines.
func renderGrid(buf *bytes.Buffer, sp barchart.Subplot, pal styles.Palette) {
	p := sp.Plot
	horizontal := len(sp.Traces) > 0 && sp.Traces[0].Orientation == chart.Horizontal
	if horizontal {
		for _, tk := range sp.X.Ticks {
			fmt.Fprintf(buf, `    <line class="grid" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
				num(tk.Pos), num(p.Y), num(tk.Pos), num(p.Y+p.H), pal.Grid)
		}
		return
	}
	for _, tk := range sp.Y.Ticks {
		fmt.Fprintf(buf, `    <line class="grid" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
			num(p.X), num(tk.Pos), num(p.X+p.W), num(tk.Pos), pal.Grid)
	}
}

func renderAxes(buf *bytes.Buffer, sp barchart.Subplot, pal styles.Palette) {
	p := sp.Plot
	bottom, left := p.Y+p.H, p.X

	fmt.Fprintf(buf, `    <g class="axis xaxis" id="axis-%s" stroke="%s">`+"\n", styles.EscapeXML(sp.X.ID), pal.Axis)
	fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(p.X), num(bottom), num(p.X+p.W), num(bottom))
	slot := tickSlot(sp.X, p.W)
	for _, tk := range sp.X.Ticks {
		fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(tk.Pos), num(bottom), num(tk.Pos), num(bottom+tickLength))
		label := styles.TruncateLabel(tk.Label, slot, pal.FontSize)
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" dominant-baseline="hanging" stroke="none" fill="%s">%s</text>`+"\n",
			num(tk.Pos), num(bottom+tickLength+tickPadding), pal.Text, styles.EscapeXML(label))
	}
	if sp.X.Title != "" {
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" stroke="none" fill="%s">%s</text>`+"\n",
			num(p.X+p.W/2), num(bottom+axisTitlePad), pal.Text, styles.EscapeXML(sp.X.Title))
	}
	buf.WriteString("    </g>\n")

	fmt.Fprintf(buf, `    <g class="axis yaxis" id="axis-%s" stroke="%s">`+"\n", styles.EscapeXML(sp.Y.ID), pal.Axis)
	fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(left), num(p.Y), num(left), num(bottom))
	for _, tk := range sp.Y.Ticks {
		fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n", num(left-tickLength), num(tk.Pos), num(left), num(tk.Pos))
		label := styles.TruncateLabel(tk.Label, axisTitlePad, pal.FontSize)
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="end" dominant-baseline="middle" stroke="none" fill="%s">%s</text>`+"\n",
			num(left-tickLength-tickPadding), num(tk.Pos), pal.Text, styles.EscapeXML(label))
	}
	if sp.Y.Title != "" {
		cx, cy := left-axisTitlePad-tickLength, p.Y+p.H/2
		fmt.Fprintf(buf, `      <text x="%s" y="%s" text-anchor="middle" transform="rotate(-90 %s %s)" stroke="none" fill="%s">%s</text>`+"\n",
			num(cx), num(cy), num(cx), num(cy), pal.Text, styles.EscapeXML(sp.Y.Title))
	}
	buf.WriteString("    </g>\n")
}

// tickSlot is the horizontal room each x tick label may use.
func tickSlot(a barchart.AxisView, width float64) float64 {
	if len(a.Ticks) < 2 {
		return width
	}
	slot := width / float64(len(a.Ticks))
	if a.Type == axis.Category {
		return slot
	}
	return slot * 0.9
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

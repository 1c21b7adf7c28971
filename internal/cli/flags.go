package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/pipeline"
	"github.com/matzehuels/barstack/pkg/render/barchart/styles"
)

// layoutFlags are the figure overrides shared by render, layout and inspect.
// Only flags set on the command line override the config file.
type layoutFlags struct {
	barMode     string
	barGap      float64
	barGroupGap float64
	width       float64
	height      float64
	title       string
	bins        int
	export      bool
	refresh     bool
	noCache     bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.barMode, "barmode", "", "bar mode: group, stack, overlay")
	fs.Float64Var(&f.barGap, "bargap", 0, "gap between bars of adjacent positions (fraction)")
	fs.Float64Var(&f.barGroupGap, "bargroupgap", 0, "gap between bars of the same group (fraction)")
	fs.Float64Var(&f.width, "width", 0, "frame width in pixels")
	fs.Float64Var(&f.height, "height", 0, "frame height in pixels")
	fs.StringVar(&f.title, "title", "", "chart title")
	fs.IntVar(&f.bins, "bins", 0, "default histogram bin count")
	fs.BoolVar(&f.export, "export", false, "disable sub-pixel snapping")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached figures and layouts")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

func (f *layoutFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	fs := cmd.Flags()
	if fs.Changed("barmode") {
		o.BarMode = f.barMode
	}
	if fs.Changed("bargap") {
		v := f.barGap
		o.BarGap = &v
	}
	if fs.Changed("bargroupgap") {
		v := f.barGroupGap
		o.BarGroupGap = &v
	}
	if fs.Changed("width") {
		o.Width = f.width
	}
	if fs.Changed("height") {
		o.Height = f.height
	}
	if fs.Changed("bins") {
		o.Bins = f.bins
	}
	o.Title = f.title
	o.ForExport = f.export
	o.Refresh = f.refresh
}

// outputFlags control rendering and where artifacts are written.
type outputFlags struct {
	output  string
	formats string
	style   string
	scale   float64
	titles  bool
	noGrid  bool
	records bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg, png, json (comma-separated)")
	fs.StringVar(&f.style, "style", "", "visual style: "+strings.Join(styles.Names(), ", "))
	fs.Float64Var(&f.scale, "scale", 0, "PNG pixel scale")
	fs.BoolVar(&f.titles, "titles", false, "add hover titles to SVG bars")
	fs.BoolVar(&f.noGrid, "no-grid", false, "omit grid lines")
	fs.BoolVar(&f.records, "records", false, "include calc records in JSON output")
}

func (f *outputFlags) apply(cmd *cobra.Command, o *pipeline.Options) {
	fs := cmd.Flags()
	o.Formats = parseFormats(f.formats, o.Formats)
	if fs.Changed("style") {
		o.Style = f.style
	}
	if fs.Changed("scale") {
		o.Scale = f.scale
	}
	if fs.Changed("titles") {
		o.Titles = f.titles
	}
	o.NoGrid = f.noGrid
	o.Records = f.records
}

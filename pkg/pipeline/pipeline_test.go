package pipeline

import (
	"testing"

	"github.com/matzehuels/barstack/pkg/chart"
	errs "github.com/matzehuels/barstack/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"dark", false},
		{"Dark", false},
		{"", false},
		{"handdrawn", true},
	}
	for _, tt := range tests {
		if err := ValidateStyle(tt.style); (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateBarMode(t *testing.T) {
	for _, mode := range []string{"", "group", "stack", "overlay"} {
		if err := ValidateBarMode(mode); err != nil {
			t.Errorf("ValidateBarMode(%q) error: %v", mode, err)
		}
	}
	if err := ValidateBarMode("relative"); !errs.Is(err, errs.ErrCodeInvalidBarMode) {
		t.Errorf("ValidateBarMode(relative) error = %v, want INVALID_BARMODE", err)
	}
}

func TestValidateForRenderDefaults(t *testing.T) {
	in := []string{" SVG", "png", "svg"}
	opts := Options{Formats: in}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("ValidateForRender() error: %v", err)
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "png" {
		t.Errorf("Formats = %v, want [svg png]", opts.Formats)
	}
	if in[0] != " SVG" {
		t.Error("ValidateForRender modified the caller's slice")
	}
	if opts.Style != DefaultStyle || opts.Scale != DefaultScale || opts.Logger == nil {
		t.Errorf("defaults not applied: %+v", opts)
	}

	opts = Options{}
	if err := opts.ValidateForRender(); err != nil || len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("empty formats = %v, %v; want [svg]", opts.Formats, err)
	}

	opts = Options{Scale: -1}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("negative scale should fail")
	}
}

func TestValidateForLayout(t *testing.T) {
	big := 2.0
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"barmode", Options{BarMode: "side"}, errs.ErrCodeInvalidBarMode},
		{"bargap", Options{BarGap: &big}, errs.ErrCodeInvalidInput},
		{"width", Options{Width: -5}, errs.ErrCodeInvalidDimension},
		{"height", Options{Height: 1e9}, errs.ErrCodeInvalidDimension},
		{"bins", Options{Bins: -1}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForLayout(); !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	opts := Options{}
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout() error: %v", err)
	}
	if opts.TickTarget <= 0 {
		t.Error("TickTarget default not applied")
	}
}

func TestValidateAndSetDefaultsNeedsSource(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestApplyLayout(t *testing.T) {
	gap := 0.3
	f := &chart.Figure{Layout: chart.Layout{BarMode: chart.BarModeGroup, Width: 400, Title: "orig"}}
	opts := Options{BarMode: "stack", BarGap: &gap, Height: 250}
	opts.ApplyLayout(f)

	if f.Layout.BarMode != chart.BarModeStack || f.Layout.Height != 250 {
		t.Errorf("layout = %+v", f.Layout)
	}
	if f.Layout.Width != 400 || f.Layout.Title != "orig" {
		t.Error("unset overrides should keep figure values")
	}
	gap = 0.9
	if *f.Layout.BarGap != 0.3 {
		t.Error("ApplyLayout should copy gap values")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Style: "dark", Scale: 3, Titles: true, Records: true}
	if k := opts.ArtifactKeyOpts(FormatSVG); !k.Titles || k.Scale != 0 {
		t.Errorf("svg key opts = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatPNG); k.Scale != 3 || k.Titles {
		t.Errorf("png key opts = %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJSON); !k.Records || k.Style != "dark" {
		t.Errorf("json key opts = %+v", k)
	}
}

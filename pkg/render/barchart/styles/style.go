package styles

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Style defines the visual appearance of a rendered bar chart. SVG output
// calls the Render methods; raster output only reads the Palette.
type Style interface {
	// Name is the identifier used on the command line and in cache keys.
	Name() string
	// Palette returns the chrome colors.
	Palette() Palette
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderBar writes the SVG for a single bar.
	RenderBar(buf *bytes.Buffer, b Bar)
}

// Palette holds the colors used for everything except the bars themselves.
type Palette struct {
	Background string
	Plot       string
	Grid       string
	Axis       string
	Text       string
	FontFamily string
	FontSize   float64
}

// Bar contains all data needed to draw one bar.
type Bar struct {
	TraceID     string
	Index       int
	Path        string
	X, Y, W, H  float64 // Bounds
	Fill        string
	Stroke      string // Empty when the bar has no outline
	StrokeWidth float64
	Opacity     float64 // Marker opacity
	Title       string  // Hover text, empty for none
}

// ValidStyles lists the built-in styles by name.
var ValidStyles = map[string]func() Style{
	"simple": func() Style { return Simple{} },
	"dark":   func() Style { return Dark{} },
}

// Names returns the built-in style names, sorted.
func Names() []string {
	names := make([]string, 0, len(ValidStyles))
	for n := range ValidStyles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName returns the built-in style called name. An empty name selects
// Simple.
func ByName(name string) (Style, error) {
	if name == "" {
		return Simple{}, nil
	}
	mk, ok := ValidStyles[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown style %q (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

func writeBar(buf *bytes.Buffer, b Bar) {
	fmt.Fprintf(buf, `    <path class="bar" d="%s" fill="%s"`, b.Path, EscapeXML(b.Fill))
	if b.Opacity < 1 {
		fmt.Fprintf(buf, ` fill-opacity="%s"`, formatFloat(b.Opacity))
	}
	if b.Stroke != "" && b.StrokeWidth > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, EscapeXML(b.Stroke), formatFloat(b.StrokeWidth))
	}
	if b.Title == "" {
		buf.WriteString("/>\n")
		return
	}
	fmt.Fprintf(buf, "><title>%s</title></path>\n", EscapeXML(b.Title))
}

package styles

import "bytes"

// Simple is a light theme with a white background and grey grid.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) Palette() Palette {
	return Palette{
		Background: "#ffffff",
		Plot:       "#ffffff",
		Grid:       "#eeeeee",
		Axis:       "#444444",
		Text:       "#444444",
		FontFamily: "sans-serif",
		FontSize:   12,
	}
}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>\n    .bar:hover { filter: brightness(0.9); }\n  </style>\n")
}

func (Simple) RenderBar(buf *bytes.Buffer, b Bar) { writeBar(buf, b) }

// Dark is a dark theme for terminals and dark-mode pages.
type Dark struct{}

func (Dark) Name() string { return "dark" }

func (Dark) Palette() Palette {
	return Palette{
		Background: "#111111",
		Plot:       "#1b1b1b",
		Grid:       "#2e2e2e",
		Axis:       "#bbbbbb",
		Text:       "#dddddd",
		FontFamily: "sans-serif",
		FontSize:   12,
	}
}

func (Dark) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>\n    .bar:hover { filter: brightness(1.2); }\n  </style>\n")
}

func (Dark) RenderBar(buf *bytes.Buffer, b Bar) { writeBar(buf, b) }

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/barstack/pkg/observability"
)

const salesFigure = `{
  "data": [
    {"type": "bar", "name": "north", "x": ["q1", "q2", "q3"], "y": [2, 3, 1]},
    {"type": "bar", "name": "south", "x": ["q1", "q2", "q3"], "y": [1, 1, 4]}
  ],
  "layout": {"title": "Sales", "barmode": "stack", "width": 400, "height": 300}
}`

// testEnv writes a figure and a config with a private file cache.
func testEnv(t *testing.T) (dir, figure, config string) {
	t.Helper()
	t.Cleanup(observability.Reset)
	dir = t.TempDir()
	figure = filepath.Join(dir, "sales.json")
	config = filepath.Join(dir, "config.toml")
	cfg := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	for path, content := range map[string]string{figure: salesFigure, config: cfg} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, figure, config
}

func execute(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"render", "layout", "visualize", "inspect", "serve", "cache", "completion", "version"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		def  []string
		want []string
	}{
		{"", nil, []string{"svg"}},
		{"", []string{"png"}, []string{"png"}},
		{"svg", nil, []string{"svg"}},
		{"SVG, png ,json", nil, []string{"svg", "png", "json"}},
		{"svg,,", nil, []string{"svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, tt.def); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "charts/sales.json", "charts/sales"},
		{"", "sales.toml", "sales"},
		{"", "sales.scene.json", "sales"},
		{"", "-", "figure"},
		{"", "", "figure"},
		{"", "https://example.com/figs/q3.json", "q3"},
		{"out/chart.svg", "sales.json", "out/chart"},
		{"out/chart", "sales.json", "out/chart"},
		{"report.pdf", "sales.json", "report.pdf"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, filepath.Join(dir, "nested", "chart"), "")
	if err != nil {
		t.Fatalf("writeArtifacts error: %v", err)
	}
	want := []string{filepath.Join(dir, "nested", "chart.svg"), filepath.Join(dir, "nested", "chart.scene.json")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	single := filepath.Join(dir, "exact.name")
	paths, err = writeArtifacts(artifacts, []string{"svg"}, "ignored", single)
	if err != nil || len(paths) != 1 || paths[0] != single {
		t.Errorf("single format wrote %v, %v; want %s", paths, err, single)
	}

	if _, err := writeArtifacts(artifacts, []string{"png"}, filepath.Join(dir, "x"), ""); err == nil {
		t.Error("missing artifact should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	dir, figure, config := testEnv(t)
	base := filepath.Join(dir, "out", "sales")

	if _, err := execute(t, config, "render", figure, "-o", base, "-f", "svg,png,json", "--style", "dark"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".png", ".scene.json"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("missing output %s: %v", ext, err)
		}
	}

	svg, _ := os.ReadFile(base + ".svg")
	if !strings.Contains(string(svg), `fill="#111111"`) {
		t.Error("--style dark not applied")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir, figure, config := testEnv(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"render", figure, "-f", "gif"}, "gif"},
		{"bad style", []string{"render", figure, "--style", "neon"}, "neon"},
		{"bad barmode", []string{"render", figure, "--barmode", "sideways"}, "sideways"},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}, "FILE_NOT_FOUND"},
		{"no args", []string{"render"}, "arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, config, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	dir, figure, config := testEnv(t)

	if _, err := execute(t, config, "layout", figure); err != nil {
		t.Fatalf("layout: %v", err)
	}
	scene := filepath.Join(dir, "sales.scene.json")
	data, err := os.ReadFile(scene)
	if err != nil {
		t.Fatalf("layout output: %v", err)
	}
	if !strings.Contains(string(data), `"records"`) {
		t.Error("layout output should carry calc records")
	}

	out := filepath.Join(dir, "drawn.svg")
	if _, err := execute(t, config, "visualize", scene, "-o", out); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("visualize output: %v", err)
	}
	if n := strings.Count(string(svg), `class="bar"`); n != 6 {
		t.Errorf("visualized %d bars, want 6", n)
	}
}

func TestVisualizeMissingScene(t *testing.T) {
	dir, _, config := testEnv(t)
	_, err := execute(t, config, "visualize", filepath.Join(dir, "none.scene.json"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestInspectPlain(t *testing.T) {
	_, figure, config := testEnv(t)
	if _, err := execute(t, config, "inspect", "--plain", figure); err != nil {
		t.Fatalf("inspect: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	dir, figure, config := testEnv(t)

	out, err := execute(t, config, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(filepath.Join(dir, "cache")) {
		t.Errorf("cache path = %q", out)
	}

	if _, err := execute(t, config, "render", figure, "-o", filepath.Join(dir, "a.svg")); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, config, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	left, _ := filepath.Glob(filepath.Join(dir, "cache", "*", "*.json"))
	if len(left) != 0 {
		t.Errorf("%d entries left after clear", len(left))
	}
}

func TestVersionCommand(t *testing.T) {
	_, _, config := testEnv(t)
	out, err := execute(t, config, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version: ") {
		t.Errorf("version output = %q", out)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(1, 6, true)
	for _, want := range []string{"1 trace", "6 bars", "cached"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine = %q, missing %q", line, want)
		}
	}
	if !strings.Contains(statsLine(2, 1, false), "fresh") {
		t.Error("uncached run should say fresh")
	}
}

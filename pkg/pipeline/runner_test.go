package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/barstack/pkg/cache"
	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/observability"
)

const salesJSON = `{
  "data": [
    {"type": "bar", "name": "north", "x": ["q1", "q2", "q3"], "y": [2, 3, 1]},
    {"type": "bar", "name": "south", "x": ["q1", "q2", "q3"], "y": [1, 1, 4]}
  ],
  "layout": {"title": "Sales", "width": 400, "height": 300}
}`

const salesTOML = `
[layout]
barmode = "stack"

[[data]]
type = "bar"
x = ["a", "b"]
y = [1, 2]
`

func quietLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func writeFigure(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, quietLogger())
}

func TestExecute(t *testing.T) {
	r := fileRunner(t)
	opts := Options{
		Source:  writeFigure(t, "sales.json", salesJSON),
		BarMode: "stack",
		Formats: []string{"svg", "png", "json"},
	}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if res.Stats.TraceCount != 2 || res.Stats.SubplotCount != 1 || res.Stats.BarCount != 6 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.FigureHash == "" || res.SceneHash == "" {
		t.Error("hashes not set")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if res.Scene.BarMode != "stack" {
		t.Errorf("barmode override not applied: %s", res.Scene.BarMode)
	}

	if svg := string(res.Artifacts["svg"]); !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, ">Sales</text>") {
		t.Errorf("svg artifact looks wrong: %.80s", svg)
	}
	img, err := png.DecodeConfig(bytes.NewReader(res.Artifacts["png"]))
	if err != nil || img.Width != 800 {
		t.Errorf("png artifact = %+v, %v; want width 800 at default scale", img, err)
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"subplots"`)) {
		t.Error("json artifact missing subplots")
	}
	if bytes.Contains(res.Artifacts["json"], []byte(`"records"`)) {
		t.Error("json artifact should omit records by default")
	}

	// Second run is served from the cache.
	res, err = r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !res.CacheInfo.LayoutHit || !res.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", res.CacheInfo)
	}
	if res.Stats.BarCount != 6 {
		t.Errorf("cached scene has %d bars, want 6", res.Stats.BarCount)
	}
}

func TestExecuteOptionChangesMissCache(t *testing.T) {
	r := fileRunner(t)
	ctx := context.Background()
	src := writeFigure(t, "sales.json", salesJSON)

	if _, err := r.Execute(ctx, Options{Source: src}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Source: src, BarMode: "overlay"})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("different barmode should not reuse the cached layout")
	}

	res, err = r.Execute(ctx, Options{Source: src, Style: "dark"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("style change should reuse layout and re-render: %+v", res.CacheInfo)
	}
}

func TestExecutePartialRenderCache(t *testing.T) {
	r := fileRunner(t)
	ctx := context.Background()
	src := writeFigure(t, "sales.json", salesJSON)

	if _, err := r.Execute(ctx, Options{Source: src, Formats: []string{"svg"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, Options{Source: src, Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("render should not report a full hit when json was missing")
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestExecuteSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(salesJSON))
	}))
	defer srv.Close()

	tests := []struct {
		name  string
		opts  Options
		stdin string
		bars  int
	}{
		{"json file", Options{Source: writeFigure(t, "f.json", salesJSON)}, "", 6},
		{"toml file", Options{Source: writeFigure(t, "f.toml", salesTOML)}, "", 2},
		{"stdin", Options{Source: StdinSource}, salesTOML, 2},
		{"inline", Options{Figure: []byte(salesJSON)}, "", 6},
		{"url", Options{Source: srv.URL + "/sales.json"}, "", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(nil, nil, quietLogger())
			r.Stdin = strings.NewReader(tt.stdin)
			res, err := r.Execute(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if res.Stats.BarCount != tt.bars {
				t.Errorf("bars = %d, want %d", res.Stats.BarCount, tt.bars)
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"missing file", Options{Source: filepath.Join(t.TempDir(), "nope.json")}, errs.ErrCodeFileNotFound},
		{"bad figure", Options{Figure: []byte(`{"data": [`)}, errs.ErrCodeInvalidFigure},
		{"no traces", Options{Figure: []byte(`{"data": []}`)}, errs.ErrCodeInvalidFigure},
		{"bad format", Options{Figure: []byte(salesJSON), Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"bad style", Options{Figure: []byte(salesJSON), Style: "neon"}, errs.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, quietLogger()).Execute(context.Background(), tt.opts)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestRenderFromDecodedScene(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()
	res, err := r.Execute(ctx, Options{Figure: []byte(salesJSON), Formats: []string{"json"}, Records: true})
	if err != nil {
		t.Fatal(err)
	}

	scene, err := DecodeScene(res.Artifacts["json"])
	if err != nil {
		t.Fatalf("DecodeScene() error: %v", err)
	}
	if CountBars(scene) != 6 || len(scene.Subplots[0].Traces[0].Records) != 3 {
		t.Errorf("decoded scene lost data: %d bars", CountBars(scene))
	}

	artifacts, err := r.RenderScene(ctx, scene, Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatalf("RenderScene() error: %v", err)
	}
	if !bytes.Equal(artifacts["svg"], mustSVG(t, r, res)) {
		t.Error("re-rendered svg differs from direct render")
	}

	if _, err := DecodeScene([]byte(`{}`)); err == nil {
		t.Error("DecodeScene of an empty object should fail")
	}
}

func mustSVG(t *testing.T, r *Runner, res *Result) []byte {
	t.Helper()
	artifacts, err := r.RenderScene(context.Background(), res.Scene, Options{Formats: []string{"svg"}})
	if err != nil {
		t.Fatal(err)
	}
	return artifacts["svg"]
}

func TestRunnerHooks(t *testing.T) {
	stats := observability.NewStats()
	observability.SetPipelineHooks(stats)
	observability.SetCacheHooks(stats)
	defer observability.Reset()

	r := fileRunner(t)
	opts := Options{Figure: []byte(salesJSON), Formats: []string{"svg", "png"}}
	for range 2 {
		if _, err := r.Execute(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}

	snap := stats.Snapshot()
	if snap.Layouts != 1 || snap.Renders != 1 {
		t.Errorf("layouts=%d renders=%d, want 1 each", snap.Layouts, snap.Renders)
	}
	if snap.CacheHits["layout"] != 1 || snap.CacheHits["artifact"] != 2 || snap.CacheMisses["artifact"] != 2 {
		t.Errorf("cache hits=%v misses=%v", snap.CacheHits, snap.CacheMisses)
	}
}

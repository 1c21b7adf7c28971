package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/pipeline"
)

// renderCommand runs the full pipeline: load, layout and render.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		lf layoutFlags
		of outputFlags
	)

	cmd := &cobra.Command{
		Use:   "render [figure|-|url]",
		Short: "Render a figure to SVG, PNG or JSON",
		Long: `Render a figure to SVG, PNG or a JSON scene.

The figure is a JSON or TOML document naming bar and histogram traces and an
optional layout. Pass "-" to read from stdin or an http(s) URL to fetch it.
Flags override the figure's layout and the config file.

Layouts and artifacts are cached, so re-rendering an unchanged figure in a
different style only repeats the render step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Source = args[0]
			lf.apply(cmd, &opts)
			of.apply(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, of.output, lf.noCache)
		},
	}
	lf.register(cmd)
	of.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()


	spinner := newSpinnerWithContext(ctx, "Rendering "+opts.Source+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, basePath(output, opts.Source), output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", opts.Source)
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.TraceCount, res.Stats.BarCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	return nil
}

// artifactExt maps formats to file suffixes. JSON output is a scene that
// `visualize` can read back.
var artifactExt = map[string]string{
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatPNG:  ".png",
	pipeline.FormatJSON: ".scene.json",
}

// writeArtifacts writes one file per format. A single format with an
// explicit output path is written to that path as given.
func writeArtifacts(artifacts map[string][]byte, formats []string, base, output string) ([]string, error) {
	var paths []string
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", f)
		}
		path := base + artifactExt[f]
		if len(formats) == 1 && output != "" {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

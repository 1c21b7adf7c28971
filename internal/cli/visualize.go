package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/barstack/pkg/errors"
	"github.com/matzehuels/barstack/pkg/pipeline"
)

// visualizeCommand renders a scene written by 'layout' or 'render -f json'.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		of      outputFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [scene.json]",
		Short: "Render a computed scene",
		Long: `Render a computed scene to SVG, PNG or JSON.

The scene already holds every bar position, so this step only draws.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Source = args[0]
			of.apply(cmd, &opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), opts, of.output, noCache)
		},
	}
	of.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runVisualize(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	data, err := os.ReadFile(opts.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return errs.New(errs.ErrCodeFileNotFound, "scene %s not found", opts.Source)
		}
		return fmt.Errorf("read scene: %w", err)
	}
	scene, err := pipeline.DecodeScene(data)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering scene...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, basePath(output, opts.Source), output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", opts.Source)
	for _, p := range paths {
		printFile(p)
	}
	traces := 0
	for _, sp := range scene.Subplots {
		traces += len(sp.Traces)
	}
	printStats(traces, pipeline.CountBars(scene), hit)
	return nil
}

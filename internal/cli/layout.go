package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/pipeline"
)

// layoutCommand computes a scene without drawing it.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		lf     layoutFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [figure|-|url]",
		Short: "Compute bar positions and write them as a JSON scene",
		Long: `Compute bar positions and write them as a JSON scene.

The scene holds the resolved axes, per-trace bar layouts, calc records and
pixel rectangles. Render it later with 'visualize', or feed it to other
tools. The default output is <input>.scene.json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			opts.Source = args[0]
			lf.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), opts, output, lf.noCache)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	lf.register(cmd)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()


	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	fig, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	scene, hit, err := runner.LayoutWithCacheInfo(ctx, fig, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	opts.Records = true
	data, err := pipeline.RenderFormat(scene, pipeline.FormatJSON, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(map[string][]byte{pipeline.FormatJSON: data},
		[]string{pipeline.FormatJSON}, basePath(output, opts.Source), output)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(paths[0])
	printStats(len(fig.Traces), pipeline.CountBars(scene), hit)
	fmt.Println()
	printNextStep("Render", appName+" visualize "+paths[0])
	return nil
}

// Package cli implements the barstack command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barstack/pkg/buildinfo"
	"github.com/matzehuels/barstack/pkg/cache"
	"github.com/matzehuels/barstack/pkg/config"
	"github.com/matzehuels/barstack/pkg/observability"
	"github.com/matzehuels/barstack/pkg/pipeline"
)

// appName is used for display and default paths.
const appName = "barstack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath overrides the default config file location.
	ConfigPath string
	Config     config.Config
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Barstack lays out and renders bar charts",
		Long: `Barstack lays out bar and histogram traces the way plotting libraries do:
grouped, stacked or overlaid bars with gap handling, pixel snapping and
per-point styling. Figures are JSON or TOML documents; output is SVG, PNG or
a JSON scene.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/barstack/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	observability.Install(observability.NewLogHooks(c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.LayoutTTL = c.Config.Cache.LayoutTTL
	r.ArtifactTTL = c.Config.Cache.ArtifactTTL
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := c.Config.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "err", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file.
func (c *CLI) baseOptions() pipeline.Options {
	l, r := c.Config.Layout, c.Config.Render
	return pipeline.Options{
		BarMode:     l.BarMode,
		BarGap:      l.BarGap,
		BarGroupGap: l.BarGroupGap,
		Width:       l.Width,
		Height:      l.Height,
		Bins:        l.Bins,
		Formats:     append([]string(nil), r.Formats...),
		Style:       r.Style,
		Scale:       r.Scale,
		Titles:      r.Titles,
		Logger:      c.Logger,
	}
}

// parseFormats splits a comma-separated format list. Empty keeps def.
func parseFormats(s string, def []string) []string {
	if strings.TrimSpace(s) == "" {
		if len(def) == 0 {
			return []string{pipeline.FormatSVG}
		}
		return def
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// basePath derives the output path stem from the output flag or the input.
func basePath(output, input string) string {
	if output == "" {
		if input == "" || input == pipeline.StdinSource {
			return "figure"
		}
		name := input
		if i := strings.LastIndex(name, "/"); i >= 0 && strings.Contains(name, "://") {
			name = name[i+1:]
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))
		name = strings.TrimSuffix(name, ".scene")
		if name == "" {
			return "figure"
		}
		return name
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

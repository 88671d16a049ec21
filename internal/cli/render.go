package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "render [deck.yaml|grid.json]",
		Short: "Render a deck or a precomputed grid",
		Long: `Render a deck or a precomputed grid.

Given a deck file, render runs the full pipeline (measure, allocate, render).
Given a *.grid.json file (produced by 'allocate'), only the render stage runs.

Output formats:
  svg   grid preview (default) or structure diagram with -t diagram
  png   raster grid preview
  json  the grid serialization
  dot   Graphviz source (diagram only)

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated output formats: svg, png, json, dot")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().StringVarP(&opts.VizType, "type", "t", opts.VizType, "visualization type: grid (default), diagram")
	cmd.Flags().Float64Var(&opts.HeightBudget, "budget", opts.HeightBudget, "total height budget in pixels")
	cmd.Flags().Float64Var(&opts.MinRowHeight, "min-row-height", opts.MinRowHeight, "minimum row height in pixels")
	cmd.Flags().Float64Var(&opts.CellWidth, "cell-width", opts.CellWidth, "preview cell width in pixels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.ShowStats, "stats", opts.ShowStats, "add a fill-statistics footer")

	return cmd
}

// runRender renders the input to all requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var (
		artifacts map[string][]byte
		cacheHit  bool
		cards     int
		rows      int
	)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	if strings.HasSuffix(input, ".grid.json") {
		g, err := card.ReadGridFile(input)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load grid %s: %w", input, err)
		}
		artifacts, err = runner.Render(ctx, g, card.Deck{}, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
		cards, rows = g.CellCount(), g.RowCount()
	} else {
		deck, err := card.ReadDeckFile(input)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("load deck %s: %w", input, err)
		}
		result, err := runner.Execute(ctx, deck, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render: %w", err)
		}
		artifacts = result.Artifacts
		cacheHit = result.CacheInfo.RenderHit
		cards, rows = result.Stats.CardCount, result.Stats.RowCount
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".grid")
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(cards, rows, cacheHit)

	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/pipeline"
	"github.com/mhertel/cardgrid/pkg/watcher"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output   string
		formats  string
		debounce time.Duration
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "watch [deck.yaml]",
		Short: "Re-render a deck whenever its file changes",
		Long: `Re-render a deck whenever its file changes.

Watch runs the full pipeline once, then waits for writes to the deck file and
re-renders after each edit burst. A broken intermediate save (invalid YAML,
empty card body) is reported and skipped; the previous output stays in place.

Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runWatch(cmd.Context(), args[0], opts, output, debounce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated output formats: svg, png, json, dot")
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "delay before rebuilding after a change")

	cmd.Flags().StringVarP(&opts.VizType, "type", "t", opts.VizType, "visualization type: grid (default), diagram")
	cmd.Flags().Float64Var(&opts.HeightBudget, "budget", opts.HeightBudget, "total height budget in pixels")
	cmd.Flags().Float64Var(&opts.MinRowHeight, "min-row-height", opts.MinRowHeight, "minimum row height in pixels")
	cmd.Flags().BoolVar(&opts.ShowStats, "stats", opts.ShowStats, "add a fill-statistics footer")

	return cmd
}

// runWatch renders once, then rebuilds on every debounced file change.
func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string, debounce time.Duration) error {
	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	rebuild := func() {
		deck, err := card.ReadDeckFile(input)
		if err != nil {
			printError("Skipping: %v", err)
			return
		}
		result, err := runner.Execute(ctx, deck, opts)
		if err != nil {
			printError("Skipping: %v", err)
			return
		}
		for _, format := range opts.Formats {
			path := base + "." + format
			if err := writeArtifact(path, result.Artifacts[format]); err != nil {
				printError("Write %s: %v", path, err)
				return
			}
		}
		printSuccess("Rebuilt %s", input)
		printBudget(result.Grid.TotalHeight, result.Grid.HeightBudget, result.Grid.OverBudget)
	}

	rebuild()

	w, err := watcher.New(input, debounce)
	if err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}
	defer w.Close()

	printInfo("Watching %s (Ctrl-C to stop)", input)
	err = w.Run(ctx, rebuild)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func writeArtifact(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

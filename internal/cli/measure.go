package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/pipeline"
)

// measureCommand creates the measure command.
func (c *CLI) measureCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "measure [deck.yaml]",
		Short: "Measure the natural size of each card in a deck",
		Long: `Measure the natural size of each card in a deck.

The measure command wraps every card body at the column width and records the
resulting natural line count per card, grouped into grid rows. The output is a
measurements.json file that 'allocate' distributes the height budget over.

Measurement always reflects the full, unclamped content. Truncation only
happens later, when an allocation is applied.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMeasure(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.measurements.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().IntVar(&opts.Columns, "columns", opts.Columns, "number of grid columns")
	cmd.Flags().IntVar(&opts.ColumnWidth, "column-width", opts.ColumnWidth, "wrap width in characters")
	cmd.Flags().Float64Var(&opts.Overhead, "overhead", opts.Overhead, "per-cell chrome height (padding, title band)")
	cmd.Flags().Float64Var(&opts.LineHeight, "line-height", opts.LineHeight, "line height in pixels (0 = probe font or default)")
	cmd.Flags().StringVar(&opts.FontPath, "font", opts.FontPath, "TTF font file for line-height probing")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", opts.FontSize, "font size for line-height probing")

	return cmd
}

// runMeasure loads the deck, measures it, and writes the measurements file.
func (c *CLI) runMeasure(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	deck, err := card.ReadDeckFile(input)
	if err != nil {
		return fmt.Errorf("load deck %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	p := newProgress(c.Logger)

	m, cacheHit, err := runner.MeasureWithCacheInfo(ctx, deck, opts)
	if err != nil {
		return fmt.Errorf("measure deck: %w", err)
	}
	p.done(fmt.Sprintf("Measured %d cards", m.CellCount()))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".measurements.json"
	}

	if err := card.WriteMeasurementsFile(m, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Measurement complete")
	printFile(outputPath)
	printStats(m.CellCount(), len(m.Rows), cacheHit)
	printNewline()
	printNextStep("Allocate", "cardgrid allocate "+outputPath)

	return nil
}

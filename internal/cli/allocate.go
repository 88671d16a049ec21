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

// allocateCommand creates the allocate command.
func (c *CLI) allocateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "allocate [measurements.json]",
		Short: "Distribute the height budget across grid rows",
		Long: `Distribute the height budget across grid rows.

The allocate command takes a measurements.json file (produced by 'measure')
and computes a per-row line allocation. When everything fits, every row gets
its full natural size; otherwise rows start at their minimum and the
neediest rows grow line by line until the budget is spent.

The output is a grid.json file that 'render' turns into a preview.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAllocate(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.grid.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&opts.HeightBudget, "budget", opts.HeightBudget, "total height budget in pixels")
	cmd.Flags().Float64Var(&opts.MinRowHeight, "min-row-height", opts.MinRowHeight, "minimum row height in pixels")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iterations", opts.MaxIterations, "distribution iteration cap")

	return cmd
}

// runAllocate loads measurements, computes the grid, and writes output.
func (c *CLI) runAllocate(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	m, err := card.ReadMeasurementsFile(input)
	if err != nil {
		return fmt.Errorf("load measurements %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	p := newProgress(c.Logger)

	g, err := runner.Plan(ctx, m, opts)
	if err != nil {
		return fmt.Errorf("allocate: %w", err)
	}
	p.done(fmt.Sprintf("Allocated %d rows", g.RowCount()))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".measurements")
		outputPath = base + ".grid.json"
	}

	if err := card.WriteGridFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Allocation complete")
	printFile(outputPath)
	printBudget(g.TotalHeight, g.HeightBudget, g.OverBudget)
	printStats(g.CellCount(), g.RowCount(), false)
	printNewline()
	printNextStep("Render", "cardgrid render "+outputPath)

	return nil
}

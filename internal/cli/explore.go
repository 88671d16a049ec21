package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/measure"
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := c.pipelineOptions()

	cmd := &cobra.Command{
		Use:   "explore [deck.yaml]",
		Short: "Interactively explore budget trade-offs",
		Long: `Interactively explore budget trade-offs.

Explore measures the deck once, then lets you adjust the height budget with
the arrow keys and watch the per-row allocation, fill, and truncation react
live.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := card.ReadDeckFile(args[0])
			if err != nil {
				return fmt.Errorf("load deck %s: %w", args[0], err)
			}

			m, err := measure.Deck(deck, opts.MeasureOptions())
			if err != nil {
				return fmt.Errorf("measure deck: %w", err)
			}

			model := NewExplorerModel(m, opts.AllocateOptions())
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Float64Var(&opts.HeightBudget, "budget", opts.HeightBudget, "starting height budget in pixels")
	cmd.Flags().Float64Var(&opts.MinRowHeight, "min-row-height", opts.MinRowHeight, "minimum row height in pixels")
	cmd.Flags().IntVar(&opts.Columns, "columns", opts.Columns, "number of grid columns")
	cmd.Flags().IntVar(&opts.ColumnWidth, "column-width", opts.ColumnWidth, "wrap width in characters")

	return cmd
}

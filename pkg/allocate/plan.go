package allocate

import (
	"fmt"

	"github.com/mhertel/cardgrid/pkg/card"
)

// budgetEps absorbs float error when deciding whether a grid overran its
// budget.
const budgetEps = 1e-9

// Plan runs a full allocation pass over a set of measurements and assembles
// the resulting Grid: per-row line budgets, per-cell clamps, total height,
// and fill statistics.
//
// The per-cell clamp additionally caps the row budget at the cell's own
// natural length — the allocator hands out row budgets, but a cell is never
// told to show more lines than it has.
func Plan(m card.Measurements, opts Options) (card.Grid, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return card.Grid{}, fmt.Errorf("allocate options: %w", err)
	}
	if err := m.Validate(); err != nil {
		return card.Grid{}, fmt.Errorf("measurements: %w", err)
	}

	aggs := m.Aggregates(opts.MinRowHeight)
	alloc := Allocate(aggs, opts.HeightBudget, opts.MaxIterations)

	g := card.Grid{
		Columns:      m.Columns,
		HeightBudget: opts.HeightBudget,
		MinRowHeight: opts.MinRowHeight,
		Rows:         make([]card.RowPlan, len(m.Rows)),
	}

	for i, row := range m.Rows {
		plan := card.RowPlan{
			Lines:     alloc[i],
			Height:    aggs[i].Height(alloc[i]),
			Aggregate: aggs[i],
			Cells:     make([]card.CellClamp, len(row.Cells)),
		}
		for j, cell := range row.Cells {
			lines := min(alloc[i], cell.NaturalLines)
			plan.Cells[j] = card.CellClamp{
				CardID:       cell.CardID,
				Lines:        lines,
				Height:       float64(lines) * cell.LineHeight,
				NaturalLines: cell.NaturalLines,
			}
		}
		g.Rows[i] = plan
		g.TotalHeight += plan.Height
	}

	g.OverBudget = g.TotalHeight > opts.HeightBudget+budgetEps
	g.Stats = FillStats(g.Rows)

	return g, nil
}

package card

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Grid - Computed Allocation
// =============================================================================

// CellClamp is the per-cell output of the apply step: how many lines the
// cell may show and the resulting pixel height. Lines is the row's allocated
// budget additionally capped at the cell's own natural length — a cell is
// never told to show more lines than it has.
type CellClamp struct {
	CardID       string  `json:"card_id" bson:"card_id"`
	Lines        int     `json:"lines" bson:"lines"`
	Height       float64 `json:"height" bson:"height"`
	NaturalLines int     `json:"natural_lines" bson:"natural_lines"`
}

// Truncated reports whether the clamp hides part of the cell's content.
func (c CellClamp) Truncated() bool { return c.Lines < c.NaturalLines }

// RowPlan is one row's share of the computed grid.
type RowPlan struct {
	// Lines is the allocated line budget for the row.
	Lines int `json:"lines" bson:"lines"`

	// Height is the row's rendered height at the allocated line count.
	Height float64 `json:"height" bson:"height"`

	// Aggregate echoes the inputs the allocation was computed from.
	Aggregate RowAggregate `json:"aggregate" bson:"aggregate"`

	// Cells holds the per-cell clamps for the row.
	Cells []CellClamp `json:"cells" bson:"cells"`
}

// FillStats summarizes how much of the natural content the grid shows.
type FillStats struct {
	// MeanFill is the mean per-row fill ratio (allocated / natural, capped at 1).
	MeanFill float64 `json:"mean_fill" bson:"mean_fill"`

	// StdDevFill is the standard deviation of the per-row fill ratios.
	StdDevFill float64 `json:"stddev_fill" bson:"stddev_fill"`

	// MinFill is the worst per-row fill ratio.
	MinFill float64 `json:"min_fill" bson:"min_fill"`

	// TruncatedRows counts rows showing less than their natural content.
	TruncatedRows int `json:"truncated_rows" bson:"truncated_rows"`
}

// Grid is the full result of an allocation pass: one plan per row plus the
// configuration the allocation was computed under. It is recomputed from
// scratch on every pass; a serialized Grid is a rendering/export convenience
// and never feeds back into measurement.
type Grid struct {
	Title        string  `json:"title,omitempty" bson:"title,omitempty"`
	Columns      int     `json:"columns" bson:"columns"`
	HeightBudget float64 `json:"height_budget" bson:"height_budget"`
	MinRowHeight float64 `json:"min_row_height" bson:"min_row_height"`

	Rows []RowPlan `json:"rows" bson:"rows"`

	// TotalHeight is the sum of row heights. It exceeds HeightBudget only
	// when even the all-minimum allocation does not fit.
	TotalHeight float64 `json:"total_height" bson:"total_height"`

	// OverBudget marks the defined-behavior case where the readability floor
	// forces the grid past its budget.
	OverBudget bool `json:"over_budget,omitempty" bson:"over_budget,omitempty"`

	Stats FillStats `json:"stats" bson:"stats"`
}

// RowCount returns the number of rows in the grid.
func (g *Grid) RowCount() int { return len(g.Rows) }

// CellCount returns the total number of cells in the grid.
func (g *Grid) CellCount() int {
	n := 0
	for _, r := range g.Rows {
		n += len(r.Cells)
	}
	return n
}

// Allocation returns the per-row line counts as a plain slice.
func (g *Grid) Allocation() []int {
	lines := make([]int, len(g.Rows))
	for i, r := range g.Rows {
		lines[i] = r.Lines
	}
	return lines
}

// =============================================================================
// Grid Serialization API
// =============================================================================

// MarshalGrid serializes a Grid to pretty-printed JSON bytes.
func MarshalGrid(g Grid) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGrid deserializes JSON bytes into a Grid.
// Validates that the grid has rows and a positive column count.
func UnmarshalGrid(data []byte) (Grid, error) {
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return Grid{}, fmt.Errorf("unmarshal grid: %w", err)
	}
	if g.Columns < 1 {
		return Grid{}, fmt.Errorf("grid must have a positive column count")
	}
	if len(g.Rows) == 0 {
		return Grid{}, fmt.Errorf("grid must contain rows")
	}
	return g, nil
}

// ReadGridFile reads a Grid from a JSON file.
func ReadGridFile(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGrid(data)
}

// WriteGridFile writes a Grid to a JSON file.
func WriteGridFile(g Grid, path string) error {
	data, err := MarshalGrid(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

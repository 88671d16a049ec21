package allocate

import (
	"fmt"
	"slices"

	"github.com/mhertel/cardgrid/pkg/card"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI, API, and Pipeline
// =============================================================================

const (
	// DefaultMinRowHeight is the readability floor in height units: no row
	// is rendered shorter than this.
	DefaultMinRowHeight = 160.0

	// DefaultHeightBudget is the total vertical space available to the grid.
	DefaultHeightBudget = 740.0

	// DefaultColumns is the number of cells per row.
	DefaultColumns = 2

	// DefaultMaxIterations caps the number of distribution steps. The cap is
	// a safety valve, not an expected termination path: reaching it returns
	// the partial allocation accumulated so far.
	DefaultMaxIterations = 200
)

// Options configures an allocation pass.
type Options struct {
	// MinRowHeight is the readability floor each row's line floor is derived
	// from. Zero selects DefaultMinRowHeight.
	MinRowHeight float64

	// HeightBudget is the total height available to all rows. Zero selects
	// DefaultHeightBudget. Note that a deliberate zero budget cannot be
	// expressed through this struct; callers needing one should call
	// Allocate directly.
	HeightBudget float64

	// MaxIterations bounds the constrained-distribution loop. Zero selects
	// DefaultMaxIterations.
	MaxIterations int
}

// SetDefaults fills zero fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.MinRowHeight == 0 {
		o.MinRowHeight = DefaultMinRowHeight
	}
	if o.HeightBudget == 0 {
		o.HeightBudget = DefaultHeightBudget
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
}

// Validate checks the options for degenerate values.
func (o *Options) Validate() error {
	if o.MinRowHeight < 0 {
		return fmt.Errorf("min row height must be ≥ 0, got %g", o.MinRowHeight)
	}
	if o.HeightBudget < 0 {
		return fmt.Errorf("height budget must be ≥ 0, got %g", o.HeightBudget)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be ≥ 1, got %d", o.MaxIterations)
	}
	return nil
}

// =============================================================================
// Core Allocation
// =============================================================================

// Ideal returns the unconstrained allocation: every row shows its full
// natural content, but never fewer lines than its floor.
func Ideal(rows []card.RowAggregate) []int {
	alloc := make([]int, len(rows))
	for i, r := range rows {
		alloc[i] = max(r.MaxNaturalLines, r.MinLines)
	}
	return alloc
}

// TotalHeight returns the summed row height of an allocation.
func TotalHeight(rows []card.RowAggregate, alloc []int) float64 {
	var total float64
	for i, r := range rows {
		total += r.Height(alloc[i])
	}
	return total
}

// Allocate computes the per-row line allocation for the given aggregates and
// height budget. The result always satisfies MinLines(i) ≤ alloc[i] and
// alloc[i] ≤ max(MaxNaturalLines(i), MinLines(i)); the total height stays
// within the budget whenever the all-floor allocation does.
//
// Allocate assumes strictly positive line heights in the aggregates; the
// measurement layer is responsible for resolving degenerate values before
// they reach this function.
func Allocate(rows []card.RowAggregate, heightBudget float64, maxIterations int) []int {
	if len(rows) == 0 {
		return nil
	}

	// Phase 1: ideal fit. Common case for short content and low row counts.
	ideal := Ideal(rows)
	if TotalHeight(rows, ideal) <= heightBudget {
		return ideal
	}

	// Phase 2: constrained distribution from the all-floor allocation.
	return distribute(rows, heightBudget, maxIterations)
}

// distribute grants single lines on top of the all-floor allocation until
// the budget is exhausted, every needy row is saturated, or the iteration
// cap trips.
func distribute(rows []card.RowAggregate, heightBudget float64, maxIterations int) []int {
	alloc := make([]int, len(rows))
	var total float64
	for i, r := range rows {
		alloc[i] = r.MinLines
		total += r.Height(r.MinLines)
	}

	// Priority order: rows with unclamped content first, by remaining need
	// descending. The stable sort keeps original row order on ties.
	order := make([]int, 0, len(rows))
	for i := range rows {
		if rows[i].RemainingNeed() > 0 {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return rows[b].RemainingNeed() - rows[a].RemainingNeed()
	})
	if len(order) == 0 {
		return alloc
	}

	ptr := 0
	for iter := 0; iter < maxIterations; iter++ {
		if ptr >= len(order) {
			// Wrap around only while some row can still grow. Budget math is
			// not monotonic per row: a row skipped earlier may fit after a
			// cheaper row failed to.
			growable := false
			for _, idx := range order {
				if alloc[idx] < rows[idx].MaxNaturalLines {
					growable = true
					break
				}
			}
			if !growable {
				break
			}
			ptr = 0
		}

		idx := order[ptr]
		if alloc[idx] >= rows[idx].MaxNaturalLines {
			ptr++
			continue
		}

		// Adding one line to row idx raises the total by exactly the row's
		// average line height; re-check the exact cumulative height before
		// committing.
		if total+rows[idx].AvgLineHeight <= heightBudget {
			alloc[idx]++
			total += rows[idx].AvgLineHeight
			if alloc[idx] >= rows[idx].MaxNaturalLines {
				ptr++
			}
		} else {
			ptr++
		}
	}

	return alloc
}

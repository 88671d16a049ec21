package allocate

import (
	"gonum.org/v1/gonum/stat"

	"github.com/mhertel/cardgrid/pkg/card"
)

// FillStats summarizes how much of its natural content each row shows.
// The fill ratio of a row is allocated lines over natural lines, capped at 1
// (rows forced above their natural length by the floor count as fully shown).
func FillStats(rows []card.RowPlan) card.FillStats {
	if len(rows) == 0 {
		return card.FillStats{MinFill: 1, MeanFill: 1}
	}

	fills := make([]float64, len(rows))
	truncated := 0
	for i, r := range rows {
		fill := 1.0
		if r.Aggregate.MaxNaturalLines > 0 && r.Lines < r.Aggregate.MaxNaturalLines {
			fill = float64(r.Lines) / float64(r.Aggregate.MaxNaturalLines)
			truncated++
		}
		fills[i] = fill
	}

	s := card.FillStats{
		MeanFill:      stat.Mean(fills, nil),
		MinFill:       slicesMin(fills),
		TruncatedRows: truncated,
	}
	if len(fills) > 1 {
		s.StdDevFill = stat.StdDev(fills, nil)
	}
	return s
}

func slicesMin(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

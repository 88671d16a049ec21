package card

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// =============================================================================
// CellMeasurement - One Grid Cell's Text Geometry
// =============================================================================

// CellMeasurement captures one cell's text geometry, taken from the
// *unclamped* content. No field is ever derived from a previous allocation;
// re-deriving from clamped state would compound measurement error across
// passes.
type CellMeasurement struct {
	// CardID identifies the measured card for pairing clamps back to cells.
	CardID string `json:"card_id" bson:"card_id"`

	// NaturalLines is the number of line units needed to show all content
	// unclamped. Always ≥ 1.
	NaturalLines int `json:"natural_lines" bson:"natural_lines"`

	// LineHeight is the height of one rendered line, in the same units as
	// the grid's height budget. Always > 0.
	LineHeight float64 `json:"line_height" bson:"line_height"`

	// Overhead is padding/margin height that does not scale with the line
	// count. Always ≥ 0.
	Overhead float64 `json:"overhead" bson:"overhead"`
}

// Validate checks the measurement's numeric invariants.
func (m *CellMeasurement) Validate() error {
	if m.NaturalLines < 1 {
		return fmt.Errorf("cell %s: natural line count must be ≥ 1, got %d", m.CardID, m.NaturalLines)
	}
	if m.LineHeight <= 0 {
		return fmt.Errorf("cell %s: line height must be positive, got %g", m.CardID, m.LineHeight)
	}
	if m.Overhead < 0 {
		return fmt.Errorf("cell %s: overhead must be ≥ 0, got %g", m.CardID, m.Overhead)
	}
	return nil
}

// =============================================================================
// Row and RowAggregate
// =============================================================================

// Row groups the cell measurements that share one allocated line budget and
// one rendered height.
type Row struct {
	Cells []CellMeasurement `json:"cells" bson:"cells"`
}

// RowAggregate is the per-row summary the allocator works with, derived once
// from the row's member cells.
type RowAggregate struct {
	// MaxNaturalLines is the largest natural line count among the row's cells.
	MaxNaturalLines int `json:"max_natural_lines" bson:"max_natural_lines"`

	// AvgLineHeight is the arithmetic mean of the cells' line heights.
	AvgLineHeight float64 `json:"avg_line_height" bson:"avg_line_height"`

	// AvgOverhead is the arithmetic mean of the cells' fixed overheads.
	AvgOverhead float64 `json:"avg_overhead" bson:"avg_overhead"`

	// MinLines is the readability floor: the smallest line count that keeps
	// the row at or above the configured minimum row height. Always ≥ 1.
	// MinLines may exceed MaxNaturalLines for very short content; the
	// allocator treats such rows as having no room to grow.
	MinLines int `json:"min_lines" bson:"min_lines"`
}

// Aggregate derives the row summary from its cells for a given minimum row
// height. Rows with no cells yield a zero aggregate.
func (r Row) Aggregate(minRowHeight float64) RowAggregate {
	if len(r.Cells) == 0 {
		return RowAggregate{}
	}

	var agg RowAggregate
	var sumLH, sumOH float64
	for _, c := range r.Cells {
		if c.NaturalLines > agg.MaxNaturalLines {
			agg.MaxNaturalLines = c.NaturalLines
		}
		sumLH += c.LineHeight
		sumOH += c.Overhead
	}
	n := float64(len(r.Cells))
	agg.AvgLineHeight = sumLH / n
	agg.AvgOverhead = sumOH / n

	agg.MinLines = int(math.Ceil((minRowHeight - agg.AvgOverhead) / agg.AvgLineHeight))
	if agg.MinLines < 1 {
		agg.MinLines = 1
	}
	return agg
}

// Height returns the row's rendered height for a given line count:
// lines × average line height + average overhead.
func (a RowAggregate) Height(lines int) float64 {
	return float64(lines)*a.AvgLineHeight + a.AvgOverhead
}

// RemainingNeed returns how many lines the row could still use beyond its
// floor. Rows whose floor already covers (or exceeds) their natural content
// report zero and take no part in constrained distribution.
func (a RowAggregate) RemainingNeed() int {
	need := a.MaxNaturalLines - a.MinLines
	if need < 0 {
		return 0
	}
	return need
}

// =============================================================================
// Measurements - Measure Stage Output
// =============================================================================

// Measurements is the output of the measure stage: cells grouped into rows,
// plus the column count used for grouping.
type Measurements struct {
	Columns int   `json:"columns" bson:"columns"`
	Rows    []Row `json:"rows" bson:"rows"`
}

// Aggregates derives the per-row aggregates for a given minimum row height.
func (m Measurements) Aggregates(minRowHeight float64) []RowAggregate {
	aggs := make([]RowAggregate, len(m.Rows))
	for i, r := range m.Rows {
		aggs[i] = r.Aggregate(minRowHeight)
	}
	return aggs
}

// CellCount returns the total number of measured cells.
func (m Measurements) CellCount() int {
	n := 0
	for _, r := range m.Rows {
		n += len(r.Cells)
	}
	return n
}

// Validate checks every cell measurement.
func (m Measurements) Validate() error {
	if m.Columns < 1 {
		return fmt.Errorf("columns must be ≥ 1, got %d", m.Columns)
	}
	for i, r := range m.Rows {
		if len(r.Cells) == 0 {
			return fmt.Errorf("row %d has no cells", i)
		}
		for _, c := range r.Cells {
			if err := c.Validate(); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
		}
	}
	return nil
}

// =============================================================================
// Measurements Serialization API
// =============================================================================

// MarshalMeasurements serializes Measurements to pretty-printed JSON bytes.
func MarshalMeasurements(m Measurements) ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// UnmarshalMeasurements deserializes JSON bytes into Measurements and
// validates them.
func UnmarshalMeasurements(data []byte) (Measurements, error) {
	var m Measurements
	if err := json.Unmarshal(data, &m); err != nil {
		return Measurements{}, fmt.Errorf("unmarshal measurements: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Measurements{}, err
	}
	return m, nil
}

// ReadMeasurementsFile reads Measurements from a JSON file.
func ReadMeasurementsFile(path string) (Measurements, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Measurements{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalMeasurements(data)
}

// WriteMeasurementsFile writes Measurements to a JSON file.
func WriteMeasurementsFile(m Measurements, path string) error {
	data, err := MarshalMeasurements(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

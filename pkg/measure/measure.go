package measure

import (
	"fmt"
	"math"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultColumns is the number of cells per row.
	DefaultColumns = 2

	// DefaultColumnWidth is the text wrapping width per cell, in display
	// cells.
	DefaultColumnWidth = 46

	// DefaultOverhead is the fixed per-cell padding height that does not
	// scale with the line count.
	DefaultOverhead = 16.0
)

// Options configures a measurement pass.
type Options struct {
	// Columns is the number of cells per row. Zero selects DefaultColumns.
	Columns int

	// ColumnWidth is the wrapping width per cell in display cells.
	// Zero selects DefaultColumnWidth.
	ColumnWidth int

	// Overhead is the fixed non-text height per cell. Negative values are
	// rejected; zero is a legitimate "no padding".
	Overhead float64

	// Typeface resolves the line-unit height.
	Typeface Typeface
}

// SetDefaults fills zero fields with the package defaults. Overhead is left
// alone: zero overhead is meaningful.
func (o *Options) SetDefaults() {
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if o.ColumnWidth == 0 {
		o.ColumnWidth = DefaultColumnWidth
	}
}

// Validate checks the options for degenerate values.
func (o *Options) Validate() error {
	if o.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "columns must be ≥ 1, got %d", o.Columns)
	}
	if o.ColumnWidth < 1 {
		return errors.New(errors.ErrCodeInvalidOptions, "column width must be ≥ 1, got %d", o.ColumnWidth)
	}
	if o.Overhead < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "overhead must be ≥ 0, got %g", o.Overhead)
	}
	return nil
}

// =============================================================================
// Measurement
// =============================================================================

// NaturalLines converts an unclamped content height into discrete line
// units: ceil(contentHeight / lineHeight), never less than 1. This is the
// primitive every cell measurement reduces to.
func NaturalLines(contentHeight, lineHeight float64) int {
	if lineHeight <= 0 || contentHeight <= 0 {
		return 1
	}
	return int(math.Ceil(contentHeight / lineHeight))
}

// Deck measures every card in the deck and groups the results into rows.
//
// A structurally invalid deck (no cards, or a card without a body) aborts
// the whole pass: substituting a zero measurement would corrupt the row
// aggregates downstream.
func Deck(d card.Deck, opts Options) (card.Measurements, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return card.Measurements{}, err
	}
	if err := d.Validate(); err != nil {
		return card.Measurements{}, err
	}

	lineHeight, err := opts.Typeface.Resolve()
	if err != nil {
		return card.Measurements{}, err
	}

	cells := make([]card.CellMeasurement, len(d.Cards))
	for i, c := range d.Cards {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("card-%d", i)
		}

		lines := WrapLines(c.Body, opts.ColumnWidth)
		contentHeight := float64(lines) * lineHeight

		cells[i] = card.CellMeasurement{
			CardID:       id,
			NaturalLines: NaturalLines(contentHeight, lineHeight),
			LineHeight:   lineHeight,
			Overhead:     opts.Overhead,
		}
	}

	return card.Measurements{
		Columns: opts.Columns,
		Rows:    GroupRows(cells, opts.Columns),
	}, nil
}

// GroupRows partitions a flat cell sequence into consecutive rows of the
// given column count. A trailing partial row is allowed: an odd cell count
// with two columns yields a final single-cell row.
func GroupRows(cells []card.CellMeasurement, columns int) []card.Row {
	if columns < 1 {
		columns = 1
	}
	rows := make([]card.Row, 0, (len(cells)+columns-1)/columns)
	for start := 0; start < len(cells); start += columns {
		end := min(start+columns, len(cells))
		rows = append(rows, card.Row{Cells: cells[start:end]})
	}
	return rows
}

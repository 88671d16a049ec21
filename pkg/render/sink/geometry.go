package sink

import "github.com/mhertel/cardgrid/pkg/card"

// Default preview geometry, in pixels.
const (
	defaultCellWidth = 320.0
	defaultGutter    = 12.0
	defaultMargin    = 20.0
)

// cellBox is one cell's drawing rectangle plus its clamp.
type cellBox struct {
	X, Y, W, H float64
	Clamp      card.CellClamp
}

// rowBox is one row band.
type rowBox struct {
	Y, H  float64
	Lines int
	Cells []cellBox
}

// frame is the full preview geometry for a grid.
type frame struct {
	Width, Height float64
	BudgetY       float64 // y of the height-budget line, 0 if not drawn
	Rows          []rowBox
}

// computeFrame lays the grid out on the page. Row heights map 1:1 to pixels;
// the height budget, when it falls inside the drawn area, is recorded so
// sinks can draw a budget marker.
func computeFrame(g *card.Grid, cellWidth, gutter, margin float64) frame {
	f := frame{
		Width: margin*2 + float64(g.Columns)*cellWidth + float64(g.Columns-1)*gutter,
		Rows:  make([]rowBox, len(g.Rows)),
	}

	y := margin
	for i, row := range g.Rows {
		rb := rowBox{Y: y, H: row.Height, Lines: row.Lines, Cells: make([]cellBox, len(row.Cells))}
		for j, clamp := range row.Cells {
			rb.Cells[j] = cellBox{
				X:     margin + float64(j)*(cellWidth+gutter),
				Y:     y,
				W:     cellWidth,
				H:     row.Height,
				Clamp: clamp,
			}
		}
		f.Rows[i] = rb
		y += row.Height + gutter
	}
	f.Height = y - gutter + margin

	if g.OverBudget {
		f.BudgetY = margin + g.HeightBudget
	}
	return f
}

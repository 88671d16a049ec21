package sink

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/mhertel/cardgrid/pkg/card"
)

// Cell interior spacing.
const (
	cellPadX   = 8.0
	titleBandH = 22.0
)

// Preview styles.
const (
	styleBackground = "fill:#ffffff"
	styleCell       = "fill:#f8f9fa;stroke:#343a40;stroke-width:1"
	styleTitle      = "font-family:sans-serif;font-size:12px;font-weight:bold;fill:#212529"
	styleLineBar    = "fill:#ced4da"
	styleTruncated  = "font-family:sans-serif;font-size:10px;fill:#868e96"
	styleRowLabel   = "font-family:sans-serif;font-size:10px;fill:#adb5bd"
	styleBudget     = "stroke:#e03131;stroke-width:1;stroke-dasharray:6,4"
	styleBudgetText = "font-family:sans-serif;font-size:10px;fill:#e03131"
	styleStats      = "font-family:sans-serif;font-size:11px;fill:#495057"
)

// RenderSVG renders the grid preview as an SVG document.
func RenderSVG(g card.Grid, opts ...Option) []byte {
	r := newRenderer(opts)
	f := computeFrame(&g, r.cellWidth, r.gutter, r.margin)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(f.Width), int(f.Height))
	canvas.Rect(0, 0, int(f.Width), int(f.Height), styleBackground)

	for i, row := range f.Rows {
		canvas.Text(4, int(row.Y+12), fmt.Sprintf("r%d ×%d", i, row.Lines), styleRowLabel)
		for _, cell := range row.Cells {
			drawSVGCell(canvas, r, cell)
		}
	}

	if f.BudgetY > 0 {
		y := int(f.BudgetY)
		canvas.Line(0, y, int(f.Width), y, styleBudget)
		canvas.Text(4, y-4, "height budget", styleBudgetText)
	}

	if r.showStats {
		canvas.Text(int(r.margin), int(f.Height-6),
			fmt.Sprintf("fill %.0f%% (min %.0f%%), %d truncated row(s)",
				g.Stats.MeanFill*100, g.Stats.MinFill*100, g.Stats.TruncatedRows),
			styleStats)
	}

	canvas.End()
	return buf.Bytes()
}

// drawSVGCell draws one cell: the box, the title, one bar per visible line,
// and a truncation marker when content is hidden.
func drawSVGCell(canvas *svg.SVG, r *renderer, cell cellBox) {
	canvas.Rect(int(cell.X), int(cell.Y), int(cell.W), int(cell.H), styleCell)
	canvas.Text(int(cell.X+cellPadX), int(cell.Y+15), r.label(cell.Clamp), styleTitle)

	if cell.Clamp.Lines > 0 {
		lineH := cell.Clamp.Height / float64(cell.Clamp.Lines)
		barH := lineH * 0.45
		for i := 0; i < cell.Clamp.Lines; i++ {
			y := cell.Y + titleBandH + float64(i)*lineH
			canvas.Rect(int(cell.X+cellPadX), int(y), int(cell.W-2*cellPadX), int(barH), styleLineBar)
		}
	}

	if cell.Clamp.Truncated() {
		canvas.Text(int(cell.X+cellPadX), int(cell.Y+cell.H-6),
			fmt.Sprintf("+%d line(s) hidden", cell.Clamp.NaturalLines-cell.Clamp.Lines),
			styleTruncated)
	}
}

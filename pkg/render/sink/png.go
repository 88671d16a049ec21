package sink

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/mhertel/cardgrid/pkg/card"
)

// RenderPNG renders the grid preview as a PNG image. Use WithScale for
// high-DPI output.
func RenderPNG(g card.Grid, opts ...Option) ([]byte, error) {
	r := newRenderer(opts)
	f := computeFrame(&g, r.cellWidth, r.gutter, r.margin)

	dc := gg.NewContext(int(f.Width*r.scale), int(f.Height*r.scale))
	dc.Scale(r.scale, r.scale)

	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for i, row := range f.Rows {
		dc.SetRGB255(173, 181, 189)
		dc.DrawString(fmt.Sprintf("r%d x%d", i, row.Lines), 4, row.Y+12)
		for _, cell := range row.Cells {
			drawPNGCell(dc, r, cell)
		}
	}

	if f.BudgetY > 0 {
		dc.SetRGB255(224, 49, 49)
		dc.SetDash(6, 4)
		dc.DrawLine(0, f.BudgetY, f.Width, f.BudgetY)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.SetDash()
		dc.DrawString("height budget", 4, f.BudgetY-4)
	}

	if r.showStats {
		dc.SetRGB255(73, 80, 87)
		dc.DrawString(fmt.Sprintf("fill %.0f%% (min %.0f%%), %d truncated row(s)",
			g.Stats.MeanFill*100, g.Stats.MinFill*100, g.Stats.TruncatedRows),
			r.margin, f.Height-6)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawPNGCell(dc *gg.Context, r *renderer, cell cellBox) {
	dc.DrawRectangle(cell.X, cell.Y, cell.W, cell.H)
	dc.SetRGB255(248, 249, 250)
	dc.FillPreserve()
	dc.SetRGB255(52, 58, 64)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.SetRGB255(33, 37, 41)
	dc.DrawString(r.label(cell.Clamp), cell.X+cellPadX, cell.Y+15)

	if cell.Clamp.Lines > 0 {
		lineH := cell.Clamp.Height / float64(cell.Clamp.Lines)
		barH := lineH * 0.45
		dc.SetRGB255(206, 212, 218)
		for i := 0; i < cell.Clamp.Lines; i++ {
			y := cell.Y + titleBandH + float64(i)*lineH
			dc.DrawRectangle(cell.X+cellPadX, y, cell.W-2*cellPadX, barH)
			dc.Fill()
		}
	}

	if cell.Clamp.Truncated() {
		dc.SetRGB255(134, 142, 150)
		dc.DrawString(fmt.Sprintf("+%d line(s) hidden", cell.Clamp.NaturalLines-cell.Clamp.Lines),
			cell.X+cellPadX, cell.Y+cell.H-6)
	}
}

package measure

import (
	"fmt"

	"github.com/fogleman/gg"
)

// probeGlyph is the reference glyph rendered to resolve an indeterminate
// line height. "M" spans the full em square in most faces.
const probeGlyph = "M"

// lineSpacing converts a glyph's rendered height into a line-unit height.
// 1.5 matches the renderer's default line spacing.
const lineSpacing = 1.5

// probeLineHeight renders the reference glyph into a throwaway 1×1 context
// and reads its rendered height. The context is scoped to this call and
// garbage-collected with it, so the probe leaves nothing behind.
func probeLineHeight(fontPath string, fontSize float64) (float64, error) {
	dc := gg.NewContext(1, 1)
	if err := dc.LoadFontFace(fontPath, fontSize); err != nil {
		return 0, fmt.Errorf("load font face: %w", err)
	}

	_, h := dc.MeasureString(probeGlyph)
	if h <= 0 {
		return 0, fmt.Errorf("reference glyph measured non-positive height %g", h)
	}
	return h * lineSpacing, nil
}

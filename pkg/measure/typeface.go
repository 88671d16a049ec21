package measure

import (
	"github.com/mhertel/cardgrid/pkg/errors"
)

// DefaultLineHeight is the positive fallback used when no line height is
// configured and no font is available to probe. The allocator's height
// arithmetic requires a strictly positive value.
const DefaultLineHeight = 20.0

// Typeface describes how line heights are resolved for a measurement pass.
//
// When LineHeight is set it is used directly. When it is zero — the
// configuration equivalent of an indeterminate style value — the height is
// resolved by rendering a single reference glyph with the configured font
// and reading its rendered extent (see probeLineHeight). With no font
// configured either, DefaultLineHeight applies.
type Typeface struct {
	// LineHeight is the height of one line in grid height units.
	// Zero means "resolve it for me".
	LineHeight float64 `json:"line_height,omitempty" toml:"line_height"`

	// FontPath is a TTF file used by the reference-glyph probe.
	FontPath string `json:"font_path,omitempty" toml:"font_path"`

	// FontSize is the point size used by the probe. Zero selects 13.
	FontSize float64 `json:"font_size,omitempty" toml:"font_size"`
}

// Resolve returns a concrete, strictly positive line-unit height.
// Negative configured values are rejected rather than silently corrected:
// they indicate a broken configuration, not an indeterminate one.
func (t Typeface) Resolve() (float64, error) {
	if t.LineHeight < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOptions, "line height must not be negative, got %g", t.LineHeight)
	}
	if t.LineHeight > 0 {
		return t.LineHeight, nil
	}
	if t.FontPath != "" {
		size := t.FontSize
		if size <= 0 {
			size = 13
		}
		h, err := probeLineHeight(t.FontPath, size)
		if err != nil {
			return 0, errors.Wrap(errors.ErrCodeMeasurement, err, "probe line height from %s", t.FontPath)
		}
		return h, nil
	}
	return DefaultLineHeight, nil
}

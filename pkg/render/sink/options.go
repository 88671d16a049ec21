package sink

import (
	"fmt"

	"github.com/mhertel/cardgrid/pkg/card"
)

// Option configures the SVG and PNG sinks.
type Option func(*renderer)

type renderer struct {
	titles    map[string]string
	cellWidth float64
	gutter    float64
	margin    float64
	scale     float64
	showStats bool
}

// WithDeck attaches the source deck so cells are labeled with card titles.
// Without it, cells are labeled with their card IDs.
func WithDeck(d card.Deck) Option {
	return func(r *renderer) { r.titles = titleIndex(d) }
}

// WithCellWidth overrides the preview cell width in pixels.
func WithCellWidth(w float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.cellWidth = w
		}
	}
}

// WithScale sets the raster scale factor for PNG output. 2.0 produces a 2x
// resolution image for high-DPI displays. The SVG sink ignores it.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithStats adds a fill-statistics footer to the preview.
func WithStats() Option {
	return func(r *renderer) { r.showStats = true }
}

func newRenderer(opts []Option) *renderer {
	r := &renderer{
		cellWidth: defaultCellWidth,
		gutter:    defaultGutter,
		margin:    defaultMargin,
		scale:     1.0,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// label returns the display label for a cell: the card title when a deck is
// attached and has one, otherwise the card ID.
func (r *renderer) label(clamp card.CellClamp) string {
	if t, ok := r.titles[clamp.CardID]; ok && t != "" {
		return t
	}
	return clamp.CardID
}

// titleIndex maps card IDs to titles using the same ID-defaulting rule as
// the measurement pass (card-<index> for cards without IDs).
func titleIndex(d card.Deck) map[string]string {
	idx := make(map[string]string, len(d.Cards))
	for i, c := range d.Cards {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("card-%d", i)
		}
		idx[id] = c.Title
	}
	return idx
}

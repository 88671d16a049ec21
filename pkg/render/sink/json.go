package sink

import "github.com/mhertel/cardgrid/pkg/card"

// RenderJSON renders the grid as pretty-printed JSON. This is the same
// serialization used for grid files, so a JSON artifact can be fed back to
// the render stage later.
func RenderJSON(g card.Grid) ([]byte, error) {
	return card.MarshalGrid(g)
}

package pipeline

import (
	"fmt"

	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/render/diagram"
	"github.com/mhertel/cardgrid/pkg/render/sink"
)

// renderArtifact renders one format for one visualization type. The grid
// preview handles svg, png and json; the structure diagram handles svg, dot
// and json. JSON output is the grid serialization either way.
func renderArtifact(g card.Grid, deck card.Deck, format string, opts Options) ([]byte, error) {
	if format == FormatJSON {
		return sink.RenderJSON(g)
	}

	if opts.IsDiagram() {
		switch format {
		case FormatDOT:
			return []byte(diagram.ToDOT(g)), nil
		case FormatSVG:
			return diagram.RenderSVG(diagram.ToDOT(g))
		default:
			return nil, fmt.Errorf("format %q is not supported for diagram output", format)
		}
	}

	sinkOpts := []sink.Option{
		sink.WithCellWidth(opts.CellWidth),
		sink.WithScale(opts.Scale),
	}
	if len(deck.Cards) > 0 {
		sinkOpts = append(sinkOpts, sink.WithDeck(deck))
	}
	if opts.ShowStats {
		sinkOpts = append(sinkOpts, sink.WithStats())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(g, sinkOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(g, sinkOpts...)
	default:
		return nil, fmt.Errorf("format %q is not supported for grid output", format)
	}
}

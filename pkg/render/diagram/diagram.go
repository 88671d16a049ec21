// Package diagram renders a structural diagram of a computed grid via
// Graphviz: one node per row showing its allocated budget, one node per
// cell showing its clamp. The diagram is a debugging aid for understanding
// why the allocator gave a row its budget; the grid preview lives in
// package sink.
package diagram

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/mhertel/cardgrid/pkg/card"
)

// ToDOT converts a grid to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG] or any external Graphviz tool.
func ToDOT(g card.Grid) string {
	var buf bytes.Buffer
	buf.WriteString("digraph grid {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  budget [label=\"budget %.0f\\ntotal %.1f\", shape=note, fillcolor=%s];\n",
		g.HeightBudget, g.TotalHeight, budgetColor(g))

	for i, row := range g.Rows {
		rowID := fmt.Sprintf("row%d", i)
		fmt.Fprintf(&buf, "  %s [label=\"row %d\\n%d lines, h %.1f\\nfloor %d, natural %d\", fillcolor=lightyellow];\n",
			rowID, i, row.Lines, row.Height, row.Aggregate.MinLines, row.Aggregate.MaxNaturalLines)
		fmt.Fprintf(&buf, "  budget -> %s;\n", rowID)

		for j, clamp := range row.Cells {
			cellID := fmt.Sprintf("cell%d_%d", i, j)
			fmt.Fprintf(&buf, "  %s [label=%q%s];\n", cellID, cellLabel(clamp), cellAttrs(clamp))
			fmt.Fprintf(&buf, "  %s -> %s;\n", rowID, cellID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func budgetColor(g card.Grid) string {
	if g.OverBudget {
		return "mistyrose"
	}
	return "honeydew"
}

func cellLabel(c card.CellClamp) string {
	if c.Truncated() {
		return fmt.Sprintf("%s\n%d/%d lines", c.CardID, c.Lines, c.NaturalLines)
	}
	return fmt.Sprintf("%s\n%d lines", c.CardID, c.Lines)
}

func cellAttrs(c card.CellClamp) string {
	if c.Truncated() {
		return ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
	}
	return ""
}

// RenderSVG renders a DOT diagram to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	gv := graphviz.New()
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

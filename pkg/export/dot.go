// Package export writes a constraint graph in Graphviz DOT and SVG form.
// Positions are projected onto the XY plane and pinned with the neato "!"
// suffix so the layout follows the mesh.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/chazu/roft/pkg/graph"
	"github.com/pkg/errors"
)

// Palette names the fill color of each constraint color. Colors past the
// end wrap around.
var Palette = []string{
	"azure", "skyblue", "pink", "crimson", "peru",
	"orange", "gold", "lawngreen", "cyan", "blueviolet",
	"lavender", "mediumblue", "limegreen", "chocolate", "plum",
	"yellowgreen", "royalblue", "hotpink", "darkslategray",
	"darkorange", "beige", "aliceblue", "tomato", "salmon",
}

// ColorName returns the palette entry for color c, or "" when c is uncolored.
func ColorName(c int) string {
	if c < 0 {
		return ""
	}
	return Palette[c%len(Palette)]
}

// WriteSimpleDOT writes the vertex graph as "graph simple": one pinned
// node per mesh vertex and one undirected edge per adjacent pair. Before
// the line-graph transform the pairs come from node adjacency; afterwards
// they come from the constraints.
func WriteSimpleDOT(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph simple {")
	for i := 0; i < g.NodeCount(); i++ {
		n := g.Node(graph.NodeID(i))
		fmt.Fprintf(bw, "%s [pos=\"%g,%g!\"]\n", n.ID, n.Pos.X, n.Pos.Y)
	}

	if g.Transformed() {
		for i := 0; i < g.EdgeCount(); i++ {
			e := g.Edge(graph.EdgeID(i))
			fmt.Fprintf(bw, "%s -- %s\n", e.Node1, e.Node2)
		}
	} else {
		tr := g.NewTraversal()
		for i := 0; i < g.NodeCount(); i++ {
			n := g.Node(graph.NodeID(i))
			for _, a := range n.AdjacentNodes() {
				if !tr.NodeMarked(a) {
					fmt.Fprintf(bw, "%s -- %s\n", n.ID, a)
				}
			}
			tr.MarkNode(n.ID)
		}
	}

	fmt.Fprintln(bw, "}")
	return errors.Wrap(bw.Flush(), "export: simple DOT")
}

// WriteLineDOT writes the edge graph as "graph line": one pinned, filled
// node per constraint colored from Palette, and each adjacency once.
func WriteLineDOT(w io.Writer, g *graph.Graph) error {
	if !g.Transformed() {
		return errors.Wrap(graph.ErrNotTransformed, "export: line DOT")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "graph line {")
	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(graph.EdgeID(i))
		if name := ColorName(e.Color); name != "" {
			fmt.Fprintf(bw, "%s [pos=\"%g,%g!\", color=%s, style=filled]\n", e, e.Pos.X, e.Pos.Y, name)
		} else {
			fmt.Fprintf(bw, "%s [pos=\"%g,%g!\"]\n", e, e.Pos.X, e.Pos.Y)
		}
	}

	tr := g.NewTraversal()
	for i := 0; i < g.EdgeCount(); i++ {
		e := g.Edge(graph.EdgeID(i))
		for _, a := range e.AdjacentEdges() {
			if !tr.EdgeMarked(a) {
				fmt.Fprintf(bw, "%s -- %s\n", e.ID, a)
			}
		}
		tr.MarkEdge(e.ID)
	}

	fmt.Fprintln(bw, "}")
	return errors.Wrap(bw.Flush(), "export: line DOT")
}

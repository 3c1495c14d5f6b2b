package graph

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Constraint is the view of an Edge handed to solvers and exporters.
type Constraint struct {
	Edge   EdgeID `json:"edge"`
	Node1  NodeID `json:"node_1"`
	Node2  NodeID `json:"node_2"`
	Color  int    `json:"color"`
	Degree int    `json:"degree"`
}

// ColorClass is the set of Edges sharing one color. Its members are pairwise
// non-adjacent, so they touch disjoint Nodes.
type ColorClass struct {
	Color int      `json:"color"`
	Edges []EdgeID `json:"edges"`
}

// Stats summarises the Graph for reporting.
type Stats struct {
	Nodes         int     `json:"nodes"`
	Edges         int     `json:"edges"`
	Colors        int     `json:"colors"`
	MaxDegree     int     `json:"max_degree"`
	MeanClassSize float64 `json:"mean_class_size"`
}

// Constraints returns every Edge in id order.
func (g *Graph) Constraints() []Constraint {
	return lo.Map(g.edges, func(e Edge, _ int) Constraint {
		return Constraint{
			Edge:   e.ID,
			Node1:  e.Node1,
			Node2:  e.Node2,
			Color:  e.Color,
			Degree: e.Degree(),
		}
	})
}

// ColorClasses groups colored Edges by color, in ascending color order with
// members in ascending id order. Uncolored Edges are left out.
func (g *Graph) ColorClasses() []ColorClass {
	colored := lo.Filter(g.edges, func(e Edge, _ int) bool { return e.IsColored() })
	byColor := lo.GroupBy(colored, func(e Edge) int { return e.Color })

	colors := lo.Keys(byColor)
	sort.Ints(colors)

	classes := make([]ColorClass, 0, len(colors))
	for _, c := range colors {
		classes = append(classes, ColorClass{
			Color: c,
			Edges: lo.Map(byColor[c], func(e Edge, _ int) EdgeID { return e.ID }),
		})
	}
	return classes
}

// Colors returns a snapshot of every Edge's color, indexed by EdgeID.
func (g *Graph) Colors() []int {
	return lo.Map(g.edges, func(e Edge, _ int) int { return e.Color })
}

// ApplyColors installs a coloring computed earlier for the same edge graph,
// such as one loaded from a cache. The coloring must be complete and proper.
// It returns the number of colors in use.
func (g *Graph) ApplyColors(colors []int) (int, error) {
	if !g.transformed {
		return 0, errors.Wrap(ErrNotTransformed, "apply colors")
	}
	if len(colors) != len(g.edges) {
		return 0, errors.Wrapf(ErrInvalidColoring, "have %d colors for %d edges", len(colors), len(g.edges))
	}
	chromatic := 0
	for i, c := range colors {
		if c < 0 {
			return 0, errors.Wrapf(ErrInvalidColoring, "%s is uncolored", EdgeID(i))
		}
		for _, a := range g.edges[i].adjEdges {
			if colors[a] == c {
				return 0, errors.Wrapf(ErrInvalidColoring, "%s and %s share color %d", EdgeID(i), a, c)
			}
		}
		if c+1 > chromatic {
			chromatic = c + 1
		}
	}
	for i, c := range colors {
		g.edges[i].Color = c
	}
	g.colored = true
	return chromatic, nil
}

// Stats reports the size of the Graph and of its coloring.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Edges: len(g.edges)}
	for i := range g.edges {
		e := &g.edges[i]
		if e.Degree() > s.MaxDegree {
			s.MaxDegree = e.Degree()
		}
		if e.Color+1 > s.Colors {
			s.Colors = e.Color + 1
		}
	}
	if s.Colors > 0 {
		s.MeanClassSize = float64(s.Edges) / float64(s.Colors)
	}
	return s
}

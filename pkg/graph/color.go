package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// ColorPolicy selects how the chosen Edge's color is computed.
type ColorPolicy int

const (
	// PolicyMaxNeighborPlusOne assigns one more than the highest color among
	// the Edge's neighbours (0 when none is colored). Colors below that
	// maximum are never reused even when free, so the count can exceed what
	// PolicySmallestAvailable finds.
	PolicyMaxNeighborPlusOne ColorPolicy = iota
	// PolicySmallestAvailable assigns the smallest color no neighbour holds.
	PolicySmallestAvailable
)

func (p ColorPolicy) String() string {
	switch p {
	case PolicyMaxNeighborPlusOne:
		return "max-plus-one"
	case PolicySmallestAvailable:
		return "smallest"
	default:
		return fmt.Sprintf("ColorPolicy(%d)", int(p))
	}
}

// ParseColorPolicy is the inverse of ColorPolicy.String.
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max-plus-one", "":
		return PolicyMaxNeighborPlusOne, nil
	case "smallest":
		return PolicySmallestAvailable, nil
	}
	return 0, errors.Errorf("unknown color policy %q, expected max-plus-one or smallest", s)
}

// ColorResult summarises a coloring run.
type ColorResult struct {
	Colors int         // number of color classes in use
	Steps  int         // assignments made after the seed
	Policy ColorPolicy // policy the colors were computed with
}

// MeanClassSize is the average number of Edges per color class.
func (r ColorResult) MeanClassSize(edges int) float64 {
	if r.Colors == 0 {
		return 0
	}
	return float64(edges) / float64(r.Colors)
}

// ColorEdgeGraph colors the line graph with DSATUR: the Edge of highest
// degree is seeded with color 0, then the uncolored Edge with the most
// distinct neighbour colors is colored next, ties going to the higher degree
// and then to the earlier Edge in seed order. The seed order is all Edges
// sorted by descending degree, ties by ascending id.
//
// Any previous coloring is discarded. Calling this before BuildEdgeGraph, or
// on an empty edge graph, is an error.
func (g *Graph) ColorEdgeGraph(policy ColorPolicy) (ColorResult, error) {
	if !g.transformed {
		return ColorResult{}, errors.Wrap(ErrNotTransformed, "color edge graph")
	}
	if len(g.edges) == 0 {
		return ColorResult{}, errors.Wrap(ErrEmptyEdgeGraph, "color edge graph")
	}

	g.colored = false
	for i := range g.edges {
		g.edges[i].Color = Uncolored
	}

	order := g.seedOrder()
	q := newSaturationQueue(len(g.edges))
	for pos, id := range order[1:] {
		q.push(id, g.edges[id].Degree(), pos+1)
	}

	seed := order[0]
	g.edges[seed].Color = 0
	chromatic := 1
	q.observe(g, seed)

	res := ColorResult{Policy: policy}
	for !q.empty() {
		id, sat := q.pop()
		if actual := g.saturation(id, chromatic); actual != sat {
			panic(fmt.Sprintf("graph: saturation of %s is %d, queue holds %d", id, actual, sat))
		}

		var c int
		switch policy {
		case PolicySmallestAvailable:
			c = g.smallestAvailableColor(id)
		default:
			c = g.maxNeighborColor(id) + 1
		}
		g.edges[id].Color = c
		if c+1 > chromatic {
			chromatic = c + 1
		}
		q.observe(g, id)
		res.Steps++
	}

	g.colored = true
	res.Colors = chromatic
	klog.V(2).Infof("graph: colored %d edges with %d colors (%s), mean class size %.2f",
		len(g.edges), res.Colors, policy, res.MeanClassSize(len(g.edges)))
	return res, nil
}

// seedOrder returns all Edge ids sorted by descending degree, ties broken by
// ascending id.
func (g *Graph) seedOrder() []EdgeID {
	order := make([]EdgeID, len(g.edges))
	for i := range order {
		order[i] = EdgeID(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return g.edges[order[i]].Degree() > g.edges[order[j]].Degree()
	})
	return order
}

// saturation counts the distinct colors in [0, chromatic) among the
// neighbours of id. Uncolored neighbours do not contribute. A neighbour color
// outside that range means the run's bookkeeping is corrupt.
func (g *Graph) saturation(id EdgeID, chromatic int) int {
	seen := make([]bool, chromatic)
	count := 0
	for _, a := range g.edges[id].adjEdges {
		c := g.edges[a].Color
		if c < 0 {
			continue
		}
		if c >= chromatic {
			panic(fmt.Sprintf("graph: %s holds color %d outside [0, %d)", EdgeID(a), c, chromatic))
		}
		if !seen[c] {
			seen[c] = true
			count++
		}
	}
	return count
}

// maxNeighborColor returns the highest color among the neighbours of id, or
// Uncolored if none is colored.
func (g *Graph) maxNeighborColor(id EdgeID) int {
	best := Uncolored
	for _, a := range g.edges[id].adjEdges {
		if c := g.edges[a].Color; c > best {
			best = c
		}
	}
	return best
}

func (g *Graph) smallestAvailableColor(id EdgeID) int {
	adj := g.edges[id].adjEdges
	used := make([]bool, len(adj)+1)
	for _, a := range adj {
		if c := g.edges[a].Color; c >= 0 && c < len(used) {
			used[c] = true
		}
	}
	for c, u := range used {
		if !u {
			return c
		}
	}
	return len(used)
}

// ---------------------------------------------------------------------------
// Saturation queue
// ---------------------------------------------------------------------------

// satKey orders uncolored Edges by selection priority: higher saturation
// first, then higher degree, then earlier seed position.
type satKey struct {
	sat    int
	degree int
	pos    int
}

func compareSatKeys(a, b interface{}) int {
	ka, kb := a.(satKey), b.(satKey)
	switch {
	case ka.sat != kb.sat:
		if ka.sat > kb.sat {
			return -1
		}
		return 1
	case ka.degree != kb.degree:
		if ka.degree > kb.degree {
			return -1
		}
		return 1
	case ka.pos < kb.pos:
		return -1
	case ka.pos > kb.pos:
		return 1
	}
	return 0
}

// saturationQueue indexes uncolored Edges by satKey so the next Edge to color
// is always the tree's leftmost entry.
type saturationQueue struct {
	tree   *redblacktree.Tree
	keys   []satKey
	queued []bool
	colors []map[int]struct{} // distinct neighbour colors per queued Edge
}

func newSaturationQueue(n int) *saturationQueue {
	return &saturationQueue{
		tree:   redblacktree.NewWith(compareSatKeys),
		keys:   make([]satKey, n),
		queued: make([]bool, n),
		colors: make([]map[int]struct{}, n),
	}
}

func (q *saturationQueue) push(id EdgeID, degree, pos int) {
	q.keys[id] = satKey{degree: degree, pos: pos}
	q.queued[id] = true
	q.tree.Put(q.keys[id], id)
}

func (q *saturationQueue) empty() bool {
	return q.tree.Empty()
}

func (q *saturationQueue) pop() (EdgeID, int) {
	node := q.tree.Left()
	id := node.Value.(EdgeID)
	q.tree.Remove(node.Key)
	q.queued[id] = false
	q.colors[id] = nil
	return id, q.keys[id].sat
}

// observe raises the saturation of every queued neighbour of id that had
// not yet seen id's color.
func (q *saturationQueue) observe(g *Graph, id EdgeID) {
	c := g.edges[id].Color
	for _, a := range g.edges[id].adjEdges {
		if !q.queued[a] {
			continue
		}
		if q.colors[a] == nil {
			q.colors[a] = make(map[int]struct{})
		}
		if _, ok := q.colors[a][c]; ok {
			continue
		}
		q.colors[a][c] = struct{}{}
		q.tree.Remove(q.keys[a])
		q.keys[a].sat++
		q.tree.Put(q.keys[a], a)
	}
}

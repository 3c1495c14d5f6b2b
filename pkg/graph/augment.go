package graph

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Augment connects every Node to the vertices two hops away with which it
// shares at least two neighbours, typically the opposite corner across a quad
// split into two triangles.
//
// Candidates for all Nodes are computed before any link is added, so links
// made by this pass never act as intermediate hops within it.
func (g *Graph) Augment() error {
	if g.transformed {
		return errors.Wrap(ErrAlreadyTransformed, "augment")
	}

	candidates := make([][]NodeID, len(g.nodes))
	for i := range g.nodes {
		candidates[i] = g.twoHopCandidates(NodeID(i))
	}

	added := 0
	for i, cs := range candidates {
		for _, c := range cs {
			if g.connectNodes(NodeID(i), c) {
				added++
			}
		}
	}

	klog.V(2).Infof("graph: augmentation added %d links", added)
	return nil
}

// twoHopCandidates returns, without duplicates and in discovery order, the
// Nodes reachable from id through one neighbour that are not already adjacent
// to it and share at least two neighbours with it.
func (g *Graph) twoHopCandidates(id NodeID) []NodeID {
	n := &g.nodes[id]
	var out []NodeID
	seen := make(map[NodeID]struct{})
	for _, n1 := range n.adjNodes {
		for _, n2 := range g.nodes[n1].adjNodes {
			if n2 == id || n.isAdjacentTo(n2) {
				continue
			}
			if _, ok := seen[n2]; ok {
				continue
			}
			if g.shareTwoNeighbors(id, n2) {
				seen[n2] = struct{}{}
				out = append(out, n2)
			}
		}
	}
	return out
}

// shareTwoNeighbors reports whether a and b have at least two common
// neighbours. It stops as soon as the second match is found.
func (g *Graph) shareTwoNeighbors(a, b NodeID) bool {
	count := 0
	for _, n1 := range g.nodes[a].adjNodes {
		for _, n2 := range g.nodes[b].adjNodes {
			if n1 != n2 {
				continue
			}
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// CommonNeighbors returns the number of Nodes adjacent to both a and b.
func (g *Graph) CommonNeighbors(a, b NodeID) int {
	count := 0
	for _, n1 := range g.nodes[a].adjNodes {
		if g.nodes[b].isAdjacentTo(n1) {
			count++
		}
	}
	return count
}

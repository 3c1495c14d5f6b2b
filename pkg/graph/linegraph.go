package graph

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// BuildEdgeGraph replaces the vertex graph with its line graph. Every
// adjacent Node pair becomes exactly one Edge, two Edges become adjacent when
// they share an endpoint, and the Node-to-Node adjacency is discarded.
//
// Nodes are processed in ascending id order, so Edge ids are reproducible
// for a given mesh. An empty vertex graph yields an empty edge graph.
func (g *Graph) BuildEdgeGraph() error {
	if g.transformed {
		return errors.Wrap(ErrAlreadyTransformed, "build edge graph")
	}

	g.edges = make([]Edge, 0, g.PairCount())

	visited := make([]bool, len(g.nodes))
	for i := range g.nodes {
		g.split(NodeID(i), visited)
	}

	for i := range g.nodes {
		g.connectIncidentEdges(NodeID(i))
		g.nodes[i].adjNodes = nil
	}

	g.transformed = true
	klog.V(2).Infof("graph: line graph has %d edges", len(g.edges))
	return nil
}

// split materialises an Edge for every neighbour of id that has not been
// split yet, then marks id as visited.
func (g *Graph) split(id NodeID, visited []bool) {
	for _, a := range g.nodes[id].adjNodes {
		if visited[a] {
			continue
		}
		g.newEdge(id, a)
	}
	visited[id] = true
}

func (g *Graph) newEdge(n1, n2 NodeID) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{
		ID:    id,
		Node1: n1,
		Node2: n2,
		Pos:   Midpoint(g.nodes[n1].Pos, g.nodes[n2].Pos),
		Color: Uncolored,
	})
	g.nodes[n1].adjEdges = append(g.nodes[n1].adjEdges, id)
	g.nodes[n2].adjEdges = append(g.nodes[n2].adjEdges, id)
	return id
}

// connectIncidentEdges makes every pair of Edges incident to id adjacent.
func (g *Graph) connectIncidentEdges(id NodeID) {
	incident := g.nodes[id].adjEdges
	for i, e1 := range incident {
		for _, e2 := range incident[i+1:] {
			g.connectEdges(e1, e2)
		}
	}
}

func (g *Graph) connectEdges(a, b EdgeID) bool {
	if a == b {
		return false
	}
	ea, eb := &g.edges[a], &g.edges[b]
	if ea.isAdjacentTo(b) {
		return false
	}
	ea.adjEdges = append(ea.adjEdges, b)
	eb.adjEdges = append(eb.adjEdges, a)
	return true
}

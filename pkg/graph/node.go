package graph

import "strconv"

// NodeID is the index of a vertex in the mesh vertex buffer.
type NodeID int

func (id NodeID) String() string {
	return strconv.Itoa(int(id))
}

// Node is a mesh vertex. Before the line-graph transform it carries
// node-to-node adjacency; afterwards only the incident Edges remain.
type Node struct {
	ID  NodeID `json:"id"`
	Pos Vec3   `json:"pos"`

	adjNodes []NodeID
	adjEdges []EdgeID
}

// AdjacentNodes returns the nodes connected to n by a mesh or augmentation
// edge, in insertion order. It is empty once the edge graph has been built.
// The returned slice must not be modified.
func (n *Node) AdjacentNodes() []NodeID {
	return n.adjNodes
}

// AdjacentEdges returns the Edges incident to n. It is populated by the
// line-graph transform. The returned slice must not be modified.
func (n *Node) AdjacentEdges() []EdgeID {
	return n.adjEdges
}

// Degree is the number of adjacent nodes.
func (n *Node) Degree() int {
	return len(n.adjNodes)
}

func (n *Node) isAdjacentTo(id NodeID) bool {
	for _, a := range n.adjNodes {
		if a == id {
			return true
		}
	}
	return false
}

package graph

import "fmt"

// Uncolored marks an Edge that has not been assigned a color.
const Uncolored = -1

// EdgeID is the creation index of an Edge. Ids are dense and increase in the
// order Edges are materialised by the line-graph transform.
type EdgeID int

func (id EdgeID) String() string {
	return fmt.Sprintf("e%d", int(id))
}

// Edge is a constraint between two Nodes. In the line graph it is a vertex
// whose neighbours are the Edges sharing one of its endpoints.
type Edge struct {
	ID    EdgeID `json:"id"`
	Node1 NodeID `json:"node_1"`
	Node2 NodeID `json:"node_2"`
	Pos   Vec3   `json:"pos"` // midpoint of the two endpoints
	Color int    `json:"color"`

	adjEdges []EdgeID
}

// AdjacentEdges returns the Edges sharing an endpoint with e. The returned
// slice must not be modified.
func (e *Edge) AdjacentEdges() []EdgeID {
	return e.adjEdges
}

// Degree is the number of adjacent Edges.
func (e *Edge) Degree() int {
	return len(e.adjEdges)
}

// IsColored reports whether e has been assigned a color.
func (e *Edge) IsColored() bool {
	return e.Color >= 0
}

// HasEndpoint reports whether n is one of e's endpoints.
func (e *Edge) HasEndpoint(n NodeID) bool {
	return e.Node1 == n || e.Node2 == n
}

// SharedEndpoint returns the endpoint e has in common with o, if any.
func (e *Edge) SharedEndpoint(o *Edge) (NodeID, bool) {
	switch {
	case o.HasEndpoint(e.Node1):
		return e.Node1, true
	case o.HasEndpoint(e.Node2):
		return e.Node2, true
	}
	return 0, false
}

func (e *Edge) isAdjacentTo(id EdgeID) bool {
	for _, a := range e.adjEdges {
		if a == id {
			return true
		}
	}
	return false
}

func (e *Edge) String() string {
	return e.ID.String()
}

package graph

// Traversal holds visited marks for one walk over a Graph. Marks live outside
// the Nodes and Edges so separate walks cannot observe each other's state.
type Traversal struct {
	nodes []bool
	edges []bool
}

// NewTraversal returns a Traversal with nothing marked.
func (g *Graph) NewTraversal() *Traversal {
	return &Traversal{
		nodes: make([]bool, len(g.nodes)),
		edges: make([]bool, len(g.edges)),
	}
}

func (t *Traversal) MarkNode(id NodeID) { t.nodes[id] = true }
func (t *Traversal) NodeMarked(id NodeID) bool { return t.nodes[id] }
func (t *Traversal) MarkEdge(id EdgeID) { t.edges[id] = true }
func (t *Traversal) EdgeMarked(id EdgeID) bool { return t.edges[id] }

// Unmark clears every mark so the Traversal can be reused.
func (t *Traversal) Unmark() {
	for i := range t.nodes {
		t.nodes[i] = false
	}
	for i := range t.edges {
		t.edges[i] = false
	}
}

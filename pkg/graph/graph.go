package graph

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Mesh is the input surface: an ordered vertex buffer and an ordered list of
// triangles indexing into it. kernel.Mesh satisfies this interface.
type Mesh interface {
	VertexCount() int
	Vertex(i int) (x, y, z float64)
	TriangleCount() int
	Triangle(i int) [3]uint32
}

// TriangleMesh is a minimal in-memory Mesh.
type TriangleMesh struct {
	Positions []Vec3
	Triangles [][3]uint32
}

func (m *TriangleMesh) VertexCount() int   { return len(m.Positions) }
func (m *TriangleMesh) TriangleCount() int { return len(m.Triangles) }

func (m *TriangleMesh) Vertex(i int) (x, y, z float64) {
	p := m.Positions[i]
	return p.X, p.Y, p.Z
}

func (m *TriangleMesh) Triangle(i int) [3]uint32 {
	return m.Triangles[i]
}

// Graph owns every Node and Edge. It moves through the phases
// New → Augment → BuildEdgeGraph → ColorEdgeGraph; each phase either
// completes or leaves the Graph unusable.
type Graph struct {
	nodes []Node
	edges []Edge

	transformed bool
	colored     bool
}

// New builds the vertex graph of m: one Node per vertex, and every pair of
// vertices sharing a triangle connected. A triangle index outside the vertex
// buffer aborts construction and no Graph is returned.
func New(m Mesh) (*Graph, error) {
	if m == nil {
		return nil, errors.Wrap(ErrMalformedMesh, "nil mesh")
	}

	nv := m.VertexCount()
	g := &Graph{nodes: make([]Node, nv)}
	for i := 0; i < nv; i++ {
		x, y, z := m.Vertex(i)
		g.nodes[i] = Node{ID: NodeID(i), Pos: Vec3{X: x, Y: y, Z: z}}
	}

	nt := m.TriangleCount()
	for t := 0; t < nt; t++ {
		tri := m.Triangle(t)
		for _, idx := range tri {
			if int(idx) >= nv {
				return nil, errors.Wrapf(ErrIndexOutOfRange,
					"triangle %d references vertex %d, mesh has %d vertices", t, idx, nv)
			}
		}
		a, b, c := NodeID(tri[0]), NodeID(tri[1]), NodeID(tri[2])
		g.connectNodes(a, b)
		g.connectNodes(a, c)
		g.connectNodes(b, c)
	}

	klog.V(2).Infof("graph: built vertex graph with %d nodes from %d triangles", nv, nt)
	return g, nil
}

// connectNodes links a and b symmetrically. It is a no-op when they are
// already adjacent or identical (degenerate triangles). It reports whether a
// new link was made.
func (g *Graph) connectNodes(a, b NodeID) bool {
	if a == b {
		return false
	}
	na, nb := &g.nodes[a], &g.nodes[b]
	if nb.isAdjacentTo(a) {
		return false
	}
	na.adjNodes = append(na.adjNodes, b)
	nb.adjNodes = append(nb.adjNodes, a)
	return true
}

// NodeCount returns the number of Nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// Node returns the Node with the given id.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// EdgeCount returns the number of Edges. It is zero until BuildEdgeGraph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Edge returns the Edge with the given id.
func (g *Graph) Edge(id EdgeID) *Edge {
	return &g.edges[id]
}

// Adjacent reports whether Nodes a and b are connected in the vertex graph.
func (g *Graph) Adjacent(a, b NodeID) bool {
	return g.nodes[a].isAdjacentTo(b)
}

// PairCount returns the number of undirected adjacent Node pairs.
func (g *Graph) PairCount() int {
	sum := 0
	for i := range g.nodes {
		sum += len(g.nodes[i].adjNodes)
	}
	return sum / 2
}

// Transformed reports whether BuildEdgeGraph has run.
func (g *Graph) Transformed() bool {
	return g.transformed
}

// Colored reports whether a coloring run has completed.
func (g *Graph) Colored() bool {
	return g.colored
}

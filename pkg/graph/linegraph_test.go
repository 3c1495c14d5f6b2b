package graph

import "testing"

func transformed(t *testing.T, m Mesh, augment bool) *Graph {
	t.Helper()
	g, err := Prepare(m, Options{Augment: augment})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	return g
}

func TestLineGraphSingleTriangle(t *testing.T) {
	g := transformed(t, singleTriangle(), false)

	if g.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	for i := 0; i < 3; i++ {
		e := g.Edge(EdgeID(i))
		if e.Degree() != 2 {
			t.Errorf("%s degree = %d, want 2", e, e.Degree())
		}
		for j := 0; j < 3; j++ {
			if i != j && !e.isAdjacentTo(EdgeID(j)) {
				t.Errorf("%s should be adjacent to e%d", e, j)
			}
		}
		if e.Color != Uncolored {
			t.Errorf("%s color = %d before coloring, want %d", e, e.Color, Uncolored)
		}
	}
	mustFindings(t, g)
}

func TestLineGraphTwoTriangles(t *testing.T) {
	g := transformed(t, twoTriangles(), false)

	if g.EdgeCount() != 5 {
		t.Fatalf("EdgeCount() = %d, want 5", g.EdgeCount())
	}

	// Ids follow ascending node order: 0-1, 0-2, 1-2, 1-3, 2-3.
	want := []struct{ n1, n2 NodeID }{{0, 1}, {0, 2}, {1, 2}, {1, 3}, {2, 3}}
	for i, w := range want {
		e := g.Edge(EdgeID(i))
		if e.Node1 != w.n1 || e.Node2 != w.n2 {
			t.Errorf("e%d = %d-%d, want %d-%d", i, e.Node1, e.Node2, w.n1, w.n2)
		}
	}

	shared := g.Edge(2)
	if shared.Degree() != 4 {
		t.Errorf("shared edge degree = %d, want 4", shared.Degree())
	}
	for _, e := range []EdgeID{0, 1, 3, 4} {
		if g.Edge(e).Degree() != 3 {
			t.Errorf("%s degree = %d, want 3", e, g.Edge(e).Degree())
		}
	}
	// 0-1 and 2-3 share no vertex.
	if g.Edge(0).isAdjacentTo(4) {
		t.Error("e0 and e4 should not be adjacent")
	}
	mustFindings(t, g)
}

func TestLineGraphClearsNodeAdjacency(t *testing.T) {
	g := transformed(t, gridMesh(3, 2), true)
	for i := 0; i < g.NodeCount(); i++ {
		n := g.Node(NodeID(i))
		if len(n.AdjacentNodes()) != 0 {
			t.Errorf("node %d keeps %d adjacent nodes", i, len(n.AdjacentNodes()))
		}
		if len(n.AdjacentEdges()) == 0 {
			t.Errorf("node %d has no incident edges", i)
		}
		for _, e := range n.AdjacentEdges() {
			if !g.Edge(e).HasEndpoint(n.ID) {
				t.Errorf("node %d lists %s which does not touch it", i, e)
			}
		}
	}
}

func TestLineGraphEdgeCountMatchesPairs(t *testing.T) {
	meshes := map[string]Mesh{
		"triangle":      singleTriangle(),
		"two triangles": twoTriangles(),
		"two quads":     twoQuads(),
		"grid 5x3":      gridMesh(5, 3),
	}
	for name, m := range meshes {
		for _, augment := range []bool{false, true} {
			g := mustNew(t, m)
			if augment {
				if err := g.Augment(); err != nil {
					t.Fatal(err)
				}
			}
			pairs := g.PairCount()
			if err := g.BuildEdgeGraph(); err != nil {
				t.Fatal(err)
			}
			if g.EdgeCount() != pairs {
				t.Errorf("%s (augment=%v): EdgeCount() = %d, want %d", name, augment, g.EdgeCount(), pairs)
			}
		}
	}
}

// TestLineGraphAdjacencyIffSharedEndpoint exhaustively checks every Edge pair.
func TestLineGraphAdjacencyIffSharedEndpoint(t *testing.T) {
	g := transformed(t, gridMesh(3, 3), true)
	for i := 0; i < g.EdgeCount(); i++ {
		ei := g.Edge(EdgeID(i))
		if ei.isAdjacentTo(ei.ID) {
			t.Errorf("%s is adjacent to itself", ei)
		}
		for j := i + 1; j < g.EdgeCount(); j++ {
			ej := g.Edge(EdgeID(j))
			_, shares := ei.SharedEndpoint(ej)
			if ei.isAdjacentTo(ej.ID) != shares {
				t.Errorf("%s/%s adjacency = %v, shared endpoint = %v", ei, ej, ei.isAdjacentTo(ej.ID), shares)
			}
			if ei.isAdjacentTo(ej.ID) != ej.isAdjacentTo(ei.ID) {
				t.Errorf("%s/%s adjacency is not symmetric", ei, ej)
			}
		}
	}
}

func TestLineGraphMidpoint(t *testing.T) {
	g := transformed(t, singleTriangle(), false)
	e := g.Edge(0) // 0-1
	if e.Pos != (Vec3{0.5, 0, 0}) {
		t.Errorf("e0 pos = %v, want (0.5, 0, 0)", e.Pos)
	}
}

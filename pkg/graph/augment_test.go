package graph

import "testing"

// twoQuads is a 2×1 cell grid:
//
//	3 - 4 - 5
//	| / | / |
//	0 - 1 - 2
//
// triangulated along the 0-4 and 1-5 diagonals.
func twoQuads() *TriangleMesh {
	return &TriangleMesh{
		Positions: []Vec3{
			{0, 0, 0}, {1, 0, 0}, {2, 0, 0},
			{0, 1, 0}, {1, 1, 0}, {2, 1, 0},
		},
		Triangles: [][3]uint32{
			{0, 1, 4}, {0, 4, 3},
			{1, 2, 5}, {1, 5, 4},
		},
	}
}

func TestAugmentTwoQuads(t *testing.T) {
	g := mustNew(t, twoQuads())
	if g.PairCount() != 9 {
		t.Fatalf("PairCount() before augment = %d, want 9", g.PairCount())
	}

	if err := g.Augment(); err != nil {
		t.Fatalf("Augment failed: %v", err)
	}

	connected := []struct{ a, b NodeID }{
		{1, 3}, // opposite diagonal of the left quad
		{2, 4}, // opposite diagonal of the right quad
		{0, 5}, // shares neighbours 1 and 4
	}
	for _, p := range connected {
		if !g.Adjacent(p.a, p.b) || !g.Adjacent(p.b, p.a) {
			t.Errorf("nodes %d and %d should be connected after augment", p.a, p.b)
		}
	}

	notConnected := []struct{ a, b NodeID }{
		{3, 5}, // one common neighbour
		{0, 2}, // one common neighbour
		{2, 3}, // no common neighbour
	}
	for _, p := range notConnected {
		if g.Adjacent(p.a, p.b) {
			t.Errorf("nodes %d and %d should not be connected after augment", p.a, p.b)
		}
	}

	if g.PairCount() != 12 {
		t.Errorf("PairCount() after augment = %d, want 12", g.PairCount())
	}
	mustFindings(t, g)
}

func TestAugmentSingleQuadBecomesComplete(t *testing.T) {
	g := mustNew(t, gridMesh(1, 1))
	if g.Adjacent(1, 2) {
		t.Fatal("nodes 1 and 2 adjacent before augment")
	}
	if err := g.Augment(); err != nil {
		t.Fatal(err)
	}
	for a := NodeID(0); a < 4; a++ {
		for b := NodeID(0); b < 4; b++ {
			if a != b && !g.Adjacent(a, b) {
				t.Errorf("nodes %d and %d not adjacent after augment", a, b)
			}
		}
	}
}

func TestAugmentSingleTriangleIsNoOp(t *testing.T) {
	g := mustNew(t, singleTriangle())
	if err := g.Augment(); err != nil {
		t.Fatal(err)
	}
	if g.PairCount() != 3 {
		t.Errorf("PairCount() = %d, want 3", g.PairCount())
	}
}

// TestAugmentUsesOnlyOriginalHops checks that links added by the pass do not
// feed candidates within the same pass: running Augment twice on a grid adds
// links the first run could not see.
func TestAugmentUsesOnlyOriginalHops(t *testing.T) {
	g := mustNew(t, gridMesh(4, 4))
	before := g.PairCount()

	var want int
	{
		candidates := make([][]NodeID, g.NodeCount())
		for i := range candidates {
			candidates[i] = g.twoHopCandidates(NodeID(i))
		}
		seen := make(map[[2]NodeID]bool)
		for i, cs := range candidates {
			for _, c := range cs {
				a, b := NodeID(i), c
				if a > b {
					a, b = b, a
				}
				seen[[2]NodeID{a, b}] = true
			}
		}
		want = before + len(seen)
	}

	if err := g.Augment(); err != nil {
		t.Fatal(err)
	}
	if g.PairCount() != want {
		t.Errorf("PairCount() after augment = %d, want %d", g.PairCount(), want)
	}

	once := g.PairCount()
	if err := g.Augment(); err != nil {
		t.Fatal(err)
	}
	if g.PairCount() <= once {
		t.Errorf("second augment added nothing (%d pairs); expected links through new hops", once)
	}
}

func TestShareTwoNeighbors(t *testing.T) {
	g := mustNew(t, twoQuads())
	tests := []struct {
		a, b NodeID
		want bool
	}{
		{1, 3, true},
		{2, 4, true},
		{3, 5, false},
		{0, 2, false},
	}
	for _, tt := range tests {
		if got := g.shareTwoNeighbors(tt.a, tt.b); got != tt.want {
			t.Errorf("shareTwoNeighbors(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := g.CommonNeighbors(tt.a, tt.b) >= 2; got != tt.want {
			t.Errorf("CommonNeighbors(%d, %d) >= 2 is %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTwoHopCandidatesHaveNoDuplicates(t *testing.T) {
	g := mustNew(t, gridMesh(3, 3))
	for i := 0; i < g.NodeCount(); i++ {
		seen := make(map[NodeID]bool)
		for _, c := range g.twoHopCandidates(NodeID(i)) {
			if seen[c] {
				t.Errorf("node %d lists candidate %d twice", i, c)
			}
			if c == NodeID(i) {
				t.Errorf("node %d lists itself", i)
			}
			if g.Adjacent(NodeID(i), c) {
				t.Errorf("node %d lists already adjacent %d", i, c)
			}
			seen[c] = true
		}
	}
}

//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/roft/pkg/graph"
	"github.com/chazu/roft/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func assertBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > 1e-6 || math.Abs(max[i]-wantMax[i]) > 1e-6 {
			t.Fatalf("bounds = %v..%v, want %v..%v", min, max, wantMin, wantMax)
		}
	}
}

func TestBoxCorner(t *testing.T) {
	k := mustNew(t)
	assertBounds(t, k.Box(10, 20, 30), [3]float64{0, 0, 0}, [3]float64{10, 20, 30})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	s := k.Translate(k.Box(2, 2, 2), 5, -1, 0)
	assertBounds(t, s, [3]float64{5, -1, 0}, [3]float64{7, 1, 2})
}

func TestCylinder(t *testing.T) {
	k := mustNew(t)
	min, max := k.Cylinder(10, 3, 32).BoundingBox()
	if math.Abs(min[2]+5) > 1e-6 || math.Abs(max[2]-5) > 1e-6 {
		t.Errorf("z extent = %g..%g, want -5..5", min[2], max[2])
	}
}

func TestDifferenceMeshIsClosed(t *testing.T) {
	k := mustNew(t)
	s := k.Difference(k.Box(10, 10, 10), k.Translate(k.Sphere(3), 5, 5, 10))
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh: %v", err)
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals %d != vertices %d", len(m.Normals), len(m.Vertices))
	}

	// A closed manifold surface has every edge shared by exactly two
	// triangles, so Euler's relation holds for a genus 0 solid.
	g, err := graph.New(m)
	if err != nil {
		t.Fatalf("graph.New: %v", err)
	}
	v, e, f := m.VertexCount(), g.PairCount(), m.TriangleCount()
	if v-e+f != 2 {
		t.Errorf("V-E+F = %d-%d+%d = %d, want 2", v, e, f, v-e+f)
	}
}

package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/roft/pkg/graph"
	"github.com/chazu/roft/pkg/kernel"
)

// testCells keeps marching cubes fast in tests.
const testCells = 24

func TestBox(t *testing.T) {
	k := NewWithResolution(testCells)
	box := k.Box(100, 50, 25)
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if err := mesh.Validate(); err != nil {
		t.Fatalf("mesh invalid: %v", err)
	}
	t.Logf("box: %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())
}

func TestToMeshIsWelded(t *testing.T) {
	k := NewWithResolution(testCells)
	mesh, err := k.ToMesh(k.Sphere(10))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// A closed triangle soup would have three vertices per triangle; a welded
	// closed surface has roughly half as many vertices as triangles.
	if mesh.VertexCount() >= mesh.TriangleCount()*3 {
		t.Errorf("mesh not welded: %d vertices for %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}

	g, err := graph.New(mesh)
	if err != nil {
		t.Fatalf("graph.New failed: %v", err)
	}
	// Shared vertices mean far fewer vertex pairs than three per triangle.
	if g.PairCount() >= mesh.TriangleCount()*3 {
		t.Errorf("%d vertex pairs for %d triangles", g.PairCount(), mesh.TriangleCount())
	}
}

func TestCylinder(t *testing.T) {
	k := NewWithResolution(testCells)
	mesh, err := k.ToMesh(k.Cylinder(50, 10, 32))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	t.Logf("cylinder triangle count: %d", mesh.TriangleCount())
}

func TestDifference(t *testing.T) {
	k := NewWithResolution(testCells)

	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Translate(k.Cylinder(120, 20, 32), 50, 50, 50)
	diffMesh, err := k.ToMesh(k.Difference(box, cyl))
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	// A box with a hole has more surface than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnionAndIntersection(t *testing.T) {
	k := NewWithResolution(testCells)
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)

	for name, s := range map[string]kernel.Solid{
		"union":        k.Union(box1, box2),
		"intersection": k.Intersection(box1, box2),
	} {
		mesh, err := k.ToMesh(s)
		if err != nil {
			t.Fatalf("%s: ToMesh failed: %v", name, err)
		}
		if mesh.IsEmpty() {
			t.Errorf("%s mesh is empty", name)
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	min, max := k.Box(100, 50, 25).BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{100, 50, 25}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	min, max := k.Translate(k.Sphere(5), 100, 200, 300).BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New()

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	min, max := k.Rotate(k.Box(100, 10, 10), 0, 0, 90).BoundingBox()
	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestResolutionFallback(t *testing.T) {
	if got := NewWithResolution(0).Cells(); got != DefaultMeshCells {
		t.Errorf("Cells() = %d, want %d", got, DefaultMeshCells)
	}
}

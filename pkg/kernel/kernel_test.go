package kernel

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 2, 3, 4, 5, 6},
		Indices:  []uint32{0, 1, 2},
	}
	x, y, z := m.Vertex(1)
	if x != 1 || y != 2 || z != 3 {
		t.Errorf("Vertex(1) = (%g, %g, %g), want (1, 2, 3)", x, y, z)
	}
	if got := m.Triangle(0); got != [3]uint32{0, 1, 2} {
		t.Errorf("Triangle(0) = %v", got)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    Mesh
		wantErr bool
	}{
		{"empty", Mesh{}, false},
		{"triangle", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1, 2}}, false},
		{"ragged vertices", Mesh{Vertices: make([]float32, 8)}, true},
		{"ragged indices", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1}}, true},
		{"index out of range", Mesh{Vertices: make([]float32, 9), Indices: []uint32{0, 1, 3}}, true},
		{"normals mismatch", Mesh{Vertices: make([]float32, 9), Normals: make([]float32, 3)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.Cause(err) != ErrBadMesh {
				t.Errorf("cause = %v, want ErrBadMesh", errors.Cause(err))
			}
		})
	}
}

func TestMeshAppend(t *testing.T) {
	a := &Mesh{Vertices: make([]float32, 9), Normals: make([]float32, 9), Indices: []uint32{0, 1, 2}}
	b := &Mesh{Vertices: make([]float32, 9), Normals: make([]float32, 9), Indices: []uint32{2, 1, 0}}
	a.Append(b)

	if a.VertexCount() != 6 || a.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles", a.VertexCount(), a.TriangleCount())
	}
	if got := a.Triangle(1); got != [3]uint32{5, 4, 3} {
		t.Errorf("appended triangle = %v, want [5 4 3]", got)
	}
	if len(a.Normals) != len(a.Vertices) {
		t.Errorf("normals length %d, want %d", len(a.Normals), len(a.Vertices))
	}

	a.Append(&Mesh{Vertices: make([]float32, 3)})
	if a.Normals != nil {
		t.Error("normals kept after appending a mesh without them")
	}
}

func TestMeshTranslateRotate(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, 0, 0}, Normals: []float32{1, 0, 0}}
	m.Translate(1, 2, 3)
	if x, y, z := m.Vertex(0); x != 2 || y != 2 || z != 3 {
		t.Fatalf("translated vertex = (%g, %g, %g)", x, y, z)
	}

	m = &Mesh{Vertices: []float32{1, 0, 0}, Normals: []float32{1, 0, 0}}
	m.Rotate(0, 0, 90)
	x, y, z := m.Vertex(0)
	if math.Abs(x) > 1e-6 || math.Abs(y-1) > 1e-6 || math.Abs(z) > 1e-6 {
		t.Errorf("rotated vertex = (%g, %g, %g), want (0, 1, 0)", x, y, z)
	}
	if math.Abs(float64(m.Normals[1])-1) > 1e-6 {
		t.Errorf("rotated normal = %v, want (0, 1, 0)", m.Normals)
	}
}

func TestMeshWeld(t *testing.T) {
	// Two triangles emitted as a triangle soup sharing the 1-2 edge.
	soup := &Mesh{
		Vertices: []float32{
			0, 0, 0, 1, 0, 0, 0, 1, 0,
			1, 0, 0, 1, 1, 0, 0, 1.00001, 0,
		},
		Normals: []float32{
			0, 0, 1, 0, 0, 1, 0, 0, 1,
			0, 0, 1, 0, 0, 1, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}

	w := soup.Weld(1e-3)
	if w.VertexCount() != 4 {
		t.Fatalf("welded VertexCount() = %d, want 4", w.VertexCount())
	}
	if w.TriangleCount() != 2 {
		t.Fatalf("welded TriangleCount() = %d, want 2", w.TriangleCount())
	}
	if got := w.Triangle(1); got != [3]uint32{1, 3, 2} {
		t.Errorf("second triangle = %v, want [1 3 2]", got)
	}
	if err := w.Validate(); err != nil {
		t.Errorf("welded mesh invalid: %v", err)
	}
	if w.Normals[2] != 1 {
		t.Errorf("averaged normal z = %g, want 1", w.Normals[2])
	}

	exact := soup.Weld(0)
	if exact.VertexCount() != 5 {
		t.Errorf("exact weld VertexCount() = %d, want 5", exact.VertexCount())
	}
}

func TestMeshWeldDropsCollapsedTriangles(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 0.0001, 0, 0, 1, 1, 0},
		Indices:  []uint32{0, 1, 2},
	}
	w := m.Weld(0.01)
	if w.TriangleCount() != 0 {
		t.Errorf("TriangleCount() = %d, want collapsed triangle dropped", w.TriangleCount())
	}
}

// --- Quad sheet ---

func TestQuad(t *testing.T) {
	m, err := Quad(10, 4, 5, 2)
	if err != nil {
		t.Fatalf("Quad failed: %v", err)
	}
	if m.VertexCount() != 18 {
		t.Errorf("VertexCount() = %d, want 18", m.VertexCount())
	}
	if m.TriangleCount() != 20 {
		t.Errorf("TriangleCount() = %d, want 20", m.TriangleCount())
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("quad invalid: %v", err)
	}
	if x, y, _ := m.Vertex(0); x != -5 || y != -2 {
		t.Errorf("first vertex = (%g, %g), want (-5, -2)", x, y)
	}
	if x, y, _ := m.Vertex(17); x != 5 || y != 2 {
		t.Errorf("last vertex = (%g, %g), want (5, 2)", x, y)
	}
	if got := m.Triangle(0); got != [3]uint32{0, 1, 7} {
		t.Errorf("Triangle(0) = %v, want [0 1 7]", got)
	}
}

func TestQuadRejectsBadArguments(t *testing.T) {
	tests := []struct {
		name       string
		w, h       float64
		subX, subY int
	}{
		{"zero width", 0, 1, 1, 1},
		{"negative height", 1, -1, 1, 1},
		{"no x cells", 1, 1, 0, 1},
		{"no y cells", 1, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Quad(tt.w, tt.h, tt.subX, tt.subY); errors.Cause(err) != ErrBadMesh {
				t.Errorf("error = %v, want ErrBadMesh", err)
			}
		})
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{maxBB: [3]float64{x, y, z}}
}

func (k *stubKernel) Cylinder(height, radius float64, _ int) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, 0},
		maxBB: [3]float64{radius, radius, height},
	}
}

func (k *stubKernel) Sphere(radius float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -radius},
		maxBB: [3]float64{radius, radius, radius},
	}
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoundingBoxes(t *testing.T) {
	var k Kernel = &stubKernel{}
	_, max := k.Box(10, 20, 30).BoundingBox()
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
	min, _ := k.Sphere(2).BoundingBox()
	if min != [3]float64{-2, -2, -2} {
		t.Errorf("Sphere min = %v, want [-2 -2 -2]", min)
	}
}

//go:build manifold

// Package manifold binds the Manifold C library (manifoldc) as a geometry
// kernel. Manifold meshes are exact and already indexed, so solids come out
// with shared vertices and no marching cubes resolution to tune.
//
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/roft/pkg/kernel"
	"github.com/pkg/errors"
)

var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

// manifoldSolid owns a C ManifoldManifold.
type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	bbox := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*manifoldSolid).ptr
}

// ManifoldKernel implements kernel.Kernel on top of manifoldc.
type ManifoldKernel struct{}

// New returns the Manifold kernel.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Box has its minimum corner at the origin, like the sdfx kernel's.
func (k *ManifoldKernel) Box(x, y, z float64) kernel.Solid {
	return newSolid(C.manifold_cube(C.manifold_alloc_manifold(),
		C.double(x), C.double(y), C.double(z), C.int(0)))
}

// Cylinder is centred on the origin with its axis along Z.
func (k *ManifoldKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return newSolid(C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(height), C.double(radius), C.double(radius), C.int(segments), C.int(1)))
}

// Sphere is centred on the origin and faceted with SphereSegments around
// its equator.
func (k *ManifoldKernel) Sphere(radius float64) kernel.Solid {
	return newSolid(C.manifold_sphere(C.manifold_alloc_manifold(),
		C.double(radius), C.int(SphereSegments)))
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_difference(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_intersection(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// Rotate takes Euler angles in degrees, applied X then Y then Z.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.manifold_rotate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh copies the solid's MeshGL into a kernel.Mesh. MeshGL can split a
// vertex along property seams, so exact duplicates are welded back together
// before the mesh is handed on.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	meshGL := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	if numProp < 3 {
		return nil, errors.Errorf("manifold: %d vertex properties, want at least 3", numProp)
	}

	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), meshGL)
	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	m := &kernel.Mesh{Vertices: make([]float32, numVert*3), Indices: indices}
	for i := 0; i < numVert; i++ {
		copy(m.Vertices[i*3:i*3+3], props[i*numProp:i*numProp+3])
	}
	m = m.Weld(0)
	m.Normals = vertexNormals(m)

	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "manifold")
	}
	return m, nil
}

// vertexNormals averages the area-weighted face normals around each vertex.
func vertexNormals(m *kernel.Mesh) []float32 {
	sums := make([]float64, len(m.Vertices))
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		ax, ay, az := m.Vertex(int(tri[0]))
		bx, by, bz := m.Vertex(int(tri[1]))
		cx, cy, cz := m.Vertex(int(tri[2]))
		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az
		nx := e1y*e2z - e1z*e2y
		ny := e1z*e2x - e1x*e2z
		nz := e1x*e2y - e1y*e2x
		for _, v := range tri {
			sums[v*3] += nx
			sums[v*3+1] += ny
			sums[v*3+2] += nz
		}
	}

	normals := make([]float32, len(sums))
	for i := 0; i < len(sums); i += 3 {
		l := math.Sqrt(sums[i]*sums[i] + sums[i+1]*sums[i+1] + sums[i+2]*sums[i+2])
		if l < 1e-12 {
			continue
		}
		normals[i] = float32(sums[i] / l)
		normals[i+1] = float32(sums[i+1] / l)
		normals[i+2] = float32(sums[i+2] / l)
	}
	return normals
}

// Package sdfx is the default geometry kernel: solids are signed distance
// functions from github.com/deadsy/sdfx, meshed by uniform marching cubes
// and welded into an indexed mesh.
package sdfx

import (
	"math"

	"github.com/chazu/roft/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest
// bounding box axis.
const DefaultMeshCells = 200

// weldFraction is the weld distance as a fraction of one cell.
const weldFraction = 1e-3

type sdfxSolid struct {
	s sdf.SDF3
}

func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	return [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}, [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// solid wraps the result of an sdf constructor. The scene validator rejects
// non-positive dimensions before they reach the kernel, so a constructor
// error here is a programming error.
func solid(s sdf.SDF3, err error, what string) kernel.Solid {
	if err != nil {
		panic(errors.Wrapf(err, "sdfx: %s", what))
	}
	return &sdfxSolid{s: s}
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a kernel meshing at DefaultMeshCells.
func New() *SdfxKernel {
	return &SdfxKernel{cells: DefaultMeshCells}
}

// NewWithResolution returns a kernel meshing at the given number of cells.
// Values below 1 fall back to DefaultMeshCells.
func NewWithResolution(cells int) *SdfxKernel {
	if cells < 1 {
		cells = DefaultMeshCells
	}
	return &SdfxKernel{cells: cells}
}

// Cells returns the marching cubes resolution.
func (k *SdfxKernel) Cells() int {
	return k.cells
}

// Box has its minimum corner at the origin, so translating it by
// (vec3 10 0 0) puts the corner at x=10.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err == nil {
		s = sdf.Transform3D(s, sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}))
	}
	return solid(s, err, "box")
}

// Cylinder is centred on the origin with its axis along Z. Distance fields
// are smooth, so segments is ignored.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	return solid(s, err, "cylinder")
}

// Sphere is centred on the origin.
func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	return solid(s, err, "sphere")
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return &sdfxSolid{s: sdf.Union3D(unwrap(a), unwrap(b))}
}

func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return &sdfxSolid{s: sdf.Difference3D(unwrap(a), unwrap(b))}
}

func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return &sdfxSolid{s: sdf.Intersect3D(unwrap(a), unwrap(b))}
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &sdfxSolid{s: sdf.Transform3D(unwrap(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z}))}
}

// Rotate takes Euler angles in degrees, applied X then Y then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	const rad = math.Pi / 180
	m := sdf.RotateZ(z * rad).Mul(sdf.RotateY(y * rad)).Mul(sdf.RotateX(x * rad))
	return &sdfxSolid{s: sdf.Transform3D(unwrap(s), m)}
}

// ToMesh runs marching cubes over the solid's bounding box. The renderer
// emits a triangle soup, so coincident corners are welded within a small
// fraction of one cell to give the mesh a usable vertex adjacency.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	field := unwrap(s)
	tris := render.ToTriangles(field, render.NewMarchingCubesUniform(k.cells))
	if len(tris) == 0 {
		return nil, errors.Wrap(kernel.ErrBadMesh, "marching cubes produced no triangles")
	}

	soup := &kernel.Mesh{
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for _, tri := range tris {
		n := tri.Normal()
		for _, v := range tri {
			soup.Indices = append(soup.Indices, uint32(soup.VertexCount()))
			soup.Vertices = append(soup.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			soup.Normals = append(soup.Normals, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}

	size := field.BoundingBox().Size()
	cell := math.Max(size.X, math.Max(size.Y, size.Z)) / float64(k.cells)
	mesh := soup.Weld(cell * weldFraction)
	klog.V(2).Infof("sdfx: %d soup triangles welded to %d vertices, %d triangles",
		len(tris), mesh.VertexCount(), mesh.TriangleCount())
	return mesh, nil
}

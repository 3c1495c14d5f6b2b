package kernel

import "github.com/pkg/errors"

// Quad returns a flat width×height sheet in the XY plane, centred on the
// origin and subdivided into subX×subY cells. Vertex (i, j) has index
// j*(subX+1)+i; each cell is split into two triangles along its
// (i,j)-(i+1,j+1) diagonal.
func Quad(width, height float64, subX, subY int) (*Mesh, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrBadMesh, "quad size %gx%g must be positive", width, height)
	}
	if subX < 1 || subY < 1 {
		return nil, errors.Wrapf(ErrBadMesh, "quad subdivisions %dx%d must be at least 1", subX, subY)
	}

	nv := (subX + 1) * (subY + 1)
	m := &Mesh{
		Vertices: make([]float32, 0, nv*3),
		Normals:  make([]float32, 0, nv*3),
		Indices:  make([]uint32, 0, subX*subY*6),
	}
	dx, dy := width/float64(subX), height/float64(subY)
	for j := 0; j <= subY; j++ {
		for i := 0; i <= subX; i++ {
			x := float64(i)*dx - width/2
			y := float64(j)*dy - height/2
			m.Vertices = append(m.Vertices, float32(x), float32(y), 0)
			m.Normals = append(m.Normals, 0, 0, 1)
		}
	}

	idx := func(i, j int) uint32 { return uint32(j*(subX+1) + i) }
	for j := 0; j < subY; j++ {
		for i := 0; i < subX; i++ {
			a, b, c, d := idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)
			m.Indices = append(m.Indices, a, b, c, a, c, d)
		}
	}
	return m, nil
}

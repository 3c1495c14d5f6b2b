package kernel

import (
	"math"

	"github.com/pkg/errors"
)

// ErrBadMesh is returned when a Mesh's buffers are inconsistent.
var ErrBadMesh = errors.New("bad mesh")

// Mesh is an indexed triangle mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...], optional
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which scene part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) (x, y, z float64) {
	v := m.Vertices[i*3 : i*3+3]
	return float64(v[0]), float64(v[1]), float64(v[2])
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// Validate checks buffer lengths and that every index is in range.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return errors.Wrapf(ErrBadMesh, "vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return errors.Wrapf(ErrBadMesh, "index buffer length %d is not a multiple of 3", len(m.Indices))
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return errors.Wrapf(ErrBadMesh, "have %d normal floats for %d vertex floats", len(m.Normals), len(m.Vertices))
	}
	nv := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= nv {
			return errors.Wrapf(ErrBadMesh, "triangle %d references vertex %d, mesh has %d vertices", i/3, idx, nv)
		}
	}
	return nil
}

// Append adds o's geometry to m, offsetting o's indices past m's vertices.
// Normals are kept only when both meshes carry them.
func (m *Mesh) Append(o *Mesh) {
	base := uint32(m.VertexCount())
	keepNormals := (len(m.Normals) > 0 || m.IsEmpty()) && len(o.Normals) > 0
	m.Vertices = append(m.Vertices, o.Vertices...)
	if keepNormals {
		m.Normals = append(m.Normals, o.Normals...)
	} else {
		m.Normals = nil
	}
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}

// Translate moves every vertex by (x, y, z).
func (m *Mesh) Translate(x, y, z float64) {
	for i := 0; i < len(m.Vertices); i += 3 {
		m.Vertices[i] += float32(x)
		m.Vertices[i+1] += float32(y)
		m.Vertices[i+2] += float32(z)
	}
}

// Rotate applies Euler rotations (degrees) about X, then Y, then Z to every
// vertex and normal.
func (m *Mesh) Rotate(x, y, z float64) {
	r := rotation(x, y, z)
	rotateAll(m.Vertices, r)
	rotateAll(m.Normals, r)
}

type mat3 [3][3]float64

func rotation(x, y, z float64) mat3 {
	sx, cx := math.Sincos(x * math.Pi / 180)
	sy, cy := math.Sincos(y * math.Pi / 180)
	sz, cz := math.Sincos(z * math.Pi / 180)
	rx := mat3{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := mat3{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := mat3{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}
	return rz.mul(ry).mul(rx)
}

func (a mat3) mul(b mat3) mat3 {
	var c mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return c
}

func rotateAll(buf []float32, r mat3) {
	for i := 0; i+2 < len(buf); i += 3 {
		x, y, z := float64(buf[i]), float64(buf[i+1]), float64(buf[i+2])
		buf[i] = float32(r[0][0]*x + r[0][1]*y + r[0][2]*z)
		buf[i+1] = float32(r[1][0]*x + r[1][1]*y + r[1][2]*z)
		buf[i+2] = float32(r[2][0]*x + r[2][1]*y + r[2][2]*z)
	}
}

// Weld returns a copy of m in which vertices that fall in the same eps-sized
// cell are merged into one, keeping the first vertex's position. Normals of
// merged vertices are averaged. Triangles that collapse onto fewer than three
// distinct vertices are dropped. eps <= 0 merges only exact duplicates.
func (m *Mesh) Weld(eps float64) *Mesh {
	type cell [3]int64
	quantize := func(v float32) int64 {
		if eps <= 0 {
			return int64(math.Float32bits(v))
		}
		return int64(math.Round(float64(v) / eps))
	}

	out := &Mesh{PartName: m.PartName}
	hasNormals := len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0
	var sums []float64

	cells := make(map[cell]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertices[i*3 : i*3+3]
		key := cell{quantize(v[0]), quantize(v[1]), quantize(v[2])}
		idx, ok := cells[key]
		if !ok {
			idx = uint32(out.VertexCount())
			cells[key] = idx
			out.Vertices = append(out.Vertices, v...)
			if hasNormals {
				sums = append(sums, 0, 0, 0)
			}
		}
		if hasNormals {
			n := m.Normals[i*3 : i*3+3]
			sums[idx*3] += float64(n[0])
			sums[idx*3+1] += float64(n[1])
			sums[idx*3+2] += float64(n[2])
		}
		remap[i] = idx
	}

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := remap[m.Indices[t*3]], remap[m.Indices[t*3+1]], remap[m.Indices[t*3+2]]
		if a == b || b == c || a == c {
			continue
		}
		out.Indices = append(out.Indices, a, b, c)
	}

	if hasNormals {
		out.Normals = make([]float32, len(sums))
		for i := 0; i < len(sums); i += 3 {
			l := math.Sqrt(sums[i]*sums[i] + sums[i+1]*sums[i+1] + sums[i+2]*sums[i+2])
			if l == 0 {
				continue
			}
			out.Normals[i] = float32(sums[i] / l)
			out.Normals[i+1] = float32(sums[i+1] / l)
			out.Normals[i+2] = float32(sums[i+2] / l)
		}
	}
	return out
}

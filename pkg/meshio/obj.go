// Package meshio reads and writes Wavefront OBJ meshes.
//
// Only geometry is interpreted: v records become vertices and f records
// become triangles, with polygons fan-triangulated around their first
// corner. Texture coordinates, normals, groups and materials are parsed
// and ignored.
package meshio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/chazu/roft/pkg/kernel"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// ErrMalformedOBJ is returned for OBJ input that parses but does not
// describe a valid mesh.
var ErrMalformedOBJ = errors.New("malformed OBJ")

var objLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
	{Name: "Number", Pattern: `[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][^\s#/]*`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Misc", Pattern: `[^\s#/]+`},
})

type objFile struct {
	Statements []*objStatement `parser:"( @@ | EOL )*"`
}

type objStatement struct {
	Pos lexer.Position

	Vertex *objVertex `parser:"  @@"`
	Face   *objFace   `parser:"| @@"`
	Name   *objName   `parser:"| @@"`
	Other  *objOther  `parser:"| @@"`
}

type objVertex struct {
	X float64  `parser:"\"v\" @Number"`
	Y float64  `parser:"@Number"`
	Z float64  `parser:"@Number"`
	W *float64 `parser:"@Number?"`
}

type objFace struct {
	Refs []*objRef `parser:"\"f\" @@+"`
}

// objRef is one face corner: v, v/vt, v//vn or v/vt/vn.
type objRef struct {
	V      int  `parser:"@Number"`
	TexRef *int `parser:"( Slash @Number?"`
	Normal *int `parser:"  ( Slash @Number )? )?"`
}

type objName struct {
	Name string `parser:"\"o\" @(Ident | Number | Misc)"`
}

type objOther struct {
	Keyword string   `parser:"@Ident"`
	Args    []string `parser:"( @Number | @Ident | @Slash | @Misc )*"`
}

var objParser = participle.MustBuild[objFile](
	participle.Lexer(objLexer),
	participle.Elide("Comment", "Whitespace"),
)

// ReadOBJ parses an OBJ stream into an indexed mesh. The first o record,
// if any, names the mesh.
func ReadOBJ(name string, r io.Reader) (*kernel.Mesh, error) {
	ast, err := objParser.Parse(name, r)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedOBJ, "%s", err)
	}

	m := &kernel.Mesh{}
	skipped := 0
	for _, st := range ast.Statements {
		switch {
		case st.Vertex != nil:
			v := st.Vertex
			if v.W != nil && *v.W != 0 {
				m.Vertices = append(m.Vertices, float32(v.X / *v.W), float32(v.Y / *v.W), float32(v.Z / *v.W))
			} else {
				m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			}

		case st.Face != nil:
			if err := addFace(m, st.Face); err != nil {
				return nil, errors.Wrapf(err, "%s", st.Pos)
			}

		case st.Name != nil:
			if m.PartName == "" {
				m.PartName = st.Name.Name
			}

		case st.Other.Keyword == "v" || st.Other.Keyword == "f":
			return nil, errors.Wrapf(ErrMalformedOBJ, "%s: incomplete %s record", st.Pos, st.Other.Keyword)

		default:
			skipped++
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	klog.V(2).Infof("meshio: read %d vertices, %d triangles from %s (%d records ignored)",
		m.VertexCount(), m.TriangleCount(), name, skipped)
	return m, nil
}

// addFace resolves the corners of f against the vertices read so far and
// appends its fan triangulation to m.
func addFace(m *kernel.Mesh, f *objFace) error {
	if len(f.Refs) < 3 {
		return errors.Wrapf(ErrMalformedOBJ, "face has %d corners, want at least 3", len(f.Refs))
	}

	n := m.VertexCount()
	idx := make([]uint32, len(f.Refs))
	for i, ref := range f.Refs {
		v := ref.V
		switch {
		case v > 0 && v <= n:
			v--
		case v < 0 && -v <= n:
			v += n
		default:
			return errors.Wrapf(ErrMalformedOBJ, "vertex reference %d out of range with %d vertices", ref.V, n)
		}
		idx[i] = uint32(v)
	}

	for i := 1; i+1 < len(idx); i++ {
		m.Indices = append(m.Indices, idx[0], idx[i], idx[i+1])
	}
	return nil
}

// WriteOBJ writes m as OBJ text. Vertex normals are written when present.
func WriteOBJ(w io.Writer, m *kernel.Mesh) error {
	bw := bufio.NewWriter(w)
	if m.PartName != "" {
		fmt.Fprintf(bw, "o %s\n", m.PartName)
	}
	for i := 0; i < m.VertexCount(); i++ {
		x, y, z := m.Vertex(i)
		fmt.Fprintf(bw, "v %g %g %g\n", x, y, z)
	}
	hasNormals := len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0
	if hasNormals {
		for i := 0; i < len(m.Normals); i += 3 {
			fmt.Fprintf(bw, "vn %g %g %g\n", m.Normals[i], m.Normals[i+1], m.Normals[i+2])
		}
	}
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.Triangle(t)
		a, b, c := tri[0]+1, tri[1]+1, tri[2]+1
		if hasNormals {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}
	return errors.Wrap(bw.Flush(), "meshio: write OBJ")
}

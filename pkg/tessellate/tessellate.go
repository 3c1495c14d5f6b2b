// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per part.
package tessellate

import (
	"github.com/chazu/roft/pkg/kernel"
	"github.com/chazu/roft/pkg/scene"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// CylinderSegments is the facet count requested for cylinders. Kernels that
// mesh implicitly may ignore it.
const CylinderSegments = 32

var (
	// ErrNotSolid is returned when a sheet appears where a solid is required,
	// such as a boolean operand.
	ErrNotSolid = errors.New("sheet used as a solid")
	// ErrUnsupported is returned for node kinds that carry no geometry in the
	// position they appear.
	ErrUnsupported = errors.New("node has no geometry")
)

// Tessellate produces one mesh per part reachable from the scene roots, in
// root order. The tessellator is read-only and never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, p := range s.Parts() {
		m, err := TessellatePart(s, k, p)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// TessellatePart meshes a single part node. Solid bodies go through the
// kernel; sheet bodies are built directly as quads. The returned mesh's
// PartName is the part's name, or its short id when unnamed.
func TessellatePart(s *scene.Scene, k kernel.Kernel, part *scene.Node) (*kernel.Mesh, error) {
	if part.Kind != scene.NodePart || len(part.Children) != 1 {
		return nil, errors.Errorf("tessellate: node %s is not a part with one body", part.ID.Short())
	}
	body := s.Get(part.Children[0])
	if body == nil {
		return nil, errors.Errorf("tessellate: part %s body %s does not exist", part.ID.Short(), part.Children[0].Short())
	}

	var (
		m   *kernel.Mesh
		err error
	)
	if scene.IsSolid(s, body) {
		var solid kernel.Solid
		solid, err = buildSolid(s, k, body)
		if err == nil {
			m, err = k.ToMesh(solid)
		}
	} else {
		m, err = buildSheet(s, body)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "tessellate: part %q", partName(part))
	}

	m.PartName = partName(part)
	klog.V(2).Infof("tessellate: part %q has %d vertices, %d triangles", m.PartName, m.VertexCount(), m.TriangleCount())
	return m, nil
}

func partName(n *scene.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// buildSolid evaluates a solid subtree into a kernel solid.
func buildSolid(s *scene.Scene, k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	switch n.Kind {
	case scene.NodeSolid:
		return handlePrimitive(k, n)

	case scene.NodeBoolean:
		return handleBoolean(s, k, n)

	case scene.NodeTransform:
		td, child, err := transformChild(s, n)
		if err != nil {
			return nil, err
		}
		solid, err := buildSolid(s, k, child)
		if err != nil {
			return nil, err
		}
		// Rotation first, then translation.
		if td.Rotation != nil && !td.Rotation.IsZero() {
			solid = k.Rotate(solid, td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
		}
		if td.Translation != nil && !td.Translation.IsZero() {
			solid = k.Translate(solid, td.Translation.X, td.Translation.Y, td.Translation.Z)
		}
		return solid, nil

	case scene.NodeSheet:
		return nil, errors.Wrapf(ErrNotSolid, "node %s", n.ID.Short())

	default:
		return nil, errors.Wrapf(ErrUnsupported, "%s node %s inside a solid", n.Kind, n.ID.Short())
	}
}

// handlePrimitive creates the kernel solid for a primitive node.
func handlePrimitive(k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	d, ok := n.Data.(scene.SolidData)
	if !ok {
		return nil, errors.Errorf("solid node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	switch d.Kind {
	case scene.SolidBox:
		return k.Box(d.Size.X, d.Size.Y, d.Size.Z), nil
	case scene.SolidCylinder:
		return k.Cylinder(d.Height, d.Radius, CylinderSegments), nil
	case scene.SolidSphere:
		return k.Sphere(d.Radius), nil
	}
	return nil, errors.Errorf("solid node %s has unknown kind %s", n.ID.Short(), d.Kind)
}

// handleBoolean folds the operands left to right with the node's operation.
func handleBoolean(s *scene.Scene, k kernel.Kernel, n *scene.Node) (kernel.Solid, error) {
	d, ok := n.Data.(scene.BooleanData)
	if !ok {
		return nil, errors.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := s.Children(n)
	if len(children) < 2 {
		return nil, errors.Errorf("boolean node %s has %d operands, want at least 2", n.ID.Short(), len(children))
	}

	var acc kernel.Solid
	for i, c := range children {
		solid, err := buildSolid(s, k, c)
		if err != nil {
			return nil, errors.Wrapf(err, "%s operand %d", d.Op, i+1)
		}
		if i == 0 {
			acc = solid
			continue
		}
		switch d.Op {
		case scene.OpUnion:
			acc = k.Union(acc, solid)
		case scene.OpDifference:
			acc = k.Difference(acc, solid)
		case scene.OpIntersection:
			acc = k.Intersection(acc, solid)
		default:
			return nil, errors.Errorf("boolean node %s has unknown op %s", n.ID.Short(), d.Op)
		}
	}
	return acc, nil
}

// buildSheet evaluates a sheet subtree into a mesh. Transforms are applied
// to the mesh vertices directly.
func buildSheet(s *scene.Scene, n *scene.Node) (*kernel.Mesh, error) {
	switch n.Kind {
	case scene.NodeSheet:
		d, ok := n.Data.(scene.SheetData)
		if !ok {
			return nil, errors.Errorf("sheet node %s has unexpected data type %T", n.ID.Short(), n.Data)
		}
		return kernel.Quad(d.Width, d.Height, d.SubX, d.SubY)

	case scene.NodeTransform:
		td, child, err := transformChild(s, n)
		if err != nil {
			return nil, err
		}
		m, err := buildSheet(s, child)
		if err != nil {
			return nil, err
		}
		if td.Rotation != nil && !td.Rotation.IsZero() {
			m.Rotate(td.Rotation.X, td.Rotation.Y, td.Rotation.Z)
		}
		if td.Translation != nil && !td.Translation.IsZero() {
			m.Translate(td.Translation.X, td.Translation.Y, td.Translation.Z)
		}
		return m, nil

	default:
		return nil, errors.Wrapf(ErrUnsupported, "%s node %s as a part body", n.Kind, n.ID.Short())
	}
}

func transformChild(s *scene.Scene, n *scene.Node) (scene.TransformData, *scene.Node, error) {
	td, ok := n.Data.(scene.TransformData)
	if !ok {
		return td, nil, errors.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	children := s.Children(n)
	if len(children) != 1 {
		return td, nil, errors.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(children))
	}
	return td, children[0], nil
}

package scene

import "fmt"

// ValidationSeverity indicates whether a validation finding blocks
// tessellation or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks tessellation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if scene-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs the structural checks on s and returns every finding. No
// findings of SeverityError means the scene can be tessellated. It never
// mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateDAG(s)...)
	errs = append(errs, validateReferences(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateRoots(s)...)
	errs = append(errs, validateShapes(s)...)
	return errs
}

// HasErrors reports whether any finding is of SeverityError.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateDAG checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateDAG(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int)
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is part of a cycle", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray
		node, ok := s.Nodes[id]
		if !ok {
			// Dangling reference; handled by validateReferences.
			color[id] = black
			return false
		}
		for _, childID := range node.Children {
			if visit(childID) {
				return true
			}
		}
		color[id] = black
		return false
	}

	for id := range s.Nodes {
		if color[id] == white {
			if visit(id) {
				break
			}
		}
	}
	return errs
}

// validateReferences checks that every child reference points to a node
// that exists.
func validateReferences(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, node := range s.Nodes {
		for _, childID := range node.Children {
			if _, ok := s.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// validateNames checks that the NameIndex points at existing nodes and that
// no two nodes share a name.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError

	for name, id := range s.NameIndex {
		if _, ok := s.Nodes[id]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("name index entry %q references non-existent node %s", name, id.Short()),
				Severity: SeverityError,
			})
		}
	}

	nameToNodes := make(map[string][]NodeID)
	for id, node := range s.Nodes {
		if node.Name != "" {
			nameToNodes[node.Name] = append(nameToNodes[node.Name], id)
		}
	}
	for name, ids := range nameToNodes {
		if len(ids) > 1 {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("duplicate name %q assigned to %d nodes", name, len(ids)),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateRoots checks that every root exists and warns about nodes that no
// root reaches.
func validateRoots(s *Scene) []ValidationError {
	var errs []ValidationError

	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; !ok {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("root reference %s does not exist", rid.Short()),
				Severity: SeverityError,
			})
		}
	}
	if len(s.Nodes) == 0 {
		return errs
	}

	reachable := make(map[NodeID]bool)
	queue := make([]NodeID, 0, len(s.Roots))
	for _, rid := range s.Roots {
		if _, ok := s.Nodes[rid]; ok && !reachable[rid] {
			reachable[rid] = true
			queue = append(queue, rid)
		}
	}
	for len(queue) > 0 {
		node := s.Nodes[queue[0]]
		queue = queue[1:]
		if node == nil {
			continue
		}
		for _, childID := range node.Children {
			if !reachable[childID] {
				reachable[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	for id, node := range s.Nodes {
		if !reachable[id] {
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q is not reachable from any root (orphan)", name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateShapes checks each node's payload type, child count, and
// dimensions, and that booleans only combine solids.
func validateShapes(s *Scene) []ValidationError {
	var errs []ValidationError
	fail := func(n *Node, format string, args ...interface{}) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	for _, n := range s.Nodes {
		switch n.Kind {
		case NodePart:
			if _, ok := n.Data.(PartData); !ok {
				fail(n, "part node carries %T", n.Data)
			}
			if len(n.Children) != 1 {
				fail(n, "part has %d children, want 1", len(n.Children))
			}
		case NodeSheet:
			d, ok := n.Data.(SheetData)
			if !ok {
				fail(n, "sheet node carries %T", n.Data)
				continue
			}
			if d.Width <= 0 || d.Height <= 0 {
				fail(n, "sheet size %gx%g must be positive", d.Width, d.Height)
			}
			if d.SubX < 1 || d.SubY < 1 {
				fail(n, "sheet subdivisions %dx%d must be at least 1", d.SubX, d.SubY)
			}
			if len(n.Children) != 0 {
				fail(n, "sheet has %d children, want 0", len(n.Children))
			}
		case NodeSolid:
			d, ok := n.Data.(SolidData)
			if !ok {
				fail(n, "solid node carries %T", n.Data)
				continue
			}
			switch d.Kind {
			case SolidBox:
				if d.Size.X <= 0 || d.Size.Y <= 0 || d.Size.Z <= 0 {
					fail(n, "box size %s must be positive", d.Size)
				}
			case SolidCylinder:
				if d.Radius <= 0 || d.Height <= 0 {
					fail(n, "cylinder radius %g and height %g must be positive", d.Radius, d.Height)
				}
			case SolidSphere:
				if d.Radius <= 0 {
					fail(n, "sphere radius %g must be positive", d.Radius)
				}
			}
			if len(n.Children) != 0 {
				fail(n, "solid has %d children, want 0", len(n.Children))
			}
		case NodeBoolean:
			if _, ok := n.Data.(BooleanData); !ok {
				fail(n, "boolean node carries %T", n.Data)
			}
			if len(n.Children) < 2 {
				fail(n, "boolean has %d children, want at least 2", len(n.Children))
			}
			for _, c := range s.Children(n) {
				if !IsSolid(s, c) {
					fail(n, "boolean operand %s is not a solid", c.ID.Short())
				}
			}
		case NodeTransform:
			if _, ok := n.Data.(TransformData); !ok {
				fail(n, "transform node carries %T", n.Data)
			}
			if len(n.Children) != 1 {
				fail(n, "transform has %d children, want 1", len(n.Children))
			}
		case NodeGroup:
			if _, ok := n.Data.(GroupData); !ok {
				fail(n, "group node carries %T", n.Data)
			}
		default:
			fail(n, "unknown node kind %d", int(n.Kind))
		}
	}
	return errs
}

// IsSolid reports whether n evaluates to a kernel solid: a solid primitive,
// a boolean, or a transform of a solid.
func IsSolid(s *Scene, n *Node) bool {
	for depth := 0; n != nil && depth <= len(s.Nodes); depth++ {
		switch n.Kind {
		case NodeSolid, NodeBoolean:
			return true
		case NodeTransform:
			if len(n.Children) != 1 {
				return false
			}
			n = s.Get(n.Children[0])
		default:
			return false
		}
	}
	return false
}

package scene

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// NodeID is a content-addressed identifier for scene nodes: the hex xxhash
// of the path that created the node.
type NodeID string

// ZeroID is the empty NodeID.
const ZeroID NodeID = ""

// NewNodeID derives a NodeID from a creation path such as "defpart/cloth".
// The same path always yields the same id.
func NewNodeID(path string) NodeID {
	return NodeID(fmt.Sprintf("%016x", xxhash.Sum64String(path)))
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first eight characters of id for messages.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// NodeKind enumerates the types of nodes in the scene.
type NodeKind int

const (
	NodePart      NodeKind = iota // named part; one mesh per part
	NodeSheet                     // subdivided flat quad
	NodeSolid                     // solid primitive (box, cylinder, sphere)
	NodeBoolean                   // union, difference, intersection
	NodeTransform                 // translate and/or rotate
	NodeGroup                     // logical grouping
)

func (k NodeKind) String() string {
	switch k {
	case NodePart:
		return "part"
	case NodeSheet:
		return "sheet"
	case NodeSolid:
		return "solid"
	case NodeBoolean:
		return "boolean"
	case NodeTransform:
		return "transform"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene.
type Node struct {
	ID       NodeID   `json:"id"`
	Kind     NodeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Children []NodeID `json:"children,omitempty"`
	Data     NodeData `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

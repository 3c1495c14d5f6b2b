package scene

import "fmt"

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether every component is zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v.X, v.Y, v.Z)
}

// ---------------------------------------------------------------------------
// Part
// ---------------------------------------------------------------------------

// PartData marks a named part. Created by the (defpart ...) form.
type PartData struct {
	Description string `json:"description,omitempty"`
}

func (PartData) nodeData() {}

// ---------------------------------------------------------------------------
// Sheet
// ---------------------------------------------------------------------------

// SheetData is a flat width×height quad in the XY plane, subdivided into
// SubX×SubY cells. This is the cloth-like surface a constraint solver relaxes.
type SheetData struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	SubX   int     `json:"sub_x"`
	SubY   int     `json:"sub_y"`
}

func (SheetData) nodeData() {}

// ---------------------------------------------------------------------------
// Solids
// ---------------------------------------------------------------------------

// SolidKind distinguishes between solid primitives.
type SolidKind int

const (
	SolidBox      SolidKind = iota // rectangular solid, min corner at origin
	SolidCylinder                  // Z-axis cylinder centred on the origin
	SolidSphere                    // sphere centred on the origin
)

func (k SolidKind) String() string {
	switch k {
	case SolidBox:
		return "box"
	case SolidCylinder:
		return "cylinder"
	case SolidSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// SolidData describes a solid primitive. Size is used by boxes; Radius by
// cylinders and spheres; Height by cylinders.
type SolidData struct {
	Kind   SolidKind `json:"kind"`
	Size   Vec3      `json:"size,omitempty"`
	Radius float64   `json:"radius,omitempty"`
	Height float64   `json:"height,omitempty"`
}

func (SolidData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp enumerates boolean operations on solids.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// BooleanData folds its children left to right with Op. Difference subtracts
// every later child from the first.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a child node.
// Created by the (translate ...) and (rotate ...) forms.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping of parts.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

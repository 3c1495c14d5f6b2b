// Package kernel defines the geometry kernel interface and the flat triangle
// Mesh that every mesh source (solid kernels, quad sheets, OBJ files) hands
// to the constraint graph builder.
package kernel

// Solid is a kernel-specific solid handle. Only the kernel that created it
// can operate on it.
type Solid interface {
	BoundingBox() (min, max [3]float64)
}

// Kernel builds solids and meshes them. sdfx is the default implementation;
// manifold is available behind a build tag.
type Kernel interface {
	Box(x, y, z float64) Solid // minimum corner at the origin
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid // a minus b
	Intersection(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z

	// ToMesh returns an indexed mesh: coincident vertices are shared
	// between triangles so the mesh has a usable vertex adjacency.
	ToMesh(s Solid) (*Mesh, error)
}

// Package kernel defines the solid-geometry interface used to build
// preview meshes of cabinet panels. A backend supplies boards, drill
// cylinders, booleans and placement transforms behind this interface.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box is a board with its minimum corner at the origin.
	Box(x, y, z float64) Solid
	// Cylinder is a drill body along Z, centred on the origin.
	Cylinder(height, radius float64) Solid

	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z

	ToMesh(s Solid) (*Mesh, error)
}

// Package scene holds the ordered cabinet collection of a project, places
// every cabinet in 3D from its parent/attachment tree, and validates the
// collection in tiers (structural, geometric, rule coverage).
package scene

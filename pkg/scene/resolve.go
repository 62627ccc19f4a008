package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/google/uuid"
)

// ErrCycle is returned when parent references loop back on themselves.
var ErrCycle = errors.New("attachment cycle")

// Vec3 is an absolute position in meters scaled by the scene unit.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// ResolveOrigins places every cabinet. Roots, and cabinets whose parent index
// points outside the collection, sit at the origin. A child attached right is
// shifted by its parent's length, left by its own length, up by its parent's
// height. Raw dimensions are multiplied by unit.
//
// Each cabinet is resolved once. A parent chain that loops fails with
// ErrCycle.
func ResolveOrigins(cabs []cabinet.Cabinet, unit cabinet.Unit) (map[uuid.UUID]Vec3, error) {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(cabs))
	origins := make([]Vec3, len(cabs))
	scale := float64(unit)

	var visit func(i int) error
	visit = func(i int) error {
		switch color[i] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("cabinet %d (%s) is part of a cycle: %w", i, cabs[i].Name, ErrCycle)
		}

		color[i] = gray
		a := cabs[i].Attachment
		if a == nil || a.Parent < 0 || a.Parent >= len(cabs) {
			origins[i] = Vec3{}
			color[i] = black
			return nil
		}

		if err := visit(a.Parent); err != nil {
			return err
		}

		parent := cabs[a.Parent]
		o := origins[a.Parent]
		switch a.Dir {
		case cabinet.DirRight:
			o.X += parent.Length * scale
		case cabinet.DirLeft:
			o.X -= cabs[i].Length * scale
		case cabinet.DirUp:
			o.Z += parent.Height * scale
		}
		origins[i] = o
		color[i] = black
		return nil
	}

	for i := range cabs {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	out := make(map[uuid.UUID]Vec3, len(cabs))
	for i, c := range cabs {
		out[c.ID] = origins[i]
	}
	return out, nil
}

// Origins resolves the scene's cabinets with its own unit.
func (s *Scene) Origins() (map[uuid.UUID]Vec3, error) {
	return ResolveOrigins(s.Cabinets, s.Unit)
}

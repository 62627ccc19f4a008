// Package tessellate builds preview meshes of a scene: one triangle mesh
// per panel, placed at its cabinet's resolved origin, using a geometry
// kernel.
package tessellate

import (
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/kernel"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/chazu/caisson/pkg/scene"
)

// Options controls mesh generation.
type Options struct {
	// Drill subtracts every face hole from its panel as a cylinder.
	Drill bool
}

// drillOvershoot carries drill bodies past the panel surface so the
// boolean never leaves a skin.
const drillOvershoot = 1.0

// transformStack accumulates translations from the scene down to a panel.
type transformStack struct {
	translations [][3]float64
}

func (ts *transformStack) push(v [3]float64) {
	ts.translations = append(ts.translations, v)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
}

// accumulated returns the sum of all translations on the stack.
func (ts *transformStack) accumulated() [3]float64 {
	var sum [3]float64
	for _, t := range ts.translations {
		for i := range sum {
			sum[i] += t[i]
		}
	}
	return sum
}

// placement orients a flat board (outline X by outline Y, thickness along
// Z) inside its cabinet.
type placement struct {
	rot         [3]float64 // Euler degrees
	at          [3]float64 // cabinet-local translation after rotation
	mirrorX     bool       // hole X runs from the far end
	drillBottom bool       // holes enter at local z=0
	suffix      string
}

// Tessellate produces one mesh per physical panel of every cabinet in s.
// Positions are in the scene's raw units, X along the run, Y into the
// depth from the front face and Z up. The scene foot height lifts every
// cabinet. The tessellator never mutates the scene.
func Tessellate(s *scene.Scene, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}

	origins, err := s.Origins()
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	var meshes []*kernel.Mesh
	ts := &transformStack{}
	ts.push([3]float64{0, 0, s.FootHeight})

	for i := range s.Cabinets {
		c, err := s.Snapshot(i)
		if err != nil {
			return nil, err
		}
		o := origins[c.ID]
		scale := float64(s.Unit)
		ts.push([3]float64{o.X / scale, o.Y / scale, o.Z / scale})

		collected, err := tessellateCabinet(k, i, c, ts, opts)
		ts.pop()
		if err != nil {
			return nil, fmt.Errorf("tessellate: cabinet %q: %w", c.Name, err)
		}
		meshes = append(meshes, collected...)
	}

	return meshes, nil
}

func tessellateCabinet(k kernel.Kernel, idx int, c cabinet.Cabinet, ts *transformStack, opts Options) ([]*kernel.Mesh, error) {
	panels := panel.Compute(c)

	var meshes []*kernel.Mesh
	for _, p := range panels {
		var holes []joinery.Hole
		if opts.Drill {
			holes = joinery.ForPanel(p, c)
		}
		for _, pl := range placements(p, c, panels) {
			ts.push(pl.at)
			m, err := panelMesh(k, p, holes, pl, ts.accumulated())
			ts.pop()
			if err != nil {
				return nil, err
			}
			m.PartName = p.Letter(idx) + pl.suffix
			m.Cabinet = c.Name
			m.Material = p.Material
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// panelMesh builds the board, drills its face holes and moves it into place.
func panelMesh(k kernel.Kernel, p panel.Panel, holes []joinery.Hole, pl placement, at [3]float64) (*kernel.Mesh, error) {
	solid := k.Box(p.Outline.X, p.Outline.Y, p.Thickness)

	var drills kernel.Solid
	for _, h := range holes {
		if h.Face != joinery.FaceSide || h.Diameter.Bore <= 0 {
			continue
		}
		depth := h.Diameter.Depth
		if depth <= 0 || depth > p.Thickness {
			depth = p.Thickness
		}
		z := p.Thickness - depth/2 + drillOvershoot/2
		if pl.drillBottom {
			z = depth/2 - drillOvershoot/2
		}
		x := h.X
		if pl.mirrorX {
			x = p.Outline.X - h.X
		}
		cyl := k.Translate(k.Cylinder(depth+drillOvershoot, h.Diameter.Bore/2), x, h.Y, z)
		if drills == nil {
			drills = cyl
		} else {
			drills = k.Union(drills, cyl)
		}
	}
	if drills != nil {
		solid = k.Difference(solid, drills)
	}

	if pl.rot != [3]float64{} {
		solid = k.Rotate(solid, pl.rot[0], pl.rot[1], pl.rot[2])
	}
	if at != [3]float64{} {
		solid = k.Translate(solid, at[0], at[1], at[2])
	}

	m, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return m, nil
}

var (
	standUpYZ = [3]float64{90, 0, 90} // outline X along depth, Y up, thickness along X
	standUpXZ = [3]float64{90, 0, 0}  // outline X along the run, Y up, thickness toward the front
)

// placements positions p in its cabinet. Boards standing with standUpXZ
// grow toward -Y from their translation, so at names their back face.
func placements(p panel.Panel, c cabinet.Cabinet, panels []panel.Panel) []placement {
	L, W, H := c.Length, c.Width, c.Height
	t := c.Thickness
	inner := c.InnerLength()

	switch p.Role {
	case panel.BottomRail:
		return []placement{{at: [3]float64{t.Side, 0, 0}}}
	case panel.TopRail:
		return []placement{{at: [3]float64{t.Side, 0, H - t.Top}}}
	case panel.LeftStile:
		return []placement{{rot: standUpYZ}}
	case panel.RightStile:
		return []placement{{rot: standUpYZ, at: [3]float64{L - t.Side, 0, 0}, mirrorX: true, drillBottom: true}}
	case panel.Back:
		inset := (L - p.Outline.X) / 2
		return []placement{{rot: standUpXZ, at: [3]float64{inset, W + p.Thickness, inset}}}
	case panel.DoorLeaf:
		d, _ := c.Door()
		z := H - d.Gap - p.Outline.Y
		out := []placement{{rot: standUpXZ, at: [3]float64{d.Gap, 0, z}, drillBottom: true}}
		if p.Quantity > 1 {
			second := out[0]
			second.at[0] = L - d.Gap - p.Outline.X
			second.suffix = "/2"
			out = append(out, second)
		}
		return out
	case panel.DrawerFace:
		d, _ := c.Drawer()
		return []placement{{rot: standUpXZ, at: [3]float64{d.Gap, 0, d.Gap}, drillBottom: true}}
	case panel.DrawerBack:
		d, _ := c.Drawer()
		depth := W
		if b, ok := panel.Find(panels, panel.DrawerBottom, -1); ok {
			depth = b.Outline.Y
		}
		x := t.Side + (inner-p.Outline.X)/2
		return []placement{{rot: standUpXZ, at: [3]float64{x, depth + p.Thickness, t.Bottom + d.BottomOffset + p.Thickness}}}
	case panel.DrawerBottom:
		d, _ := c.Drawer()
		x := t.Side + (inner-p.Outline.X)/2
		return []placement{{at: [3]float64{x, 0, t.Bottom + d.BottomOffset}}}
	case panel.Shelf:
		if p.Index < 0 || p.Index >= len(c.Shelves) {
			return nil
		}
		x := t.Side + (inner-p.Outline.X)/2
		return []placement{{at: [3]float64{x, 0, t.Bottom + c.Shelves[p.Index].Height}}}
	}
	return nil
}

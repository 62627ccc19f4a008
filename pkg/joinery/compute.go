package joinery

import (
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/panel"
)

// Hinge drilling, in mm from the hinge-side edge.
const (
	hingeScrewNear = 20.0
	hingeScrewFar  = 52.0
	hingeCupInset  = 23.5
	hingePilotX    = 33.0
	hingePilotDY   = 22.5
)

// Compute returns the holes of the panel with the given role. Shelves are
// addressed by index, so the Shelf role yields nothing here; use ForPanel.
func Compute(role panel.Role, c cabinet.Cabinet) []Hole {
	return ForPanel(panel.Panel{Role: role, Index: -1}, c)
}

// ForPanel returns the holes of p, one of the panels computed for c.
func ForPanel(p panel.Panel, c cabinet.Cabinet) []Hole {
	switch p.Role {
	case panel.LeftStile:
		return stileHoles(c, cabinet.SideLeft)
	case panel.RightStile:
		return stileHoles(c, cabinet.SideRight)
	case panel.BottomRail:
		return railHoles(c.Width, c.Thickness.Bottom)
	case panel.TopRail:
		return railHoles(c.Width, c.Thickness.Top)
	case panel.Back:
		return BackPanelHoles(c.Length-2, c.Height-2)
	case panel.DoorLeaf:
		return doorLeafHoles(c)
	case panel.DrawerFace:
		return drawerFaceHoles(c)
	case panel.DrawerBack:
		return drawerBackHoles(c)
	case panel.Shelf:
		return ShelfEdgeHoles(c, p.Index)
	default:
		return nil
	}
}

// ShelfGroup is the collision group shared by every hole of shelf i.
func ShelfGroup(i int) string {
	return fmt.Sprintf("shelf-%d", i+1)
}

func shelfSource(i int) string {
	return fmt.Sprintf("Shelf %d", i+1)
}

// jointRow lays a structural screw/dowel row across a stile at height y.
func jointRow(screws, dowels []float64, dx, y float64, prov Provenance, group, source string) []Hole {
	holes := make([]Hole, 0, len(screws)+len(dowels))
	for _, x := range screws {
		holes = append(holes, Hole{X: x + dx, Y: y, Kind: Screw, Diameter: diaScrew,
			Provenance: prov, Group: group, Source: source})
	}
	for _, x := range dowels {
		holes = append(holes, Hole{X: x + dx, Y: y, Kind: Dowel, Diameter: diaDowel,
			Provenance: prov, Group: group, Source: source})
	}
	return holes
}

// stileHoles drills one stile. Its x axis runs across the depth of the
// cabinet; the right stile is drilled from its mirrored face, so asymmetric
// rows are reflected as depth - x.
func stileHoles(c cabinet.Cabinet, side cabinet.Side) []Hole {
	W, H := c.Width, c.Height
	t := c.Thickness

	screws, dowels := StructuralPositions(W)
	group := Structural.String()
	holes := jointRow(screws, dowels, 0, t.Bottom/2, Structural, group, "Bottom rail")
	holes = append(holes, jointRow(screws, dowels, 0, H-t.Top/2, Structural, group, "Top rail")...)

	for i, s := range c.Shelves {
		switch s.Kind {
		case cabinet.ShelfFixed:
			// Fixed shelves sit 10mm back from the front edge.
			ss, sd := StructuralPositions(W - 10)
			dx := 0.0
			if side == cabinet.SideLeft {
				dx = 10
			}
			y := t.Bottom + s.Center()
			holes = append(holes, jointRow(ss, sd, dx, y, ShelfFixed, ShelfGroup(i), shelfSource(i))...)
		case cabinet.ShelfAdjustable:
			holes = append(holes, ShelfPins(c, i)...)
		}
	}

	if d, ok := c.Door(); ok && (d.Type == cabinet.DoorDouble || d.Opening == side) {
		for _, y := range HingePositions(H) {
			for _, x := range []float64{hingeScrewNear, hingeScrewFar} {
				holes = append(holes, Hole{X: x, Y: y, Kind: Screw, Diameter: diaHingeScrew,
					Provenance: Hinge, Group: Hinge.String(), Source: "Hinge plate"})
			}
		}
	}

	if d, ok := c.Drawer(); ok {
		y := SlideHeight(c, d)
		for _, x := range SlidePositions(d.Tech, W) {
			if side == cabinet.SideRight {
				x = W - x
			}
			holes = append(holes, Hole{X: x, Y: y, Kind: Screw, Diameter: diaSlide,
				Provenance: Slide, Group: Slide.String(), Source: "Drawer slide"})
		}
	}
	return holes
}

// railHoles are the dowels drilled into the end grain of a rail, matching
// the stile dowels.
func railHoles(depth, thickness float64) []Hole {
	_, dowels := StructuralPositions(depth)
	holes := make([]Hole, 0, len(dowels))
	for _, y := range dowels {
		holes = append(holes, Hole{X: thickness / 2, Y: y, Kind: Dowel, Diameter: diaDowel,
			Provenance: Structural, Group: Structural.String(), Source: "Stile joint", Face: FaceEdge})
	}
	return holes
}

// ShelfEdgeHoles returns the edge holes of fixed shelf i, matching the row
// drilled into the stiles. Adjustable shelves have none.
func ShelfEdgeHoles(c cabinet.Cabinet, i int) []Hole {
	if i < 0 || i >= len(c.Shelves) || c.Shelves[i].Kind != cabinet.ShelfFixed {
		return nil
	}
	s := c.Shelves[i]
	screws, dowels := StructuralPositions(c.Width - 10)
	holes := make([]Hole, 0, len(screws)+len(dowels))
	for _, y := range screws {
		holes = append(holes, Hole{X: s.Thickness / 2, Y: y, Kind: Screw, Diameter: diaScrew,
			Provenance: ShelfFixed, Group: ShelfGroup(i), Source: shelfSource(i), Face: FaceEdge})
	}
	for _, y := range dowels {
		holes = append(holes, Hole{X: s.Thickness / 2, Y: y, Kind: Dowel, Diameter: diaDowel,
			Provenance: ShelfFixed, Group: ShelfGroup(i), Source: shelfSource(i), Face: FaceEdge})
	}
	return holes
}

// doorLeafHoles drills the hinge cups and their pilot holes. Hinge rows
// follow the height of the leaf, not of the carcass.
func doorLeafHoles(c cabinet.Cabinet) []Hole {
	d, ok := c.Door()
	if !ok {
		return nil
	}
	w, h, _ := panel.DoorSize(c)
	cupX, pilotX := hingeCupInset, hingePilotX
	if d.Opening == cabinet.SideRight {
		cupX, pilotX = w-hingeCupInset, w-hingePilotX
	}

	var holes []Hole
	for _, y := range HingePositions(h) {
		holes = append(holes,
			Hole{X: cupX, Y: y, Kind: Dowel, Diameter: diaHingeCup,
				Provenance: Hinge, Group: Hinge.String(), Source: "Hinge cup"},
			Hole{X: pilotX, Y: y + hingePilotDY, Kind: Screw, Diameter: diaHingePilot,
				Provenance: Hinge, Group: Hinge.String(), Source: "Hinge cup"},
			Hole{X: pilotX, Y: y - hingePilotDY, Kind: Screw, Diameter: diaHingePilot,
				Provenance: Hinge, Group: Hinge.String(), Source: "Hinge cup"},
		)
	}
	return holes
}

func drawerFaceHoles(c cabinet.Cabinet) []Hole {
	d, ok := c.Drawer()
	if !ok {
		return nil
	}
	length := c.Length - 2*d.Gap
	var holes []Hole
	for _, y := range faceDowelRows[d.Tech] {
		if y >= d.FaceHeight {
			continue
		}
		for _, x := range []float64{faceDowelInset, length - faceDowelInset} {
			holes = append(holes, Hole{X: x, Y: y, Kind: Dowel, Diameter: diaFaceDowel,
				Provenance: DrawerFront, Group: DrawerFront.String(), Source: "Drawer front fitting"})
		}
	}
	return holes
}

func drawerBackHoles(c cabinet.Cabinet) []Hole {
	d, ok := c.Drawer()
	if !ok {
		return nil
	}
	length := panel.DrawerDrillLength(c)
	var holes []Hole
	for _, y := range backScrewRows[d.Tech] {
		for _, x := range []float64{backScrewInset, length - backScrewInset} {
			holes = append(holes, Hole{X: x, Y: y, Kind: Screw, Diameter: diaBackScrew,
				Provenance: DrawerBack, Group: DrawerBack.String(), Source: "Drawer back fitting"})
		}
	}
	return holes
}

package panel

import (
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
)

const (
	backShrink         = 2.0  // back panel is 2mm smaller than the carcass on both axes
	shelfSetback       = 10.0 // shelves stop 10mm short of the carcass depth
	shelfPlay          = 2.0  // adjustable shelves: 1mm play per side
	floorClearance     = 10.0 // floor-length doors stop 10mm above the floor
	drawerBackShorten  = 40.0 // drawer back cut length below the inner span
	drawerDrillShorten = 49.0 // drawer back/bottom drilled length below the inner span
	drawerBottomInset  = 20.0 // drawer bottom stops 20mm plus the back thickness short of the depth
	drawerBoardThick   = 16.0 // drawer back and bottom thickness
)

// Size is a 2D extent in mm.
type Size struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Panel is one board of a cabinet. Length and Width are the cut-list sizes;
// Outline is the board as drawn and drilled, X along the panel-local axis
// that hole X coordinates use.
type Panel struct {
	Role      Role        `json:"role"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`  // cut-list letter suffix, e.g. "A" or "TF"
	Index     int         `json:"index"` // shelf index, -1 for other roles
	Length    float64     `json:"length"`
	Width     float64     `json:"width"`
	Thickness float64     `json:"thickness"`
	Quantity  int         `json:"quantity"`
	Material  string      `json:"material"`
	Banding   EdgeBanding `json:"banding"`
	Outline   Size        `json:"outline"`
}

// Letter is the cut-list reference of the panel in cabinet cab, e.g. "C0-A".
func (p Panel) Letter(cab int) string {
	return fmt.Sprintf("C%d-%s", cab, p.Code)
}

// Override replaces the default banding of matching panels. Index -1
// matches every panel of the role.
type Override struct {
	Role    Role
	Index   int
	Banding EdgeBanding
}

func (o Override) matches(p Panel) bool {
	return o.Role == p.Role && (o.Index < 0 || o.Index == p.Index)
}

// Compute returns every panel of c in cut-list order: the five carcass
// panels, then door, drawer and shelf panels as configured.
func Compute(c cabinet.Cabinet, overrides ...Override) []Panel {
	L, W, H := c.Length, c.Width, c.Height
	t := c.Thickness
	inner := c.InnerLength()

	panels := []Panel{
		newPanel(BottomRail, "Bottom rail", "A", inner, W, t.Bottom, c.Material, Size{inner, W}),
		newPanel(TopRail, "Top rail", "B", inner, W, t.Top, c.Material, Size{inner, W}),
		newPanel(LeftStile, "Left stile", "C", H, W, t.Side, c.Material, Size{W, H}),
		newPanel(RightStile, "Right stile", "D", H, W, t.Side, c.Material, Size{W, H}),
		newPanel(Back, "Back panel", "E", H-backShrink, L-backShrink, t.Back, c.Material,
			Size{L - backShrink, H - backShrink}),
	}

	if d, ok := c.Door(); ok {
		w, h, _ := DoorSize(c)
		p := newPanel(DoorLeaf, "Door", "P", h, w, d.Thickness, d.Material, Size{w, h})
		if d.Type == cabinet.DoorDouble {
			p.Name = "Door leaf"
			p.Quantity = 2
		}
		panels = append(panels, p)
	}

	if d, ok := c.Drawer(); ok {
		faceW := L - 2*d.Gap
		backLen := inner - drawerBackShorten
		drill := DrawerDrillLength(c)
		bottomW := W - (drawerBottomInset + t.Back)
		panels = append(panels,
			newPanel(DrawerFace, "Drawer face", "TF", d.FaceHeight, faceW, d.FaceThickness, d.Material,
				Size{faceW, d.FaceHeight}),
			newPanel(DrawerBack, "Drawer back", "TD", d.Tech.BackHeight(), backLen, drawerBoardThick, c.Material,
				Size{drill, d.Tech.BackHeight()}),
			newPanel(DrawerBottom, "Drawer bottom", "TB", drill, bottomW, drawerBoardThick, c.Material,
				Size{drill, bottomW}),
		)
	}

	for i, s := range c.Shelves {
		length := inner
		if s.Kind == cabinet.ShelfAdjustable {
			length -= shelfPlay
		}
		depth := W - shelfSetback
		p := newPanel(Shelf, fmt.Sprintf("Shelf %d (%s)", i+1, s.Kind), fmt.Sprintf("S%d", i+1),
			length, depth, s.Thickness, s.Material, Size{length, depth})
		p.Index = i
		panels = append(panels, p)
	}

	for i := range panels {
		for _, o := range overrides {
			if o.matches(panels[i]) {
				panels[i].Banding = o.Banding
			}
		}
	}
	return panels
}

func newPanel(r Role, name, code string, length, width, thickness float64, material string, outline Size) Panel {
	return Panel{
		Role:      r,
		Name:      name,
		Code:      code,
		Index:     -1,
		Length:    length,
		Width:     width,
		Thickness: thickness,
		Quantity:  1,
		Material:  material,
		Banding:   DefaultBanding(r),
		Outline:   outline,
	}
}

// Find returns the first panel with the given role and index (-1 for
// non-shelf roles).
func Find(panels []Panel, r Role, index int) (Panel, bool) {
	for _, p := range panels {
		if p.Role == r && (r != Shelf || p.Index == index) {
			return p, true
		}
	}
	return Panel{}, false
}

// DoorSize returns the leaf width and height of the cabinet's door.
// Floor-length doors on a cabinet standing on feet run down past the
// carcass by the foot height, less the floor clearance. A double door
// returns the size of one leaf: half the single width less the door gap,
// which is also the gap between the leaves.
func DoorSize(c cabinet.Cabinet) (width, height float64, ok bool) {
	d, ok := c.Door()
	if !ok {
		return 0, 0, false
	}
	height = c.Height - 2*d.Gap
	if d.Model == cabinet.DoorFloorLength && c.IsRoot() && c.FootHeight > 0 {
		height += c.FootHeight - floorClearance
	}
	width = c.Length - 2*d.Gap
	if d.Type == cabinet.DoorDouble {
		width = width/2 - d.Gap
	}
	return width, height, true
}

// DrawerDrillLength is the length the drawer back and bottom are drilled
// and drawn at. It is 9mm shorter than the drawer back's cut length.
func DrawerDrillLength(c cabinet.Cabinet) float64 {
	return c.InnerLength() - drawerDrillShorten
}

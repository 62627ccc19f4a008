package cabinet

import "fmt"

// Accessory is the front of a cabinet: either a Door or a Drawer.
// A cabinet carries at most one.
type Accessory interface {
	accessory() // marker method restricting implementations to this package
	validate() error
}

// DoorType selects one full-width leaf or two half-width leaves.
type DoorType int

const (
	DoorSingle DoorType = iota
	DoorDouble
)

func (t DoorType) String() string {
	switch t {
	case DoorSingle:
		return "single"
	case DoorDouble:
		return "double"
	default:
		return fmt.Sprintf("DoorType(%d)", int(t))
	}
}

// Side is the hinge side of a door leaf.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// DoorModel distinguishes regular doors from doors running down to the floor.
type DoorModel int

const (
	DoorStandard DoorModel = iota
	DoorFloorLength
)

func (m DoorModel) String() string {
	switch m {
	case DoorStandard:
		return "standard"
	case DoorFloorLength:
		return "floor-length"
	default:
		return fmt.Sprintf("DoorModel(%d)", int(m))
	}
}

// Door describes the hinged front of a cabinet.
type Door struct {
	Type      DoorType  `json:"type"`
	Opening   Side      `json:"opening"`
	Gap       float64   `json:"gap"`
	Thickness float64   `json:"thickness"`
	Model     DoorModel `json:"model"`
	Material  string    `json:"material"`
}

// DefaultDoor returns a single right-opening 19mm door with a 2mm gap.
func DefaultDoor() Door {
	return Door{
		Type:      DoorSingle,
		Opening:   SideRight,
		Gap:       2,
		Thickness: DefaultThickness,
		Model:     DoorStandard,
		Material:  "Door",
	}
}

func (Door) accessory() {}

func (d Door) validate() error {
	if d.Gap < 0 {
		return fmt.Errorf("door gap %g is negative: %w", d.Gap, ErrInvalidDimension)
	}
	if d.Thickness <= 0 {
		return fmt.Errorf("door thickness %g must be positive: %w", d.Thickness, ErrInvalidDimension)
	}
	if d.Type != DoorSingle && d.Type != DoorDouble {
		return fmt.Errorf("unknown door type %v", d.Type)
	}
	return nil
}

// Tech is the drawer-slide hardware family.
type Tech int

const (
	TechK Tech = iota
	TechM
	TechN
	TechD
)

func (t Tech) String() string {
	switch t {
	case TechK:
		return "K"
	case TechM:
		return "M"
	case TechN:
		return "N"
	case TechD:
		return "D"
	default:
		return fmt.Sprintf("Tech(%d)", int(t))
	}
}

// ParseTech converts "N", "M", "K" or "D" to a Tech.
func ParseTech(s string) (Tech, error) {
	switch s {
	case "K", "k":
		return TechK, nil
	case "M", "m":
		return TechM, nil
	case "N", "n":
		return TechN, nil
	case "D", "d":
		return TechD, nil
	}
	return 0, fmt.Errorf("invalid drawer technology %q, expected N, M, K or D", s)
}

// BackHeight is the fixed drawer-back height for the technology, in mm.
func (t Tech) BackHeight() float64 {
	switch t {
	case TechN:
		return 69
	case TechM:
		return 84
	case TechD:
		return 199
	default:
		return 116
	}
}

// Handle is a rectangular grip cut out of the drawer face.
type Handle struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	OffsetTop float64 `json:"offset_top"` // from the top edge of the face
}

// DefaultHandle returns the 150 x 40 cutout 10mm below the top edge.
func DefaultHandle() Handle {
	return Handle{Width: 150, Height: 40, OffsetTop: 10}
}

// Drawer describes a drawer front and its hardware family.
type Drawer struct {
	Tech          Tech    `json:"tech"`
	FaceHeight    float64 `json:"face_height"`
	FaceThickness float64 `json:"face_thickness"`
	Gap           float64 `json:"gap"`
	BottomOffset  float64 `json:"bottom_offset"`
	Handle        *Handle `json:"handle,omitempty"`
	Material      string  `json:"material"`
}

// DefaultDrawer returns a K-type drawer with a 150mm face.
func DefaultDrawer() Drawer {
	return Drawer{
		Tech:          TechK,
		FaceHeight:    150,
		FaceThickness: DefaultThickness,
		Gap:           2,
		Material:      "Drawer",
	}
}

func (Drawer) accessory() {}

func (d Drawer) validate() error {
	if d.FaceHeight <= 0 || d.FaceThickness <= 0 {
		return fmt.Errorf("drawer face %gx%g must be positive: %w", d.FaceHeight, d.FaceThickness, ErrInvalidDimension)
	}
	if d.Gap < 0 || d.BottomOffset < 0 {
		return fmt.Errorf("drawer gap and bottom offset must not be negative: %w", ErrInvalidDimension)
	}
	if d.Handle != nil && (d.Handle.Width <= 0 || d.Handle.Height <= 0 || d.Handle.OffsetTop < 0) {
		return fmt.Errorf("drawer handle %gx%g offset %g is invalid: %w",
			d.Handle.Width, d.Handle.Height, d.Handle.OffsetTop, ErrInvalidDimension)
	}
	return nil
}

// SetDoor installs a door, replacing any drawer.
func (c *Cabinet) SetDoor(d Door) {
	c.Accessory = d
}

// SetDrawer installs a drawer, replacing any door.
func (c *Cabinet) SetDrawer(d Drawer) {
	c.Accessory = d
}

// ClearAccessory removes the door or drawer.
func (c *Cabinet) ClearAccessory() {
	c.Accessory = nil
}

// Door returns the cabinet's door, if it has one.
func (c Cabinet) Door() (Door, bool) {
	d, ok := c.Accessory.(Door)
	return d, ok
}

// Drawer returns the cabinet's drawer, if it has one.
func (c Cabinet) Drawer() (Drawer, bool) {
	d, ok := c.Accessory.(Drawer)
	return d, ok
}

package cabinet

import "fmt"

// ShelfKind distinguishes shelves screwed into the carcass from shelves
// resting on pins.
type ShelfKind int

const (
	ShelfAdjustable ShelfKind = iota
	ShelfFixed
)

func (k ShelfKind) String() string {
	switch k {
	case ShelfAdjustable:
		return "adjustable"
	case ShelfFixed:
		return "fixed"
	default:
		return fmt.Sprintf("ShelfKind(%d)", int(k))
	}
}

// PinMode selects which system-32 slots are drilled for an adjustable shelf.
type PinMode int

const (
	PinsFullColumn PinMode = iota // every slot of the column
	PinsFiveCentered              // nearest slot plus two above and two below
	PinsCustom                    // nearest slot plus Above/Below slots
)

func (m PinMode) String() string {
	switch m {
	case PinsFullColumn:
		return "full-column"
	case PinsFiveCentered:
		return "five-pin"
	case PinsCustom:
		return "custom"
	default:
		return fmt.Sprintf("PinMode(%d)", int(m))
	}
}

// PinPattern is the drilling pattern of an adjustable shelf.
type PinPattern struct {
	Mode  PinMode `json:"mode"`
	Above int     `json:"above,omitempty"` // custom mode only
	Below int     `json:"below,omitempty"` // custom mode only
}

// Shelf is one shelf of a cabinet. Height is measured from the top face of
// the bottom rail to the underside of the shelf.
type Shelf struct {
	Kind      ShelfKind  `json:"kind"`
	Height    float64    `json:"height"`
	Thickness float64    `json:"thickness"`
	Material  string     `json:"material"`
	Pins      PinPattern `json:"pins"`
}

// DefaultShelf returns an adjustable 19mm shelf at 300mm drilled full height.
func DefaultShelf() Shelf {
	return Shelf{
		Kind:      ShelfAdjustable,
		Height:    300,
		Thickness: DefaultThickness,
		Material:  "Body",
		Pins:      PinPattern{Mode: PinsFullColumn},
	}
}

// NewFixedShelf returns a fixed shelf at the given height.
func NewFixedShelf(height, thickness float64) (Shelf, error) {
	s := Shelf{Kind: ShelfFixed, Height: height, Thickness: thickness, Material: "Body"}
	return s, s.Validate()
}

// NewAdjustableShelf returns a pin-supported shelf with the given pattern.
func NewAdjustableShelf(height, thickness float64, pins PinPattern) (Shelf, error) {
	s := Shelf{Kind: ShelfAdjustable, Height: height, Thickness: thickness, Material: "Body", Pins: pins}
	return s, s.Validate()
}

// Center is the shelf's vertical mid-plane above the bottom rail.
func (s Shelf) Center() float64 {
	return s.Height + s.Thickness/2
}

// Validate checks the shelf geometry and pin pattern.
func (s Shelf) Validate() error {
	if s.Height < 0 {
		return fmt.Errorf("shelf height %g is negative: %w", s.Height, ErrInvalidDimension)
	}
	if s.Thickness <= 0 {
		return fmt.Errorf("shelf thickness %g must be positive: %w", s.Thickness, ErrInvalidDimension)
	}
	switch s.Kind {
	case ShelfFixed:
		return nil
	case ShelfAdjustable:
	default:
		return fmt.Errorf("unknown shelf kind %v", s.Kind)
	}
	if s.Pins.Above < 0 || s.Pins.Below < 0 {
		return fmt.Errorf("custom pin counts %d/%d must not be negative", s.Pins.Above, s.Pins.Below)
	}
	if s.Pins.Mode < PinsFullColumn || s.Pins.Mode > PinsCustom {
		return fmt.Errorf("unknown pin mode %v", s.Pins.Mode)
	}
	return nil
}

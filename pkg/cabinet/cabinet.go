package cabinet

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DefaultThickness is the board thickness used when none is given, in mm.
const DefaultThickness = 19.0

// ErrInvalidDimension is returned when a dimension or thickness cannot
// produce a buildable carcass.
var ErrInvalidDimension = errors.New("invalid dimension")

// Thicknesses holds the four carcass panel thicknesses in mm.
type Thicknesses struct {
	Side   float64 `json:"side"`   // left and right stiles
	Back   float64 `json:"back"`   // back panel
	Top    float64 `json:"top"`    // top rail
	Bottom float64 `json:"bottom"` // bottom rail
}

// DefaultThicknesses returns 19mm for every panel.
func DefaultThicknesses() Thicknesses {
	return Thicknesses{
		Side:   DefaultThickness,
		Back:   DefaultThickness,
		Top:    DefaultThickness,
		Bottom: DefaultThickness,
	}
}

// Attachment places a cabinet relative to another cabinet of the scene.
type Attachment struct {
	Parent int       `json:"parent"` // index into the scene's cabinet list
	Dir    Direction `json:"dir"`
}

// Cabinet is one carcass of the scene. Lengths are in mm.
type Cabinet struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Length     float64     `json:"length"` // outer, along X
	Width      float64     `json:"width"`  // outer depth
	Height     float64     `json:"height"` // outer, along Z
	Thickness  Thicknesses `json:"thickness"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Material   string      `json:"material"`
	Accessory  Accessory   `json:"-"`
	Shelves    []Shelf     `json:"shelves,omitempty"`

	// FootHeight is the scene's foot height copied onto the snapshot.
	// Zero means the scene stands without feet.
	FootHeight float64 `json:"foot_height,omitempty"`
}

// New creates a cabinet with default thicknesses and a fresh ID.
func New(name string, length, width, height float64) (Cabinet, error) {
	c := Cabinet{
		ID:        uuid.New(),
		Name:      name,
		Length:    length,
		Width:     width,
		Height:    height,
		Thickness: DefaultThicknesses(),
		Material:  "Body",
	}
	if err := c.Validate(); err != nil {
		return Cabinet{}, err
	}
	return c, nil
}

// Default returns the 600 x 600 x 800 cabinet new scenes start from.
func Default(name string) Cabinet {
	c, _ := New(name, 600, 600, 800)
	return c
}

// IsRoot reports whether the cabinet has no parent attachment.
func (c Cabinet) IsRoot() bool {
	return c.Attachment == nil
}

// InnerLength is the clear span between the two stiles.
func (c Cabinet) InnerLength() float64 {
	return c.Length - 2*c.Thickness.Side
}

// Validate checks dimensions, thicknesses and accessory settings.
func (c Cabinet) Validate() error {
	if c.Length <= 0 || c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("cabinet %q: outer dimensions %gx%gx%g must be positive: %w",
			c.Name, c.Length, c.Width, c.Height, ErrInvalidDimension)
	}
	t := c.Thickness
	if t.Side <= 0 || t.Back <= 0 || t.Top <= 0 || t.Bottom <= 0 {
		return fmt.Errorf("cabinet %q: panel thicknesses must be positive: %w", c.Name, ErrInvalidDimension)
	}
	if 2*t.Side >= c.Length {
		return fmt.Errorf("cabinet %q: side thickness %g leaves no inner span in length %g: %w",
			c.Name, t.Side, c.Length, ErrInvalidDimension)
	}
	if t.Top+t.Bottom >= c.Height {
		return fmt.Errorf("cabinet %q: rails %g+%g exceed height %g: %w",
			c.Name, t.Top, t.Bottom, c.Height, ErrInvalidDimension)
	}
	if c.FootHeight < 0 {
		return fmt.Errorf("cabinet %q: foot height %g is negative: %w", c.Name, c.FootHeight, ErrInvalidDimension)
	}
	if c.Accessory != nil {
		if err := c.Accessory.validate(); err != nil {
			return fmt.Errorf("cabinet %q: %w", c.Name, err)
		}
	}
	for i, s := range c.Shelves {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("cabinet %q: shelf %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Clone returns a deep copy, so snapshots never alias the scene's slices.
func (c Cabinet) Clone() Cabinet {
	out := c
	if c.Attachment != nil {
		a := *c.Attachment
		out.Attachment = &a
	}
	if c.Shelves != nil {
		out.Shelves = append([]Shelf(nil), c.Shelves...)
	}
	if d, ok := c.Accessory.(Drawer); ok && d.Handle != nil {
		h := *d.Handle
		d.Handle = &h
		out.Accessory = d
	}
	return out
}

// AddShelf appends a shelf and returns its index.
func (c *Cabinet) AddShelf(s Shelf) int {
	c.Shelves = append(c.Shelves, s)
	return len(c.Shelves) - 1
}

// RemoveShelf deletes shelf i. Shelf identity is positional, so every
// later shelf moves down by one index.
func (c *Cabinet) RemoveShelf(i int) error {
	if i < 0 || i >= len(c.Shelves) {
		return fmt.Errorf("cabinet %q: no shelf %d (have %d)", c.Name, i, len(c.Shelves))
	}
	c.Shelves = append(c.Shelves[:i:i], c.Shelves[i+1:]...)
	return nil
}

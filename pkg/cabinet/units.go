package cabinet

import "fmt"

// Unit is a length scale factor relative to meters.
type Unit float64

const (
	UnitMM Unit = 0.001
	UnitCM Unit = 0.01
	UnitM  Unit = 1.0
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitM:
		return "m"
	default:
		return fmt.Sprintf("Unit(%g)", float64(u))
	}
}

// ParseUnit converts "mm", "cm" or "m" to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "mm":
		return UnitMM, nil
	case "cm":
		return UnitCM, nil
	case "m":
		return UnitM, nil
	}
	return 0, fmt.Errorf("invalid unit %q, expected mm, cm or m", s)
}

// Direction is the side of its parent a cabinet is attached to.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
)

func (d Direction) String() string {
	switch d {
	case DirNone:
		return "none"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts "left", "right", "up" or "none" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "none", "":
		return DirNone, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	case "up":
		return DirUp, nil
	}
	return 0, fmt.Errorf("invalid direction %q, expected left, right, up or none", s)
}

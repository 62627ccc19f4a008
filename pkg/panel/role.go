// Package panel derives the physical boards of a cabinet: their cut sizes,
// cut-list letters and default edge banding.
package panel

import "fmt"

// Role is the function of a board within its cabinet.
type Role int

const (
	BottomRail Role = iota
	TopRail
	LeftStile
	RightStile
	Back
	DoorLeaf
	DrawerFace
	DrawerBack
	DrawerBottom
	Shelf
)

// Roles lists every role in cut-list order.
var Roles = []Role{
	BottomRail, TopRail, LeftStile, RightStile, Back,
	DoorLeaf, DrawerFace, DrawerBack, DrawerBottom, Shelf,
}

func (r Role) String() string {
	switch r {
	case BottomRail:
		return "bottom-rail"
	case TopRail:
		return "top-rail"
	case LeftStile:
		return "left-stile"
	case RightStile:
		return "right-stile"
	case Back:
		return "back"
	case DoorLeaf:
		return "door-leaf"
	case DrawerFace:
		return "drawer-face"
	case DrawerBack:
		return "drawer-back"
	case DrawerBottom:
		return "drawer-bottom"
	case Shelf:
		return "shelf"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole converts a role name such as "left-stile" back to a Role.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown panel role %q", s)
}

// IsStile reports whether r is a left or right stile.
func (r Role) IsStile() bool {
	return r == LeftStile || r == RightStile
}

// IsRail reports whether r is a top or bottom rail.
func (r Role) IsRail() bool {
	return r == BottomRail || r == TopRail
}

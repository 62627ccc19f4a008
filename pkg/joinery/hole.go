// Package joinery derives the machining operations of each panel from the
// panel role and the cabinet configuration. Every function is a pure
// lookup over exact rule tables; inputs outside every band produce no
// holes rather than an error.
package joinery

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the fastener a hole receives.
type Kind int

const (
	Screw Kind = iota
	Dowel
)

func (k Kind) String() string {
	switch k {
	case Screw:
		return "screw"
	case Dowel:
		return "dowel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Provenance names the rule that produced a hole.
type Provenance int

const (
	Structural Provenance = iota
	Hinge
	ShelfPin
	ShelfFixed
	Slide
	DrawerFront
	DrawerBack
	BackPanel
)

var provenanceNames = [...]string{
	Structural:  "structural",
	Hinge:       "hinge",
	ShelfPin:    "shelf-pin",
	ShelfFixed:  "shelf-fixed",
	Slide:       "slide",
	DrawerFront: "drawer-front",
	DrawerBack:  "drawer-back",
	BackPanel:   "back-panel",
}

func (p Provenance) String() string {
	if p >= 0 && int(p) < len(provenanceNames) {
		return provenanceNames[p]
	}
	return fmt.Sprintf("Provenance(%d)", int(p))
}

// Face says whether a hole is drilled into the board face or into one of
// its edges. Edge holes are drawn inside the edge strip.
type Face int

const (
	FaceSide Face = iota
	FaceEdge
)

// Diameter is a drill descriptor. A zero Depth means a single value, as in
// "⌀35"; otherwise it reads bore/depth, as in "⌀8/20".
type Diameter struct {
	Bore  float64 `json:"bore"`
	Depth float64 `json:"depth,omitempty"`
}

// Single reports whether the descriptor carries one value only.
func (d Diameter) Single() bool { return d.Depth == 0 }

func (d Diameter) String() string {
	s := "⌀" + formatMM(d.Bore)
	if !d.Single() {
		s += "/" + formatMM(d.Depth)
	}
	return s
}

// ParseDiameter reads "⌀5/12", "Ø5/12", "5/12" or "35".
func ParseDiameter(s string) (Diameter, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "⌀")
	s = strings.TrimPrefix(s, "Ø")
	bore, depth, two := strings.Cut(s, "/")

	var d Diameter
	var err error
	if d.Bore, err = strconv.ParseFloat(strings.TrimSpace(bore), 64); err != nil || d.Bore <= 0 {
		return Diameter{}, fmt.Errorf("joinery: invalid diameter %q", s)
	}
	if two {
		if d.Depth, err = strconv.ParseFloat(strings.TrimSpace(depth), 64); err != nil || d.Depth <= 0 {
			return Diameter{}, fmt.Errorf("joinery: invalid diameter %q", s)
		}
	}
	return d, nil
}

func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Hole is one machining operation in panel-local coordinates: mm from the
// bottom-left corner of the panel outline. Holes sharing a Group belong to
// the same fitting and never conflict with each other.
type Hole struct {
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Kind       Kind       `json:"kind"`
	Diameter   Diameter   `json:"diameter"`
	Provenance Provenance `json:"provenance"`
	Group      string     `json:"group"`
	Source     string     `json:"source"`
	Face       Face       `json:"face"`
}

func (h Hole) String() string {
	return fmt.Sprintf("%s %s at (%s, %s) [%s]", h.Kind, h.Diameter, formatMM(h.X), formatMM(h.Y), h.Source)
}

var (
	diaScrew      = Diameter{Bore: 3}
	diaDowel      = Diameter{Bore: 8, Depth: 20}
	diaPin        = Diameter{Bore: 5, Depth: 12}
	diaHingeScrew = Diameter{Bore: 5, Depth: 11.5}
	diaHingeCup   = Diameter{Bore: 35}
	diaHingePilot = Diameter{Bore: 8}
	diaSlide      = Diameter{Bore: 5, Depth: 12}
	diaFaceDowel  = Diameter{Bore: 10, Depth: 12}
	diaBackScrew  = Diameter{Bore: 2.5, Depth: 3}
	diaPanelScrew = Diameter{Bore: 3}
)

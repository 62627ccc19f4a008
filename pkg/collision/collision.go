// Package collision flags machining operations that interfere with each
// other on one panel. Conflicts are advisory: the detector reports them and
// leaves resolution to the caller.
package collision

import (
	"fmt"
	"math"
	"slices"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/dhconnelly/rtreego"
	"github.com/samber/lo"
)

// Defaults for Detector.
const (
	DefaultMinDistance = 10.0
	DefaultZoneMargin  = 5.0

	// zoneOverlap is the move that takes a hole clear of a pin zone: one
	// grid step.
	zoneOverlap = 32.0
)

// Kind distinguishes the two checks.
type Kind int

const (
	Proximity Kind = iota
	Zone
)

func (k Kind) String() string {
	switch k {
	case Proximity:
		return "proximity"
	case Zone:
		return "zone"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Conflict is one reported interference. A and B index the holes passed to
// Detect; B is -1 for zone conflicts. Overlap is the distance by which the
// offending hole would have to move.
type Conflict struct {
	Kind    Kind    `json:"kind"`
	Message string  `json:"message"`
	Overlap float64 `json:"overlap"`
	Y       float64 `json:"y"`
	A       int     `json:"a"`
	B       int     `json:"b"`
}

// Detector holds the thresholds of both checks.
type Detector struct {
	// MinDistance is the smallest allowed centre distance between holes of
	// different groups. Equal distances pass.
	MinDistance float64
	// ZoneMargin widens every pin zone above and below.
	ZoneMargin float64
}

// DefaultDetector returns a detector with the 10mm / 5mm thresholds.
func DefaultDetector() Detector {
	return Detector{MinDistance: DefaultMinDistance, ZoneMargin: DefaultZoneMargin}
}

// Detect runs the default detector.
func Detect(holes []joinery.Hole, shelves []cabinet.Shelf) []Conflict {
	return DefaultDetector().Detect(holes, shelves)
}

// Detect returns zone conflicts first, then proximity conflicts, each in
// hole order. holes is the full hole set of one panel; shelves is the shelf
// list of its cabinet, used to find the pin zones.
func (d Detector) Detect(holes []joinery.Hole, shelves []cabinet.Shelf) []Conflict {
	conflicts := d.zones(holes, shelves)
	return append(conflicts, d.proximity(holes)...)
}

// groupKey is the collision group of h: its Group, or its provenance when
// no group was assigned.
func groupKey(h joinery.Hole) string {
	if h.Group != "" {
		return h.Group
	}
	return h.Provenance.String()
}

type pinZone struct {
	group, name string
	lo, hi      float64
}

func (d Detector) zones(holes []joinery.Hole, shelves []cabinet.Shelf) []Conflict {
	var zones []pinZone
	for i, s := range shelves {
		if s.Kind != cabinet.ShelfAdjustable {
			continue
		}
		group := joinery.ShelfGroup(i)
		pins := lo.Filter(holes, func(h joinery.Hole, _ int) bool { return groupKey(h) == group })
		if len(pins) == 0 {
			continue
		}
		ys := lo.Map(pins, func(h joinery.Hole, _ int) float64 { return h.Y })
		zones = append(zones, pinZone{
			group: group,
			name:  fmt.Sprintf("shelf %d", i+1),
			lo:    lo.Min(ys) - d.ZoneMargin,
			hi:    lo.Max(ys) + d.ZoneMargin,
		})
	}

	type key struct {
		group string
		y     float64
	}
	seen := map[key]bool{}

	var out []Conflict
	for _, z := range zones {
		for i, h := range holes {
			if groupKey(h) == z.group {
				continue
			}
			if h.Y < z.lo || h.Y > z.hi {
				continue
			}
			k := key{z.group, h.Y}
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, Conflict{
				Kind:    Zone,
				Message: fmt.Sprintf("%s at y=%.1f falls inside the pin zone of %s", h.Source, h.Y, z.name),
				Overlap: zoneOverlap,
				Y:       h.Y,
				A:       i,
				B:       -1,
			})
		}
	}
	return out
}

// indexed is a hole stored in the spatial index.
type indexed struct {
	i    int
	rect rtreego.Rect
}

func (x indexed) Bounds() rtreego.Rect { return x.rect }

const pointTol = 1e-6

func (d Detector) proximity(holes []joinery.Hole) []Conflict {
	if len(holes) < 2 || d.MinDistance <= 0 {
		return nil
	}
	tree := rtreego.NewTree(2, 2, 8)
	for i, h := range holes {
		tree.Insert(indexed{i: i, rect: rtreego.Point{h.X, h.Y}.ToRect(pointTol)})
	}

	var out []Conflict
	for i, a := range holes {
		near := tree.SearchIntersect(rtreego.Point{a.X, a.Y}.ToRect(d.MinDistance))
		js := lo.FilterMap(near, func(s rtreego.Spatial, _ int) (int, bool) {
			j := s.(indexed).i
			return j, j > i
		})
		slices.Sort(js)

		for _, j := range js {
			b := holes[j]
			if groupKey(a) == groupKey(b) {
				continue
			}
			// Pins of different shelves share the column.
			if a.Provenance == joinery.ShelfPin && b.Provenance == joinery.ShelfPin {
				continue
			}
			dist := math.Hypot(a.X-b.X, a.Y-b.Y)
			if dist >= d.MinDistance {
				continue
			}
			msg := fmt.Sprintf("%s and %s overlap at y=%.1f (%.1fmm apart)", a.Source, b.Source, a.Y, dist)
			out = append(out, Conflict{
				Kind:    Proximity,
				Message: msg,
				Overlap: d.MinDistance - dist,
				Y:       a.Y,
				A:       i,
				B:       j,
			})
		}
	}
	return out
}

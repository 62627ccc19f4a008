package joinery

import (
	"math"
	"slices"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/samber/lo"
)

// Structural joint bands: 25mm from each edge, evenly spread in between.
const (
	jointEdge     = 25.0
	jointMinDepth = 60.0
)

// StructuralPositions returns the screw and dowel positions along a joint
// of the given depth. Depths from 300 to 400mm get three screws and two
// dowels, up to 600mm four screws and three dowels; any other depth above
// 60mm falls back to two screws around one dowel.
func StructuralPositions(depth float64) (screws, dowels []float64) {
	switch {
	case depth >= 300 && depth <= 400:
		mid := depth / 2
		last := depth - jointEdge
		screws = []float64{jointEdge, mid, last}
		dowels = []float64{jointEdge + (mid-jointEdge)/2, mid + (last-mid)/2}
	case depth > 400 && depth <= 600:
		s := (depth - 2*jointEdge) / 6
		screws = []float64{jointEdge, jointEdge + 2*s, jointEdge + 4*s, depth - jointEdge}
		dowels = []float64{jointEdge + s, jointEdge + 3*s, jointEdge + 5*s}
	case depth > jointMinDepth:
		screws = []float64{jointEdge, depth - jointEdge}
		dowels = []float64{depth / 2}
	}
	return screws, dowels
}

// Hinges sit 80mm from each end of the door.
const hingeInset = 80.0

// HingeCount is the number of hinges a door of the given height needs.
func HingeCount(height float64) int {
	switch {
	case height <= 1000:
		return 2
	case height <= 1500:
		return 3
	case height <= 2000:
		return 4
	case height <= 2400:
		return 5
	default:
		return 6
	}
}

// HingePositions returns the hinge centres along a door of the given
// height, ascending.
func HingePositions(height float64) []float64 {
	n := HingeCount(height)
	pos := make([]float64, 0, n)
	pos = append(pos, hingeInset)
	spacing := (height - 2*hingeInset) / float64(n-1)
	for i := 1; i < n-1; i++ {
		pos = append(pos, hingeInset+float64(i)*spacing)
	}
	pos = append(pos, height-hingeInset)
	pos = lo.Uniq(pos)
	slices.Sort(pos)
	return pos
}

// System-32 pin grid.
const (
	gridStart = 50.0
	gridStep  = 32.0
	pinInset  = 37.0
)

// SnapToGrid returns the grid slot nearest to y. Halfway values round to
// the even slot; anything below the first slot snaps to it.
func SnapToGrid(y float64) float64 {
	if y < gridStart {
		return gridStart
	}
	return gridStart + math.RoundToEven((y-gridStart)/gridStep)*gridStep
}

// PinRows returns the pin heights drilled for the shelf at index i of c,
// ascending and restricted to the drillable range of the stile.
func PinRows(c cabinet.Cabinet, i int) []float64 {
	if i < 0 || i >= len(c.Shelves) {
		return nil
	}
	s := c.Shelves[i]
	if s.Kind != cabinet.ShelfAdjustable {
		return nil
	}
	top := c.Height - gridStart

	var rows []float64
	if s.Pins.Mode == cabinet.PinsFullColumn {
		for k := 0; gridStart+float64(k)*gridStep <= top; k++ {
			rows = append(rows, gridStart+float64(k)*gridStep)
		}
		return rows
	}

	center := SnapToGrid(s.Center())
	rows = append(rows, center)
	above, below := 2, 2
	if s.Pins.Mode == cabinet.PinsCustom {
		above, below = s.Pins.Above, s.Pins.Below
	}
	for k := 1; k <= above; k++ {
		rows = append(rows, SnapToGrid(center+float64(k)*gridStep))
	}
	for k := 1; k <= below; k++ {
		rows = append(rows, SnapToGrid(center-float64(k)*gridStep))
	}
	rows = lo.Filter(lo.Uniq(rows), func(y float64, _ int) bool {
		return y >= gridStart && y <= top
	})
	slices.Sort(rows)
	return rows
}

// ShelfPins returns the pin holes of the shelf at index i on one stile:
// two columns at 37mm from the front and back edges. Every pin carries
// the shelf's group.
func ShelfPins(c cabinet.Cabinet, i int) []Hole {
	rows := PinRows(c, i)
	holes := make([]Hole, 0, 2*len(rows))
	for _, y := range rows {
		for _, x := range []float64{pinInset, c.Width - pinInset} {
			holes = append(holes, Hole{
				X: x, Y: y,
				Kind:       Dowel,
				Diameter:   diaPin,
				Provenance: ShelfPin,
				Group:      ShelfGroup(i),
				Source:     shelfSource(i) + " pins",
			})
		}
	}
	return holes
}

var (
	// slideOverride applies to every technology above the deepest band.
	slideOverride = []float64{19, 37, 133, 261, 293, 389, 421, 549}

	// slideBands are open intervals (lo, hi) keyed to the stile depth.
	slideBands = []slideBand{
		{273, 302, []float64{19, 37, 133, 261}},
		{303, 352, []float64{19, 37, 133, 165, 261}},
		{353, 402, []float64{19, 37, 133, 165, 325}},
		{403, 452, []float64{19, 37, 133, 165, 229, 325}},
		{453, 502, []float64{19, 37, 133, 165, 261, 357}},
		{503, 552, []float64{19, 37, 133, 261, 293, 453}},
		{553, 602, []float64{19, 37, 133, 261, 293, 453}},
		{603, 652, []float64{19, 37, 133, 261, 293, 325, 357, 517}},
	}

	// slideBandsN are tried first for N-class slides.
	slideBandsN = []slideBand{
		{403, 452, []float64{19, 37, 133, 165, 229, 325}},
		{453, 502, []float64{19, 37, 133, 165, 261, 357}},
		{503, 552, []float64{19, 37, 133, 261, 293, 453}},
		{553, 602, []float64{19, 37, 133, 261, 293, 453}},
	}
)

const slideOverrideDepth = 643.0

type slideBand struct {
	lo, hi float64
	xs     []float64
}

func lookupBand(bands []slideBand, depth float64) []float64 {
	for _, b := range bands {
		if depth > b.lo && depth < b.hi {
			return slices.Clone(b.xs)
		}
	}
	return nil
}

// SlidePositions returns the slide screw positions measured from the front
// edge of the left stile. Depths that fall between bands get none.
func SlidePositions(tech cabinet.Tech, depth float64) []float64 {
	if depth > slideOverrideDepth {
		return slices.Clone(slideOverride)
	}
	if tech == cabinet.TechN {
		if xs := lookupBand(slideBandsN, depth); xs != nil {
			return xs
		}
	}
	return lookupBand(slideBands, depth)
}

// SlideHeight is the height of the slide screw row on both stiles.
func SlideHeight(c cabinet.Cabinet, d cabinet.Drawer) float64 {
	return c.Thickness.Bottom + 33 + d.BottomOffset
}

// Drawer face dowel heights and drawer back screw heights per technology.
var (
	faceDowelRows = map[cabinet.Tech][]float64{
		cabinet.TechK: {47.5, 79.5, 111.5},
		cabinet.TechM: {47.5, 79.5},
		cabinet.TechN: {32.5, 64.5},
		cabinet.TechD: {47.5, 79.5, 207.5},
	}
	backScrewRows = map[cabinet.Tech][]float64{
		cabinet.TechK: {30, 62, 94},
		cabinet.TechM: {32, 64},
		cabinet.TechN: {31, 47},
		cabinet.TechD: {31, 63, 95, 159, 191},
	}
)

const (
	faceDowelInset = 32.5
	backScrewInset = 9.0
	backHoleMargin = 8.0
	backHoleStep   = 200.0
)

// BackPanelHoles returns the perimeter screws of a back panel: one in each
// corner 8mm from the edges, plus evenly spread intermediates along every
// side longer than 200mm.
func BackPanelHoles(length, height float64) []Hole {
	x0, x1 := backHoleMargin, length-backHoleMargin
	y0, y1 := backHoleMargin, height-backHoleMargin

	hole := func(x, y float64) Hole {
		return Hole{X: x, Y: y, Kind: Screw, Diameter: diaPanelScrew,
			Provenance: BackPanel, Group: BackPanel.String(), Source: "Back panel"}
	}

	holes := []Hole{hole(x0, y0), hole(x1, y0), hole(x1, y1), hole(x0, y1)}
	if span := x1 - x0; span > backHoleStep {
		n := int(span / backHoleStep)
		step := span / float64(n+1)
		for i := 1; i <= n; i++ {
			x := x0 + float64(i)*step
			holes = append(holes, hole(x, y0), hole(x, y1))
		}
	}
	if span := y1 - y0; span > backHoleStep {
		n := int(span / backHoleStep)
		step := span / float64(n+1)
		for i := 1; i <= n; i++ {
			y := y0 + float64(i)*step
			holes = append(holes, hole(x0, y), hole(x1, y))
		}
	}
	return holes
}

package collision

import (
	"strings"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hole(x, y float64, p joinery.Provenance, group string) joinery.Hole {
	return joinery.Hole{X: x, Y: y, Provenance: p, Group: group, Source: group}
}

func TestProximityOnePairReported(t *testing.T) {
	holes := []joinery.Hole{
		hole(10, 10, joinery.Structural, "structural"),
		hole(10, 18, joinery.Hinge, "hinge"),
	}
	got := Detect(holes, nil)
	require.Len(t, got, 1)
	assert.Equal(t, Proximity, got[0].Kind)
	assert.InDelta(t, 2.0, got[0].Overlap, 1e-9)
	assert.Equal(t, 10.0, got[0].Y)
	assert.Equal(t, 0, got[0].A)
	assert.Equal(t, 1, got[0].B)
}

func TestProximityThresholdIsStrict(t *testing.T) {
	at := func(dy float64) []joinery.Hole {
		return []joinery.Hole{
			hole(0, 100, joinery.Structural, "structural"),
			hole(0, 100+dy, joinery.Slide, "slide"),
		}
	}
	assert.Empty(t, Detect(at(10), nil))
	assert.Len(t, Detect(at(9.99), nil), 1)
}

func TestSameGroupNeverConflicts(t *testing.T) {
	holes := []joinery.Hole{
		hole(37, 50, joinery.Hinge, "hinge"),
		hole(37, 51, joinery.Hinge, "hinge"),
		hole(37, 50, joinery.Hinge, "hinge"),
	}
	assert.Empty(t, Detect(holes, nil))
}

func TestPinsOfDifferentShelvesShareTheColumn(t *testing.T) {
	holes := []joinery.Hole{
		hole(37, 50, joinery.ShelfPin, "shelf-1"),
		hole(37, 50, joinery.ShelfPin, "shelf-2"),
	}
	// No proximity conflict; each pin sits inside the other shelf's zone.
	got := Detect(holes, []cabinet.Shelf{cabinet.DefaultShelf(), cabinet.DefaultShelf()})
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, Zone, c.Kind)
	}
}

func TestOverlappingFivePinShelves(t *testing.T) {
	c := cabinet.Default("tall")
	lower := cabinet.DefaultShelf()
	lower.Height = 250
	lower.Pins = cabinet.PinPattern{Mode: cabinet.PinsFiveCentered}
	upper := lower
	upper.Height = 340
	c.AddShelf(lower)
	c.AddShelf(upper)

	holes := joinery.ForPanel(panel.Panel{Role: panel.LeftStile, Index: -1}, c)
	got := Detect(holes, c.Shelves)

	intruding := lo.Filter(got, func(cf Conflict, _ int) bool {
		return cf.Kind == Zone && strings.Contains(cf.Message, "pin zone of shelf 1") &&
			holes[cf.A].Group == joinery.ShelfGroup(1)
	})
	assert.NotEmpty(t, intruding, "pins of shelf 2 inside shelf 1's zone must be reported")
	assert.Empty(t, lo.Filter(got, func(cf Conflict, _ int) bool {
		return cf.Kind == Proximity && holes[cf.A].Provenance == joinery.ShelfPin && holes[cf.B].Provenance == joinery.ShelfPin
	}))
}

func TestUngroupedHolesUseProvenance(t *testing.T) {
	holes := []joinery.Hole{
		{X: 10, Y: 10, Provenance: joinery.Structural},
		{X: 10, Y: 18, Provenance: joinery.Hinge},
		{X: 10, Y: 22, Provenance: joinery.Hinge},
	}
	got := Detect(holes, nil)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].A)
	assert.Equal(t, 1, got[0].B)
}

func TestZoneIntrusion(t *testing.T) {
	holes := []joinery.Hole{
		hole(37, 300, joinery.ShelfPin, "shelf-1"),
		hole(37, 364, joinery.ShelfPin, "shelf-1"),
		hole(20, 368, joinery.Hinge, "hinge"), // inside the 5mm margin
		hole(52, 368, joinery.Hinge, "hinge"), // same y, reported once
		hole(20, 370, joinery.Hinge, "hinge"), // outside
		hole(20, 296, joinery.Hinge, "hinge"),
	}
	shelves := []cabinet.Shelf{cabinet.DefaultShelf()}

	got := Detect(holes, shelves)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, Zone, c.Kind)
		assert.Equal(t, 32.0, c.Overlap)
		assert.Equal(t, -1, c.B)
	}
	assert.Equal(t, 368.0, got[0].Y)
	assert.Equal(t, 296.0, got[1].Y)
	assert.Contains(t, got[0].Message, "shelf 1")
}

func TestZonesComeFirst(t *testing.T) {
	holes := []joinery.Hole{
		hole(37, 300, joinery.ShelfPin, "shelf-1"),
		hole(10, 500, joinery.Structural, "structural"),
		hole(10, 505, joinery.Slide, "slide"),
		hole(100, 300, joinery.Slide, "slide"),
	}
	got := Detect(holes, []cabinet.Shelf{cabinet.DefaultShelf()})
	require.Len(t, got, 2)
	assert.Equal(t, Zone, got[0].Kind)
	assert.Equal(t, Proximity, got[1].Kind)
}

func TestFixedShelvesHaveNoZone(t *testing.T) {
	fixed, err := cabinet.NewFixedShelf(300, 19)
	require.NoError(t, err)
	holes := []joinery.Hole{
		hole(37, 300, joinery.ShelfFixed, "shelf-1"),
		hole(20, 300, joinery.Hinge, "hinge"),
	}
	assert.Empty(t, Detect(holes, []cabinet.Shelf{fixed}))
}

func TestConfiguredDetector(t *testing.T) {
	holes := []joinery.Hole{
		hole(0, 0, joinery.Structural, "structural"),
		hole(0, 15, joinery.Slide, "slide"),
	}
	assert.Empty(t, Detect(holes, nil))
	got := Detector{MinDistance: 20, ZoneMargin: 5}.Detect(holes, nil)
	require.Len(t, got, 1)
	assert.InDelta(t, 5.0, got[0].Overlap, 1e-9)
}

func TestManyHolesPairsAreUnordered(t *testing.T) {
	var holes []joinery.Hole
	for i := 0; i < 50; i++ {
		holes = append(holes, hole(float64(i)*40, 100, joinery.Structural, "structural"))
		holes = append(holes, hole(float64(i)*40+3, 104, joinery.Slide, "slide"))
	}
	got := Detect(holes, nil)
	require.Len(t, got, 50)
	for _, c := range got {
		assert.Less(t, c.A, c.B)
		assert.InDelta(t, 5.0, c.Overlap, 1e-9)
	}
}

func TestDoorAndFullColumnOnRealStile(t *testing.T) {
	c := cabinet.Default("base")
	c.SetDoor(cabinet.DefaultDoor())
	c.AddShelf(cabinet.DefaultShelf())

	holes := joinery.ForPanel(panel.Panel{Role: panel.RightStile, Index: -1}, c)
	got := Detect(holes, c.Shelves)
	// hinge rows at 80 and 720 both sit inside the full pin column
	require.NotEmpty(t, got)
	assert.Equal(t, Zone, got[0].Kind)
	assert.Equal(t, 80.0, got[0].Y)
	assert.Equal(t, 720.0, got[1].Y)

	left := joinery.ForPanel(panel.Panel{Role: panel.LeftStile, Index: -1}, c)
	assert.Empty(t, Detect(left, c.Shelves))
}

package panel

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// EdgeBanding flags which edges of a board receive banding tape. Front and
// Back run along the outline's X extent, Left and Right along its Y extent.
type EdgeBanding struct {
	Front bool `json:"front"`
	Back  bool `json:"back"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// DefaultBanding returns the role's standard banding: shelves front only,
// rails front and back, backs and drawer internals none, everything else
// on all four edges.
func DefaultBanding(r Role) EdgeBanding {
	switch r {
	case Shelf:
		return EdgeBanding{Front: true}
	case BottomRail, TopRail:
		return EdgeBanding{Front: true, Back: true}
	case Back, DrawerBack, DrawerBottom:
		return EdgeBanding{}
	default:
		return EdgeBanding{Front: true, Back: true, Left: true, Right: true}
	}
}

// HasAny reports whether at least one edge is banded.
func (e EdgeBanding) HasAny() bool {
	return e.Front || e.Back || e.Left || e.Right
}

// Count returns the number of banded edges.
func (e EdgeBanding) Count() int {
	return len(lo.Filter([]bool{e.Front, e.Back, e.Left, e.Right}, func(b bool, _ int) bool { return b }))
}

// LinearLength is the tape length for one board with the given outline.
func (e EdgeBanding) LinearLength(x, y float64) float64 {
	var total float64
	if e.Front {
		total += x
	}
	if e.Back {
		total += x
	}
	if e.Left {
		total += y
	}
	if e.Right {
		total += y
	}
	return total
}

func (e EdgeBanding) String() string {
	var parts []string
	if e.Front {
		parts = append(parts, "F")
	}
	if e.Back {
		parts = append(parts, "B")
	}
	if e.Left {
		parts = append(parts, "L")
	}
	if e.Right {
		parts = append(parts, "R")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "+")
}

// Summary holds the banding requirement of a list of panels.
type Summary struct {
	TotalLinearMM    float64 `json:"total_linear_mm"`
	TotalLinearM     float64 `json:"total_linear_m"`
	WastePercent     float64 `json:"waste_percent"`
	TotalWithWasteMM float64 `json:"total_with_waste_mm"`
	TotalWithWasteM  float64 `json:"total_with_waste_m"`
	PartCount        int     `json:"part_count"`
	EdgeCount        int     `json:"edge_count"`
}

// BandingSummary totals the banding of panels, adding wastePercent
// (10 for 10%) and rounding the padded length up to the millimeter.
func BandingSummary(panels []Panel, wastePercent float64) Summary {
	banded := lo.Filter(panels, func(p Panel, _ int) bool { return p.Banding.HasAny() })

	totalMM := lo.SumBy(banded, func(p Panel) float64 {
		return p.Banding.LinearLength(p.Outline.X, p.Outline.Y) * float64(p.Quantity)
	})
	parts := lo.SumBy(banded, func(p Panel) int { return p.Quantity })
	edges := lo.SumBy(banded, func(p Panel) int { return p.Banding.Count() * p.Quantity })

	withWaste := math.Ceil(totalMM * (1 + wastePercent/100))
	return Summary{
		TotalLinearMM:    totalMM,
		TotalLinearM:     totalMM / 1000,
		WastePercent:     wastePercent,
		TotalWithWasteMM: withWaste,
		TotalWithWasteM:  withWaste / 1000,
		PartCount:        parts,
		EdgeCount:        edges,
	}
}

// PartBanding is the banding of one cut-list line.
type PartBanding struct {
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	Edges         string  `json:"edges"`
	LengthPerUnit float64 `json:"length_per_unit"`
	TotalLength   float64 `json:"total_length"`
}

// PerPart breaks the banding down by panel, skipping unbanded ones.
func PerPart(panels []Panel) []PartBanding {
	var out []PartBanding
	for _, p := range panels {
		if !p.Banding.HasAny() {
			continue
		}
		per := p.Banding.LinearLength(p.Outline.X, p.Outline.Y)
		out = append(out, PartBanding{
			Name:          p.Name,
			Quantity:      p.Quantity,
			Edges:         p.Banding.String(),
			LengthPerUnit: per,
			TotalLength:   per * float64(p.Quantity),
		})
	}
	return out
}

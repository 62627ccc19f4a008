package drawing

import (
	"cmp"
	"math"
	"slices"

	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
)

// HatchLines returns 45 degree strokes y = x + c covering the rectangle
// spanned by the two corners, each clipped to it. Strokes are spaced
// along c, starting at the bottom-right corner.
func HatchLines(x0, y0, x1, y1, spacing float64) []Segment {
	if spacing <= 0 {
		return nil
	}
	xmin, xmax := math.Min(x0, x1), math.Max(x0, x1)
	ymin, ymax := math.Min(y0, y1), math.Max(y0, y1)
	start, end := ymin-xmax, ymax-xmin

	var out []Segment
	for k := 0; ; k++ {
		c := start + float64(k)*spacing
		if c > end {
			break
		}
		var pts []v2.Vec
		if y := xmin + c; y >= ymin && y <= ymax {
			pts = append(pts, v2.Vec{X: xmin, Y: y})
		}
		if y := xmax + c; y >= ymin && y <= ymax {
			pts = append(pts, v2.Vec{X: xmax, Y: y})
		}
		if x := ymin - c; x >= xmin && x <= xmax {
			pts = append(pts, v2.Vec{X: x, Y: ymin})
		}
		if x := ymax - c; x >= xmin && x <= xmax {
			pts = append(pts, v2.Vec{X: x, Y: ymax})
		}
		pts = lo.Uniq(pts)
		if len(pts) < 2 {
			continue
		}
		slices.SortFunc(pts, func(a, b v2.Vec) int {
			return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y))
		})
		out = append(out, Segment{A: pts[0], B: pts[len(pts)-1]})
	}
	return out
}

// StaggerLevels assigns each coordinate a call-out level so that labels
// on one level stay at least spacing apart. Coordinates are visited in
// ascending order; each takes the lowest level whose previous label is far
// enough away, or the level that was used longest ago when every level is
// crowded. The result is aligned with coords.
func StaggerLevels(coords []float64, spacing float64, levels int) []int {
	out := make([]int, len(coords))
	if levels <= 1 || len(coords) == 0 {
		return out
	}
	order := make([]int, len(coords))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(coords[a], coords[b]) })

	last := make([]float64, levels)
	used := make([]bool, levels)
	for _, i := range order {
		c := coords[i]
		pick := -1
		for l := 0; l < levels; l++ {
			if !used[l] || c-last[l] >= spacing {
				pick = l
				break
			}
		}
		if pick < 0 {
			pick = 0
			for l := 1; l < levels; l++ {
				if last[l] < last[pick] {
					pick = l
				}
			}
		}
		out[i] = pick
		last[pick] = c
		used[pick] = true
	}
	return out
}

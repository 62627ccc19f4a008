// Package drawing lays out the dimensioned 2D machining view of one panel:
// the outline, the four edge strips with their banding hatch, overall and
// per-hole dimensions, an optional cutout and a title block. The result is
// a flat list of primitives that the exporter packages render.
package drawing

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/samber/lo"
)

// Metadata is the content of the title block. Empty fields fall back to
// the panel's own name and quantity.
type Metadata struct {
	Project     string `json:"project"`
	Designation string `json:"designation"`
	Quantity    int    `json:"quantity"`
	Date        string `json:"date"`
	Brand       string `json:"brand,omitempty"`
}

// Cutout is a rectangular opening centred along the panel length and hung
// OffsetTop below its top edge.
type Cutout struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	OffsetTop float64 `json:"offset_top"`
}

// Rect returns the cutout corners on a panel of the given outline.
func (c Cutout) Rect(length, width float64) (x0, y0, x1, y1 float64) {
	x0 = (length - c.Width) / 2
	x1 = x0 + c.Width
	y1 = width - c.OffsetTop
	y0 = y1 - c.Height
	return x0, y0, x1, y1
}

// Fits reports whether the cutout lies inside the outline.
func (c Cutout) Fits(length, width float64) bool {
	if c.Width <= 0 || c.Height <= 0 || c.OffsetTop < 0 {
		return false
	}
	x0, y0, _, _ := c.Rect(length, width)
	return x0 >= 0 && y0 >= 0
}

// HandleCutout returns the integrated handle of a drawer as a cutout of
// its face, or nil when the drawer has none.
func HandleCutout(d cabinet.Drawer) *Cutout {
	if d.Handle == nil {
		return nil
	}
	return &Cutout{Width: d.Handle.Width, Height: d.Handle.Height, OffsetTop: d.Handle.OffsetTop}
}

// Drawing is a laid-out panel view.
type Drawing struct {
	Name       string      `json:"name"`
	Primitives []Primitive `json:"-"`
	Bounds     sdf.Box2    `json:"bounds"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
}

// Engine lays out drawings in one style.
type Engine struct {
	Style Style
}

// Layout lays out p in the given style.
func Layout(p panel.Panel, holes []joinery.Hole, cut *Cutout, meta Metadata, style Style) Drawing {
	return Engine{Style: style}.Layout(p, holes, cut, meta)
}

// Layout returns the drawing of p with its holes. An invalid style is
// replaced by DefaultStyle; a cutout that does not fit is left out.
func (e Engine) Layout(p panel.Panel, holes []joinery.Hole, cut *Cutout, meta Metadata) Drawing {
	s := e.Style
	if s.Validate() != nil {
		s = DefaultStyle()
	}
	if meta.Designation == "" {
		meta.Designation = p.Name
	}
	if meta.Quantity == 0 {
		meta.Quantity = p.Quantity
	}

	l := newLayout(s, p.Outline.X, p.Outline.Y, p.Thickness)
	l.outline()
	l.strips(p.Banding)
	l.overallDimensions()
	l.thicknessLabels()

	face := lo.Filter(holes, func(h joinery.Hole, _ int) bool { return h.Face == joinery.FaceSide })
	edge := lo.Filter(holes, func(h joinery.Hole, _ int) bool { return h.Face == joinery.FaceEdge })
	l.callouts(face)
	l.faceHoles(face)
	l.edgeHoles(edge)
	if cut != nil && cut.Fits(l.L, l.W) {
		l.cutout(*cut)
	}
	l.titleBlock(meta)

	b := l.prims[0].Bounds()
	for _, pr := range l.prims[1:] {
		b = b.Extend(pr.Bounds())
	}
	pad := s.PaddingRatio * l.m
	b = box(b.Min.X-pad, b.Min.Y-pad, b.Max.X+pad, b.Max.Y+pad)
	size := b.Size()
	return Drawing{Name: meta.Designation, Primitives: l.prims, Bounds: b, Width: size.X, Height: size.Y}
}

// layout carries the derived lengths of one drawing.
type layout struct {
	s       Style
	L, W, T float64

	m        float64 // margin
	to       float64 // text offset
	off      float64 // strip offset from the outline
	strip    float64 // strip depth
	over     float64 // extension line overshoot
	gap      float64 // strip to overall dimension line
	font     float64
	cfont    float64
	tfont    float64
	hatchGap float64

	prims []Primitive
}

func newLayout(s Style, L, W, T float64) *layout {
	biggest := math.Max(L, W)
	m := math.Max(s.MarginRatio*biggest, s.MarginMin)
	return &layout{
		s:        s,
		L:        L,
		W:        W,
		T:        T,
		m:        m,
		to:       s.TextOffsetRatio * m,
		off:      s.StripOffsetRatio * m,
		strip:    math.Max(s.StripFactor*T, s.StripMin),
		over:     s.OvershootRatio * m,
		gap:      s.DimensionGapRatio * m,
		font:     s.FontRatio * m,
		cfont:    s.CalloutFontRatio * m,
		tfont:    s.TitleFontRatio * m,
		hatchGap: math.Max(biggest/s.HatchDivisions, s.HatchMin),
	}
}

func (l *layout) add(p ...Primitive) { l.prims = append(l.prims, p...) }

func pt(x, y float64) v2.Vec { return v2.Vec{X: x, Y: y} }

func (l *layout) line(x0, y0, x1, y1 float64, class Layer) {
	l.add(Line{A: pt(x0, y0), B: pt(x1, y1), Class: class})
}

// tick is the 45 degree slash closing a dimension line.
func (l *layout) tick(x, y float64) {
	d := l.to / 2
	l.line(x-d, y-d, x+d, y+d, LayerDimension)
}

func (l *layout) outline() {
	l.add(Rect{Min: pt(0, 0), Max: pt(l.L, l.W), Class: LayerOutline})
}

// strips draws the four edges seen side-on, front below the panel, back
// above it, hatched where the edge is banded.
func (l *layout) strips(b panel.EdgeBanding) {
	o, s := l.off, l.strip
	edges := []struct {
		banded         bool
		x0, y0, x1, y1 float64
	}{
		{b.Front, 0, -o - s, l.L, -o},
		{b.Back, 0, l.W + o, l.L, l.W + o + s},
		{b.Left, -o - s, 0, -o, l.W},
		{b.Right, l.L + o, 0, l.L + o + s, l.W},
	}
	for _, e := range edges {
		l.add(Rect{Min: pt(e.x0, e.y0), Max: pt(e.x1, e.y1), Shaded: true, Class: LayerStrip})
		if e.banded {
			l.add(Hatch{
				Segments: HatchLines(e.x0, e.y0, e.x1, e.y1, l.hatchGap),
				Clip:     box(e.x0, e.y0, e.x1, e.y1),
			})
		}
	}
}

// overallDimensions dimensions the length above the back strip and the
// width left of the left strip.
func (l *layout) overallDimensions() {
	top := l.W + l.off + l.strip
	yd := top + l.gap
	l.line(0, top, 0, yd+l.over, LayerDimension)
	l.line(l.L, top, l.L, yd+l.over, LayerDimension)
	l.line(0, yd, l.L, yd, LayerDimension)
	l.tick(0, yd)
	l.tick(l.L, yd)
	l.add(Text{At: pt(l.L/2, yd+l.to), Value: formatMM(l.L), Size: l.font, Class: LayerDimension})

	left := -l.off - l.strip
	xd := left - l.gap
	l.line(left, 0, xd-l.over, 0, LayerDimension)
	l.line(left, l.W, xd-l.over, l.W, LayerDimension)
	l.line(xd, 0, xd, l.W, LayerDimension)
	l.tick(xd, 0)
	l.tick(xd, l.W)
	l.add(Text{At: pt(xd-l.to, l.W/2), Value: formatMM(l.W), Size: l.font, Rotate: 90, Class: LayerDimension})
}

// thicknessLabels writes the board thickness beside the front and back
// strips.
func (l *layout) thicknessLabels() {
	x := l.L + l.over + l.to
	for _, y := range []float64{-l.off - l.strip/2, l.W + l.off + l.strip/2} {
		l.add(Text{At: pt(x, y), Value: formatMM(l.T), Size: l.cfont, Rotate: 90, Class: LayerDimension})
	}
}

// callouts dimensions every distinct hole coordinate from the panel
// origin: heights on guides left of the panel, positions along the length
// on guides below it. Labels sit beside their leader, staggered across the
// call-out levels so neighbours on one level never overlap.
func (l *layout) callouts(holes []joinery.Hole) {
	if len(holes) == 0 {
		return
	}
	ratios := l.s.CalloutLevelRatios

	ys := distinct(lo.Map(holes, func(h joinery.Hole, _ int) float64 { return h.Y }))
	levels := StaggerLevels(ys, l.cfont*1.2, len(ratios))
	for _, lvl := range lo.Uniq(levels) {
		xd := -ratios[lvl] * l.m
		l.add(Line{A: pt(xd, 0), B: pt(xd, l.W), Dash: Dotted, Class: LayerGuide})
	}
	for i, y := range ys {
		xd := -ratios[levels[i]] * l.m
		l.line(0, y, xd, y, LayerDimension)
		l.add(Text{At: pt(xd+l.to/4, y+l.cfont*0.6), Value: formatMM(y), Size: l.cfont,
			Anchor: AnchorStart, Class: LayerDimension})
	}

	xs := distinct(lo.Map(holes, func(h joinery.Hole, _ int) float64 { return h.X }))
	widest := lo.Max(lo.Map(xs, func(x float64, _ int) float64 { return textWidth(formatMM(x), l.cfont) }))
	levels = StaggerLevels(xs, widest+l.to/2, len(ratios))
	for _, lvl := range lo.Uniq(levels) {
		yd := -ratios[lvl] * l.m
		l.add(Line{A: pt(0, yd), B: pt(l.L, yd), Dash: Dotted, Class: LayerGuide})
	}
	for i, x := range xs {
		yd := -ratios[levels[i]] * l.m
		l.line(x, 0, x, yd, LayerDimension)
		l.add(Text{At: pt(x+l.to/4, yd+l.cfont*0.6), Value: formatMM(x), Size: l.cfont,
			Anchor: AnchorStart, Class: LayerDimension})
	}
}

func distinct(v []float64) []float64 {
	v = lo.Uniq(v)
	slices.Sort(v)
	return v
}

const defaultHoleRadius = 4.0

// faceHoles draws each hole at its diameter. Single-value descriptors get
// a cross; each kind and diameter is labelled once.
func (l *layout) faceHoles(holes []joinery.Hole) {
	seen := map[string]bool{}
	for _, h := range holes {
		r := h.Diameter.Bore / 2
		if r <= 0 {
			r = defaultHoleRadius
		}
		l.add(Circle{Center: pt(h.X, h.Y), Radius: r, Class: LayerHole})
		if h.Diameter.Single() {
			l.line(h.X-r, h.Y-r, h.X+r, h.Y+r, LayerHole)
			l.line(h.X-r, h.Y+r, h.X+r, h.Y-r, LayerHole)
		}
		key := h.Kind.String() + h.Diameter.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		l.add(Text{At: pt(h.X+r, h.Y+r), Value: h.Diameter.String(), Size: l.cfont * 0.8,
			Anchor: AnchorStart, Class: LayerHole})
	}
}

// edgeHoles draws edge-drilled holes inside the left and right strips,
// screws filled, and labels each diameter once beside the right strip.
func (l *layout) edgeHoles(holes []joinery.Hole) {
	left := -l.off - l.strip/2
	right := l.L + l.off + l.strip/2
	seen := map[string]bool{}
	for _, h := range holes {
		r := math.Min(h.Diameter.Bore/2, l.strip*0.35)
		if r <= 0 {
			r = l.strip * 0.35
		}
		filled := h.Kind == joinery.Screw
		l.add(
			Circle{Center: pt(left, h.Y), Radius: r, Filled: filled, Class: LayerHole},
			Circle{Center: pt(right, h.Y), Radius: r, Filled: filled, Class: LayerHole},
		)
		d := h.Diameter.String()
		if seen[d] {
			continue
		}
		seen[d] = true
		l.add(Text{At: pt(l.L+l.off+l.strip+l.to/2, h.Y), Value: d, Size: l.cfont,
			Anchor: AnchorStart, Class: LayerHole})
	}
}

// cutout draws the opening dashed, its width dimensioned in the gap above
// the panel and its height and top offset chained in the gap to the right.
func (l *layout) cutout(c Cutout) {
	x0, y0, x1, y1 := c.Rect(l.L, l.W)
	l.add(Polyline{
		Points: []v2.Vec{pt(x0, y0), pt(x1, y0), pt(x1, y1), pt(x0, y1)},
		Closed: true, Dash: Dashed, Class: LayerCutout,
	})

	yc := l.W + l.off/2
	l.line(x0, y1, x0, yc+l.over/2, LayerDimension)
	l.line(x1, y1, x1, yc+l.over/2, LayerDimension)
	l.line(x0, yc, x1, yc, LayerDimension)
	l.tick(x0, yc)
	l.tick(x1, yc)
	l.add(Text{At: pt((x0+x1)/2, yc+l.to), Value: formatMM(c.Width), Size: l.cfont, Class: LayerDimension})

	xc := l.L + l.off/2
	for _, e := range [][2]float64{{x1, y0}, {x1, y1}, {l.L, l.W}} {
		l.line(e[0], e[1], xc+l.over/2, e[1], LayerDimension)
	}
	l.line(xc, y0, xc, l.W, LayerDimension)
	l.tick(xc, y0)
	l.tick(xc, y1)
	l.tick(xc, l.W)
	l.add(
		Text{At: pt(xc+l.to, (y0+y1)/2), Value: formatMM(c.Height), Size: l.cfont, Rotate: 90, Class: LayerDimension},
		Text{At: pt(xc+l.to, (y1+l.W)/2), Value: formatMM(c.OffsetTop), Size: l.cfont, Rotate: 90, Class: LayerDimension},
	)
}

// titleBlock centres the title block under the front strip. Its width
// follows the largest panel dimension with a floor for small panels.
func (l *layout) titleBlock(meta Metadata) {
	tw := math.Max(l.s.TitleWidthRatio*math.Max(l.L, l.W), l.s.TitleWidthMin)
	th := l.s.TitleHeightRatio * l.m
	top := -l.off - l.strip - l.s.TitleGapRatio*l.m
	x0 := (l.L - tw) / 2
	col := tw * (1 - l.s.LogoRatio) / 4

	l.add(Rect{Min: pt(x0, top-th), Max: pt(x0+tw, top), Class: LayerTitle})
	last := 4
	if l.s.LogoRatio == 0 {
		last = 3
	}
	for i := 1; i <= last; i++ {
		l.line(x0+float64(i)*col, top-th, x0+float64(i)*col, top, LayerTitle)
	}

	yl := top - th*0.25
	yv := top - th*0.65
	cells := []struct{ label, value string }{
		{"Project", meta.Project},
		{"Designation", meta.Designation},
		{"Quantity", strconv.Itoa(meta.Quantity)},
		{"Date", meta.Date},
	}
	for i, c := range cells {
		x := x0 + col*(float64(i)+0.5)
		l.add(Text{At: pt(x, yl), Value: c.label, Size: l.tfont * 0.9, Bold: true, Class: LayerTitle})
		// "Shelf 2 (fixed)" breaks before the parenthesis.
		first, rest, split := strings.Cut(c.value, " (")
		if !split {
			l.add(Text{At: pt(x, yv), Value: c.value, Size: l.tfont, Class: LayerTitle})
			continue
		}
		l.add(
			Text{At: pt(x, yv), Value: first, Size: l.tfont, Class: LayerTitle},
			Text{At: pt(x, yv-l.tfont*1.2), Value: "(" + rest, Size: l.tfont, Class: LayerTitle},
		)
	}

	if meta.Brand != "" && l.s.LogoRatio > 0 {
		logo := tw * l.s.LogoRatio
		l.add(Text{At: pt(x0+4*col+logo/2, top-th/2), Value: meta.Brand, Size: l.tfont, Bold: true, Class: LayerTitle})
	}
}

// formatMM renders a length to a tenth of a millimetre, without trailing
// zeros.
func formatMM(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// sortPrimitives orders primitives by layer, keeping insertion order
// within a layer. Exporters paint in this order.
func sortPrimitives(prims []Primitive) []Primitive {
	out := slices.Clone(prims)
	slices.SortStableFunc(out, func(a, b Primitive) int { return cmp.Compare(a.Layer(), b.Layer()) })
	return out
}

// ByLayer returns the drawing's primitives in paint order.
func (d Drawing) ByLayer() []Primitive {
	return sortPrimitives(d.Primitives)
}

package drawing

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Layer groups primitives for exporters: CSS classes in SVG, layers in DXF.
type Layer int

const (
	LayerOutline Layer = iota
	LayerStrip
	LayerHatch
	LayerDimension
	LayerGuide
	LayerHole
	LayerCutout
	LayerTitle
)

// Layers lists every layer in paint order.
var Layers = []Layer{
	LayerOutline, LayerStrip, LayerHatch, LayerDimension,
	LayerGuide, LayerHole, LayerCutout, LayerTitle,
}

var layerNames = [...]string{
	LayerOutline:   "outline",
	LayerStrip:     "strip",
	LayerHatch:     "hatch",
	LayerDimension: "dimension",
	LayerGuide:     "guide",
	LayerHole:      "hole",
	LayerCutout:    "cutout",
	LayerTitle:     "title",
}

func (l Layer) String() string {
	if l >= 0 && int(l) < len(layerNames) {
		return layerNames[l]
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// Primitive is one drawable element in drawing space: mm, y up, panel
// origin at its bottom-left corner.
type Primitive interface {
	Bounds() sdf.Box2
	Layer() Layer
}

// Dash is a stroke pattern.
type Dash int

const (
	Solid Dash = iota
	Dashed
	Dotted
)

// Rect is an axis-aligned rectangle. Shaded rectangles get a light fill.
type Rect struct {
	Min, Max v2.Vec
	Shaded   bool
	Dash     Dash
	Class    Layer
}

func (r Rect) Bounds() sdf.Box2 { return box(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y) }
func (r Rect) Layer() Layer     { return r.Class }

// Circle is a hole marker. Filled circles mark screws drawn at strip
// scale.
type Circle struct {
	Center v2.Vec
	Radius float64
	Filled bool
	Class  Layer
}

func (c Circle) Bounds() sdf.Box2 {
	return box(c.Center.X-c.Radius, c.Center.Y-c.Radius, c.Center.X+c.Radius, c.Center.Y+c.Radius)
}

func (c Circle) Layer() Layer { return c.Class }

// Line is a single segment.
type Line struct {
	A, B  v2.Vec
	Dash  Dash
	Class Layer
}

func (l Line) Bounds() sdf.Box2 { return box(l.A.X, l.A.Y, l.B.X, l.B.Y) }
func (l Line) Layer() Layer     { return l.Class }

// Polyline is an open or closed chain of points.
type Polyline struct {
	Points []v2.Vec
	Closed bool
	Dash   Dash
	Class  Layer
}

func (p Polyline) Bounds() sdf.Box2 {
	if len(p.Points) == 0 {
		return sdf.Box2{}
	}
	b := box(p.Points[0].X, p.Points[0].Y, p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		b = b.Extend(box(pt.X, pt.Y, pt.X, pt.Y))
	}
	return b
}

func (p Polyline) Layer() Layer { return p.Class }

// Segment is one hatch stroke.
type Segment struct {
	A, B v2.Vec
}

// Hatch is a set of parallel strokes clipped to Clip.
type Hatch struct {
	Segments []Segment
	Clip     sdf.Box2
}

func (h Hatch) Bounds() sdf.Box2 { return h.Clip }
func (Hatch) Layer() Layer       { return LayerHatch }

// Anchor is the horizontal alignment of a text run relative to At.
type Anchor int

const (
	AnchorMiddle Anchor = iota
	AnchorStart
	AnchorEnd
)

// charWidth is the advance of one glyph as a share of the font size.
const charWidth = 0.6

// Text is a single line of text, vertically centred on At. Rotate is in
// degrees, counter-clockwise.
type Text struct {
	At     v2.Vec
	Value  string
	Size   float64
	Rotate float64
	Anchor Anchor
	Bold   bool
	Class  Layer
}

// Width estimates the advance of the text.
func (t Text) Width() float64 {
	return textWidth(t.Value, t.Size)
}

func textWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * charWidth
}

// Bounds approximates the text box, rotated by a multiple of 90 degrees.
func (t Text) Bounds() sdf.Box2 {
	w := t.Width()
	var x0 float64
	switch t.Anchor {
	case AnchorStart:
		x0 = 0
	case AnchorEnd:
		x0 = -w
	default:
		x0 = -w / 2
	}
	// local box: along the run from x0 to x0+w, across from -size/2 to size/2
	lx0, lx1 := x0, x0+w
	ly0, ly1 := -t.Size/2, t.Size/2
	if quarterTurn(t.Rotate) {
		lx0, lx1, ly0, ly1 = ly0, ly1, lx0, lx1
	}
	return box(t.At.X+lx0, t.At.Y+ly0, t.At.X+lx1, t.At.Y+ly1)
}

func (t Text) Layer() Layer { return t.Class }

func quarterTurn(deg float64) bool {
	return math.Mod(math.Abs(deg), 180) == 90
}

func box(x0, y0, x1, y1 float64) sdf.Box2 {
	return sdf.Box2{
		Min: v2.Vec{X: math.Min(x0, x1), Y: math.Min(y0, y1)},
		Max: v2.Vec{X: math.Max(x0, x1), Y: math.Max(y0, y1)},
	}
}

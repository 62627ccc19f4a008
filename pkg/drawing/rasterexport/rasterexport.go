// Package rasterexport renders a PNG preview of a drawing's geometry.
// Text is left out; the vector exports carry it.
package rasterexport

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/chazu/caisson/pkg/drawing"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/pkg/errors"
)

var (
	black     = color.RGBA{0, 0, 0, 255}
	dimGrey   = color.RGBA{0x4a, 0x4a, 0x4a, 255}
	hatchGrey = color.RGBA{80, 80, 80, 204}
	stripFill = color.RGBA{0xf0, 0xf0, 0xf0, 255}
	white     = color.RGBA{255, 255, 255, 255}
)

var strokes = map[drawing.Layer]color.RGBA{
	drawing.LayerOutline:   black,
	drawing.LayerStrip:     black,
	drawing.LayerHatch:     hatchGrey,
	drawing.LayerDimension: dimGrey,
	drawing.LayerGuide:     dimGrey,
	drawing.LayerHole:      black,
	drawing.LayerCutout:    dimGrey,
	drawing.LayerTitle:     black,
}

// DefaultPxPerMM is the preview resolution used when none is given.
const DefaultPxPerMM = 1.0

// Render rasterises d at pxPerMM pixels per millimetre on white.
func Render(d drawing.Drawing, pxPerMM float64) *image.RGBA {
	if pxPerMM <= 0 {
		pxPerMM = DefaultPxPerMM
	}
	w := int(math.Ceil(d.Width * pxPerMM))
	h := int(math.Ceil(d.Height * pxPerMM))
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: white}, image.Point{}, draw.Src)

	r := rasteriser{
		gc:    draw2dimg.NewGraphicContext(img),
		scale: pxPerMM,
		minX:  d.Bounds.Min.X,
		maxY:  d.Bounds.Max.Y,
	}
	for _, p := range d.ByLayer() {
		r.primitive(p)
	}
	return img
}

// SavePNG renders d and writes it to path.
func SavePNG(path string, d drawing.Drawing, pxPerMM float64) error {
	return errors.Wrapf(draw2dimg.SaveToPngFile(path, Render(d, pxPerMM)), "rasterexport: save %s", path)
}

type rasteriser struct {
	gc         *draw2dimg.GraphicContext
	scale      float64
	minX, maxY float64
}

func (r rasteriser) x(v float64) float64 { return (v - r.minX) * r.scale }
func (r rasteriser) y(v float64) float64 { return (r.maxY - v) * r.scale }

func (r rasteriser) pen(l drawing.Layer, dash drawing.Dash) {
	r.gc.SetStrokeColor(strokes[l])
	r.gc.SetLineWidth(math.Max(1, 0.5*r.scale))
	switch dash {
	case drawing.Dashed:
		r.gc.SetLineDash([]float64{6 * r.scale, 3 * r.scale}, 0)
	case drawing.Dotted:
		r.gc.SetLineDash([]float64{r.scale, 2 * r.scale}, 0)
	default:
		r.gc.SetLineDash(nil, 0)
	}
}

func (r rasteriser) segment(x0, y0, x1, y1 float64) {
	r.gc.BeginPath()
	r.gc.MoveTo(r.x(x0), r.y(y0))
	r.gc.LineTo(r.x(x1), r.y(y1))
	r.gc.Stroke()
}

func (r rasteriser) primitive(p drawing.Primitive) {
	switch v := p.(type) {
	case drawing.Rect:
		r.pen(v.Class, v.Dash)
		r.gc.BeginPath()
		draw2dkit.Rectangle(r.gc, r.x(v.Min.X), r.y(v.Max.Y), r.x(v.Max.X), r.y(v.Min.Y))
		if v.Shaded {
			r.gc.SetFillColor(stripFill)
			r.gc.FillStroke()
		} else {
			r.gc.Stroke()
		}
	case drawing.Circle:
		r.pen(v.Class, drawing.Solid)
		r.gc.BeginPath()
		draw2dkit.Circle(r.gc, r.x(v.Center.X), r.y(v.Center.Y), v.Radius*r.scale)
		if v.Filled {
			r.gc.SetFillColor(black)
		} else {
			r.gc.SetFillColor(white)
		}
		r.gc.FillStroke()
	case drawing.Line:
		r.pen(v.Class, v.Dash)
		r.segment(v.A.X, v.A.Y, v.B.X, v.B.Y)
	case drawing.Polyline:
		if len(v.Points) < 2 {
			return
		}
		r.pen(v.Class, v.Dash)
		r.gc.BeginPath()
		r.gc.MoveTo(r.x(v.Points[0].X), r.y(v.Points[0].Y))
		for _, pt := range v.Points[1:] {
			r.gc.LineTo(r.x(pt.X), r.y(pt.Y))
		}
		if v.Closed {
			r.gc.Close()
		}
		r.gc.Stroke()
	case drawing.Hatch:
		r.pen(drawing.LayerHatch, drawing.Solid)
		for _, s := range v.Segments {
			r.segment(s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
	}
}

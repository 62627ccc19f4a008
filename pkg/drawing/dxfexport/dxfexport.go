// Package dxfexport writes drawings as DXF for CAD and CNC hand-off, one
// DXF layer per drawing layer.
package dxfexport

import (
	"strings"

	"github.com/chazu/caisson/pkg/drawing"
	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	ydrawing "github.com/yofu/dxf/drawing"
)

var layerColors = map[drawing.Layer]color.ColorNumber{
	drawing.LayerOutline:   color.White,
	drawing.LayerStrip:     color.Cyan,
	drawing.LayerHatch:     color.Blue,
	drawing.LayerDimension: color.Green,
	drawing.LayerGuide:     color.Yellow,
	drawing.LayerHole:      color.Red,
	drawing.LayerCutout:    color.Magenta,
	drawing.LayerTitle:     color.White,
}

// LayerName is the DXF layer a drawing layer is written to.
func LayerName(l drawing.Layer) string {
	return strings.ToUpper(l.String())
}

// Save writes d to path. Text is written unrotated, anchored at its
// estimated start; dash patterns are not carried over.
func Save(path string, d drawing.Drawing) error {
	out := dxf.NewDrawing()
	for _, l := range drawing.Layers {
		if _, err := out.AddLayer(LayerName(l), layerColors[l], dxf.DefaultLineType, false); err != nil {
			return errors.Wrapf(err, "dxfexport: add layer %s", l)
		}
	}

	current := drawing.Layer(-1)
	for _, p := range d.ByLayer() {
		if p.Layer() != current {
			current = p.Layer()
			if err := out.ChangeLayer(LayerName(current)); err != nil {
				return errors.Wrapf(err, "dxfexport: change layer %s", current)
			}
		}
		if err := primitive(out, p); err != nil {
			return errors.Wrapf(err, "dxfexport: %s", current)
		}
	}
	return errors.Wrapf(out.SaveAs(path), "dxfexport: save %s", path)
}

func line(out *ydrawing.Drawing, x0, y0, x1, y1 float64) error {
	_, err := out.Line(x0, y0, 0, x1, y1, 0)
	return err
}

func primitive(out *ydrawing.Drawing, p drawing.Primitive) error {
	switch v := p.(type) {
	case drawing.Rect:
		corners := [][2]float64{
			{v.Min.X, v.Min.Y}, {v.Max.X, v.Min.Y}, {v.Max.X, v.Max.Y}, {v.Min.X, v.Max.Y},
		}
		for i, a := range corners {
			b := corners[(i+1)%len(corners)]
			if err := line(out, a[0], a[1], b[0], b[1]); err != nil {
				return err
			}
		}
	case drawing.Circle:
		_, err := out.Circle(v.Center.X, v.Center.Y, 0, v.Radius)
		return err
	case drawing.Line:
		return line(out, v.A.X, v.A.Y, v.B.X, v.B.Y)
	case drawing.Polyline:
		n := len(v.Points)
		for i := 0; i+1 < n; i++ {
			if err := line(out, v.Points[i].X, v.Points[i].Y, v.Points[i+1].X, v.Points[i+1].Y); err != nil {
				return err
			}
		}
		if v.Closed && n > 2 {
			return line(out, v.Points[n-1].X, v.Points[n-1].Y, v.Points[0].X, v.Points[0].Y)
		}
	case drawing.Hatch:
		for _, s := range v.Segments {
			if err := line(out, s.A.X, s.A.Y, s.B.X, s.B.Y); err != nil {
				return err
			}
		}
	case drawing.Text:
		x := v.At.X
		switch v.Anchor {
		case drawing.AnchorMiddle:
			x -= v.Width() / 2
		case drawing.AnchorEnd:
			x -= v.Width()
		}
		_, err := out.Text(v.Value, x, v.At.Y-v.Size/2, 0, v.Size)
		return err
	}
	return nil
}

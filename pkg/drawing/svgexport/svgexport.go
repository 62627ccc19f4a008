// Package svgexport renders a drawing as SVG in millimetres.
package svgexport

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	svg "github.com/ajstarks/svgo/float"
	"github.com/chazu/caisson/pkg/drawing"
	"github.com/pkg/errors"
)

// layerStyle is the stroke and fill of each layer. Stroke widths are in
// thousandths of the drawing's larger side.
var layerStyle = map[drawing.Layer]struct {
	stroke, fill string
	width        float64
}{
	drawing.LayerOutline:   {"#000000", "#ffffff", 1.2},
	drawing.LayerStrip:     {"#000000", "none", 0.8},
	drawing.LayerHatch:     {"#505050", "none", 1.6},
	drawing.LayerDimension: {"#4a4a4a", "none", 0.5},
	drawing.LayerGuide:     {"#4a4a4a", "none", 0.4},
	drawing.LayerHole:      {"#000000", "#ffffff", 0.8},
	drawing.LayerCutout:    {"#4a4a4a", "none", 1.0},
	drawing.LayerTitle:     {"#000000", "#f9f9f0", 0.8},
}

const stripFill = "#f0f0f0"

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// Write renders d to w. Drawing space has y up; the SVG is flipped so the
// panel reads the same way on screen.
func Write(w io.Writer, d drawing.Drawing) error {
	ew := &errWriter{w: w}
	r := renderer{
		canvas: svg.New(ew),
		top:    d.Bounds.Max.Y,
		unit:   math.Max(d.Width, d.Height) / 1000,
	}

	r.canvas.StartviewUnit(d.Width, d.Height, "mm", d.Bounds.Min.X, 0, d.Width, d.Height)
	if d.Name != "" {
		r.canvas.Title(d.Name)
	}
	current := drawing.Layer(-1)
	for _, p := range d.ByLayer() {
		if p.Layer() != current {
			if current >= 0 {
				r.canvas.Gend()
			}
			current = p.Layer()
			r.group(current)
		}
		r.primitive(p)
	}
	if current >= 0 {
		r.canvas.Gend()
	}
	r.canvas.End()
	return errors.Wrap(ew.err, "svgexport: write")
}

// Save writes d to the file at path.
func Save(path string, d drawing.Drawing) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "svgexport: create %s", path)
	}
	if err := Write(f, d); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "svgexport: close %s", path)
}

type renderer struct {
	canvas *svg.SVG
	top    float64
	unit   float64
}

func (r renderer) y(v float64) float64 { return r.top - v }

func (r renderer) group(l drawing.Layer) {
	st := layerStyle[l]
	r.canvas.Group(
		fmt.Sprintf(`class="%s"`, l),
		fmt.Sprintf("stroke:%s;fill:%s;stroke-width:%.3f", st.stroke, st.fill, st.width*r.unit),
	)
}

func (r renderer) dash(d drawing.Dash) string {
	switch d {
	case drawing.Dashed:
		return fmt.Sprintf(`stroke-dasharray="%.2f %.2f"`, 6*r.unit, 3*r.unit)
	case drawing.Dotted:
		return fmt.Sprintf(`stroke-dasharray="%.2f %.2f"`, r.unit, 2*r.unit)
	default:
		return ""
	}
}

func nonEmpty(s ...string) []string {
	out := s[:0]
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (r renderer) primitive(p drawing.Primitive) {
	switch v := p.(type) {
	case drawing.Rect:
		fill := ""
		if v.Shaded {
			fill = "fill:" + stripFill
		}
		r.canvas.Rect(v.Min.X, r.y(v.Max.Y), v.Max.X-v.Min.X, v.Max.Y-v.Min.Y, nonEmpty(fill, r.dash(v.Dash))...)
	case drawing.Circle:
		fill := ""
		if v.Filled {
			fill = "fill:#000000"
		}
		r.canvas.Circle(v.Center.X, r.y(v.Center.Y), v.Radius, nonEmpty(fill)...)
	case drawing.Line:
		r.canvas.Line(v.A.X, r.y(v.A.Y), v.B.X, r.y(v.B.Y), nonEmpty(r.dash(v.Dash))...)
	case drawing.Polyline:
		xs := make([]float64, len(v.Points))
		ys := make([]float64, len(v.Points))
		for i, pt := range v.Points {
			xs[i], ys[i] = pt.X, r.y(pt.Y)
		}
		if v.Closed {
			r.canvas.Polygon(xs, ys, nonEmpty("fill:none", r.dash(v.Dash))...)
		} else {
			r.canvas.Polyline(xs, ys, nonEmpty("fill:none", r.dash(v.Dash))...)
		}
	case drawing.Hatch:
		for _, s := range v.Segments {
			r.canvas.Line(s.A.X, r.y(s.A.Y), s.B.X, r.y(s.B.Y))
		}
	case drawing.Text:
		r.text(v)
	}
}

var anchors = map[drawing.Anchor]string{
	drawing.AnchorMiddle: "middle",
	drawing.AnchorStart:  "start",
	drawing.AnchorEnd:    "end",
}

func (r renderer) text(t drawing.Text) {
	x, y := t.At.X, r.y(t.At.Y)
	style := []string{
		"stroke:none",
		"fill:#000000",
		fmt.Sprintf("font-size:%.2fpx", t.Size),
		"font-family:sans-serif",
		"text-anchor:" + anchors[t.Anchor],
		"dominant-baseline:central",
	}
	if t.Bold {
		style = append(style, "font-weight:bold")
	}
	attrs := []string{strings.Join(style, ";")}
	if t.Rotate != 0 {
		// counter-clockwise in drawing space is clockwise once y is flipped
		attrs = append(attrs, fmt.Sprintf(`transform="rotate(%g %.3f %.3f)"`, -t.Rotate, x, y))
	}
	r.canvas.Text(x, y, t.Value, attrs...)
}

package svgexport

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/drawing"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stileDrawing(t *testing.T) drawing.Drawing {
	t.Helper()
	c := cabinet.Default("base")
	c.AddShelf(cabinet.DefaultShelf())
	p, ok := panel.Find(panel.Compute(c), panel.LeftStile, -1)
	require.True(t, ok)
	meta := drawing.Metadata{Project: "R&D <kitchen>", Date: "2026-10-18"}
	return drawing.Layout(p, joinery.ForPanel(p, c), nil, meta, drawing.DefaultStyle())
}

func TestWriteProducesWellFormedSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, stileDrawing(t)))

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	for {
		_, err := dec.Token()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			break
		}
	}

	out := buf.String()
	assert.Contains(t, out, `viewBox=`)
	assert.Contains(t, out, `class="outline"`)
	assert.Contains(t, out, `class="hatch"`)
	assert.Contains(t, out, `class="title"`)
	assert.Contains(t, out, "R&amp;D &lt;kitchen&gt;")
	assert.Contains(t, out, "rotate(-90")
	assert.Equal(t, 1, strings.Count(out, `class="hole"`), "one group per layer")
}

func TestWriteFlipsY(t *testing.T) {
	d := drawing.Drawing{
		Primitives: []drawing.Primitive{drawing.Line{Class: drawing.LayerOutline}},
	}
	d.Bounds.Max.X, d.Bounds.Max.Y = 100, 50
	d.Width, d.Height = 100, 50

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d))

	dec := xml.NewDecoder(&buf)
	for {
		tok, err := dec.Token()
		require.NoError(t, err, "no line element found")
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "line" {
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Local == "y1" {
				y, err := strconv.ParseFloat(a.Value, 64)
				require.NoError(t, err)
				assert.Equal(t, 50.0, y, "drawing origin maps to the bottom of the viewBox")
				return
			}
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportsWriterErrors(t *testing.T) {
	err := Write(failingWriter{}, stileDrawing(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stile.svg")
	require.NoError(t, Save(path, stileDrawing(t)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<?xml")))

	assert.Error(t, Save(filepath.Join(t.TempDir(), "missing", "x.svg"), stileDrawing(t)))
}

func TestWriteCutoutOutline(t *testing.T) {
	face := panel.Panel{Role: panel.DrawerFace, Name: "Drawer face", Quantity: 1,
		Outline: panel.Size{X: 596, Y: 150}, Thickness: 19}
	d := drawing.Layout(face, nil, &drawing.Cutout{Width: 150, Height: 40, OffsetTop: 10},
		drawing.Metadata{}, drawing.DefaultStyle())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, d))
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "<polygon"))
	assert.Contains(t, out, "stroke-dasharray")
	assert.Contains(t, out, "fill:none")
}

package rasterexport

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/drawing"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/chazu/caisson/pkg/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backDrawing(t *testing.T) drawing.Drawing {
	t.Helper()
	c := cabinet.Default("base")
	p, ok := panel.Find(panel.Compute(c), panel.Back, -1)
	require.True(t, ok)
	return drawing.Layout(p, joinery.ForPanel(p, c), nil, drawing.Metadata{}, drawing.DefaultStyle())
}

func TestRenderSize(t *testing.T) {
	d := backDrawing(t)
	img := Render(d, 0.5)
	b := img.Bounds()
	assert.InDelta(t, d.Width*0.5, float64(b.Dx()), 1)
	assert.InDelta(t, d.Height*0.5, float64(b.Dy()), 1)

	// non-positive resolutions fall back to the default
	img = Render(d, 0)
	assert.InDelta(t, d.Width, float64(img.Bounds().Dx()), 1)
}

func TestRenderDrawsTheOutline(t *testing.T) {
	d := backDrawing(t)
	img := Render(d, 1)

	// bottom-left corner of the panel outline in image space
	x := int(0 - d.Bounds.Min.X)
	y := int(d.Bounds.Max.Y - 0)
	dark := false
	for dx := -1; dx <= 1 && !dark; dx++ {
		for dy := -1; dy <= 1 && !dark; dy++ {
			c := color.GrayModel.Convert(img.At(x+dx, y+dy)).(color.Gray)
			dark = c.Y < 250
		}
	}
	assert.True(t, dark, "expected a stroke at the panel corner")

	// the padding corner stays white
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(0, 0))
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "back.png")
	require.NoError(t, SavePNG(path, backDrawing(t), 0.5))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

package tessellate_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/kernel"
	"github.com/chazu/caisson/pkg/kernel/sdfx"
	"github.com/chazu/caisson/pkg/scene"
	"github.com/chazu/caisson/pkg/tessellate"
)

// newKernel returns an sdfx kernel coarse enough to keep tests quick.
func newKernel() kernel.Kernel {
	return sdfx.New(sdfx.WithCells(100))
}

// meshTol is the marching cubes error allowed on 100 cells over 800mm.
const meshTol = 10.0

func newScene(t *testing.T, cabs ...cabinet.Cabinet) *scene.Scene {
	t.Helper()
	s := scene.New()
	for _, c := range cabs {
		if _, err := s.AddRoot(c); err != nil {
			t.Fatalf("AddRoot(%s): %v", c.Name, err)
		}
	}
	return s
}

func mustCabinet(t *testing.T, name string, l, w, h float64) cabinet.Cabinet {
	t.Helper()
	c, err := cabinet.New(name, l, w, h)
	if err != nil {
		t.Fatalf("cabinet.New: %v", err)
	}
	return c
}

func byName(meshes []*kernel.Mesh) map[string]*kernel.Mesh {
	out := make(map[string]*kernel.Mesh, len(meshes))
	for _, m := range meshes {
		out[m.PartName] = m
	}
	return out
}

// checkBounds compares a mesh extent against the expected box.
func checkBounds(t *testing.T, m *kernel.Mesh, wantMin, wantMax [3]float64) {
	t.Helper()
	min, max := m.Bounds()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(min[i])-wantMin[i]) > meshTol {
			t.Errorf("%s min[%d] = %.1f, want ~%.1f", m.PartName, i, min[i], wantMin[i])
		}
		if math.Abs(float64(max[i])-wantMax[i]) > meshTol {
			t.Errorf("%s max[%d] = %.1f, want ~%.1f", m.PartName, i, max[i], wantMax[i])
		}
	}
}

func TestSingleCabinet(t *testing.T) {
	s := newScene(t, mustCabinet(t, "base", 600, 560, 720))

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 5 {
		t.Fatalf("expected 5 meshes, got %d", len(meshes))
	}

	want := []string{"C0-A", "C0-B", "C0-C", "C0-D", "C0-E"}
	for i, m := range meshes {
		if m.PartName != want[i] {
			t.Errorf("mesh %d PartName = %q, want %q", i, m.PartName, want[i])
		}
		if m.IsEmpty() {
			t.Errorf("mesh %q should not be empty", m.PartName)
		}
		if m.Cabinet != "base" {
			t.Errorf("mesh %q cabinet = %q, want base", m.PartName, m.Cabinet)
		}
		if m.Material != "Body" {
			t.Errorf("mesh %q material = %q, want Body", m.PartName, m.Material)
		}
	}
}

func TestCarcassPlacement(t *testing.T) {
	s := newScene(t, mustCabinet(t, "base", 600, 560, 720))

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	parts := byName(meshes)

	checkBounds(t, parts["C0-A"], [3]float64{19, 0, 0}, [3]float64{581, 560, 19})
	checkBounds(t, parts["C0-B"], [3]float64{19, 0, 701}, [3]float64{581, 560, 720})
	checkBounds(t, parts["C0-C"], [3]float64{0, 0, 0}, [3]float64{19, 560, 720})
	checkBounds(t, parts["C0-D"], [3]float64{581, 0, 0}, [3]float64{600, 560, 720})
	checkBounds(t, parts["C0-E"], [3]float64{1, 560, 1}, [3]float64{599, 579, 719})
}

func TestAttachedCabinetOffset(t *testing.T) {
	s := newScene(t, mustCabinet(t, "left", 600, 560, 720))
	if _, err := s.Attach(0, cabinet.DirRight, mustCabinet(t, "right", 400, 560, 720)); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 10 {
		t.Fatalf("expected 10 meshes, got %d", len(meshes))
	}
	parts := byName(meshes)
	checkBounds(t, parts["C1-C"], [3]float64{600, 0, 0}, [3]float64{619, 560, 720})
}

func TestFeetLiftScene(t *testing.T) {
	s := newScene(t, mustCabinet(t, "base", 600, 560, 720))
	s.FootHeight = 80

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	checkBounds(t, byName(meshes)["C0-A"], [3]float64{19, 0, 80}, [3]float64{581, 560, 99})
}

func TestDoubleDoorTwoLeaves(t *testing.T) {
	c := mustCabinet(t, "base", 600, 560, 720)
	d := cabinet.DefaultDoor()
	d.Type = cabinet.DoorDouble
	c.SetDoor(d)
	s := newScene(t, c)

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	parts := byName(meshes)
	left, ok := parts["C0-P"]
	if !ok {
		t.Fatal("missing first door leaf")
	}
	right, ok := parts["C0-P/2"]
	if !ok {
		t.Fatal("missing second door leaf")
	}

	// Leaves are 296 wide: 2mm to the carcass edges, 4mm between them.
	checkBounds(t, left, [3]float64{2, -19, 2}, [3]float64{298, 0, 718})
	checkBounds(t, right, [3]float64{302, -19, 2}, [3]float64{598, 0, 718})
}

func TestDrawerAndShelfPanels(t *testing.T) {
	c := mustCabinet(t, "base", 600, 560, 720)
	c.SetDrawer(cabinet.DefaultDrawer())
	c.AddShelf(cabinet.DefaultShelf())
	s := newScene(t, c)

	meshes, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	parts := byName(meshes)
	for _, name := range []string{"C0-TF", "C0-TD", "C0-TB", "C0-S1"} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing mesh for %q", name)
		}
	}

	// Adjustable shelf: 560 long, centred, its underside 300 above the rail.
	checkBounds(t, parts["C0-S1"], [3]float64{20, 0, 319}, [3]float64{580, 550, 338})
}

func TestDrillAddsGeometry(t *testing.T) {
	c := mustCabinet(t, "small", 400, 400, 400)
	sh := cabinet.DefaultShelf()
	sh.Height = 150
	sh.Pins = cabinet.PinPattern{Mode: cabinet.PinsFiveCentered}
	c.AddShelf(sh)
	s := newScene(t, c)

	k := sdfx.New(sdfx.WithCells(120))
	plain, err := tessellate.Tessellate(s, k, tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	drilled, err := tessellate.Tessellate(s, k, tessellate.Options{Drill: true})
	if err != nil {
		t.Fatalf("Tessellate(drill) failed: %v", err)
	}

	p := byName(plain)["C0-C"]
	d := byName(drilled)["C0-C"]
	if d.TriangleCount() <= p.TriangleCount() {
		t.Errorf("drilled stile (%d triangles) should have more triangles than plain (%d)",
			d.TriangleCount(), p.TriangleCount())
	}
}

func TestEmptyScene(t *testing.T) {
	meshes, err := tessellate.Tessellate(scene.New(), newKernel(), tessellate.Options{})
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(meshes) != 0 {
		t.Fatalf("expected 0 meshes, got %d", len(meshes))
	}

	meshes, err = tessellate.Tessellate(nil, newKernel(), tessellate.Options{})
	if err != nil || meshes != nil {
		t.Fatalf("nil scene: got %v, %v", meshes, err)
	}
}

func TestCycleFails(t *testing.T) {
	s := newScene(t, mustCabinet(t, "a", 600, 560, 720), mustCabinet(t, "b", 600, 560, 720))
	s.Cabinets[0].Attachment = &cabinet.Attachment{Parent: 1, Dir: cabinet.DirRight}
	s.Cabinets[1].Attachment = &cabinet.Attachment{Parent: 0, Dir: cabinet.DirLeft}

	_, err := tessellate.Tessellate(s, newKernel(), tessellate.Options{})
	if err == nil {
		t.Fatal("expected an error for a cyclic scene")
	}
	if !errors.Is(err, scene.ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "tessellate:") {
		t.Errorf("error should be prefixed, got %q", err.Error())
	}
}

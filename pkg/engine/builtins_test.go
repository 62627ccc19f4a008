package engine

import (
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/scene"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cabinet "base" :length 600)`,
			expect: `(cabinet "base" "__kw_length" 600)`,
		},
		{
			name:   "keyword value",
			input:  `(door "base" :opening :left)`,
			expect: `(door "base" "__kw_opening" "__kw_left")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(make-base :face-height h)`,
			expect: `(make_base "__kw_face-height" h)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "upper-case keyword",
			input:  `:M`,
			expect: `"__kw_M"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// mustEval evaluates source and fails the test on any error.
func mustEval(t *testing.T, source string) *scene.Scene {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if sc == nil {
		t.Fatal("expected non-nil scene")
	}
	return sc
}

// mustFail evaluates source and returns the joined eval error messages.
func mustFail(t *testing.T, source string) string {
	t.Helper()
	_, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatalf("expected eval errors for %s", source)
	}
	var msgs []string
	for _, e := range evalErrs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ---------------------------------------------------------------------------
// scene
// ---------------------------------------------------------------------------

func TestSceneSettings(t *testing.T) {
	sc := mustEval(t, `(scene :unit :cm :feet 100 :project "Kitchen" :client "Smith" :date "2026-10-18" :quantity 3)`)

	if sc.Unit != cabinet.UnitCM {
		t.Errorf("unit = %s, want cm", sc.Unit)
	}
	if sc.FootHeight != 100 {
		t.Errorf("foot height = %g, want 100", sc.FootHeight)
	}
	if sc.Project.Name != "Kitchen" || sc.Project.Client != "Smith" {
		t.Errorf("project = %+v", sc.Project)
	}
	if sc.Project.Date != "2026-10-18" {
		t.Errorf("date = %q", sc.Project.Date)
	}
	if sc.Project.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", sc.Project.Quantity)
	}
}

func TestSceneFeetFlag(t *testing.T) {
	sc := mustEval(t, `(scene :feet true)`)
	if sc.FootHeight != scene.DefaultFootHeight {
		t.Errorf("foot height = %g, want %g", sc.FootHeight, scene.DefaultFootHeight)
	}

	sc = mustEval(t, `(scene :feet 80) (scene :feet false)`)
	if sc.FootHeight != 0 {
		t.Errorf("foot height = %g, want 0 after :feet false", sc.FootHeight)
	}
}

func TestSceneRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown unit", `(scene :unit :inch)`, "invalid unit"},
		{"negative feet", `(scene :feet -5)`, "negative"},
		{"zero quantity", `(scene :quantity 0)`, "quantity"},
		{"unknown keyword", `(scene :colour "red")`, ":colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := mustFail(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should mention %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// cabinet
// ---------------------------------------------------------------------------

func TestCabinetDefaults(t *testing.T) {
	sc := mustEval(t, `(cabinet "base")`)

	if sc.Len() != 1 {
		t.Fatalf("expected 1 cabinet, got %d", sc.Len())
	}
	c := sc.Cabinets[0]
	if c.Length != 600 || c.Width != 600 || c.Height != 800 {
		t.Errorf("dimensions = %gx%gx%g, want 600x600x800", c.Length, c.Width, c.Height)
	}
	if c.Thickness != cabinet.DefaultThicknesses() {
		t.Errorf("thickness = %+v, want defaults", c.Thickness)
	}
	if !c.IsRoot() {
		t.Error("cabinet without :parent should be a root")
	}
}

func TestCabinetDimensionsAndThickness(t *testing.T) {
	sc := mustEval(t, `
(cabinet "base" :length 800 :width 560 :height 720 :thickness 18 :back 8 :material "Oak")
`)
	c := sc.Cabinets[0]
	if c.Length != 800 || c.Width != 560 || c.Height != 720 {
		t.Errorf("dimensions = %gx%gx%g", c.Length, c.Width, c.Height)
	}
	want := cabinet.Thicknesses{Side: 18, Back: 8, Top: 18, Bottom: 18}
	if c.Thickness != want {
		t.Errorf("thickness = %+v, want %+v", c.Thickness, want)
	}
	if c.Material != "Oak" {
		t.Errorf("material = %q, want Oak", c.Material)
	}
}

func TestCabinetAttachment(t *testing.T) {
	sc := mustEval(t, `
(def tall (cabinet "tall" :length 600 :height 2000))
(cabinet "base" :length 800 :parent tall :dir :right)
(cabinet "wall" :parent "base" :dir :up)
`)
	if sc.Len() != 3 {
		t.Fatalf("expected 3 cabinets, got %d", sc.Len())
	}

	base := sc.Cabinets[1]
	if base.Attachment == nil || base.Attachment.Parent != 0 || base.Attachment.Dir != cabinet.DirRight {
		t.Errorf("base attachment = %+v, want parent 0 right", base.Attachment)
	}
	wall := sc.Cabinets[2]
	if wall.Attachment == nil || wall.Attachment.Parent != 1 || wall.Attachment.Dir != cabinet.DirUp {
		t.Errorf("wall attachment = %+v, want parent 1 up", wall.Attachment)
	}

	origins, err := sc.Origins()
	if err != nil {
		t.Fatalf("Origins: %v", err)
	}
	o := origins[wall.ID]
	if math.Abs(o.X-0.6) > 1e-9 || math.Abs(o.Z-0.8) > 1e-9 {
		t.Errorf("wall origin = %+v, want x=0.6 z=0.8", o)
	}
}

func TestCabinetErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"missing name", `(cabinet)`, "name"},
		{"name not a string", `(cabinet 5)`, "expected string"},
		{"duplicate name", `(cabinet "a") (cabinet "a")`, "duplicate"},
		{"unknown parent", `(cabinet "a" :parent "ghost" :dir :left)`, "ghost"},
		{"parent without dir", `(cabinet "a") (cabinet "b" :parent "a")`, "direction"},
		{"dir without parent", `(cabinet "a" :dir :up)`, ":parent"},
		{"bad dir", `(cabinet "a") (cabinet "b" :parent "a" :dir :down)`, "invalid dir"},
		{"negative length", `(cabinet "a" :length -1)`, "must be positive"},
		{"sides consume length", `(cabinet "a" :length 30 :side 19)`, "no inner span"},
		{"length not a number", `(cabinet "a" :length "wide")`, "expected number"},
		{"unknown keyword", `(cabinet "a" :depth 500)`, ":depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := mustFail(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should mention %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// door, drawer, handle
// ---------------------------------------------------------------------------

func TestDoor(t *testing.T) {
	sc := mustEval(t, `
(cabinet "base")
(door "base" :type :double :opening :left :gap 3 :model :floor-length :material "Walnut")
`)
	d, ok := sc.Cabinets[0].Door()
	if !ok {
		t.Fatal("expected a door")
	}
	if d.Type != cabinet.DoorDouble {
		t.Errorf("type = %s, want double", d.Type)
	}
	if d.Opening != cabinet.SideLeft {
		t.Errorf("opening = %s, want left", d.Opening)
	}
	if d.Gap != 3 {
		t.Errorf("gap = %g, want 3", d.Gap)
	}
	if d.Model != cabinet.DoorFloorLength {
		t.Errorf("model = %s, want floor-length", d.Model)
	}
	if d.Thickness != cabinet.DefaultThickness {
		t.Errorf("thickness = %g, want default", d.Thickness)
	}
	if d.Material != "Walnut" {
		t.Errorf("material = %q", d.Material)
	}
}

func TestDrawerReplacesDoor(t *testing.T) {
	sc := mustEval(t, `
(def base (cabinet "base" :width 560))
(door base)
(drawer base :tech :M :face-height 180 :bottom-offset 4
             :handle (handle :width 120 :offset-top 15))
`)
	c := sc.Cabinets[0]
	if _, ok := c.Door(); ok {
		t.Error("drawer should replace the door")
	}
	d, ok := c.Drawer()
	if !ok {
		t.Fatal("expected a drawer")
	}
	if d.Tech != cabinet.TechM {
		t.Errorf("tech = %s, want M", d.Tech)
	}
	if d.FaceHeight != 180 || d.BottomOffset != 4 {
		t.Errorf("face height %g bottom offset %g", d.FaceHeight, d.BottomOffset)
	}
	if d.Handle == nil {
		t.Fatal("expected a handle")
	}
	want := cabinet.Handle{Width: 120, Height: 40, OffsetTop: 15}
	if *d.Handle != want {
		t.Errorf("handle = %+v, want %+v", *d.Handle, want)
	}
}

func TestDrawerDefaultHandleFlag(t *testing.T) {
	sc := mustEval(t, `(cabinet "base") (drawer "base" :tech "n" :handle true)`)
	d, _ := sc.Cabinets[0].Drawer()
	if d.Tech != cabinet.TechN {
		t.Errorf("tech = %s, want N", d.Tech)
	}
	if d.Handle == nil || *d.Handle != cabinet.DefaultHandle() {
		t.Errorf("handle = %v, want default", d.Handle)
	}
}

func TestAccessoryErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"door without cabinet", `(door)`, "requires a cabinet"},
		{"door on unknown cabinet", `(door "nope")`, "nope"},
		{"bad door type", `(cabinet "a") (door "a" :type :triple)`, "invalid type"},
		{"negative gap", `(cabinet "a") (door "a" :gap -1)`, "negative"},
		{"bad tech", `(cabinet "a") (drawer "a" :tech :Z)`, "invalid tech"},
		{"bad handle", `(cabinet "a") (drawer "a" :handle 5)`, "handle"},
		{"zero handle width", `(cabinet "a") (drawer "a" :handle (handle :width 0))`, "handle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := mustFail(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should mention %q", msg, tt.want)
			}
		})
	}
}

func TestFailedUpdateLeavesCabinet(t *testing.T) {
	// The failing door aborts evaluation, so check the builder directly.
	s := scene.New()
	b := &builder{s: s}
	idx, err := s.AddRoot(cabinet.Default("a"))
	if err != nil {
		t.Fatalf("AddRoot: %v", err)
	}

	bad := cabinet.DefaultDoor()
	bad.Thickness = 0
	err = b.update(idx, func(c *cabinet.Cabinet) error {
		c.SetDoor(bad)
		return nil
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := s.Cabinets[idx].Door(); ok {
		t.Error("invalid door should not be stored")
	}
}

// ---------------------------------------------------------------------------
// shelf
// ---------------------------------------------------------------------------

func TestShelves(t *testing.T) {
	sc := mustEval(t, `
(cabinet "tall" :height 2000)
(def lowest (shelf "tall" :height 400))
(shelf "tall" :kind :fixed :height 900 :thickness 25 :pins :five-pin)
(shelf "tall" :height 1400 :pins :custom :above 2 :below 1)
lowest
`)
	shelves := sc.Cabinets[0].Shelves
	if len(shelves) != 3 {
		t.Fatalf("expected 3 shelves, got %d", len(shelves))
	}

	if shelves[0].Kind != cabinet.ShelfAdjustable || shelves[0].Pins.Mode != cabinet.PinsFullColumn {
		t.Errorf("shelf 1 = %+v, want adjustable full column", shelves[0])
	}
	if shelves[1].Kind != cabinet.ShelfFixed || shelves[1].Thickness != 25 {
		t.Errorf("shelf 2 = %+v, want fixed 25mm", shelves[1])
	}
	if shelves[1].Pins != (cabinet.PinPattern{}) {
		t.Errorf("fixed shelf should carry no pin pattern, got %+v", shelves[1].Pins)
	}
	want := cabinet.PinPattern{Mode: cabinet.PinsCustom, Above: 2, Below: 1}
	if shelves[2].Pins != want {
		t.Errorf("shelf 3 pins = %+v, want %+v", shelves[2].Pins, want)
	}
}

func TestShelfErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"bad kind", `(cabinet "a") (shelf "a" :kind :floating)`, "invalid kind"},
		{"bad pins", `(cabinet "a") (shelf "a" :pins :three)`, "invalid pins"},
		{"fractional count", `(cabinet "a") (shelf "a" :pins :custom :above 1.5)`, "whole number"},
		{"negative count", `(cabinet "a") (shelf "a" :pins :custom :below -1)`, "negative"},
		{"negative height", `(cabinet "a") (shelf "a" :height -10)`, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := mustFail(t, tt.source)
			if !strings.Contains(msg, tt.want) {
				t.Errorf("error %q should mention %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Lisp features still work around the builtins
// ---------------------------------------------------------------------------

func TestUserFunctionBuildsCabinets(t *testing.T) {
	sc := mustEval(t, `
(defn make-base [n l]
  (cabinet n :length l :width 560 :height 720))
(make-base "sink" 800)
(make-base "drawers" 400)
`)
	if sc.Len() != 2 {
		t.Fatalf("expected 2 cabinets, got %d", sc.Len())
	}
	if sc.Cabinets[1].Name != "drawers" || sc.Cabinets[1].Length != 400 {
		t.Errorf("second cabinet = %s %g", sc.Cabinets[1].Name, sc.Cabinets[1].Length)
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	sc := mustEval(t, `(cabinet "a" :length (* 2 300) :height (+ 700 20))`)
	c := sc.Cabinets[0]
	if c.Length != 600 || c.Height != 720 {
		t.Errorf("dimensions = %gx%g, want 600x720", c.Length, c.Height)
	}
}

// ---------------------------------------------------------------------------
// Example scenes
// ---------------------------------------------------------------------------

func TestKitchenExample(t *testing.T) {
	source, err := os.ReadFile("../../examples/kitchen.lisp")
	if err != nil {
		t.Fatalf("failed to read kitchen.lisp: %v", err)
	}
	sc := mustEval(t, string(source))

	if sc.Len() != 4 {
		t.Fatalf("expected 4 cabinets, got %d", sc.Len())
	}
	if sc.FootHeight != 80 {
		t.Errorf("foot height = %g, want 80", sc.FootHeight)
	}
	if errs := scene.Validate(sc); len(errs) > 0 {
		t.Errorf("structural findings: %v", errs)
	}
}

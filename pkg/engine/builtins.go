package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: make-base -> make_base
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpCabinetRef refers to a cabinet of the scene under construction.
type sexpCabinetRef struct {
	index int
	name  string
}

func (r *sexpCabinetRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cabinet-ref %q)", r.name)
}
func (r *sexpCabinetRef) Type() *zygo.RegisteredType { return nil }

// sexpHandle carries a handle cutout from `handle` into `drawer`.
type sexpHandle struct {
	h cabinet.Handle
}

func (h *sexpHandle) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(handle %gx%g)", h.h.Width, h.h.Height)
}
func (h *sexpHandle) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	fn         string
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(fn string, args []zygo.Sexp) kwArgs {
	result := kwArgs{fn: fn, kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword without a value reads as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (pa kwArgs) only(allowed ...string) error {
	var unknown []string
	for k := range pa.kw {
		if !slices.Contains(allowed, k) {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("%s: unknown keyword %s", pa.fn, strings.Join(unknown, ", "))
}

// float stores keyword name into dst when present.
func (pa kwArgs) float(name string, dst *float64) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.fn, name, err)
	}
	*dst = f
	return nil
}

func (pa kwArgs) int(name string, dst *int) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	n, err := toInt(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.fn, name, err)
	}
	*dst = n
	return nil
}

func (pa kwArgs) str(name string, dst *string) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.fn, name, err)
	}
	*dst = s
	return nil
}

// enum stores the value named by a keyword or string argument.
func enum[T any](pa kwArgs, name string, dst *T, values map[string]T) error {
	v, ok := pa.kw[name]
	if !ok {
		return nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", pa.fn, name, err)
	}
	t, ok := values[s]
	if !ok {
		names := lo.Keys(values)
		slices.Sort(names)
		return fmt.Errorf("%s: invalid %s %q, expected one of %s", pa.fn, name, s, strings.Join(names, ", "))
	}
	*dst = t
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected whole number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_right) and plain strings ("right").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool accepts true/false; a bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Enum tables
// ---------------------------------------------------------------------------

var (
	doorTypes = map[string]cabinet.DoorType{
		"single": cabinet.DoorSingle,
		"double": cabinet.DoorDouble,
	}
	doorSides = map[string]cabinet.Side{
		"left":  cabinet.SideLeft,
		"right": cabinet.SideRight,
	}
	doorModels = map[string]cabinet.DoorModel{
		"standard":     cabinet.DoorStandard,
		"floor-length": cabinet.DoorFloorLength,
	}
	techs = map[string]cabinet.Tech{
		"K": cabinet.TechK, "k": cabinet.TechK,
		"M": cabinet.TechM, "m": cabinet.TechM,
		"N": cabinet.TechN, "n": cabinet.TechN,
		"D": cabinet.TechD, "d": cabinet.TechD,
	}
	shelfKinds = map[string]cabinet.ShelfKind{
		"adjustable": cabinet.ShelfAdjustable,
		"fixed":      cabinet.ShelfFixed,
	}
	pinModes = map[string]cabinet.PinMode{
		"full-column": cabinet.PinsFullColumn,
		"five-pin":    cabinet.PinsFiveCentered,
		"custom":      cabinet.PinsCustom,
	}
	units = map[string]cabinet.Unit{
		"mm": cabinet.UnitMM,
		"cm": cabinet.UnitCM,
		"m":  cabinet.UnitM,
	}
	directions = map[string]cabinet.Direction{
		"left":  cabinet.DirLeft,
		"right": cabinet.DirRight,
		"up":    cabinet.DirUp,
	}
)

// ---------------------------------------------------------------------------
// Scene builder
// ---------------------------------------------------------------------------

// builder accumulates the scene while the source runs.
type builder struct {
	s *scene.Scene
}

// cabinetIndex resolves a cabinet reference or a cabinet name.
func (b *builder) cabinetIndex(fn string, x zygo.Sexp) (int, error) {
	switch v := x.(type) {
	case *sexpCabinetRef:
		return v.index, nil
	case *zygo.SexpStr:
		if i, ok := b.s.Lookup(v.S); ok {
			return i, nil
		}
		return -1, fmt.Errorf("%s: no cabinet named %q", fn, v.S)
	}
	return -1, fmt.Errorf("%s: expected cabinet or cabinet name, got %T (%s)", fn, x, x.SexpString(nil))
}

// update applies fn to a copy of cabinet i and keeps the copy only when
// it still validates.
func (b *builder) update(i int, fn func(*cabinet.Cabinet) error) error {
	c := b.s.Cabinets[i].Clone()
	if err := fn(&c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	b.s.Cabinets[i] = c
	return nil
}

func (b *builder) ref(i int) *sexpCabinetRef {
	return &sexpCabinetRef{index: i, name: b.s.Cabinets[i].Name}
}

// target parses the leading cabinet argument shared by door, drawer and shelf.
func (b *builder) target(pa kwArgs) (int, error) {
	if len(pa.positional) < 1 {
		return -1, fmt.Errorf("%s requires a cabinet as first argument", pa.fn)
	}
	return b.cabinetIndex(pa.fn, pa.positional[0])
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment. The builtins populate s during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	b := &builder{s: s}

	// -----------------------------------------------------------------------
	// (scene :unit :mm :feet 80 :project "Kitchen" :client "Smith"
	//        :date "2026-10-18" :quantity 2)
	// -----------------------------------------------------------------------
	env.AddFunction("scene", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("scene", args)
		if err := pa.only("unit", "feet", "project", "client", "date", "quantity"); err != nil {
			return zygo.SexpNull, err
		}

		if err := enum(pa, "unit", &s.Unit, units); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["feet"]; ok {
			if on, err := toBool(v); err == nil {
				s.FootHeight = 0
				if on {
					s.FootHeight = scene.DefaultFootHeight
				}
			} else {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("scene: feet: expected height or true/false")
				}
				if f < 0 {
					return zygo.SexpNull, fmt.Errorf("scene: feet: height %g is negative", f)
				}
				s.FootHeight = f
			}
		}
		if err := pa.str("project", &s.Project.Name); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.str("client", &s.Project.Client); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.str("date", &s.Project.Date); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.int("quantity", &s.Project.Quantity); err != nil {
			return zygo.SexpNull, err
		}
		if s.Project.Quantity < 1 {
			return zygo.SexpNull, fmt.Errorf("scene: quantity must be at least 1")
		}

		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (cabinet "base" :length 600 :width 560 :height 720
	//          :side 19 :back 19 :top 19 :bottom 19 :material "Body"
	//          :parent "tall" :dir :right)
	// -----------------------------------------------------------------------
	env.AddFunction("cabinet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("cabinet", args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("cabinet requires a name argument")
		}
		cabName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cabinet: name: %w", err)
		}
		if _, dup := s.Lookup(cabName); dup {
			return zygo.SexpNull, fmt.Errorf("cabinet: duplicate name %q", cabName)
		}
		if err := pa.only("length", "width", "height", "thickness", "side", "back", "top", "bottom",
			"material", "parent", "dir"); err != nil {
			return zygo.SexpNull, err
		}

		c := cabinet.Default(cabName)
		var thickness float64
		if err := pa.float("thickness", &thickness); err != nil {
			return zygo.SexpNull, err
		}
		if thickness != 0 {
			c.Thickness = cabinet.Thicknesses{Side: thickness, Back: thickness, Top: thickness, Bottom: thickness}
		}
		for _, f := range []struct {
			kw  string
			dst *float64
		}{
			{"length", &c.Length},
			{"width", &c.Width},
			{"height", &c.Height},
			{"side", &c.Thickness.Side},
			{"back", &c.Thickness.Back},
			{"top", &c.Thickness.Top},
			{"bottom", &c.Thickness.Bottom},
		} {
			if err := pa.float(f.kw, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := pa.str("material", &c.Material); err != nil {
			return zygo.SexpNull, err
		}

		dir := cabinet.DirNone
		if err := enum(pa, "dir", &dir, directions); err != nil {
			return zygo.SexpNull, err
		}

		var idx int
		if v, ok := pa.kw["parent"]; ok {
			parent, err := b.cabinetIndex("cabinet: parent", v)
			if err != nil {
				return zygo.SexpNull, err
			}
			idx, err = s.Attach(parent, dir, c)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: %w", err)
			}
		} else {
			if dir != cabinet.DirNone {
				return zygo.SexpNull, fmt.Errorf("cabinet %q: :dir needs a :parent", cabName)
			}
			idx, err = s.AddRoot(c)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: %w", err)
			}
		}

		return b.ref(idx), nil
	})

	// -----------------------------------------------------------------------
	// (door "base" :type :double :opening :left :gap 2 :thickness 19
	//       :model :floor-length :material "Door")
	// -----------------------------------------------------------------------
	env.AddFunction("door", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("door", args)
		i, err := b.target(pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.only("type", "opening", "gap", "thickness", "model", "material"); err != nil {
			return zygo.SexpNull, err
		}

		d := cabinet.DefaultDoor()
		if err := enum(pa, "type", &d.Type, doorTypes); err != nil {
			return zygo.SexpNull, err
		}
		if err := enum(pa, "opening", &d.Opening, doorSides); err != nil {
			return zygo.SexpNull, err
		}
		if err := enum(pa, "model", &d.Model, doorModels); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("gap", &d.Gap); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("thickness", &d.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.str("material", &d.Material); err != nil {
			return zygo.SexpNull, err
		}

		err = b.update(i, func(c *cabinet.Cabinet) error {
			c.SetDoor(d)
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("door: %w", err)
		}
		return b.ref(i), nil
	})

	// -----------------------------------------------------------------------
	// (handle :width 150 :height 40 :offset-top 10)
	// -----------------------------------------------------------------------
	env.AddFunction("handle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("handle", args)
		if err := pa.only("width", "height", "offset-top"); err != nil {
			return zygo.SexpNull, err
		}

		h := cabinet.DefaultHandle()
		if err := pa.float("width", &h.Width); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("height", &h.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("offset-top", &h.OffsetTop); err != nil {
			return zygo.SexpNull, err
		}

		return &sexpHandle{h: h}, nil
	})

	// -----------------------------------------------------------------------
	// (drawer "base" :tech :M :face-height 150 :face-thickness 19 :gap 2
	//         :bottom-offset 0 :handle (handle :width 120) :material "Drawer")
	// -----------------------------------------------------------------------
	env.AddFunction("drawer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("drawer", args)
		i, err := b.target(pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.only("tech", "face-height", "face-thickness", "gap", "bottom-offset", "handle", "material"); err != nil {
			return zygo.SexpNull, err
		}

		d := cabinet.DefaultDrawer()
		if err := enum(pa, "tech", &d.Tech, techs); err != nil {
			return zygo.SexpNull, err
		}
		for _, f := range []struct {
			kw  string
			dst *float64
		}{
			{"face-height", &d.FaceHeight},
			{"face-thickness", &d.FaceThickness},
			{"gap", &d.Gap},
			{"bottom-offset", &d.BottomOffset},
		} {
			if err := pa.float(f.kw, f.dst); err != nil {
				return zygo.SexpNull, err
			}
		}
		if err := pa.str("material", &d.Material); err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["handle"]; ok {
			switch hv := v.(type) {
			case *sexpHandle:
				h := hv.h
				d.Handle = &h
			default:
				on, err := toBool(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("drawer: handle: expected (handle ...) or true/false")
				}
				if on {
					h := cabinet.DefaultHandle()
					d.Handle = &h
				}
			}
		}

		err = b.update(i, func(c *cabinet.Cabinet) error {
			c.SetDrawer(d)
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("drawer: %w", err)
		}
		return b.ref(i), nil
	})

	// -----------------------------------------------------------------------
	// (shelf "base" :kind :adjustable :height 300 :thickness 19
	//        :pins :custom :above 2 :below 1 :material "Body")
	// -----------------------------------------------------------------------
	env.AddFunction("shelf", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs("shelf", args)
		i, err := b.target(pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.only("kind", "height", "thickness", "pins", "above", "below", "material"); err != nil {
			return zygo.SexpNull, err
		}

		sh := cabinet.DefaultShelf()
		if err := enum(pa, "kind", &sh.Kind, shelfKinds); err != nil {
			return zygo.SexpNull, err
		}
		if err := enum(pa, "pins", &sh.Pins.Mode, pinModes); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("height", &sh.Height); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.float("thickness", &sh.Thickness); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.int("above", &sh.Pins.Above); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.int("below", &sh.Pins.Below); err != nil {
			return zygo.SexpNull, err
		}
		if err := pa.str("material", &sh.Material); err != nil {
			return zygo.SexpNull, err
		}
		if sh.Kind == cabinet.ShelfFixed {
			sh.Pins = cabinet.PinPattern{}
		}

		var idx int
		err = b.update(i, func(c *cabinet.Cabinet) error {
			idx = c.AddShelf(sh)
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shelf: %w", err)
		}
		return &zygo.SexpInt{Val: int64(idx)}, nil
	})
}

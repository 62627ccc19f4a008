package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/chazu/caisson/pkg/joinery"
	"github.com/google/uuid"
)

// ValidationSeverity indicates whether a finding blocks export or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	CabinetID uuid.UUID          // which cabinet has the problem (nil if scene-level)
	Name      string             // cabinet name, for messages
	Message   string             // human-readable description
	Severity  ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.CabinetID == uuid.Nil {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] cabinet %q: %s", e.Severity, e.Name, e.Message)
}

// ValidationResult bundles blocking errors and advisory warnings from all
// validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether nothing blocks export.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs the structural checks and returns every finding. An empty
// slice means the scene is structurally sound. It never mutates the scene.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateAcyclic(s)...)
	errs = append(errs, validateParents(s)...)
	errs = append(errs, validateNames(s)...)
	return errs
}

// ValidateAll runs all tiers (structural, geometric, rule coverage) and
// separates errors from warnings.
func ValidateAll(s *Scene) ValidationResult {
	var result ValidationResult
	for _, e := range Validate(s) {
		if e.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, e)
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Errors = append(result.Errors, validateGeometry(s)...)
	result.Warnings = append(result.Warnings, validateCoverage(s)...)
	return result
}

func finding(c cabinet.Cabinet, sev ValidationSeverity, format string, args ...any) ValidationError {
	return ValidationError{
		CabinetID: c.ID,
		Name:      c.Name,
		Message:   fmt.Sprintf(format, args...),
		Severity:  sev,
	}
}

// ---------------------------------------------------------------------------
// Tier 1: structural
// ---------------------------------------------------------------------------

// validateAcyclic reuses the resolver's DFS; one cycle error is sufficient.
func validateAcyclic(s *Scene) []ValidationError {
	_, err := ResolveOrigins(s.Cabinets, s.Unit)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrCycle) {
		return []ValidationError{{Message: err.Error(), Severity: SeverityError}}
	}
	return []ValidationError{{Message: fmt.Sprintf("origin resolution failed: %v", err), Severity: SeverityError}}
}

// validateParents flags parent indices that point outside the scene. Such
// cabinets still render as roots, so this is a warning.
func validateParents(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, c := range s.Cabinets {
		a := c.Attachment
		if a == nil {
			continue
		}
		if a.Parent == i {
			errs = append(errs, finding(c, SeverityError, "attached to itself"))
			continue
		}
		if a.Parent < 0 || a.Parent >= len(s.Cabinets) {
			errs = append(errs, finding(c, SeverityWarning,
				"parent %d does not exist, placed at the origin", a.Parent))
		}
		if a.Dir == cabinet.DirNone {
			errs = append(errs, finding(c, SeverityWarning, "attached without a direction, placed on its parent's origin"))
		}
	}
	return errs
}

// validateNames requires non-empty, unique cabinet names.
func validateNames(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for _, c := range s.Cabinets {
		if c.Name == "" {
			errs = append(errs, finding(c, SeverityWarning, "cabinet has no name"))
			continue
		}
		if seen[c.Name] {
			errs = append(errs, finding(c, SeverityError, "duplicate cabinet name %q", c.Name))
		}
		seen[c.Name] = true
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 2: geometric
// ---------------------------------------------------------------------------

func validateGeometry(s *Scene) []ValidationError {
	var errs []ValidationError
	for _, c := range s.Cabinets {
		if err := c.Validate(); err != nil {
			errs = append(errs, finding(c, SeverityError, "%v", err))
		}
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 3: rule coverage (warnings)
// ---------------------------------------------------------------------------

// validateCoverage warns where a lookup table has no entry for the cabinet,
// since those rules then silently drill nothing.
func validateCoverage(s *Scene) []ValidationError {
	var warnings []ValidationError
	for i := range s.Cabinets {
		c, err := s.Snapshot(i)
		if err != nil {
			continue
		}

		if screws, _ := joinery.StructuralPositions(c.Width); len(screws) == 0 {
			warnings = append(warnings, finding(c, SeverityWarning,
				"depth %g is outside every structural joint band, no joint holes", c.Width))
		} else if c.Width < 300 || c.Width > 600 {
			warnings = append(warnings, finding(c, SeverityWarning,
				"depth %g uses the two-screw fallback joint", c.Width))
		}

		if d, ok := c.Drawer(); ok {
			if len(joinery.SlidePositions(d.Tech, c.Width)) == 0 {
				warnings = append(warnings, finding(c, SeverityWarning,
					"no %s slide pattern for depth %g, stiles get no slide holes", d.Tech, c.Width))
			}
			if d.FaceHeight > c.Height {
				warnings = append(warnings, finding(c, SeverityWarning,
					"drawer face %g is taller than the cabinet %g", d.FaceHeight, c.Height))
			}
		}

		if d, ok := c.Door(); ok && d.Model == cabinet.DoorFloorLength && c.FootHeight == 0 {
			warnings = append(warnings, finding(c, SeverityWarning,
				"floor-length door without feet under the cabinet, sized as a standard door"))
		}

		inner := c.Height - c.Thickness.Top - c.Thickness.Bottom
		for j, sh := range c.Shelves {
			if sh.Height+sh.Thickness > inner {
				warnings = append(warnings, finding(c, SeverityWarning,
					"shelf %d at %g does not fit the inner height %g", j+1, sh.Height, inner))
			}
		}
	}
	return warnings
}

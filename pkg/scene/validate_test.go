package scene

import (
	"strings"
	"testing"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasMessage(findings []ValidationError, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateCleanScene(t *testing.T) {
	s := buildRow(t)
	assert.Empty(t, Validate(s))

	res := ValidateAll(s)
	assert.True(t, res.OK())
}

func TestValidateCycle(t *testing.T) {
	s := buildRow(t)
	s.Cabinets[0].Attachment = &cabinet.Attachment{Parent: 1, Dir: cabinet.DirLeft}

	errs := Validate(s)
	require.NotEmpty(t, errs)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.Contains(t, errs[0].Error(), "cycle")
}

func TestValidateDanglingParentIsWarning(t *testing.T) {
	s := buildRow(t)
	s.Cabinets[3].Attachment.Parent = 17

	res := ValidateAll(s)
	assert.True(t, res.OK())
	assert.True(t, hasMessage(res.Warnings, "parent 17 does not exist"))
}

func TestValidateDuplicateNames(t *testing.T) {
	s := buildRow(t)
	s.Cabinets[3].Name = "base"

	res := ValidateAll(s)
	assert.False(t, res.OK())
	assert.True(t, hasMessage(res.Errors, "duplicate cabinet name"))
}

func TestValidateGeometryErrors(t *testing.T) {
	s := buildRow(t)
	s.Cabinets[1].Height = -5

	res := ValidateAll(s)
	assert.False(t, res.OK())
	assert.Contains(t, res.Errors[0].Error(), `cabinet "right"`)
}

func TestValidateCoverageWarnings(t *testing.T) {
	s := New()
	c, err := cabinet.New("shallow", 600, 250, 800)
	require.NoError(t, err)
	c.SetDrawer(cabinet.DefaultDrawer())
	c.AddShelf(cabinet.Shelf{Kind: cabinet.ShelfFixed, Height: 900, Thickness: 19})
	_, err = s.AddRoot(c)
	require.NoError(t, err)

	res := ValidateAll(s)
	assert.True(t, res.OK())
	assert.True(t, hasMessage(res.Warnings, "two-screw fallback"))
	assert.True(t, hasMessage(res.Warnings, "no K slide pattern"))
	assert.True(t, hasMessage(res.Warnings, "does not fit"))
}

func TestValidateFloorLengthWithoutFeet(t *testing.T) {
	s := New()
	c := cabinet.Default("tall")
	d := cabinet.DefaultDoor()
	d.Model = cabinet.DoorFloorLength
	c.SetDoor(d)
	_, err := s.AddRoot(c)
	require.NoError(t, err)

	assert.True(t, hasMessage(ValidateAll(s).Warnings, "floor-length door without feet"))

	s.FootHeight = DefaultFootHeight
	assert.False(t, hasMessage(ValidateAll(s).Warnings, "floor-length door without feet"))
}

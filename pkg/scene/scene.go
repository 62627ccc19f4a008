package scene

import (
	"errors"
	"fmt"

	"github.com/chazu/caisson/pkg/cabinet"
	"github.com/google/uuid"
)

// DefaultFootHeight is the foot height offered when feet are enabled, in mm.
const DefaultFootHeight = 80.0

// ErrNoSuchCabinet is returned for an index or name outside the scene.
var ErrNoSuchCabinet = errors.New("no such cabinet")

// Project is the metadata printed in drawing title blocks.
type Project struct {
	Name     string `json:"name"`
	Client   string `json:"client,omitempty"`
	Date     string `json:"date,omitempty"`
	Quantity int    `json:"quantity"`
}

// Scene is the ordered cabinet collection. Parent references are indices
// into Cabinets, so removal renumbers them.
type Scene struct {
	Cabinets   []cabinet.Cabinet `json:"cabinets"`
	Unit       cabinet.Unit      `json:"unit"`
	FootHeight float64           `json:"foot_height"` // zero: no feet
	Project    Project           `json:"project"`
}

// New creates an empty millimeter scene.
func New() *Scene {
	return &Scene{
		Unit:    cabinet.UnitMM,
		Project: Project{Name: "New project", Quantity: 1},
	}
}

// Len returns the number of cabinets.
func (s *Scene) Len() int {
	return len(s.Cabinets)
}

// AddRoot appends a cabinet without a parent and returns its index.
func (s *Scene) AddRoot(c cabinet.Cabinet) (int, error) {
	c.Attachment = nil
	return s.add(c)
}

// Attach appends c next to (or on top of) the cabinet at index parent.
func (s *Scene) Attach(parent int, dir cabinet.Direction, c cabinet.Cabinet) (int, error) {
	if parent < 0 || parent >= len(s.Cabinets) {
		return -1, fmt.Errorf("attach %q to %d: %w", c.Name, parent, ErrNoSuchCabinet)
	}
	if dir == cabinet.DirNone {
		return -1, fmt.Errorf("attach %q: direction must be left, right or up", c.Name)
	}
	c.Attachment = &cabinet.Attachment{Parent: parent, Dir: dir}
	return s.add(c)
}

func (s *Scene) add(c cabinet.Cabinet) (int, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := c.Validate(); err != nil {
		return -1, err
	}
	s.Cabinets = append(s.Cabinets, c)
	return len(s.Cabinets) - 1, nil
}

// Lookup returns the index of the first cabinet with the given name.
func (s *Scene) Lookup(name string) (int, bool) {
	for i, c := range s.Cabinets {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Snapshot returns an independent copy of cabinet i carrying the scene-level
// foot height when the cabinet stands on the floor.
func (s *Scene) Snapshot(i int) (cabinet.Cabinet, error) {
	if i < 0 || i >= len(s.Cabinets) {
		return cabinet.Cabinet{}, fmt.Errorf("snapshot %d: %w", i, ErrNoSuchCabinet)
	}
	c := s.Cabinets[i].Clone()
	if !s.hasParent(i) {
		c.FootHeight = s.FootHeight
	} else {
		c.FootHeight = 0
	}
	return c, nil
}

// hasParent reports whether cabinet i references an existing parent.
func (s *Scene) hasParent(i int) bool {
	a := s.Cabinets[i].Attachment
	return a != nil && a.Parent >= 0 && a.Parent < len(s.Cabinets)
}

// Children returns the indices of cabinets attached directly to i.
func (s *Scene) Children(i int) []int {
	var out []int
	for j, c := range s.Cabinets {
		if c.Attachment != nil && c.Attachment.Parent == i && j != i {
			out = append(out, j)
		}
	}
	return out
}

// Remove deletes cabinet i together with every cabinet attached to it,
// directly or transitively, and renumbers the survivors' parent indices.
// It returns the IDs of the removed cabinets.
func (s *Scene) Remove(i int) ([]uuid.UUID, error) {
	if i < 0 || i >= len(s.Cabinets) {
		return nil, fmt.Errorf("remove %d: %w", i, ErrNoSuchCabinet)
	}

	doomed := map[int]bool{i: true}
	queue := []int{i}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range s.Children(cur) {
			if !doomed[child] {
				doomed[child] = true
				queue = append(queue, child)
			}
		}
	}

	newIndex := make([]int, len(s.Cabinets))
	var kept []cabinet.Cabinet
	var removed []uuid.UUID
	for j, c := range s.Cabinets {
		if doomed[j] {
			newIndex[j] = -1
			removed = append(removed, c.ID)
			continue
		}
		newIndex[j] = len(kept)
		kept = append(kept, c)
	}

	for j := range kept {
		a := kept[j].Attachment
		if a == nil {
			continue
		}
		if a.Parent < 0 || a.Parent >= len(newIndex) || newIndex[a.Parent] < 0 {
			// Dangling parents already resolve as roots.
			kept[j].Attachment = nil
			continue
		}
		kept[j].Attachment = &cabinet.Attachment{Parent: newIndex[a.Parent], Dir: a.Dir}
	}

	s.Cabinets = kept
	return removed, nil
}

// RemoveShelf deletes shelf j of cabinet i.
func (s *Scene) RemoveShelf(i, j int) error {
	if i < 0 || i >= len(s.Cabinets) {
		return fmt.Errorf("remove shelf: cabinet %d: %w", i, ErrNoSuchCabinet)
	}
	return s.Cabinets[i].RemoveShelf(j)
}

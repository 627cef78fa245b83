package annotation

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

// ErrBoxNotFound is returned when a box id is unknown.
var ErrBoxNotFound = errors.New("annotation box not found")

// ErrNotEditing is returned when a commit or cancel arrives without an open
// edit.
var ErrNotEditing = errors.New("box is not being edited")

// Tool holds the annotation state for one document: its boxes plus the
// selection and edit bookkeeping a review surface needs. All methods are safe
// for concurrent use.
type Tool struct {
	mu    sync.Mutex
	boxes map[string]*Box
	// edits holds the pre-edit snapshot of each box under edit so a
	// cancel can restore it.
	edits map[string]Box
}

// NewTool creates an empty annotation tool.
func NewTool() *Tool {
	return &Tool{
		boxes: make(map[string]*Box),
		edits: make(map[string]Box),
	}
}

// Draw creates a manual box and selects it, deselecting everything else.
func (t *Tool) Draw(pageNumber int, rect Rect, role extract.RegionRole) (*Box, error) {
	box, err := NewBox(pageNumber, rect, role)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.deselectLocked()
	box.Selected = true
	t.boxes[box.ID] = box
	return box.clone(), nil
}

// AddDetected imports a detected region as a box. An existing box with the
// same id is left untouched so reviewer edits survive re-detection.
func (t *Tool) AddDetected(region extract.LayoutRegion, pageWidth, pageHeight float64) (*Box, error) {
	box, err := FromRegion(region, pageWidth, pageHeight)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.boxes[box.ID]; ok {
		return existing.clone(), nil
	}
	t.boxes[box.ID] = box
	return box.clone(), nil
}

// Select marks one box selected and deselects the rest.
func (t *Tool) Select(id string) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}

	t.deselectLocked()
	box.Selected = true
	return box.clone(), nil
}

// Deselect clears the selection.
func (t *Tool) Deselect() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deselectLocked()
}

func (t *Tool) deselectLocked() {
	for _, box := range t.boxes {
		box.Selected = false
	}
}

// BeginEdit opens an edit on a box, snapshotting it for a possible cancel.
func (t *Tool) BeginEdit(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return ErrBoxNotFound
	}
	if box.Editing {
		return nil // already open
	}

	t.edits[id] = *box
	box.Editing = true
	return nil
}

// CommitEdit closes an edit, keeping the changes made since BeginEdit.
func (t *Tool) CommitEdit(id string) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}
	if !box.Editing {
		return nil, ErrNotEditing
	}

	delete(t.edits, id)
	box.Editing = false
	box.touch()
	return box.clone(), nil
}

// CancelEdit closes an edit and restores the box to its pre-edit state.
func (t *Tool) CancelEdit(id string) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}
	if !box.Editing {
		return nil, ErrNotEditing
	}

	snapshot := t.edits[id]
	delete(t.edits, id)
	snapshot.Editing = false
	snapshot.Selected = box.Selected
	*box = snapshot
	return box.clone(), nil
}

// Move shifts a box by a normalized delta, clamped to the page.
func (t *Tool) Move(id string, dx, dy float64) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}

	rect := box.Rect
	rect.X += dx
	rect.Y += dy
	box.Rect = rect.Clamp()
	box.touch()
	return box.clone(), nil
}

// Resize sets a box's rectangle, clamped to the page.
func (t *Tool) Resize(id string, rect Rect) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}

	box.Rect = rect.Clamp()
	box.touch()
	return box.clone(), nil
}

// SetRole reassigns a box's region role.
func (t *Tool) SetRole(id string, role extract.RegionRole) (*Box, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown region role: %s", role)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}

	box.Role = role
	box.touch()
	return box.clone(), nil
}

// SetLabel updates a box's label text.
func (t *Tool) SetLabel(id, label string) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}

	box.Label = label
	box.touch()
	return box.clone(), nil
}

// Delete removes a box. Any open edit on it is discarded.
func (t *Tool) Delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.boxes[id]; !ok {
		return ErrBoxNotFound
	}
	delete(t.boxes, id)
	delete(t.edits, id)
	return nil
}

// Get returns a snapshot of one box.
func (t *Tool) Get(id string) (*Box, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	box, ok := t.boxes[id]
	if !ok {
		return nil, ErrBoxNotFound
	}
	return box.clone(), nil
}

// Selected returns the currently selected box, or nil.
func (t *Tool) Selected() *Box {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, box := range t.boxes {
		if box.Selected {
			return box.clone()
		}
	}
	return nil
}

// List returns snapshots of all boxes ordered by page, then creation time.
func (t *Tool) List() []*Box {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*Box, 0, len(t.boxes))
	for _, box := range t.boxes {
		out = append(out, box.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PageNumber != out[j].PageNumber {
			return out[i].PageNumber < out[j].PageNumber
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// replace swaps the full box set. Used by store loading and imports.
func (t *Tool) replace(boxes []*Box) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.boxes = make(map[string]*Box, len(boxes))
	t.edits = make(map[string]Box)
	for _, box := range boxes {
		t.boxes[box.ID] = box.clone()
	}
}

package annotation

import (
	"errors"
	"testing"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

func TestDrawSelectsNewBox(t *testing.T) {
	tool := NewTool()

	first, err := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.1}, extract.RoleTable)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !first.Selected {
		t.Error("drawn box should be selected")
	}
	if first.Source != SourceManual || first.Confidence != 1 {
		t.Errorf("manual box should be ground truth, got %+v", first)
	}

	second, err := tool.Draw(1, Rect{X: 0.5, Y: 0.5, Width: 0.1, Height: 0.1}, extract.RoleFigure)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	selected := tool.Selected()
	if selected == nil || selected.ID != second.ID {
		t.Error("drawing should move the selection to the new box")
	}
	got, _ := tool.Get(first.ID)
	if got.Selected {
		t.Error("previous box should be deselected")
	}
}

func TestDrawValidation(t *testing.T) {
	tool := NewTool()

	if _, err := tool.Draw(0, Rect{Width: 0.1, Height: 0.1}, extract.RoleText); err == nil {
		t.Error("page 0 should be rejected")
	}
	if _, err := tool.Draw(1, Rect{Width: 0.1, Height: 0.1}, extract.RegionRole("blob")); err == nil {
		t.Error("unknown role should be rejected")
	}
}

func TestDrawClampsRect(t *testing.T) {
	tool := NewTool()

	box, err := tool.Draw(1, Rect{X: 0.9, Y: -0.2, Width: 0.5, Height: 0.3}, extract.RoleText)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if !box.Rect.Valid() {
		t.Errorf("clamped rect should be valid, got %+v", box.Rect)
	}
	if box.Rect.X+box.Rect.Width > 1 || box.Rect.Y < 0 {
		t.Errorf("rect not clamped: %+v", box.Rect)
	}
}

func TestSelectDeselect(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleText)

	tool.Deselect()
	if tool.Selected() != nil {
		t.Error("deselect should clear the selection")
	}

	got, err := tool.Select(box.ID)
	if err != nil || !got.Selected {
		t.Errorf("Select = (%+v, %v)", got, err)
	}

	if _, err := tool.Select("nope"); !errors.Is(err, ErrBoxNotFound) {
		t.Errorf("unknown id = %v, want ErrBoxNotFound", err)
	}
}

func TestEditCommit(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}, extract.RoleTable)

	if err := tool.BeginEdit(box.ID); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if _, err := tool.Resize(box.ID, Rect{X: 0.3, Y: 0.3, Width: 0.1, Height: 0.1}); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}

	committed, err := tool.CommitEdit(box.ID)
	if err != nil {
		t.Fatalf("CommitEdit failed: %v", err)
	}
	if committed.Editing {
		t.Error("committed box should not be editing")
	}
	if committed.Rect.X != 0.3 {
		t.Errorf("commit should keep the resize, got %+v", committed.Rect)
	}
}

func TestEditCancelRestores(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}, extract.RoleTable)

	if err := tool.BeginEdit(box.ID); err != nil {
		t.Fatalf("BeginEdit failed: %v", err)
	}
	if _, err := tool.Move(box.ID, 0.4, 0.4); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	restored, err := tool.CancelEdit(box.ID)
	if err != nil {
		t.Fatalf("CancelEdit failed: %v", err)
	}
	if restored.Rect.X != 0.1 || restored.Rect.Y != 0.1 {
		t.Errorf("cancel should restore geometry, got %+v", restored.Rect)
	}
	if restored.Editing {
		t.Error("cancelled box should not be editing")
	}

	if _, err := tool.CommitEdit(box.ID); !errors.Is(err, ErrNotEditing) {
		t.Errorf("commit without edit = %v, want ErrNotEditing", err)
	}
}

func TestMoveClamps(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.8, Y: 0.8, Width: 0.2, Height: 0.2}, extract.RoleText)

	moved, err := tool.Move(box.ID, 0.5, 0.5)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if moved.Rect.X != 0.8 || moved.Rect.Y != 0.8 {
		t.Errorf("move off-page should clamp at the edge, got %+v", moved.Rect)
	}
}

func TestResizeEnforcesMinimum(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.2, Height: 0.2}, extract.RoleText)

	resized, err := tool.Resize(box.ID, Rect{X: 0.1, Y: 0.1, Width: 0, Height: -1})
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if resized.Rect.Width < minExtent || resized.Rect.Height < minExtent {
		t.Errorf("resize should enforce the minimum extent, got %+v", resized.Rect)
	}
}

func TestSetRoleAndLabel(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleText)

	updated, err := tool.SetRole(box.ID, extract.RoleGraph)
	if err != nil || updated.Role != extract.RoleGraph {
		t.Errorf("SetRole = (%+v, %v)", updated, err)
	}
	if _, err := tool.SetRole(box.ID, extract.RegionRole("blob")); err == nil {
		t.Error("unknown role should be rejected")
	}

	updated, err = tool.SetLabel(box.ID, "torque curve")
	if err != nil || updated.Label != "torque curve" {
		t.Errorf("SetLabel = (%+v, %v)", updated, err)
	}
}

func TestDeleteClearsSelection(t *testing.T) {
	tool := NewTool()
	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleText)

	if err := tool.Delete(box.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if tool.Selected() != nil {
		t.Error("deleting the selected box should clear the selection")
	}
	if err := tool.Delete(box.ID); !errors.Is(err, ErrBoxNotFound) {
		t.Errorf("double delete = %v, want ErrBoxNotFound", err)
	}
}

func TestAddDetectedFlipsOrigin(t *testing.T) {
	tool := NewTool()

	region := extract.LayoutRegion{
		ID:         "r1",
		PageNumber: 2,
		// 100pt tall box whose bottom edge sits 100pt above the page
		// bottom, on a 1000pt page: top-left normalized Y is 0.8.
		BoundingBox: extract.Rectangle{X: 50, Y: 100, Width: 100, Height: 100},
		Role:        extract.RoleTable,
		Confidence:  0.7,
	}

	box, err := tool.AddDetected(region, 500, 1000)
	if err != nil {
		t.Fatalf("AddDetected failed: %v", err)
	}
	if box.Source != SourceDetected {
		t.Errorf("source = %s, want %s", box.Source, SourceDetected)
	}
	if box.Rect.X != 0.1 || box.Rect.Y != 0.8 {
		t.Errorf("rect = %+v, want X=0.1 Y=0.8", box.Rect)
	}
	if box.Rect.Width != 0.2 || box.Rect.Height != 0.1 {
		t.Errorf("rect size = %+v, want W=0.2 H=0.1", box.Rect)
	}

	// Re-detection must not clobber the stored box.
	if _, err := tool.SetLabel(box.ID, "reviewed"); err != nil {
		t.Fatalf("SetLabel failed: %v", err)
	}
	again, err := tool.AddDetected(region, 500, 1000)
	if err != nil {
		t.Fatalf("AddDetected failed: %v", err)
	}
	if again.Label != "reviewed" {
		t.Error("re-detection should keep reviewer edits")
	}
}

func TestListOrder(t *testing.T) {
	tool := NewTool()
	b2, _ := tool.Draw(2, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleText)
	b1, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleText)

	boxes := tool.List()
	if len(boxes) != 2 {
		t.Fatalf("got %d boxes, want 2", len(boxes))
	}
	if boxes[0].ID != b1.ID || boxes[1].ID != b2.ID {
		t.Error("list should order by page number")
	}
}

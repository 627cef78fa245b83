package annotation

import (
	"os"
	"strings"
	"testing"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	doc := "/docs/motor.pdf"
	tool, err := store.Tool(doc)
	if err != nil {
		t.Fatalf("Tool failed: %v", err)
	}

	box, _ := tool.Draw(1, Rect{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.1}, extract.RoleTable)
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh store must load the persisted boxes.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	tool2, err := reopened.Tool(doc)
	if err != nil {
		t.Fatalf("Tool reload failed: %v", err)
	}

	boxes := tool2.List()
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes after reload, want 1", len(boxes))
	}
	if boxes[0].ID != box.ID || boxes[0].Role != extract.RoleTable {
		t.Errorf("reloaded box differs: %+v", boxes[0])
	}
}

func TestStoreDistinctPathsSameBase(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	a := store.fileFor("/one/report.pdf")
	b := store.fileFor("/two/report.pdf")
	if a == b {
		t.Error("distinct documents should not share a sidecar file")
	}
	if !strings.Contains(a, "report") {
		t.Errorf("sidecar name should keep a readable base, got %s", a)
	}
}

func TestImportValidates(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	good := `{
		"document": "/docs/a.pdf",
		"boxes": [{
			"id": "b1", "page_number": 1,
			"rect": {"x": 0.1, "y": 0.1, "width": 0.2, "height": 0.2},
			"role": "table", "confidence": 0.9, "source": "detected"
		}]
	}`
	if err := store.Import("/docs/a.pdf", []byte(good)); err != nil {
		t.Fatalf("valid import failed: %v", err)
	}

	tool, _ := store.Tool("/docs/a.pdf")
	if len(tool.List()) != 1 {
		t.Error("import should replace the box set")
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{nope"},
		{"missing boxes", `{"document": "/docs/a.pdf"}`},
		{"bad role", `{"document":"d","boxes":[{"id":"b","page_number":1,
			"rect":{"x":0,"y":0,"width":0.1,"height":0.1},"role":"banner","source":"manual"}]}`},
		{"out of range", `{"document":"d","boxes":[{"id":"b","page_number":1,
			"rect":{"x":0.95,"y":0,"width":0.2,"height":0.1},"role":"text","source":"manual"}]}`},
		{"zero width", `{"document":"d","boxes":[{"id":"b","page_number":1,
			"rect":{"x":0,"y":0,"width":0,"height":0.1},"role":"text","source":"manual"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Import("/docs/a.pdf", []byte(tt.raw)); err == nil {
				t.Error("invalid annotation JSON should be rejected")
			}
		})
	}
}

func TestExport(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	tool, _ := store.Tool("/docs/b.pdf")
	tool.Draw(1, Rect{X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1}, extract.RoleFigure)

	raw, err := store.Export("/docs/b.pdf")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Exported JSON must round-trip through its own validation.
	doc, err := ValidateDocument(raw)
	if err != nil {
		t.Fatalf("exported JSON should validate: %v", err)
	}
	if doc.Document != "/docs/b.pdf" || len(doc.Boxes) != 1 {
		t.Errorf("unexpected export: %+v", doc)
	}
}

func TestSaveUnloadedDocument(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Save("/never/loaded.pdf"); err == nil {
		t.Error("saving an unloaded document should fail")
	}
}

func TestStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	path := store.fileFor("/docs/corrupt.pdf")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Tool("/docs/corrupt.pdf"); err == nil {
		t.Error("corrupt sidecar file should fail to load")
	}
}

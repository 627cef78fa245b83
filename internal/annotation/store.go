package annotation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists annotation sets as JSON sidecar files under a directory.
// One file per document, keyed by the document path.
type Store struct {
	dir string
	mu  sync.Mutex

	tools map[string]*Tool
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create annotation directory: %w", err)
	}
	return &Store{dir: dir, tools: make(map[string]*Tool)}, nil
}

// Tool returns the annotation tool for a document, loading its persisted
// state on first access.
func (s *Store) Tool(docPath string) (*Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tool, ok := s.tools[docPath]; ok {
		return tool, nil
	}

	tool := NewTool()
	raw, err := os.ReadFile(s.fileFor(docPath))
	switch {
	case os.IsNotExist(err):
		// first annotation session for this document
	case err != nil:
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	default:
		doc, err := ValidateDocument(raw)
		if err != nil {
			return nil, err
		}
		tool.replace(doc.Boxes)
	}

	s.tools[docPath] = tool
	return tool, nil
}

// Save writes a document's current annotation set to disk. The write goes
// through a temp file and rename so a crash cannot leave a torn file.
func (s *Store) Save(docPath string) error {
	s.mu.Lock()
	tool, ok := s.tools[docPath]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no annotations loaded for %s", docPath)
	}

	doc := Document{Document: docPath, Boxes: tool.List()}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode annotations: %w", err)
	}

	target := s.fileFor(docPath)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write annotations: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace annotations: %w", err)
	}
	return nil
}

// Import replaces a document's annotations from raw JSON, validating it
// first, and persists the result.
func (s *Store) Import(docPath string, raw []byte) error {
	doc, err := ValidateDocument(raw)
	if err != nil {
		return err
	}

	tool, err := s.Tool(docPath)
	if err != nil {
		return err
	}
	tool.replace(doc.Boxes)
	return s.Save(docPath)
}

// Export returns a document's annotations as JSON.
func (s *Store) Export(docPath string) ([]byte, error) {
	tool, err := s.Tool(docPath)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(Document{Document: docPath, Boxes: tool.List()}, "", "  ")
}

// fileFor maps a document path to its sidecar file. The name keeps a
// readable base plus a hash so distinct paths with the same base do not
// collide.
func (s *Store) fileFor(docPath string) string {
	sum := sha256.Sum256([]byte(docPath))
	base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	name := fmt.Sprintf("%s-%s.json", sanitize(base), hex.EncodeToString(sum[:8]))
	return filepath.Join(s.dir, name)
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

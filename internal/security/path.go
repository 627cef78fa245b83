package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sandbox confines file arguments to a configured root directory. Every path
// coming in over the tool surface is resolved against it before any file is
// opened.
type Sandbox struct {
	root string
}

// NewSandbox creates a sandbox rooted at the given directory. The directory
// does not need to exist yet.
func NewSandbox(root string) (*Sandbox, error) {
	if root == "" {
		return nil, fmt.Errorf("sandbox root cannot be empty")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sandbox root: %w", err)
	}

	return &Sandbox{root: abs}, nil
}

// Root returns the absolute sandbox root.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve turns a path into an absolute path inside the sandbox. Relative
// paths are joined onto the root. Symlinks are evaluated so a link pointing
// outside the root is rejected.
func (s *Sandbox) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	// Strip null bytes before any filesystem call.
	path = strings.ReplaceAll(path, "\x00", "")

	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	if err := s.check(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// Check verifies a path is inside the sandbox without normalizing it.
func (s *Sandbox) Check(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	return s.check(filepath.Clean(abs))
}

func (s *Sandbox) check(abs string) error {
	root := s.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	// Evaluate symlinks on the target when it exists; a dangling path is
	// checked as-is so callers get a not-found error later instead.
	target := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		target = resolved
	}

	for _, candidate := range []string{abs, target} {
		if !within(candidate, root) && !within(candidate, s.root) {
			return fmt.Errorf("path is outside the configured directory: %s", abs)
		}
	}
	return nil
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}

// CheckDir verifies a directory path is inside the sandbox and, when it
// exists, actually is a directory.
func (s *Sandbox) CheckDir(dir string) error {
	if err := s.Check(dir); err != nil {
		return err
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // may be created later
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dir)
	}
	return nil
}

package hrx

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Materialized binds an archive subtree to a directory on disk.
//
// The directory is created by Materialize and owned exclusively by the
// handle until Cleanup removes it.
type Materialized struct {
	// Root is the directory holding the subtree's contents.
	Root string

	// Entry is the subtree that was written.
	Entry *Entry

	mu      sync.Mutex
	cleaned bool
}

// Materialize writes entry to a fresh temporary directory under parentDir
// (os.TempDir() when empty).
//
// A directory entry's children are written directly into Root; a file entry
// is written as Root/<name>. File content is preserved byte for byte.
func Materialize(entry *Entry, parentDir string) (*Materialized, error) {
	root, err := os.MkdirTemp(parentDir, "sass-spec-")
	if err != nil {
		return nil, fmt.Errorf("failed to create materialization directory: %w", err)
	}

	m := &Materialized{Root: root, Entry: entry}
	if entry.kind == KindDir {
		err = WriteTo(entry, root)
	} else {
		err = writeFile(filepath.Join(root, entry.name), entry.content)
	}
	if err != nil {
		if cleanupErr := m.Cleanup(); cleanupErr != nil {
			return nil, fmt.Errorf("%w (cleanup also failed: %v)", err, cleanupErr)
		}
		return nil, err
	}
	return m, nil
}

// Dir returns the on-disk directory for an archive path relative to the
// materialized subtree.
func (m *Materialized) Dir(rel string) string {
	if rel == "" {
		return m.Root
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// Cleanup recursively removes the materialized directory.
// Calling it again after a successful cleanup is a no-op.
func (m *Materialized) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cleaned {
		return nil
	}
	if err := os.RemoveAll(m.Root); err != nil {
		return fmt.Errorf("failed to remove %s: %w", m.Root, err)
	}
	m.cleaned = true
	return nil
}

// WriteTo writes the children of a directory entry into dir, creating dir if
// needed. Unlike Materialize, the caller owns dir.
func WriteTo(entry *Entry, dir string) error {
	if entry.kind != KindDir {
		return writeFile(filepath.Join(dir, entry.name), entry.content)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, c := range entry.children {
		target := filepath.Join(dir, c.name)
		if c.kind == KindDir {
			if err := WriteTo(c, target); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(target, c.content); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

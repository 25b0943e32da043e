package hrx

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind distinguishes files from directories.
type Kind int

const (
	// KindFile is a file entry carrying byte content.
	KindFile Kind = iota

	// KindDir is a directory entry carrying ordered children.
	KindDir
)

// String returns "file" or "dir".
func (k Kind) String() string {
	if k == KindDir {
		return "dir"
	}
	return "file"
}

// Entry is a node of a decoded archive.
//
// Entries are created by Decode and never modified afterwards. Accessors
// return copies so callers cannot mutate the tree.
type Entry struct {
	name     string
	path     string
	kind     Kind
	content  []byte
	children []*Entry
	index    map[string]*Entry
	parent   *Entry
}

// Name returns the last path segment. The archive root has an empty name.
func (e *Entry) Name() string { return e.name }

// Path returns the slash-separated path relative to the archive root.
func (e *Entry) Path() string { return e.path }

// Parent returns the directory containing e, or nil for the archive root.
func (e *Entry) Parent() *Entry { return e.parent }

// Kind returns the entry kind.
func (e *Entry) Kind() Kind { return e.kind }

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool { return e.kind == KindDir }

// Content returns a copy of a file's bytes. Directories return nil.
func (e *Entry) Content() []byte {
	if e.kind == KindDir {
		return nil
	}
	return slices.Clone(e.content)
}

// Children returns the directory's children in archive order.
func (e *Entry) Children() []*Entry {
	return slices.Clone(e.children)
}

// Child returns the direct child with the given name.
func (e *Entry) Child(name string) (*Entry, bool) {
	if e.kind != KindDir {
		return nil, false
	}
	c, ok := e.index[name]
	return c, ok
}

// File returns the content of the direct child file with the given name.
func (e *Entry) File(name string) ([]byte, bool) {
	c, ok := e.Child(name)
	if !ok || c.kind != KindFile {
		return nil, false
	}
	return c.Content(), true
}

// SkipDir is returned by a WalkFunc to skip the children of a directory.
var SkipDir = errors.New("skip this directory")

// WalkFunc is called for every entry visited by Walk.
type WalkFunc func(e *Entry) error

// Walk visits entry and its descendants depth-first in archive order.
func Walk(entry *Entry, fn WalkFunc) error {
	err := walk(entry, fn)
	if errors.Is(err, SkipDir) {
		return nil
	}
	return err
}

func walk(e *Entry, fn WalkFunc) error {
	if err := fn(e); err != nil {
		return err
	}
	for _, c := range e.children {
		err := walk(c, fn)
		if errors.Is(err, SkipDir) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Navigate resolves a slash-separated path relative to root.
//
// Empty segments and "." are ignored. An empty path returns root. Returns a
// PathNotFound error if any segment is absent, traverses through a file, or
// is "..".
func Navigate(root *Entry, subpath string) (*Entry, error) {
	cur := root
	for _, seg := range strings.Split(subpath, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if seg == ".." {
			return nil, notFound(subpath, "path escapes the archive root")
		}
		if cur.kind != KindDir {
			return nil, notFound(subpath, "%q is a file", cur.path)
		}
		next, ok := cur.index[seg]
		if !ok {
			return nil, notFound(subpath, "no entry %q in %s", seg, describeDir(cur))
		}
		cur = next
	}
	return cur, nil
}

func describeDir(e *Entry) string {
	if e.path == "" {
		return "archive root"
	}
	return fmt.Sprintf("directory %q", e.path)
}

func newDir(name, path string) *Entry {
	return &Entry{
		name:  name,
		path:  path,
		kind:  KindDir,
		index: make(map[string]*Entry),
	}
}

func (e *Entry) addChild(c *Entry) {
	c.parent = e
	e.children = append(e.children, c)
	e.index[c.name] = c
}

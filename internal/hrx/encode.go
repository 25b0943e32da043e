package hrx

import (
	"bytes"
	"strings"
)

// Encode serializes a tree back into an archive.
//
// The boundary is the shortest "<===>" form (at least three "=") that does not
// occur in any file body. Directories are written explicitly only when empty;
// all others are implied by their descendants. Decode(Encode(root)) reproduces
// every file's content byte for byte.
func Encode(root *Entry) []byte {
	var entries []*Entry
	_ = Walk(root, func(e *Entry) error {
		if e == root {
			return nil
		}
		if e.kind == KindFile || len(e.children) == 0 {
			entries = append(entries, e)
		}
		return nil
	})

	boundary := chooseBoundary(entries)

	var buf bytes.Buffer
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(boundary)
		buf.WriteByte(' ')
		buf.WriteString(relativePath(root, e))
		if e.kind == KindDir {
			buf.WriteByte('/')
			continue
		}
		buf.WriteByte('\n')
		buf.Write(e.content)
	}
	return buf.Bytes()
}

func chooseBoundary(entries []*Entry) string {
	for n := 3; ; n++ {
		boundary := "<" + strings.Repeat("=", n) + ">"
		clash := false
		for _, e := range entries {
			if e.kind == KindFile && bytes.Contains(e.content, []byte(boundary)) {
				clash = true
				break
			}
		}
		if !clash {
			return boundary
		}
	}
}

// relativePath returns e's path relative to root, so that encoding a subtree
// produces an archive rooted at that subtree.
func relativePath(root, e *Entry) string {
	if root.path == "" {
		return e.path
	}
	return strings.TrimPrefix(e.path, root.path+"/")
}

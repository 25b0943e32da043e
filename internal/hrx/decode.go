package hrx

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// boundaryPattern matches the boundary that must open every archive.
var boundaryPattern = regexp.MustCompile(`^<=+>`)

// Load reads and decodes the archive at path.
func Load(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	root, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return root, nil
}

// Decode parses an archive into a tree rooted at an unnamed directory.
//
// An empty input decodes to an empty root. Any structural violation returns
// a MalformedArchive error carrying the line of the offending header.
func Decode(data []byte) (*Entry, error) {
	root := newDir("", "")
	if len(data) == 0 {
		return root, nil
	}

	boundary := boundaryPattern.Find(data)
	if boundary == nil {
		return nil, malformed(1, "", "archive must begin with a boundary like <===>")
	}

	starts := boundaryStarts(data, boundary)
	b := &builder{root: root, explicit: make(map[string]bool)}
	commentLine := 0

	for i, start := range starts {
		line := bytes.Count(data[:start], []byte{'\n'}) + 1

		headerEnd := len(data)
		if nl := bytes.IndexByte(data[start:], '\n'); nl >= 0 {
			headerEnd = start + nl
		}
		header := string(data[start+len(boundary) : headerEnd])

		bodyStart := min(headerEnd+1, len(data))
		bodyEnd := len(data)
		if i+1 < len(starts) {
			// The newline before the next boundary belongs to the separator.
			bodyEnd = max(starts[i+1]-1, bodyStart)
		}
		body := data[bodyStart:bodyEnd]

		if header == "" {
			if commentLine > 0 {
				return nil, malformed(line, "", "comment must be followed by a file or directory")
			}
			commentLine = line
			continue
		}
		commentLine = 0

		if header[0] != ' ' {
			return nil, malformed(line, "", "boundary must be followed by a space and a path")
		}
		path := header[1:]

		if dirPath, ok := strings.CutSuffix(path, "/"); ok {
			if len(body) > 0 {
				return nil, malformed(line, path, "directory entry must not have contents")
			}
			if err := b.addDir(line, dirPath); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.addFile(line, path, body); err != nil {
			return nil, err
		}
	}

	if commentLine > 0 {
		return nil, malformed(commentLine, "", "comment must be followed by a file or directory")
	}
	return root, nil
}

// boundaryStarts returns the offsets of every line that begins with boundary.
func boundaryStarts(data, boundary []byte) []int {
	var starts []int
	for pos := 0; pos < len(data); {
		if bytes.HasPrefix(data[pos:], boundary) {
			starts = append(starts, pos)
		}
		nl := bytes.IndexByte(data[pos:], '\n')
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return starts
}

// builder inserts decoded entries into the tree.
type builder struct {
	root     *Entry
	explicit map[string]bool
}

func (b *builder) addDir(line int, path string) error {
	segs, err := splitPath(line, path)
	if err != nil {
		return err
	}
	if b.explicit[path] {
		return malformed(line, path, "duplicate directory")
	}
	if _, err := b.ensureDir(line, path, segs); err != nil {
		return err
	}
	b.explicit[path] = true
	return nil
}

func (b *builder) addFile(line int, path string, body []byte) error {
	segs, err := splitPath(line, path)
	if err != nil {
		return err
	}
	parent, err := b.ensureDir(line, path, segs[:len(segs)-1])
	if err != nil {
		return err
	}
	name := segs[len(segs)-1]
	if existing, ok := parent.index[name]; ok {
		if existing.kind == KindDir {
			return malformed(line, path, "file conflicts with a directory of the same path")
		}
		return malformed(line, path, "duplicate file")
	}
	parent.addChild(&Entry{
		name:    name,
		path:    path,
		kind:    KindFile,
		content: bytes.Clone(body),
	})
	return nil
}

// ensureDir walks segs from the root, creating implied directories.
func (b *builder) ensureDir(line int, path string, segs []string) (*Entry, error) {
	cur := b.root
	for i, seg := range segs {
		next, ok := cur.index[seg]
		if !ok {
			next = newDir(seg, strings.Join(segs[:i+1], "/"))
			cur.addChild(next)
		} else if next.kind != KindDir {
			return nil, malformed(line, path, "%q is a file, not a directory", next.path)
		}
		cur = next
	}
	return cur, nil
}

// splitPath validates an archive path and returns its segments.
func splitPath(line int, path string) ([]string, error) {
	if path == "" {
		return nil, malformed(line, path, "empty path")
	}
	if strings.HasPrefix(path, "/") {
		return nil, malformed(line, path, "path must be relative")
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f || r == '\\' || r == ':' {
			return nil, malformed(line, path, "path contains invalid character %q", r)
		}
	}
	segs := strings.Split(path, "/")
	for _, seg := range segs {
		switch seg {
		case "":
			return nil, malformed(line, path, "path contains an empty segment")
		case ".", "..":
			return nil, malformed(line, path, "path contains a %q segment", seg)
		}
	}
	return segs, nil
}

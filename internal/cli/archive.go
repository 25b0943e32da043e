package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pjeweb/sass-spec/internal/hrx"
)

// archiveTarget is a command-line path resolved to an archive subtree.
type archiveTarget struct {
	// Archive is the archive file as given on the command line.
	Archive string

	Entry *hrx.Entry

	// abs identifies the archive file however it was spelled.
	abs string
}

// casePath prefixes an archive-relative case path with the archive file.
func (t archiveTarget) casePath(rel string) string {
	archive := filepath.ToSlash(t.Archive)
	if rel == "" {
		return archive
	}
	return archive + "/" + rel
}

// openTarget resolves p (an archive file, optionally followed by a subpath)
// through cache.
func openTarget(cache *hrx.Cache, p string) (archiveTarget, error) {
	archive, sub, ok := hrx.SplitPath(p)
	if !ok {
		return archiveTarget{}, fmt.Errorf("%s: not an %s archive path", p, hrx.Extension)
	}
	root, err := cache.Load(archive)
	if err != nil {
		return archiveTarget{}, err
	}
	entry, err := hrx.Navigate(root, sub)
	if err != nil {
		return archiveTarget{}, fmt.Errorf("%s: %w", archive, err)
	}
	abs, err := filepath.Abs(archive)
	if err != nil {
		abs = filepath.Clean(archive)
	}
	return archiveTarget{Archive: archive, Entry: entry, abs: abs}, nil
}

// covers reports whether other's cases all lie beneath t.
func (t archiveTarget) covers(other archiveTarget) bool {
	if t.abs != other.abs {
		return false
	}
	p, q := t.Entry.Path(), other.Entry.Path()
	return p == "" || p == q || strings.HasPrefix(q, p+"/")
}

// checkOverlap rejects targets that would run the same case twice.
func checkOverlap(targets []archiveTarget) error {
	for i, a := range targets {
		for _, b := range targets[i+1:] {
			if a.covers(b) || b.covers(a) {
				return fmt.Errorf("%s and %s select overlapping cases",
					a.casePath(a.Entry.Path()), b.casePath(b.Entry.Path()))
			}
		}
	}
	return nil
}

package hrx

import (
	"path/filepath"
	"strings"
)

// Extension is the file extension of archives.
const Extension = ".hrx"

// SplitPath splits a path that may point inside an archive, such as
// "spec/colors.hrx/rgb/error", into the archive file ("spec/colors.hrx") and
// the archive-internal subpath ("rgb/error").
//
// ok is false when no segment ends in ".hrx".
func SplitPath(p string) (archive, sub string, ok bool) {
	segs := strings.Split(filepath.ToSlash(p), "/")
	for i, seg := range segs {
		if strings.HasSuffix(seg, Extension) && seg != Extension {
			archive = filepath.FromSlash(strings.Join(segs[:i+1], "/"))
			sub = strings.Trim(strings.Join(segs[i+1:], "/"), "/")
			return archive, sub, true
		}
	}
	return "", "", false
}

// Join appends the slash-separated path rel to base. Either may be empty.
func Join(base, rel string) string {
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	}
	return base + "/" + rel
}

package harness

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares process output for comparison.
//
// Text is converted to NFC with LF line endings, trailing whitespace is
// removed from every line, and trailing blank lines are dropped. Any of dirs
// appearing as a path prefix is stripped so absolute case paths compare
// equal to the relative paths in expectation files.
func Normalize(text string, dirs ...string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, dir := range dirs {
		for _, prefix := range dirPrefixes(dir) {
			text = strings.ReplaceAll(text, prefix, "")
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// dirPrefixes returns the spellings of dir as a path prefix, longest first.
func dirPrefixes(dir string) []string {
	slashed := filepath.ToSlash(filepath.Clean(dir))
	prefixes := []string{"file://" + slashed + "/", slashed + "/"}
	if native := filepath.Clean(dir) + string(filepath.Separator); native != slashed+"/" {
		prefixes = append(prefixes, native)
	}
	return prefixes
}

package spec

import (
	"strings"
)

// warningPrefixes start a new warning block at the beginning of a line.
var warningPrefixes = []string{"WARNING", "DEPRECATION WARNING"}

// SplitWarnings splits compiler diagnostic text into warning blocks.
//
// A block starts at a line beginning with "WARNING" or "DEPRECATION WARNING"
// and runs until the next such line. Line endings are normalized to "\n" and
// surrounding blank lines are trimmed from each block. Text that contains no
// warnings yields an empty, non-nil list.
func SplitWarnings(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	warnings := []string{}

	var current []string
	flush := func() {
		block := strings.Trim(strings.Join(current, "\n"), "\n")
		if strings.TrimSpace(block) != "" {
			warnings = append(warnings, block)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if startsWarning(line) {
			flush()
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	flush()

	return warnings
}

func startsWarning(line string) bool {
	for _, p := range warningPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

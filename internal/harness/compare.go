package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pjeweb/sass-spec/internal/spec"
)

// errorMarker starts the error part of compiler stderr.
const errorMarker = "Error: "

// compare runs the sub-checks of a completed invocation. dirs are the
// spellings of the case directory to strip from the output.
func compare(d *spec.Descriptor, out Captured, exitCode int, dirs []string) Check {
	stdout := Normalize(out.Stdout, dirs...)
	warningText, errorText := splitStderr(Normalize(out.Stderr, dirs...))
	expected := Normalize(d.Expected)

	var check Check
	switch d.Kind {
	case spec.KindOutput:
		switch {
		case exitCode != 0:
			check.Primary = fmt.Sprintf("exit code: expected 0, got %d\n%s", exitCode, errorText)
		case stdout != expected:
			check.Primary = "output mismatch:\n" + diff(expected, stdout)
		}
	case spec.KindError:
		switch {
		case exitCode == 0:
			check.Primary = "exit code: expected failure, got 0"
		case errorText == "":
			check.Primary = "error mismatch: no error reported"
		case errorText != expected:
			check.Primary = "error mismatch:\n" + diff(expected, errorText)
		}
	}

	if d.Warnings != nil {
		want := make([]string, len(d.Warnings))
		for i, w := range d.Warnings {
			want[i] = Normalize(w)
		}
		got := spec.SplitWarnings(warningText)
		if !slices.Equal(want, got) {
			check.Warnings = "warnings mismatch:\n" + diff(strings.Join(want, "\n\n"), strings.Join(got, "\n\n"))
		}
	}
	return check
}

// splitStderr separates warnings from the error that starts at the first
// line beginning with "Error: ".
func splitStderr(stderr string) (warnings, errorText string) {
	if strings.HasPrefix(stderr, errorMarker) {
		return "", stderr
	}
	if i := strings.Index(stderr, "\n"+errorMarker); i >= 0 {
		return stderr[:i], stderr[i+1:]
	}
	return stderr, ""
}

// diff renders a unified diff from expected to actual.
func diff(expected, actual string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("expected:\n%s\nactual:\n%s", expected, actual)
	}
	return text
}

// Package sass holds the domain types reported by a Sass compiler.
package sass

import (
	"regexp"
	"strconv"
	"strings"
)

// Location is a position in a source file. Line and Column are 0-based.
type Location struct {
	Line   int
	Column int
}

// Span is the source range an exception points at.
type Span struct {
	// URL identifies the source file. Empty for stdin or in-memory sources.
	URL string

	Start Location
}

// Exception is a compilation failure reported by the compiler.
type Exception struct {
	// Message is the full formatted error, including the source excerpt and
	// stack trace.
	Message string

	// SassMessage is the error message alone, without location information.
	SassMessage string

	// SassStack is the Sass stack trace, one frame per line.
	SassStack string

	// Span is the location of the error. Nil when the compiler reported none.
	Span *Span
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Error: " + e.SassMessage
}

// frameLine matches a stack frame such as "  input.scss 1:7  root stylesheet"
// or "  - 1:7  root stylesheet" for stdin.
var frameLine = regexp.MustCompile(`^\s+(\S+) (\d+):(\d+)\s+(.*)$`)

// ParseException extracts an exception from compiler stderr.
//
// The error starts at the first line beginning with "Error: " and runs to the
// end of the text; any preceding lines are ignored. ok is false when the text
// contains no error.
func ParseException(stderr string) (exc *Exception, ok bool) {
	text := strings.ReplaceAll(stderr, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "Error: ") {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	lines = lines[start:]

	exc = &Exception{
		Message: strings.TrimRight(strings.Join(lines, "\n"), "\n"),
	}

	// The message runs until the source excerpt or the first stack frame.
	msg := []string{strings.TrimPrefix(lines[0], "Error: ")}
	rest := lines[1:]
	for len(rest) > 0 && !isExcerptStart(rest[0]) && !frameLine.MatchString(rest[0]) && rest[0] != "" {
		msg = append(msg, rest[0])
		rest = rest[1:]
	}
	exc.SassMessage = strings.Join(msg, "\n")

	var frames []string
	for _, line := range rest {
		m := frameLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		frames = append(frames, strings.TrimSpace(line))
		if exc.Span != nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		span := &Span{Start: Location{Line: lineNo - 1, Column: col - 1}}
		if m[1] != "-" {
			span.URL = m[1]
		}
		exc.Span = span
	}
	exc.SassStack = strings.Join(frames, "\n")

	return exc, true
}

// isExcerptStart reports whether line opens a source excerpt, drawn with
// either Unicode or ASCII box characters.
func isExcerptStart(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "╷" || trimmed == ","
}

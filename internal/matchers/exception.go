package matchers

import (
	"context"
	"errors"
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/pjeweb/sass-spec/internal/sass"
)

// ExceptionOptions narrows what SassException accepts.
type ExceptionOptions struct {
	// URL, when non-empty, must equal the span URL exactly.
	URL string

	// NoURL requires the span to carry no URL.
	NoURL bool

	// Line, when non-nil, must equal the 0-based span start line.
	Line *int
}

// Line returns a pointer to line for ExceptionOptions.Line.
func Line(line int) *int {
	return &line
}

// SassException asserts that fn fails with a *sass.Exception matching opts.
//
// Checks run in order and the first mismatch is reported: the error type,
// the span URL, the span start line, and finally the presence of the
// structured message and stack.
func SassException(t assert.TestingT, fn func() error, opts ExceptionOptions, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	if problem := checkException(fn(), opts); problem != "" {
		return assert.Fail(t, problem, msgAndArgs...)
	}
	return true
}

// SassExceptionAsync is SassException for a callback that needs a context.
func SassExceptionAsync(t assert.TestingT, ctx context.Context, fn func(context.Context) error, opts ExceptionOptions, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return SassException(t, func() error { return fn(ctx) }, opts, msgAndArgs...)
}

// NotSassException asserts that fn does not fail with a *sass.Exception
// matching opts.
func NotSassException(t assert.TestingT, fn func() error, opts ExceptionOptions, msgAndArgs ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	err := fn()
	if checkException(err, opts) == "" {
		return assert.Fail(t, fmt.Sprintf("expected no matching Sass exception, got: %v", err), msgAndArgs...)
	}
	return true
}

// checkException returns a description of the first failed check, or "".
func checkException(err error, opts ExceptionOptions) string {
	if err == nil {
		return "expected a Sass exception, but the callback succeeded"
	}

	var exc *sass.Exception
	if !errors.As(err, &exc) {
		return fmt.Sprintf("expected a Sass exception, got %T: %v", err, err)
	}

	url := ""
	if exc.Span != nil {
		url = exc.Span.URL
	}
	switch {
	case opts.URL != "" && url != opts.URL:
		return fmt.Sprintf("span URL: expected %q, got %q", opts.URL, url)
	case opts.NoURL && url != "":
		return fmt.Sprintf("span URL: expected none, got %q", url)
	}

	if opts.Line != nil {
		if exc.Span == nil {
			return fmt.Sprintf("span line: expected %d, but the exception has no span", *opts.Line)
		}
		if exc.Span.Start.Line != *opts.Line {
			return fmt.Sprintf("span line: expected %d, got %d", *opts.Line, exc.Span.Start.Line)
		}
	}

	if exc.SassMessage == "" {
		return "sassMessage: expected a message, got none"
	}
	if exc.SassStack == "" {
		return "sassStack: expected a stack trace, got none"
	}
	return ""
}

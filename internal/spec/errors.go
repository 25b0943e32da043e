package spec

import (
	"errors"
	"fmt"
)

// ResolveError is returned when a case directory cannot be turned into a
// descriptor.
type ResolveError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Dir is the case directory.
	Dir string
}

// ErrorCode categorizes resolve errors.
type ErrorCode string

const (
	// ErrCodeAmbiguousExpectation indicates that both or neither of the
	// expected output and expected error files are present.
	ErrCodeAmbiguousExpectation ErrorCode = "AMBIGUOUS_EXPECTATION"

	// ErrCodeMissingInput indicates the case has no input stylesheet.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"

	// ErrCodeInvalidOptions indicates an options file could not be parsed.
	ErrCodeInvalidOptions ErrorCode = "INVALID_OPTIONS"
)

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Dir != "" {
		return fmt.Sprintf("%s: %s (dir=%s)", e.Code, e.Message, e.Dir)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAmbiguousExpectation reports whether err is an ambiguous expectation error.
func IsAmbiguousExpectation(err error) bool {
	return hasCode(err, ErrCodeAmbiguousExpectation)
}

// IsMissingInput reports whether err is a missing input error.
func IsMissingInput(err error) bool {
	return hasCode(err, ErrCodeMissingInput)
}

// IsInvalidOptions reports whether err is an invalid options error.
func IsInvalidOptions(err error) bool {
	return hasCode(err, ErrCodeInvalidOptions)
}

func hasCode(err error, code ErrorCode) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

package hrx

import (
	"errors"
	"fmt"
)

// ArchiveError is returned when an archive cannot be decoded or a requested
// path does not exist in it.
type ArchiveError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the archive-relative path involved, if any.
	Path string

	// Line is the 1-based archive line of the offending entry header.
	// Zero when not applicable.
	Line int
}

// ErrorCode categorizes archive errors.
type ErrorCode string

const (
	// ErrCodeMalformedArchive indicates the archive violates a structural
	// invariant (bad boundary, invalid or duplicate path, dangling comment).
	ErrCodeMalformedArchive ErrorCode = "MALFORMED_ARCHIVE"

	// ErrCodePathNotFound indicates a navigated path has no entry.
	ErrCodePathNotFound ErrorCode = "PATH_NOT_FOUND"
)

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	switch {
	case e.Line > 0 && e.Path != "":
		return fmt.Sprintf("%s: line %d: %s (path=%s)", e.Code, e.Line, e.Message, e.Path)
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d: %s", e.Code, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformed reports whether err is a malformed archive error.
// Uses errors.As to handle wrapped errors.
func IsMalformed(err error) bool {
	var ae *ArchiveError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodeMalformedArchive
	}
	return false
}

// IsPathNotFound reports whether err is a missing path error.
func IsPathNotFound(err error) bool {
	var ae *ArchiveError
	if errors.As(err, &ae) {
		return ae.Code == ErrCodePathNotFound
	}
	return false
}

func malformed(line int, path, format string, args ...any) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodeMalformedArchive,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Line:    line,
	}
}

func notFound(path, format string, args ...any) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCodePathNotFound,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	}
}

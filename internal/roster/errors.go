package roster

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a parse failure.
type ErrorCode string

const (
	CodeMissingHeader  ErrorCode = "MISSING_SECTION_HEADER"
	CodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"
)

// Sentinel errors matched by ParseError.Is.
var (
	ErrMissingHeader  = errors.New("section header not found")
	ErrLengthMismatch = errors.New("name and status counts differ")
)

// ParseError describes why a sheet's text could not be turned into a Record.
type ParseError struct {
	Code ErrorCode

	// Marker is the missing header for CodeMissingHeader.
	Marker string

	// Line counts for CodeLengthMismatch.
	Names    int
	Session1 int
	Session2 int
}

func (e *ParseError) Error() string {
	switch e.Code {
	case CodeMissingHeader:
		return fmt.Sprintf("%s: %q not found", e.Code, e.Marker)
	case CodeLengthMismatch:
		return fmt.Sprintf("%s: %d names, %d session 1 statuses, %d session 2 statuses",
			e.Code, e.Names, e.Session1, e.Session2)
	default:
		return string(e.Code)
	}
}

// Is lets errors.Is match a ParseError against ErrMissingHeader or
// ErrLengthMismatch.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMissingHeader:
		return e.Code == CodeMissingHeader
	case ErrLengthMismatch:
		return e.Code == CodeLengthMismatch
	}
	return false
}

func missingHeader(marker string) *ParseError {
	return &ParseError{Code: CodeMissingHeader, Marker: marker}
}

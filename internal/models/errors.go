package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrFormat ErrorType = iota
	ErrStructural
	ErrNotFound
	ErrFileOp
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrFormat:
		return "Format"
	case ErrStructural:
		return "Structural"
	case ErrNotFound:
		return "NotFound"
	case ErrFileOp:
		return "FileOp"
	default:
		return "Unknown"
	}
}

// Reasons reported inside a MetalinkError. Match them with errors.Is.
var (
	ErrNotMetalink         = errors.New("not a valid Metalink document")
	ErrInvalidVersion3     = errors.New("not a valid Metalink 3.0 document")
	ErrInvalidVersion4     = errors.New("not a valid Metalink 4.0 document")
	ErrUnknownVersion      = errors.New("can't determine Metalink version")
	ErrVerificationMissing = errors.New("verification missing")
	ErrNoPieces            = errors.New("no pieces")
	ErrNoResources         = errors.New("no resources")
	ErrNoFiles             = errors.New("no files")
	ErrInvalidExtension    = errors.New("metalink file must have an extension of either .meta4 or .metalink")
	ErrInvalidNumber       = errors.New("invalid number")
	ErrInvalidURI          = errors.New("invalid URI")
	ErrEmptyInput          = errors.New("metalink is not provided")
)

// MetalinkError represents an error while loading or parsing a Metalink document
type MetalinkError struct {
	Type    ErrorType
	Element string
	Err     error
}

// Error implements the error interface
func (e *MetalinkError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Element, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *MetalinkError) Unwrap() error {
	return e.Err
}

// NewFormatError wraps err as a Format error raised at element.
func NewFormatError(element string, err error) *MetalinkError {
	return &MetalinkError{Type: ErrFormat, Element: element, Err: err}
}

// NewStructuralError wraps err as a Structural error raised at element.
func NewStructuralError(element string, err error) *MetalinkError {
	return &MetalinkError{Type: ErrStructural, Element: element, Err: err}
}

// IsErrorType reports whether err carries a MetalinkError of category t.
func IsErrorType(err error, t ErrorType) bool {
	var mlErr *MetalinkError
	if errors.As(err, &mlErr) {
		return mlErr.Type == t
	}
	return false
}

package omr

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes scan failures.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindInsufficientCorners ErrorKind = "insufficient_corners"
	KindAlignmentFailure    ErrorKind = "alignment_failure"
	KindCodeNotFound        ErrorKind = "code_not_found"
	KindMalformedMetadata   ErrorKind = "malformed_metadata"
	KindGeometryError       ErrorKind = "geometry_error"
)

// Error is a scan failure tagged with its kind and the stage that raised it.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Stage   string    `json:"stage"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error with the same Kind, so errors.Is(err,
// &Error{Kind: KindCodeNotFound}) works regardless of stage or message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind ErrorKind, stage, message string, cause error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Cause: cause}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(stage, message string) *Error {
	return newError(KindNotFound, stage, message, nil)
}

// NewInsufficientCornersError creates a new insufficient corners error
func NewInsufficientCornersError(stage, message string) *Error {
	return newError(KindInsufficientCorners, stage, message, nil)
}

// NewAlignmentError creates a new alignment failure
func NewAlignmentError(stage, message string, cause error) *Error {
	return newError(KindAlignmentFailure, stage, message, cause)
}

// NewCodeNotFoundError creates a new code not found error
func NewCodeNotFoundError(stage, message string, cause error) *Error {
	return newError(KindCodeNotFound, stage, message, cause)
}

// NewMalformedMetadataError creates a new malformed metadata error
func NewMalformedMetadataError(stage, message string, cause error) *Error {
	return newError(KindMalformedMetadata, stage, message, cause)
}

// NewGeometryError creates a new geometry error
func NewGeometryError(stage, message string) *Error {
	return newError(KindGeometryError, stage, message, nil)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind checks if the error is of a specific kind
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

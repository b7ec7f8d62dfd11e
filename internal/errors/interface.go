package errors

import "errors"

// Standard library helpers, re-exported so callers need a single import.
var (
	Is = errors.Is
	As = errors.As
)

// ErrorCode is a stable, machine-readable identifier. It is what tests
// and log consumers match on; messages may change.
type ErrorCode string

// Error is a coded error. The With* methods return copies.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	// GetData returns the value attached with WithData, if any.
	GetData() any
	Unwrap() error
}

// Factory builds coded errors.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}

// Package lingonberry implements a compact, tag-prefixed binary serialization format.
package lingonberry

import (
	"errors"
	"fmt"

	"github.com/blockberries/lingonberry/internal/wire"
)

// Sentinel errors for common conditions.
// These can be checked using errors.Is().
var (
	// ErrUnexpectedEnd indicates the data was truncated unexpectedly.
	ErrUnexpectedEnd = errors.New("lingonberry: unexpected end of data")

	// ErrTrailingBytes indicates bytes remain after the root value was decoded.
	ErrTrailingBytes = errors.New("lingonberry: trailing bytes after value")

	// ErrExpectedBoolean indicates the value on the wire is not a boolean.
	ErrExpectedBoolean = errors.New("lingonberry: expected boolean")

	// ErrExpectedUInteger indicates the value on the wire is not an unsigned integer.
	ErrExpectedUInteger = errors.New("lingonberry: expected unsigned integer")

	// ErrExpectedInteger indicates the value on the wire is not an integer.
	ErrExpectedInteger = errors.New("lingonberry: expected integer")

	// ErrExpectedFloat indicates the value on the wire is not a float.
	ErrExpectedFloat = errors.New("lingonberry: expected float")

	// ErrExpectedString indicates the value on the wire is not a string.
	ErrExpectedString = errors.New("lingonberry: expected string")

	// ErrExpectedChar indicates the string is not a single character.
	ErrExpectedChar = errors.New("lingonberry: expected char")

	// ErrExpectedBytes indicates the value on the wire is not a byte blob.
	ErrExpectedBytes = errors.New("lingonberry: expected bytes")

	// ErrExpectedNil indicates the value on the wire is not nil.
	ErrExpectedNil = errors.New("lingonberry: expected nil")

	// ErrExpectedArray indicates the value on the wire is not an array.
	ErrExpectedArray = errors.New("lingonberry: expected array")

	// ErrExpectedMap indicates the value on the wire is not a map.
	ErrExpectedMap = errors.New("lingonberry: expected map")

	// ErrExpectedExt indicates the extension envelope is missing or carries
	// the wrong extension type.
	ErrExpectedExt = errors.New("lingonberry: expected extension")

	// ErrExpectedEnum indicates the value on the wire cannot select an enum variant.
	ErrExpectedEnum = errors.New("lingonberry: expected enum")

	// ErrIntegerOverflow indicates a decoded integer does not fit the target width.
	ErrIntegerOverflow = errors.New("lingonberry: integer overflow")

	// ErrInvalidUTF8 indicates a string contains invalid UTF-8.
	ErrInvalidUTF8 = errors.New("lingonberry: invalid UTF-8 string")

	// ErrReservedFormat indicates the reserved tag byte 0xc1 was encountered.
	ErrReservedFormat = errors.New("lingonberry: reserved format byte")

	// ErrNotPointer indicates the target for unmarshaling is not a pointer.
	ErrNotPointer = errors.New("lingonberry: target must be a pointer")

	// ErrNilPointer indicates the target pointer is nil.
	ErrNilPointer = errors.New("lingonberry: nil pointer")

	// ErrUnknownField indicates an unknown struct field was encountered in strict mode.
	ErrUnknownField = errors.New("lingonberry: unknown field")

	// ErrMaxDepthExceeded indicates the maximum nesting depth was exceeded.
	ErrMaxDepthExceeded = errors.New("lingonberry: maximum nesting depth exceeded")

	// ErrMaxStringLength indicates the maximum string length was exceeded.
	ErrMaxStringLength = errors.New("lingonberry: maximum string length exceeded")

	// ErrMaxBytesLength indicates the maximum bytes length was exceeded.
	ErrMaxBytesLength = errors.New("lingonberry: maximum bytes length exceeded")

	// ErrMaxArrayLength indicates the maximum array length was exceeded.
	ErrMaxArrayLength = errors.New("lingonberry: maximum array length exceeded")

	// ErrMaxMapSize indicates the maximum map size was exceeded.
	ErrMaxMapSize = errors.New("lingonberry: maximum map size exceeded")
)

// DecodeError provides detailed context for decoding failures.
// It implements the error interface and supports error unwrapping.
type DecodeError struct {
	// Offset is the byte offset in the input where the error occurred.
	Offset int

	// Message describes what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a formatted error message.
func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("lingonberry: decode at offset %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("lingonberry: decode: %s", e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target.
// This supports errors.Is() for checking the cause.
func (e *DecodeError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// NewDecodeError creates a new DecodeError without offset information.
func NewDecodeError(message string, cause error) *DecodeError {
	return &DecodeError{
		Offset:  -1,
		Message: message,
		Cause:   cause,
	}
}

// NewDecodeErrorAt creates a new DecodeError with offset information.
func NewDecodeErrorAt(offset int, message string, cause error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: message,
		Cause:   cause,
	}
}

// newTypeError builds the shape-mismatch error for a value whose leading tag
// does not belong to the expected kind.
func newTypeError(offset int, want string, found wire.Format, cause error) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: fmt.Sprintf("value must be of type '%s'; found '%s'", want, found),
		Cause:   cause,
	}
}

// newOverflowError builds the range error for an integer that does not fit
// the requested bit width.
func newOverflowError(offset int, value int64, bits int) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: fmt.Sprintf("integer overflow: value = %d; bits = %d", value, bits),
		Cause:   ErrIntegerOverflow,
	}
}

// newUnsignedOverflowError is newOverflowError for values past MaxInt64.
func newUnsignedOverflowError(offset int, value uint64, bits int) *DecodeError {
	return &DecodeError{
		Offset:  offset,
		Message: fmt.Sprintf("integer overflow: value = %d; bits = %d", value, bits),
		Cause:   ErrIntegerOverflow,
	}
}

// EncodeError provides detailed context for encoding failures.
type EncodeError struct {
	// Type is the name of the Go type being encoded, if known.
	Type string

	// Message describes what went wrong.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a formatted error message.
func (e *EncodeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("lingonberry: encode %s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("lingonberry: encode: %s", e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target.
func (e *EncodeError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// NewEncodeError creates a new EncodeError.
func NewEncodeError(message string, cause error) *EncodeError {
	return &EncodeError{
		Message: message,
		Cause:   cause,
	}
}

// IsLimitExceeded returns true if the error indicates a configured limit was exceeded.
func IsLimitExceeded(err error) bool {
	switch {
	case errors.Is(err, ErrMaxDepthExceeded),
		errors.Is(err, ErrMaxStringLength),
		errors.Is(err, ErrMaxBytesLength),
		errors.Is(err, ErrMaxArrayLength),
		errors.Is(err, ErrMaxMapSize):
		return true
	default:
		return false
	}
}

// IsShapeMismatch returns true if the error indicates the wire value has a
// different kind than the caller expected.
func IsShapeMismatch(err error) bool {
	switch {
	case errors.Is(err, ErrExpectedBoolean),
		errors.Is(err, ErrExpectedUInteger),
		errors.Is(err, ErrExpectedInteger),
		errors.Is(err, ErrExpectedFloat),
		errors.Is(err, ErrExpectedString),
		errors.Is(err, ErrExpectedChar),
		errors.Is(err, ErrExpectedBytes),
		errors.Is(err, ErrExpectedNil),
		errors.Is(err, ErrExpectedArray),
		errors.Is(err, ErrExpectedMap),
		errors.Is(err, ErrExpectedExt),
		errors.Is(err, ErrExpectedEnum):
		return true
	default:
		return false
	}
}

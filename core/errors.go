package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRangeFormat is returned when the input is not a scalar and does
	// not split into exactly two non-empty parts around "-".
	ErrInvalidRangeFormat = errors.New("invalid range format")

	// ErrInvalidRangeStart is returned when the part before "-" is not a scalar.
	ErrInvalidRangeStart = errors.New("invalid range start value")

	// ErrInvalidRangeEnd is returned when the part after "-" is not a scalar.
	ErrInvalidRangeEnd = errors.New("invalid range end value")

	// ErrInvalidRangeOrder is returned when start >= end. A single point must
	// be written as a value.
	ErrInvalidRangeOrder = errors.New("invalid range: start value must be less than end value")

	// ErrEmptyListItem is returned by ParseList for blank entries ("1,,3").
	ErrEmptyListItem = errors.New("empty list item")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParseError reports which input failed and why. Err is always one of the
// sentinels above; Cause holds the scalar parser's error when there is one.
type ParseError struct {
	Input string
	Err   error
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %q: %v", e.Err, e.Input, e.Cause)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ListError locates a failing item inside a list.
type ListError struct {
	Index int
	Err   error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsParseError returns true if err came from parsing a RangeOrValue.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsClientError returns true if the error is due to malformed input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRangeFormat) ||
		errors.Is(err, ErrInvalidRangeStart) ||
		errors.Is(err, ErrInvalidRangeEnd) ||
		errors.Is(err, ErrInvalidRangeOrder) ||
		errors.Is(err, ErrEmptyListItem)
}

// ErrorCode maps a parse error to a stable machine-readable code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRangeFormat):
		return "invalid_range_format"
	case errors.Is(err, ErrInvalidRangeStart):
		return "invalid_range_start"
	case errors.Is(err, ErrInvalidRangeEnd):
		return "invalid_range_end"
	case errors.Is(err, ErrInvalidRangeOrder):
		return "invalid_range_order"
	case errors.Is(err, ErrEmptyListItem):
		return "empty_list_item"
	default:
		return "unknown"
	}
}

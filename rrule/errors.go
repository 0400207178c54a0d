package rrule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRule is wrapped by every rule consistency failure.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrRuleNotFound is returned by stores when an ID is unknown.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrPresetNotFound is returned when a preset name is not registered.
	ErrPresetNotFound = errors.New("preset not found")
)

// Validation failure codes.
const (
	CodeRequired      = "required"
	CodeOutOfRange    = "out_of_range"
	CodeConflict      = "conflict"
	CodeIncompatible  = "incompatible"
	CodeStraddlesZero = "straddles_zero"
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError is one failed consistency check.
type ValidationError struct {
	Field   string // e.g. "by_month_day"
	Code    string // e.g. "out_of_range"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRule
}

// ValidationErrors flattens err (possibly built with errors.Join) into its
// ValidationError parts.
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ValidationError
		for _, e := range joined.Unwrap() {
			out = append(out, ValidationErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return []*ValidationError{ve}
	}
	return nil
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid rule input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRule)
}

// IsNotFound returns true if the error indicates a missing rule or preset.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRuleNotFound) || errors.Is(err, ErrPresetNotFound)
}

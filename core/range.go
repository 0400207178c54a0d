/*
Package core provides the value primitives shared by the recurrence rule model.

PURPOSE:
  Rule fields such as BYMONTHDAY or BYSETPOS accept either a single number
  ("3") or an inclusive range ("3-5"). RangeOrValue captures both shapes as a
  closed sum type so that no half-populated state can exist.

  The package also defines the validation stage markers (stage.go) used to
  parameterize rule holders.

KEY CONCEPTS IN THIS FILE (range.go):
  - RangeOrValue[T]: sealed interface, implemented only by Range and Value
  - Range[T]:        inclusive [Start, End]
  - Value[T]:        a single scalar

USAGE:
  field, err := core.ParseInt[int]("3-5")
  if err != nil {
      return err
  }
  field.Contains(4) // true

SEE ALSO:
  - parse.go: Text parsing (scalar first, then "start-end")
  - errors.go: Parse error taxonomy
  - stage.go: Unvalidated / Validated markers
*/
package core

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// =============================================================================
// RANGE OR VALUE - Sum type over a scalar and an inclusive range
// =============================================================================

// RangeOrValue is either a Range or a Value. The interface is sealed: only
// the two types in this package implement it.
type RangeOrValue[T constraints.Ordered] interface {
	// IsRange returns true if this is a Range.
	IsRange() bool

	// IsValue returns true if this is a Value.
	IsValue() bool

	// Contains reports whether candidate is inside the range (both ends
	// inclusive) or equal to the value.
	Contains(candidate T) bool

	// Equal reports structural equality. A Range never equals a Value.
	Equal(other RangeOrValue[T]) bool

	String() string

	sealed()
}

// Range is an inclusive interval. Parsing guarantees Start < End; literal
// construction leaves that to the caller.
type Range[T constraints.Ordered] struct {
	Start T
	End   T
}

// Value is a single scalar.
type Value[T constraints.Ordered] struct {
	V T
}

// NewRange returns a Range as a RangeOrValue.
func NewRange[T constraints.Ordered](start, end T) RangeOrValue[T] {
	return Range[T]{Start: start, End: end}
}

// NewValue returns a Value as a RangeOrValue.
func NewValue[T constraints.Ordered](v T) RangeOrValue[T] {
	return Value[T]{V: v}
}

func (Range[T]) IsRange() bool { return true }
func (Range[T]) IsValue() bool { return false }
func (Range[T]) sealed()       {}

func (r Range[T]) Contains(candidate T) bool {
	return r.Start <= candidate && candidate <= r.End
}

func (r Range[T]) Equal(other RangeOrValue[T]) bool {
	o, ok := other.(Range[T])
	return ok && r.Start == o.Start && r.End == o.End
}

func (r Range[T]) String() string {
	return fmt.Sprintf("%v-%v", r.Start, r.End)
}

// MarshalText encodes the range as "start-end". Parse reads it back unless
// start is negative: "-3--1" fails the scalar-first split.
func (r Range[T]) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (Value[T]) IsRange() bool { return false }
func (Value[T]) IsValue() bool { return true }
func (Value[T]) sealed()       {}

func (v Value[T]) Contains(candidate T) bool {
	return v.V == candidate
}

func (v Value[T]) Equal(other RangeOrValue[T]) bool {
	o, ok := other.(Value[T])
	return ok && v.V == o.V
}

func (v Value[T]) String() string {
	return fmt.Sprint(v.V)
}

// MarshalText encodes the scalar on its own.
func (v Value[T]) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// =============================================================================
// LIST HELPERS
// =============================================================================

// ContainsAny reports whether any entry of list contains candidate.
// An empty list contains nothing.
func ContainsAny[T constraints.Ordered](list []RangeOrValue[T], candidate T) bool {
	for _, rv := range list {
		if rv.Contains(candidate) {
			return true
		}
	}
	return false
}

// Bounds returns the smallest and largest scalar named by rv.
func Bounds[T constraints.Ordered](rv RangeOrValue[T]) (lo, hi T) {
	switch x := rv.(type) {
	case Range[T]:
		return x.Start, x.End
	case Value[T]:
		return x.V, x.V
	}
	return lo, hi
}

// EqualLists compares two lists element by element.
func EqualLists[T constraints.Ordered](a, b []RangeOrValue[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

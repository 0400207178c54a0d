package core

import (
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// =============================================================================
// PARSING - "3" -> Value, "3-5" -> Range
// =============================================================================

// RangeSeparator separates the two bounds of a range.
const RangeSeparator = "-"

// ListSeparator separates entries in a field list ("1,3-5,-1").
const ListSeparator = ","

// ParseFunc parses a single scalar.
type ParseFunc[T constraints.Ordered] func(s string) (T, error)

// Parse reads s as a Value or a Range.
//
// The whole string is tried as a scalar first. Only when that fails is it
// split on "-". This order is what makes "-5" a negative Value instead of a
// range with an empty start.
func Parse[T constraints.Ordered](s string, parse ParseFunc[T]) (RangeOrValue[T], error) {
	if v, err := parse(s); err == nil {
		return Value[T]{V: v}, nil
	}

	parts := strings.Split(s, RangeSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, &ParseError{Input: s, Err: ErrInvalidRangeFormat}
	}

	start, err := parse(parts[0])
	if err != nil {
		return nil, &ParseError{Input: s, Err: ErrInvalidRangeStart, Cause: err}
	}
	end, err := parse(parts[1])
	if err != nil {
		return nil, &ParseError{Input: s, Err: ErrInvalidRangeEnd, Cause: err}
	}
	if start >= end {
		return nil, &ParseError{Input: s, Err: ErrInvalidRangeOrder}
	}

	return Range[T]{Start: start, End: end}, nil
}

// ParseInt parses s with base-10 integer scalars of type T. Values that do
// not fit in T are rejected.
func ParseInt[T constraints.Integer](s string) (RangeOrValue[T], error) {
	return Parse(s, ParseInteger[T])
}

// MustParseInt is ParseInt for literals known to be valid. It panics on error.
func MustParseInt[T constraints.Integer](s string) RangeOrValue[T] {
	rv, err := ParseInt[T](s)
	if err != nil {
		panic(err)
	}
	return rv
}

// ParseInteger is the ParseFunc used by ParseInt.
func ParseInteger[T constraints.Integer](s string) (T, error) {
	var zero T
	if zero-1 > zero {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return zero, err
		}
		if uint64(T(u)) != u {
			return zero, &strconv.NumError{Func: "ParseUint", Num: s, Err: strconv.ErrRange}
		}
		return T(u), nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return zero, err
	}
	if int64(T(n)) != n {
		return zero, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrRange}
	}
	return T(n), nil
}

// ParseList parses a comma separated list of values and ranges. Surrounding
// whitespace on each item is ignored; empty items are rejected.
func ParseList[T constraints.Ordered](s string, parse ParseFunc[T]) ([]RangeOrValue[T], error) {
	items := strings.Split(s, ListSeparator)
	out := make([]RangeOrValue[T], 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, &ListError{Index: i, Err: &ParseError{Input: item, Err: ErrEmptyListItem}}
		}
		rv, err := Parse(item, parse)
		if err != nil {
			return nil, &ListError{Index: i, Err: err}
		}
		out = append(out, rv)
	}
	return out, nil
}

// FormatList is the inverse of ParseList.
func FormatList[T constraints.Ordered](list []RangeOrValue[T]) string {
	parts := make([]string, len(list))
	for i, rv := range list {
		parts[i] = rv.String()
	}
	return strings.Join(parts, ListSeparator)
}

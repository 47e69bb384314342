// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"errors"
	"fmt"
	"strconv"
)

// Pagination errors. Services wrap these into their own taxonomy.
var (
	// ErrMissingParameter is returned when "start" or "end" is absent.
	ErrMissingParameter = errors.New("missing parameter")
	// ErrInvalidParameter is returned when a value is not a non-negative integer.
	ErrInvalidParameter = errors.New("cannot parse parameter")
	// ErrRangeOutOfBounds is returned by Range.Bounds in strict mode.
	ErrRangeOutOfBounds = errors.New("range out of bounds")
)

// Range is a half-open [Start, End) window over an ordered collection.
type Range struct {
	Start int
	End   int
}

// ExtractPagination reads "start" and "end" from untrusted query parameters.
// Both keys must be present and parse as non-negative base-10 integers.
// No check against a collection size is made here; see Range.Bounds.
//
// Callers must only invoke it when params is non-empty; an empty map means
// "no pagination".
//
// Example:
//
//	r, err := utils.ExtractPagination(map[string]string{"start": "0", "end": "2"})
//	// r == Range{Start: 0, End: 2}
func ExtractPagination(params map[string]string) (Range, error) {
	start, err := nonNegative(params, "start")
	if err != nil {
		return Range{}, err
	}
	end, err := nonNegative(params, "end")
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Bounds validates r against a collection of length n and returns indices
// safe to slice with.
//
// Strict (clamp=false): start > end or end > n yields ErrRangeOutOfBounds.
// Lenient (clamp=true): end is clamped to n and start to end.
func (r Range) Bounds(n int, clamp bool) (start, end int, err error) {
	start, end = r.Start, r.End
	if clamp {
		end = min(end, n)
		start = min(start, end)
		return start, end, nil
	}
	if start > end || end > n {
		return 0, 0, fmt.Errorf("%w: [%d,%d) over %d items", ErrRangeOutOfBounds, start, end, n)
	}
	return start, end, nil
}

func nonNegative(params map[string]string, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q=%q", ErrInvalidParameter, key, raw)
	}
	return n, nil
}

package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrIDNotFound is returned when a range boundary is not part of the sequence
	ErrIDNotFound = errors.New("id not found in sequence")
	// ErrDuplicateID is returned when a sequence carries the same id twice
	ErrDuplicateID = errors.New("duplicate id in sequence")
	// ErrDuplicateIndex is returned when two tokens share a position index
	ErrDuplicateIndex = errors.New("duplicate position index in sequence")
)

// RangeByID returns the inclusive run of seq between the elements identified by
// startID and endID, in seq order. The two ids may be given in either order.
// The returned slice is a copy.
func RangeByID[T any, K comparable](seq []T, id func(T) K, startID, endID K) ([]T, error) {
	start, end := -1, -1
	for i, el := range seq {
		k := id(el)
		if start < 0 && k == startID {
			start = i
		}
		if end < 0 && k == endID {
			end = i
		}
		if start >= 0 && end >= 0 {
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("%w: %v", ErrIDNotFound, startID)
	}
	if end < 0 {
		return nil, fmt.Errorf("%w: %v", ErrIDNotFound, endID)
	}
	if start > end {
		start, end = end, start
	}

	out := make([]T, end-start+1)
	copy(out, seq[start:end+1])
	return out, nil
}

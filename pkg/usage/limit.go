package usage

import (
	"errors"
	"fmt"
	"time"
)

// ErrZeroCount is returned when a Limit is constructed with a count of zero.
var ErrZeroCount = errors.New("limit count must be positive")

// Limit describes how often something is able to be used: Count uses per
// Window. Limits are immutable values; a Ledger is constructed with exactly
// one Limit and enforces it for its whole lifetime.
//
// A zero window is legal but degenerate: every registration immediately
// starts an already-elapsed window, so nothing is ever limited.
//
// Example:
//
//	// something can be used every 3 seconds
//	usage.NewLimit(3*time.Second, 1)
//
//	// something can be used 10 times per minute
//	usage.NewLimit(time.Minute, 10)
type Limit struct {
	window time.Duration
	count  uint64
}

// NewLimit creates a Limit allowing count uses per window.
// It returns ErrZeroCount if count is zero.
func NewLimit(window time.Duration, count uint64) (Limit, error) {
	if count == 0 {
		return Limit{}, ErrZeroCount
	}
	return Limit{window: window, count: count}, nil
}

// MustLimit is like NewLimit but panics on error. It is intended for
// limits hard-coded at program start.
func MustLimit(window time.Duration, count uint64) Limit {
	limit, err := NewLimit(window, count)
	if err != nil {
		panic(fmt.Sprintf("usage: invalid limit (%v, %d): %v", window, count, err))
	}
	return limit
}

// Window returns the duration over which uses are counted.
func (l Limit) Window() time.Duration {
	return l.window
}

// Count returns the number of uses allowed per window.
func (l Limit) Count() uint64 {
	return l.count
}

// Compare orders limits lexicographically by (window, count).
// It returns -1, 0 or +1. Limits are also comparable with ==.
func (l Limit) Compare(other Limit) int {
	switch {
	case l.window < other.window:
		return -1
	case l.window > other.window:
		return 1
	case l.count < other.count:
		return -1
	case l.count > other.count:
		return 1
	default:
		return 0
	}
}

// String returns a human-readable form such as "5 per 30s".
func (l Limit) String() string {
	return fmt.Sprintf("%d per %s", l.count, l.window)
}

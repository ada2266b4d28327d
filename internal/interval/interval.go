package interval

import (
	"fmt"
	"math"
	"slices"
)

// Tolerance is the absolute slack used when comparing interval endpoints.
const Tolerance = 1e-9

// Interval is a time range [Begin, End) in seconds. It is stored closed and
// compared with Tolerance. Callers must never construct one with Begin > End.
type Interval struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

// New returns the interval spanning begin to end.
func New(begin, end float64) Interval {
	return Interval{Begin: begin, End: end}
}

// Duration reports End - Begin.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Begin
}

// Intersect returns the overlapping part of iv and other. The boolean is false
// when the two do not overlap by a positive amount.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	begin := math.Max(iv.Begin, other.Begin)
	end := math.Min(iv.End, other.End)
	if begin >= end {
		return Interval{}, false
	}
	return Interval{Begin: begin, End: end}, true
}

// Equal reports whether both endpoints agree within Tolerance.
func (iv Interval) Equal(other Interval) bool {
	return math.Abs(iv.Begin-other.Begin) < Tolerance && math.Abs(iv.End-other.End) < Tolerance
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%.3f, %.3f)", iv.Begin, iv.End)
}

// Merge sorts intervals by start and coalesces every pair whose next start is
// at or before the running end. Touching intervals merge. The input slice is
// left untouched.
func Merge(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		switch {
		case a.Begin < b.Begin:
			return -1
		case a.Begin > b.Begin:
			return 1
		default:
			return 0
		}
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Begin <= current.End {
			current.End = math.Max(current.End, next.End)
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Total sums the durations of intervals.
func Total(intervals []Interval) float64 {
	var sum float64
	for _, iv := range intervals {
		sum += iv.Duration()
	}
	return sum
}

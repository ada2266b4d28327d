package scoring

import (
	"cmp"
	"slices"

	"mdeval/internal/interval"
)

// emitEpsilon is the minimum advance in time that produces a new piece of
// mask or a new sub-segment.
const emitEpsilon = 1e-8

// boundary is a begin/end event used by the mask sweeps.
type boundary struct {
	time  float64
	begin bool
	// overlap marks events that delimit reference overlap regions rather than
	// the mask itself.
	overlap bool
}

// byTimeBeginFirst orders begins before ends at equal timestamps.
func byTimeBeginFirst(a, b boundary) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}
	return cmp.Compare(rank(!a.begin), rank(!b.begin))
}

// byTimeEndFirst orders ends before begins at equal timestamps.
func byTimeEndFirst(a, b boundary) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}
	return cmp.Compare(rank(a.begin), rank(b.begin))
}

func rank(v bool) int {
	if v {
		return 1
	}
	return 0
}

// InferMask returns the single interval spanning the earliest reference begin
// to the latest reference end, or nil when that span is not positive.
func InferMask(ref Speakers) []interval.Interval {
	first, last := 0.0, 0.0
	found := false
	for _, label := range ref.Labels() {
		for _, seg := range ref[label] {
			if !found {
				first, last = seg.Begin, seg.End()
				found = true
				continue
			}
			first = min(first, seg.Begin)
			last = max(last, seg.End())
		}
	}
	if !found || last <= first {
		return nil
	}
	return []interval.Interval{interval.New(first, last)}
}

// NarrowMask applies overlap exclusion and then the collar, each only when
// requested. The input mask is never modified.
func NarrowMask(mask []interval.Interval, ref Speakers, opts Options) []interval.Interval {
	narrowed := slices.Clone(mask)
	if opts.IgnoreOverlap {
		narrowed = ExcludeOverlap(narrowed, ref)
	}
	if opts.Collar > 0 {
		narrowed = ApplyCollar(narrowed, ref, opts.Collar)
	}
	return narrowed
}

// ApplyCollar removes [b-collar, b+collar] around every reference segment
// boundary b from mask. Each exclusion window enters the sweep inverted: its
// start closes evaluation and its end reopens it. Begins sort before ends at
// equal timestamps so a window that touches a mask edge collapses cleanly.
// A collar of zero returns the mask unchanged. Zero-duration reference
// segments get no collar, so scored time can exceed what md-eval reports for
// references that contain them.
func ApplyCollar(mask []interval.Interval, ref Speakers, collar float64) []interval.Interval {
	if collar <= 0 {
		return slices.Clone(mask)
	}

	events := make([]boundary, 0, 2*len(mask))
	for _, iv := range mask {
		events = append(events, boundary{time: iv.Begin, begin: true}, boundary{time: iv.End})
	}
	for _, label := range ref.Labels() {
		for _, seg := range ref[label] {
			if seg.Duration <= 0 {
				continue
			}
			for _, edge := range []float64{seg.Begin, seg.End()} {
				events = append(events,
					boundary{time: edge - collar},
					boundary{time: edge + collar, begin: true},
				)
			}
		}
	}
	slices.SortStableFunc(events, byTimeBeginFirst)

	// depth is the mask count minus the number of open exclusion windows, so
	// it equals one exactly when time is masked and outside every window.
	var (
		out   []interval.Interval
		depth int
		from  float64
	)
	for _, ev := range events {
		if ev.begin {
			depth++
			if depth == 1 {
				from = ev.time
			}
			continue
		}
		depth--
		if depth == 0 && ev.time > from+emitEpsilon {
			out = append(out, interval.New(from, ev.time))
		}
	}
	return out
}

// ReferenceOverlap returns the regions where at least two reference segments
// are active. Ends sort before begins, so segments that merely touch do not
// overlap.
func ReferenceOverlap(ref Speakers) []interval.Interval {
	var events []boundary
	for _, label := range ref.Labels() {
		for _, seg := range ref[label] {
			if seg.Duration <= 0 {
				continue
			}
			events = append(events, boundary{time: seg.Begin, begin: true}, boundary{time: seg.End()})
		}
	}
	slices.SortStableFunc(events, byTimeEndFirst)

	var (
		out    []interval.Interval
		active int
		from   float64
	)
	for _, ev := range events {
		if ev.begin {
			active++
			if active == 2 {
				from = ev.time
			}
			continue
		}
		active--
		if active == 1 && ev.time > from {
			out = append(out, interval.New(from, ev.time))
		}
	}
	return out
}

// ExcludeOverlap subtracts the reference overlap regions from mask. Ends sort
// before begins at equal timestamps, so adjacent mask pieces stay separate.
func ExcludeOverlap(mask []interval.Interval, ref Speakers) []interval.Interval {
	overlaps := ReferenceOverlap(ref)

	events := make([]boundary, 0, 2*(len(mask)+len(overlaps)))
	for _, iv := range mask {
		events = append(events, boundary{time: iv.Begin, begin: true}, boundary{time: iv.End})
	}
	for _, iv := range overlaps {
		events = append(events,
			boundary{time: iv.Begin, begin: true, overlap: true},
			boundary{time: iv.End, overlap: true},
		)
	}
	slices.SortStableFunc(events, byTimeEndFirst)

	var (
		out        []interval.Interval
		masked     int
		overlapped int
		evaluating bool
		from       float64
	)
	for _, ev := range events {
		delta := -1
		if ev.begin {
			delta = 1
		}
		if ev.overlap {
			overlapped += delta
		} else {
			masked += delta
		}

		eligible := masked > 0 && overlapped == 0
		switch {
		case evaluating && !eligible:
			if ev.time > from {
				out = append(out, interval.New(from, ev.time))
			}
			evaluating = false
		case !evaluating && eligible:
			from = ev.time
			evaluating = true
		}
	}
	return out
}

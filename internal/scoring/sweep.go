package scoring

import (
	"cmp"
	"maps"
	"slices"

	"mdeval/internal/interval"
)

type eventSource int

const (
	sourceMask eventSource = iota
	sourceRef
	sourceSys
)

type sweepEvent struct {
	time    float64
	begin   bool
	source  eventSource
	speaker string
}

// compareSweepEvents orders by time, then ends before begins, then mask events
// ahead of speaker events so mask toggles take effect first.
func compareSweepEvents(a, b sweepEvent) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}
	if c := cmp.Compare(rank(a.begin), rank(b.begin)); c != 0 {
		return c
	}
	return cmp.Compare(a.source, b.source)
}

// sweepState is the accumulator folded over the sorted events in Sweep.
type sweepState struct {
	masked bool
	from   float64
	ref    map[string]int
	sys    map[string]int
	out    []SubSegment
}

// Sweep partitions mask into maximal sub-segments of constant reference and
// system speaker membership. Zero-duration speaker segments are ignored and a
// speaker with overlapping segments stays active until its last one ends.
// A sub-segment is emitted only when time advances by more than 1e-8, so
// coincident events never produce empty pieces.
func Sweep(mask []interval.Interval, ref, sys Speakers) []SubSegment {
	events := buildSweepEvents(mask, ref, sys)

	state := &sweepState{ref: map[string]int{}, sys: map[string]int{}}
	for _, ev := range events {
		state.apply(ev)
	}
	return state.out
}

func buildSweepEvents(mask []interval.Interval, ref, sys Speakers) []sweepEvent {
	var events []sweepEvent
	for _, iv := range mask {
		if iv.Duration() <= emitEpsilon {
			continue
		}
		events = append(events,
			sweepEvent{time: iv.Begin, begin: true, source: sourceMask},
			sweepEvent{time: iv.End, source: sourceMask},
		)
	}
	appendSpeakers := func(speakers Speakers, source eventSource) {
		for _, label := range speakers.Labels() {
			for _, seg := range speakers[label] {
				if seg.Duration <= 0 {
					continue
				}
				events = append(events,
					sweepEvent{time: seg.Begin, begin: true, source: source, speaker: label},
					sweepEvent{time: seg.End(), source: source, speaker: label},
				)
			}
		}
	}
	appendSpeakers(ref, sourceRef)
	appendSpeakers(sys, sourceSys)

	slices.SortStableFunc(events, compareSweepEvents)
	return events
}

// apply emits the sub-segment that ends at ev, if any, and then folds ev into
// the active speaker counts and mask flag.
func (s *sweepState) apply(ev sweepEvent) {
	if s.masked && ev.time > s.from+emitEpsilon {
		s.out = append(s.out, SubSegment{
			Span: interval.New(s.from, ev.time),
			Ref:  activeLabels(s.ref),
			Sys:  activeLabels(s.sys),
		})
		s.from = ev.time
	}

	switch ev.source {
	case sourceMask:
		s.masked = ev.begin
		if ev.begin {
			s.from = ev.time
		}
	case sourceRef:
		countSpeaker(s.ref, ev)
	case sourceSys:
		countSpeaker(s.sys, ev)
	}
}

func countSpeaker(active map[string]int, ev sweepEvent) {
	if ev.begin {
		active[ev.speaker]++
		return
	}
	if _, ok := active[ev.speaker]; !ok {
		return
	}
	active[ev.speaker]--
	if active[ev.speaker] <= 0 {
		delete(active, ev.speaker)
	}
}

func activeLabels(active map[string]int) []string {
	if len(active) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(active))
}

package scoring_test

import (
	"math"
	"math/rand"
	"testing"

	"mdeval/internal/interval"
	"mdeval/internal/scoring"
)

func TestApplyCollarAroundBoundaries(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 10)}
	ref := scoring.Speakers{"spk1": {{Begin: 5, Duration: 1}}}

	got := scoring.ApplyCollar(mask, ref, 0.5)
	assertIntervals(t, got, []interval.Interval{interval.New(0, 4.5), interval.New(6.5, 10)})
}

func TestApplyCollarZeroIsIdentity(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 4), interval.New(6, 10)}
	ref := scoring.Speakers{"spk1": {{Begin: 1, Duration: 2}, {Begin: 7, Duration: 1}}}

	assertIntervals(t, scoring.ApplyCollar(mask, ref, 0), mask)
	assertIntervals(t, scoring.NarrowMask(mask, ref, scoring.Options{}), mask)
}

func TestApplyCollarClipsAtMaskEdges(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 10)}
	ref := scoring.Speakers{"spk1": {{Begin: 0, Duration: 10}}}

	got := scoring.ApplyCollar(mask, ref, 0.25)
	assertIntervals(t, got, []interval.Interval{interval.New(0.25, 9.75)})
}

func TestApplyCollarMergedWindowsDropEmptyGap(t *testing.T) {
	// Windows [1.5,2.5] and [2.5,3.5] touch; nothing survives between them.
	mask := []interval.Interval{interval.New(0, 5)}
	ref := scoring.Speakers{"a": {{Begin: 2, Duration: 1}}}

	got := scoring.ApplyCollar(mask, ref, 0.5)
	assertIntervals(t, got, []interval.Interval{interval.New(0, 1.5), interval.New(3.5, 5)})
}

func TestApplyCollarIgnoresZeroDurationSegments(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 10)}
	ref := scoring.Speakers{"a": {{Begin: 5, Duration: 0}}}

	assertIntervals(t, scoring.ApplyCollar(mask, ref, 1), mask)
}

func TestExcludeOverlap(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 10)}
	ref := scoring.Speakers{
		"spk1": {{Begin: 0, Duration: 6}},
		"spk2": {{Begin: 4, Duration: 6}},
	}

	got := scoring.ExcludeOverlap(mask, ref)
	assertIntervals(t, got, []interval.Interval{interval.New(0, 4), interval.New(6, 10)})
}

func TestExcludeOverlapTouchingSpeakersKeepMask(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 10)}
	ref := scoring.Speakers{
		"spk1": {{Begin: 0, Duration: 5}},
		"spk2": {{Begin: 5, Duration: 5}},
	}

	if overlaps := scoring.ReferenceOverlap(ref); len(overlaps) != 0 {
		t.Fatalf("expected no overlap for touching segments, got %v", overlaps)
	}
	assertIntervals(t, scoring.ExcludeOverlap(mask, ref), mask)
}

func TestExcludeOverlapKeepsAdjacentMaskPiecesSeparate(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 5), interval.New(5, 10)}

	got := scoring.ExcludeOverlap(mask, scoring.Speakers{})
	assertIntervals(t, got, mask)
}

func TestExcludeOverlapThreeSpeakers(t *testing.T) {
	ref := scoring.Speakers{
		"a": {{Begin: 0, Duration: 10}},
		"b": {{Begin: 2, Duration: 2}},
		"c": {{Begin: 3, Duration: 4}},
	}

	assertIntervals(t, scoring.ReferenceOverlap(ref), []interval.Interval{interval.New(2, 7)})
}

func TestNarrowMaskAppliesOverlapThenCollar(t *testing.T) {
	mask := []interval.Interval{interval.New(0, 20)}
	ref := scoring.Speakers{
		"spk1": {{Begin: 2, Duration: 8}},
		"spk2": {{Begin: 8, Duration: 6}},
	}

	got := scoring.NarrowMask(mask, ref, scoring.Options{Collar: 0.5, IgnoreOverlap: true})
	// Overlap [8,10] is removed first; collars then cut around 2, 8, 10 and 14.
	want := []interval.Interval{
		interval.New(0, 1.5),
		interval.New(2.5, 7.5),
		interval.New(10.5, 13.5),
		interval.New(14.5, 20),
	}
	assertIntervals(t, got, want)
	if mask[0] != interval.New(0, 20) {
		t.Fatalf("NarrowMask modified its input: %v", mask)
	}
}

func TestExcludeOverlapRemovesExactlyTheOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		ref := randomSpeakers(rng, 3, 4)
		mask := randomMask(rng)

		got := scoring.ExcludeOverlap(mask, ref)
		assertSortedDisjoint(t, got)

		removed := interval.Total(mask) - interval.Total(got)
		want := gridMeasure(func(x float64) bool {
			return inAny(mask, x) && activeCount(ref, x) >= 2
		})
		if math.Abs(removed-want) > 1e-9 {
			t.Fatalf("trial %d: removed %v, want %v (mask %v, ref %v, got %v)", trial, removed, want, mask, ref, got)
		}
	}
}

func TestApplyCollarKeepsMaskSortedAndInside(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 200; trial++ {
		ref := randomSpeakers(rng, 2, 3)
		mask := randomMask(rng)

		got := scoring.ApplyCollar(mask, ref, 0.5)
		assertSortedDisjoint(t, got)
		for _, iv := range got {
			if !inAny(mask, (iv.Begin+iv.End)/2) {
				t.Fatalf("trial %d: collar output %v escapes mask %v", trial, iv, mask)
			}
		}
		want := gridMeasure(func(x float64) bool {
			return inAny(mask, x) && !nearBoundary(ref, x, 0.5)
		})
		if got := interval.Total(got); math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d: collar measure %v, want %v", trial, got, want)
		}
	}
}

func TestInferMask(t *testing.T) {
	ref := scoring.Speakers{
		"a": {{Begin: 3, Duration: 2}},
		"b": {{Begin: 1, Duration: 1}, {Begin: 8, Duration: 4}},
	}
	assertIntervals(t, scoring.InferMask(ref), []interval.Interval{interval.New(1, 12)})

	if got := scoring.InferMask(scoring.Speakers{}); got != nil {
		t.Fatalf("expected nil mask for empty reference, got %v", got)
	}
	if got := scoring.InferMask(scoring.Speakers{"a": {{Begin: 4, Duration: 0}}}); got != nil {
		t.Fatalf("expected nil mask for zero extent, got %v", got)
	}
}

func TestOptionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		opts    scoring.Options
		wantErr bool
	}{
		{"zero", scoring.Options{}, false},
		{"positive", scoring.Options{Collar: 0.25}, false},
		{"negative", scoring.Options{Collar: -0.1}, true},
		{"nan", scoring.Options{Collar: math.NaN()}, true},
		{"inf", scoring.Options{Collar: math.Inf(1)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

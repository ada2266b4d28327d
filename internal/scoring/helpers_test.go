package scoring_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"mdeval/internal/interval"
	"mdeval/internal/scoring"
)

const gridStep = 0.25

func assertIntervals(t *testing.T, got, want []interval.Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("interval %d: got %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func assertSortedDisjoint(t *testing.T, ivs []interval.Interval) {
	t.Helper()
	for i, iv := range ivs {
		if iv.Duration() <= 0 {
			t.Fatalf("non-positive interval %v in %v", iv, ivs)
		}
		if i > 0 && iv.Begin < ivs[i-1].End {
			t.Fatalf("intervals overlap or are unsorted: %v", ivs)
		}
	}
}

func assertClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

// randomSpeakers draws segments on a half-second grid inside [0, 25).
func randomSpeakers(rng *rand.Rand, speakers, maxSegments int) scoring.Speakers {
	out := scoring.Speakers{}
	for i := 0; i < speakers; i++ {
		label := fmt.Sprintf("spk%d", i)
		n := rng.Intn(maxSegments + 1)
		for j := 0; j < n; j++ {
			begin := float64(rng.Intn(50)) / 2
			out[label] = append(out[label], scoring.Segment{
				Begin:    begin,
				Duration: float64(1+rng.Intn(10)) / 2,
			})
		}
	}
	return out
}

// randomMask returns sorted, disjoint (possibly touching) pieces on a
// half-second grid.
func randomMask(rng *rand.Rand) []interval.Interval {
	var mask []interval.Interval
	cursor := float64(rng.Intn(4)) / 2
	for cursor < 25 {
		end := cursor + float64(1+rng.Intn(10))/2
		mask = append(mask, interval.New(cursor, end))
		cursor = end + float64(rng.Intn(5))/2
	}
	return mask
}

// gridMeasure integrates pred over [0, 40) by sampling cell midpoints. It is
// exact when every boundary of pred lies on the quarter-second grid.
func gridMeasure(pred func(x float64) bool) float64 {
	var total float64
	for x := 0.0; x < 40; x += gridStep {
		if pred(x + gridStep/2) {
			total += gridStep
		}
	}
	return total
}

func inAny(ivs []interval.Interval, x float64) bool {
	for _, iv := range ivs {
		if iv.Begin <= x && x < iv.End {
			return true
		}
	}
	return false
}

func activeCount(sp scoring.Speakers, x float64) int {
	n := 0
	for _, segs := range sp {
		for _, seg := range segs {
			if seg.Duration > 0 && seg.Begin <= x && x < seg.End() {
				n++
			}
		}
	}
	return n
}

func activeSpeakers(sp scoring.Speakers, x float64) map[string]bool {
	out := map[string]bool{}
	for label, segs := range sp {
		for _, seg := range segs {
			if seg.Duration > 0 && seg.Begin <= x && x < seg.End() {
				out[label] = true
			}
		}
	}
	return out
}

func nearBoundary(sp scoring.Speakers, x, collar float64) bool {
	for _, segs := range sp {
		for _, seg := range segs {
			if seg.Duration <= 0 {
				continue
			}
			for _, b := range []float64{seg.Begin, seg.End()} {
				if b-collar <= x && x <= b+collar {
					return true
				}
			}
		}
	}
	return false
}

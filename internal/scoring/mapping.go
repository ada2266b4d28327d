package scoring

import (
	"maps"
	"slices"

	"mdeval/internal/assignment"
)

// Overlap holds the co-active duration of every (reference, system) speaker
// pair.
type Overlap map[string]map[string]float64

// SpeakerOverlap sums sub-segment durations into the overlap matrix for every
// pair of simultaneously active reference and system speakers. Reference
// speakers that never meet a system speaker still get an empty row.
func SpeakerOverlap(subsegments []SubSegment) Overlap {
	overlap := Overlap{}
	for _, seg := range subsegments {
		d := seg.Duration()
		for _, r := range seg.Ref {
			row, ok := overlap[r]
			if !ok {
				row = map[string]float64{}
				overlap[r] = row
			}
			for _, s := range seg.Sys {
				row[s] += d
			}
		}
	}
	return overlap
}

// MapSpeakers picks the one-to-one reference to system mapping with the
// largest total overlap. Pairs the solver fills in without any shared time are
// dropped, since they never affect the error count.
func MapSpeakers(overlap Overlap) Mapping {
	if len(overlap) == 0 {
		return Mapping{}
	}

	refLabels := slices.Sorted(maps.Keys(overlap))
	sysSet := map[string]struct{}{}
	for _, row := range overlap {
		for s := range row {
			sysSet[s] = struct{}{}
		}
	}
	if len(sysSet) == 0 {
		return Mapping{}
	}
	sysLabels := slices.Sorted(maps.Keys(sysSet))

	cost := make([][]float64, len(refLabels))
	for i, r := range refLabels {
		cost[i] = make([]float64, len(sysLabels))
		for j, s := range sysLabels {
			cost[i][j] = -overlap[r][s]
		}
	}

	mapping := Mapping{}
	for _, p := range assignment.Solve(cost) {
		r, s := refLabels[p.Row], sysLabels[p.Col]
		if overlap[r][s] > 0 {
			mapping[r] = s
		}
	}
	return mapping
}

package scoring

import (
	"slices"

	"mdeval/internal/interval"
)

// Score evaluates one file/channel.
//
// The evaluation mask is narrowed by opts, swept once to build the speaker
// mapping and then accumulated under that mapping. EvalTime and EvalSpeech are
// always measured on the unnarrowed mask so that collars and overlap exclusion
// do not move the reporting denominators. Options are assumed validated.
func Score(in Input, opts Options) Result {
	evalMask := slices.Clone(in.Mask)
	if in.InferMask {
		evalMask = InferMask(in.Ref)
	}
	scoredMask := NarrowMask(evalMask, in.Ref, opts)

	subsegments := Sweep(scoredMask, in.Ref, in.Sys)
	mapping := MapSpeakers(SpeakerOverlap(subsegments))

	stats := Accumulate(subsegments, mapping)
	stats.EvalTime = interval.Total(evalMask)
	stats.ScoredTime = interval.Total(scoredMask)
	stats.EvalSpeech = speechTime(Sweep(evalMask, in.Ref, nil))

	return Result{
		Stats:      stats,
		Mapping:    mapping,
		EvalMask:   evalMask,
		ScoredMask: scoredMask,
	}
}

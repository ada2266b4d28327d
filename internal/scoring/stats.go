package scoring

import "slices"

// Stats accumulates scored durations in seconds. Every field is additive, so
// per-file records can be summed into a corpus total.
type Stats struct {
	EvalTime      float64 `json:"eval_time"`
	EvalSpeech    float64 `json:"eval_speech"`
	ScoredTime    float64 `json:"scored_time"`
	ScoredSpeech  float64 `json:"scored_speech"`
	MissedSpeech  float64 `json:"missed_speech"`
	FalarmSpeech  float64 `json:"falarm_speech"`
	ScoredSpeaker float64 `json:"scored_speaker"`
	MissedSpeaker float64 `json:"missed_speaker"`
	FalarmSpeaker float64 `json:"falarm_speaker"`
	SpeakerError  float64 `json:"speaker_error"`
}

// Add returns the field-wise sum of s and other.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		EvalTime:      s.EvalTime + other.EvalTime,
		EvalSpeech:    s.EvalSpeech + other.EvalSpeech,
		ScoredTime:    s.ScoredTime + other.ScoredTime,
		ScoredSpeech:  s.ScoredSpeech + other.ScoredSpeech,
		MissedSpeech:  s.MissedSpeech + other.MissedSpeech,
		FalarmSpeech:  s.FalarmSpeech + other.FalarmSpeech,
		ScoredSpeaker: s.ScoredSpeaker + other.ScoredSpeaker,
		MissedSpeaker: s.MissedSpeaker + other.MissedSpeaker,
		FalarmSpeaker: s.FalarmSpeaker + other.FalarmSpeaker,
		SpeakerError:  s.SpeakerError + other.SpeakerError,
	}
}

// ErrorTime is the numerator of the diarization error rate.
func (s Stats) ErrorTime() float64 {
	return s.MissedSpeaker + s.FalarmSpeaker + s.SpeakerError
}

// DER returns the diarization error rate as a fraction of scored speaker
// time, or 0 when nothing was scored.
func (s Stats) DER() float64 {
	if s.ScoredSpeaker == 0 {
		return 0
	}
	return s.ErrorTime() / s.ScoredSpeaker
}

// Accumulate computes the speech and speaker error statistics of the given
// sub-segments under mapping. Time and eval fields are left for the caller.
func Accumulate(subsegments []SubSegment, mapping Mapping) Stats {
	var st Stats
	for _, seg := range subsegments {
		d := seg.Duration()
		nRef, nSys := len(seg.Ref), len(seg.Sys)

		if nRef > 0 {
			st.ScoredSpeech += d
		}
		if nRef > 0 && nSys == 0 {
			st.MissedSpeech += d
		}
		if nSys > 0 && nRef == 0 {
			st.FalarmSpeech += d
		}

		st.ScoredSpeaker += d * float64(nRef)
		st.MissedSpeaker += d * float64(max(nRef-nSys, 0))
		st.FalarmSpeaker += d * float64(max(nSys-nRef, 0))
		st.SpeakerError += d * float64(min(nRef, nSys)-mappedCount(seg, mapping))
	}
	return st
}

// mappedCount counts active reference speakers whose mapped system speaker is
// active too. It never exceeds min(len(Ref), len(Sys)) because the mapping is
// one-to-one.
func mappedCount(seg SubSegment, mapping Mapping) int {
	n := 0
	for _, r := range seg.Ref {
		s, ok := mapping[r]
		if !ok {
			continue
		}
		if _, found := slices.BinarySearch(seg.Sys, s); found {
			n++
		}
	}
	return n
}

func speechTime(subsegments []SubSegment) float64 {
	var total float64
	for _, seg := range subsegments {
		if len(seg.Ref) > 0 {
			total += seg.Duration()
		}
	}
	return total
}

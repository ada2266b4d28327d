package scoring

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"mdeval/internal/interval"
)

// Segment is one annotated stretch of speech for a single speaker.
type Segment struct {
	Begin    float64 `json:"begin"`
	Duration float64 `json:"duration"`
}

// End returns Begin + Duration.
func (s Segment) End() float64 {
	return s.Begin + s.Duration
}

// Speakers groups segments by speaker label.
type Speakers map[string][]Segment

// Labels returns the speaker labels in sorted order.
func (sp Speakers) Labels() []string {
	labels := make([]string, 0, len(sp))
	for label := range sp {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}

// SubSegment is a maximal stretch of scored time during which the sets of
// active reference and system speakers do not change. Ref and Sys are sorted.
type SubSegment struct {
	Span interval.Interval
	Ref  []string
	Sys  []string
}

// Duration returns the length of the sub-segment.
func (s SubSegment) Duration() float64 {
	return s.Span.Duration()
}

// Mapping assigns reference speakers to at most one system speaker each.
type Mapping map[string]string

// Options controls how the evaluation mask is narrowed before scoring.
type Options struct {
	// Collar excludes this many seconds on each side of every reference
	// segment boundary. Zero disables the collar.
	Collar float64 `json:"collar"`
	// IgnoreOverlap removes regions where two or more reference speakers are
	// active at once.
	IgnoreOverlap bool `json:"ignore_overlap"`
}

// Validate rejects options the engine does not accept.
func (o Options) Validate() error {
	if math.IsNaN(o.Collar) || math.IsInf(o.Collar, 0) {
		return errors.New("collar must be a finite number")
	}
	if o.Collar < 0 {
		return fmt.Errorf("collar must be non-negative, got %v", o.Collar)
	}
	return nil
}

// Input is everything needed to score one file/channel.
type Input struct {
	Ref  Speakers
	Sys  Speakers
	Mask []interval.Interval
	// InferMask replaces Mask with the extent of the reference annotation.
	InferMask bool
}

// Result carries the statistics of one scoring call and the speaker mapping it
// resolved.
type Result struct {
	Stats      Stats               `json:"stats"`
	Mapping    Mapping             `json:"mapping"`
	EvalMask   []interval.Interval `json:"eval_mask"`
	ScoredMask []interval.Interval `json:"scored_mask"`
}

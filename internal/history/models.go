package history

import (
	"time"

	"mdeval/internal/evaluation"
	"mdeval/internal/fileutil"
	"mdeval/internal/scoring"
)

// UnitRecord is the archived result of one file/channel pair.
type UnitRecord struct {
	File       string          `json:"file"`
	Channel    string          `json:"channel"`
	MaskSource string          `json:"mask_source"`
	Stats      scoring.Stats   `json:"stats"`
	Mapping    scoring.Mapping `json:"mapping"`
}

// Run is one archived scoring invocation. Units is only populated by Get.
type Run struct {
	ID            string               `json:"id"`
	CreatedAt     time.Time            `json:"created_at"`
	Condition     string               `json:"condition"`
	Ref           fileutil.Fingerprint `json:"ref"`
	Sys           fileutil.Fingerprint `json:"sys"`
	UEM           fileutil.Fingerprint `json:"uem"`
	Collar        float64              `json:"collar"`
	IgnoreOverlap bool                 `json:"ignore_overlap"`
	UnitCount     int                  `json:"unit_count"`
	Skipped       int                  `json:"skipped"`
	Total         scoring.Stats        `json:"total"`
	Units         []UnitRecord         `json:"units,omitempty"`
}

// DER returns the overall error rate of the run.
func (r Run) DER() float64 {
	return r.Total.DER()
}

// HasUEM reports whether the run was scored against an evaluation partition.
func (r Run) HasUEM() bool {
	return r.UEM.Path != ""
}

// FromOutcome builds an unsaved Run from an evaluation outcome. uem may be
// the zero Fingerprint when no partition was supplied.
func FromOutcome(condition string, ref, sys, uem fileutil.Fingerprint, outcome *evaluation.Outcome) Run {
	run := Run{
		Condition:     condition,
		Ref:           ref,
		Sys:           sys,
		UEM:           uem,
		Collar:        outcome.Options.Scoring.Collar,
		IgnoreOverlap: outcome.Options.Scoring.IgnoreOverlap,
		UnitCount:     len(outcome.Units),
		Skipped:       len(outcome.Skips),
		Total:         outcome.Total,
		Units:         make([]UnitRecord, 0, len(outcome.Units)),
	}
	for _, unit := range outcome.Units {
		run.Units = append(run.Units, UnitRecord{
			File:       unit.File,
			Channel:    unit.Channel,
			MaskSource: unit.MaskSource,
			Stats:      unit.Result.Stats,
			Mapping:    unit.Result.Mapping,
		})
	}
	return run
}

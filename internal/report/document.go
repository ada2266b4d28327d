package report

import (
	"mdeval/internal/evaluation"
	"mdeval/internal/scoring"
)

// Summary pairs statistics with their derived error rate.
type Summary struct {
	scoring.Stats
	DER float64 `json:"der"`
}

// FileEntry is the per file/channel section of a Doc.
type FileEntry struct {
	File       string          `json:"file"`
	Channel    string          `json:"channel"`
	MaskSource string          `json:"mask_source"`
	Summary    Summary         `json:"summary"`
	Mapping    scoring.Mapping `json:"mapping"`
}

// Doc is the machine readable form of a scoring run.
type Doc struct {
	Condition     string            `json:"condition"`
	Collar        float64           `json:"collar"`
	IgnoreOverlap bool              `json:"ignore_overlap"`
	Total         Summary           `json:"total"`
	Files         []FileEntry       `json:"files"`
	Skipped       []evaluation.Skip `json:"skipped"`
}

// Summarize attaches the DER to stats.
func Summarize(stats scoring.Stats) Summary {
	return Summary{Stats: stats, DER: stats.DER()}
}

// Document builds the JSON report for outcome. Slices are never nil so that
// consumers always see arrays.
func Document(condition string, outcome *evaluation.Outcome) Doc {
	if condition == "" {
		condition = DefaultCondition
	}
	doc := Doc{
		Condition:     condition,
		Collar:        outcome.Options.Scoring.Collar,
		IgnoreOverlap: outcome.Options.Scoring.IgnoreOverlap,
		Total:         Summarize(outcome.Total),
		Files:         make([]FileEntry, 0, len(outcome.Units)),
		Skipped:       make([]evaluation.Skip, 0, len(outcome.Skips)),
	}
	for _, unit := range outcome.Units {
		mapping := unit.Result.Mapping
		if mapping == nil {
			mapping = scoring.Mapping{}
		}
		doc.Files = append(doc.Files, FileEntry{
			File:       unit.File,
			Channel:    unit.Channel,
			MaskSource: unit.MaskSource,
			Summary:    Summarize(unit.Result.Stats),
			Mapping:    mapping,
		})
	}
	doc.Skipped = append(doc.Skipped, outcome.Skips...)
	return doc
}

package preflight

import (
	"errors"
	"fmt"
	"path/filepath"

	"mdeval/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Input names one file the score command is about to read.
type Input struct {
	Name string
	Path string
}

// RunAll checks every input file and, when run archiving is enabled, the
// history database location.
func RunAll(cfg *config.Config, inputs []Input) []Result {
	results := make([]Result, 0, len(inputs)+1)
	for _, in := range inputs {
		results = append(results, CheckReadableFile(in.Name, in.Path))
	}
	if cfg != nil && cfg.History.Enabled {
		results = append(results, CheckWritableLocation("History directory", filepath.Dir(cfg.History.Path)))
	}
	return results
}

// Failed joins the details of every failed result, or returns nil.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}

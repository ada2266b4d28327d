package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"mdeval/internal/interval"
	"mdeval/internal/logging"
	"mdeval/internal/rttm"
	"mdeval/internal/scoring"
)

// Mask sources recorded on each Unit.
const (
	MaskFromUEM      = "uem"
	MaskFromInferred = "inferred"
)

// Skip reasons.
const (
	SkipMissingFile    = "file missing from system output"
	SkipMissingChannel = "channel missing from system output"
)

// Options configures a Runner.
type Options struct {
	Scoring scoring.Options
	// Workers bounds concurrent scoring calls; zero or less uses every CPU.
	Workers int
}

// Unit is the scored result of one reference file/channel pair.
type Unit struct {
	File       string         `json:"file"`
	Channel    string         `json:"channel"`
	MaskSource string         `json:"mask_source"`
	Result     scoring.Result `json:"result"`
}

// Skip records a reference file/channel pair that could not be scored.
type Skip struct {
	File    string `json:"file"`
	Channel string `json:"channel,omitempty"`
	Reason  string `json:"reason"`
}

// Outcome collects every scored unit in (file, channel) order, the summed
// statistics and the pairs that were skipped.
type Outcome struct {
	Options Options
	Units   []Unit
	Total   scoring.Stats
	Skips   []Skip
}

// Runner scores every file/channel of a reference annotation against a
// system annotation.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner validates opts and returns a Runner.
func NewRunner(opts Options, logger *slog.Logger) (*Runner, error) {
	if err := opts.Scoring.Validate(); err != nil {
		return nil, fmt.Errorf("scoring options: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "evaluation"),
	}, nil
}

type job struct {
	index int
	file  string
	ch    string
	input scoring.Input
	src   string
}

// Run scores every reference file (sorted) and channel (sorted). A file or
// channel absent from sys is logged and recorded as a Skip. The UEM mask is
// used when uem covers the pair, otherwise the mask is inferred from the
// reference extent. uem may be nil.
func (r *Runner) Run(ctx context.Context, ref, sys *rttm.Annotations, uem rttm.Partition) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", err)
	}
	start := time.Now()
	out := &Outcome{Options: r.opts}
	jobs := r.plan(ctx, ref, sys, uem, out)
	units := make([]Unit, len(jobs))

	workers := min(r.opts.Workers, len(jobs))
	queue := make(chan job)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				units[j.index] = r.score(ctx, j)
			}
		}()
	}

	var cancelled error
send:
	for _, j := range jobs {
		select {
		case queue <- j:
		case <-ctx.Done():
			cancelled = ctx.Err()
			break send
		}
	}
	close(queue)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("evaluation cancelled: %w", cancelled)
	}

	out.Units = units
	for _, u := range units {
		out.Total = out.Total.Add(u.Result.Stats)
	}
	r.logger.Debug("evaluation complete",
		logging.Int("units", len(units)),
		logging.Int("skipped", len(out.Skips)),
		logging.Float64("der", out.Total.DER()),
		logging.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (r *Runner) plan(ctx context.Context, ref, sys *rttm.Annotations, uem rttm.Partition, out *Outcome) []job {
	var jobs []job
	for _, file := range ref.Files() {
		if !sys.HasFile(file) {
			r.skip(ctx, out, Skip{File: file, Reason: SkipMissingFile}, "missing_system_file")
			continue
		}
		for _, ch := range ref.Channels(file) {
			if !sys.HasChannel(file, ch) {
				r.skip(ctx, out, Skip{File: file, Channel: ch, Reason: SkipMissingChannel}, "missing_system_channel")
				continue
			}
			input := scoring.Input{Ref: ref.Speakers(file, ch), Sys: sys.Speakers(file, ch)}
			src := MaskFromInferred
			if mask, ok := uem.Mask(file, ch); ok {
				input.Mask = mask
				src = MaskFromUEM
			} else {
				input.InferMask = true
			}
			jobs = append(jobs, job{index: len(jobs), file: file, ch: ch, input: input, src: src})
		}
	}
	return jobs
}

func (r *Runner) skip(ctx context.Context, out *Outcome, s Skip, eventType string) {
	out.Skips = append(out.Skips, s)
	logger := logging.WithContext(logging.WithUnit(ctx, s.File, s.Channel), r.logger)
	logging.WarnWithContext(logger, "reference input has no system counterpart; skipping", eventType,
		logging.String(logging.FieldErrorHint, "check that the system RTTM covers every reference file and channel"),
		logging.String(logging.FieldImpact, "pair excluded from totals"),
	)
}

func (r *Runner) score(ctx context.Context, j job) Unit {
	res := scoring.Score(j.input, r.opts.Scoring)
	logger := logging.WithContext(logging.WithUnit(ctx, j.file, j.ch), r.logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		excluded := interval.Total(res.EvalMask) - interval.Total(res.ScoredMask)
		logger.Debug("scored",
			logging.String("mask_source", j.src),
			logging.Float64("excluded_seconds", excluded),
			logging.Int("mapped_speakers", len(res.Mapping)),
			logging.Float64("der", res.Stats.DER()),
		)
	}
	return Unit{File: j.file, Channel: j.ch, MaskSource: j.src, Result: res}
}

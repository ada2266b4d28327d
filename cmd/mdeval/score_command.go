package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"mdeval/internal/config"
	"mdeval/internal/evaluation"
	"mdeval/internal/fileutil"
	"mdeval/internal/history"
	"mdeval/internal/logging"
	"mdeval/internal/preflight"
	"mdeval/internal/report"
	"mdeval/internal/rttm"
)

type scoreFlags struct {
	ref           string
	sys           string
	uem           string
	collar        float64
	singleSpeaker bool
	format        string
	condition     string
	record        bool
	workers       int
}

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var flags scoreFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a system RTTM against a reference RTTM",
		Long: `Score computes the diarization error rate of a system speaker segmentation
against a reference one. Files or channels missing from the system output are
reported and excluded from the totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyScoreFlags(cmd, cfg, flags); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			return runScore(cmd, cfg, flags, logger)
		},
	}

	cmd.Flags().StringVarP(&flags.ref, "ref", "r", "", "Reference RTTM file")
	cmd.Flags().StringVarP(&flags.sys, "sys", "s", "", "System RTTM file")
	cmd.Flags().StringVarP(&flags.uem, "uem", "u", "", "UEM file (evaluation partition)")
	cmd.Flags().Float64VarP(&flags.collar, "collar", "c", 0, "No-score collar around reference boundaries (seconds)")
	cmd.Flags().BoolVarP(&flags.singleSpeaker, "single-speaker", "1", false, "Limit scoring to single-speaker regions")
	cmd.Flags().StringVar(&flags.format, "format", "", "Report format: text, table, or json")
	cmd.Flags().StringVar(&flags.condition, "condition", "", "Condition label printed in the report")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Archive this run in the history database")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "File/channel pairs scored in parallel (0 = all CPUs)")
	_ = cmd.MarkFlagRequired("ref")
	_ = cmd.MarkFlagRequired("sys")
	return cmd
}

// applyScoreFlags layers explicitly set flags over the loaded configuration.
func applyScoreFlags(cmd *cobra.Command, cfg *config.Config, flags scoreFlags) error {
	changed := cmd.Flags().Changed
	if changed("collar") {
		cfg.Scoring.Collar = flags.collar
	}
	if changed("single-speaker") {
		cfg.Scoring.IgnoreOverlap = flags.singleSpeaker
	}
	if changed("workers") {
		cfg.Scoring.Workers = flags.workers
	}
	if changed("format") {
		cfg.Report.Format = strings.ToLower(strings.TrimSpace(flags.format))
	}
	if changed("condition") && strings.TrimSpace(flags.condition) != "" {
		cfg.Report.Condition = strings.TrimSpace(flags.condition)
	}
	if changed("record") {
		cfg.History.Enabled = flags.record
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func runScore(cmd *cobra.Command, cfg *config.Config, flags scoreFlags, logger *slog.Logger) error {
	inputs := []preflight.Input{
		{Name: "Reference RTTM", Path: flags.ref},
		{Name: "System RTTM", Path: flags.sys},
	}
	if flags.uem != "" {
		inputs = append(inputs, preflight.Input{Name: "UEM", Path: flags.uem})
	}
	if err := preflight.Failed(preflight.RunAll(cfg, inputs)); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	ref, err := rttm.LoadRTTM(flags.ref)
	if err != nil {
		return fmt.Errorf("load reference: %w", err)
	}
	sys, err := rttm.LoadRTTM(flags.sys)
	if err != nil {
		return fmt.Errorf("load system output: %w", err)
	}
	var uem rttm.Partition
	if flags.uem != "" {
		if uem, err = rttm.LoadUEM(flags.uem); err != nil {
			return fmt.Errorf("load uem: %w", err)
		}
	}
	if ref.Ignored > 0 {
		logger.Debug("ignored non-speaker reference records", logging.Int("count", ref.Ignored))
	}

	logger.Debug("scoring inputs",
		logging.String("ref", flags.ref),
		logging.String("sys", flags.sys),
		logging.Bool("uem", flags.uem != ""),
		logging.Float64("collar", cfg.Scoring.Collar),
		logging.Bool("ignore_overlap", cfg.Scoring.IgnoreOverlap),
		logging.Int("workers", cfg.Scoring.Workers),
	)

	runner, err := evaluation.NewRunner(evaluation.Options{
		Scoring: cfg.ScoringOptions(),
		Workers: cfg.Scoring.Workers,
	}, logger)
	if err != nil {
		return err
	}
	outcome, err := runner.Run(cmd.Context(), ref, sys, uem)
	if err != nil {
		return err
	}
	if len(outcome.Units) == 0 && len(outcome.Skips) > 0 {
		logging.WarnWithContext(logger, "no reference file/channel had system output", "nothing_scored",
			logging.String(logging.FieldImpact, "report totals are zero"),
		)
	}

	if err := writeScoreReport(cmd, cfg, outcome); err != nil {
		return err
	}

	if !cfg.History.Enabled {
		return nil
	}
	run, err := recordRun(cmd, cfg, flags, outcome)
	if err != nil {
		logger.Error("run archive failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the report above is complete; rerun with --record to retry"),
		)
		return err
	}
	logging.WithContext(logging.WithRunID(cmd.Context(), run.ID), logger).Info("run archived",
		logging.String("path", cfg.History.Path),
	)
	fmt.Fprintf(cmd.ErrOrStderr(), "Recorded run %s\n", run.ID)
	return nil
}

func writeScoreReport(cmd *cobra.Command, cfg *config.Config, outcome *evaluation.Outcome) error {
	out := cmd.OutOrStdout()
	condition := cfg.Report.Condition

	switch cfg.Report.Format {
	case config.FormatJSON:
		return writeJSON(cmd, report.Document(condition, outcome))
	case config.FormatTable:
		fmt.Fprintln(out, report.RenderFileTable(outcome))
		for _, skip := range outcome.Skips {
			fmt.Fprintf(out, "Skipped %s: %s\n", skipLabel(skip), skip.Reason)
		}
		return writeDERLine(cmd, condition, outcome)
	case config.FormatText:
		var buf bytes.Buffer
		if err := report.WriteText(&buf, condition, outcome.Total); err != nil {
			return err
		}
		text := buf.String()
		if shouldColorize(out) {
			text = highlightLine(text, report.DERLine(condition, outcome.Total), derColor(outcome.Total.DER()))
		}
		_, err := fmt.Fprint(out, text)
		return err
	default:
		return errors.New("unsupported report format " + cfg.Report.Format)
	}
}

func writeDERLine(cmd *cobra.Command, condition string, outcome *evaluation.Outcome) error {
	out := cmd.OutOrStdout()
	line := report.DERLine(condition, outcome.Total)
	if shouldColorize(out) {
		line = derColor(outcome.Total.DER()) + line + ansiReset
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

func skipLabel(skip evaluation.Skip) string {
	if skip.Channel == "" {
		return skip.File
	}
	return skip.File + "/" + skip.Channel
}

func recordRun(cmd *cobra.Command, cfg *config.Config, flags scoreFlags, outcome *evaluation.Outcome) (history.Run, error) {
	ref, err := fileutil.Digest(flags.ref)
	if err != nil {
		return history.Run{}, fmt.Errorf("fingerprint reference: %w", err)
	}
	sys, err := fileutil.Digest(flags.sys)
	if err != nil {
		return history.Run{}, fmt.Errorf("fingerprint system output: %w", err)
	}
	var uem fileutil.Fingerprint
	if flags.uem != "" {
		if uem, err = fileutil.Digest(flags.uem); err != nil {
			return history.Run{}, fmt.Errorf("fingerprint uem: %w", err)
		}
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return history.Run{}, fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	run, err := store.Record(cmd.Context(), history.FromOutcome(cfg.Report.Condition, ref, sys, uem, outcome))
	if err != nil {
		return history.Run{}, err
	}
	return run, nil
}

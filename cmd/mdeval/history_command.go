package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mdeval/internal/fileutil"
	"mdeval/internal/history"
	"mdeval/internal/report"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect archived scoring runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(runColumns(), runRows(runs)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one archived run with its per-file results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.Get(cmd.Context(), strings.TrimSpace(args[0]))
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, run)
			}
			return printRun(cmd, run)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", cfg.History.Path, err)
	}
	return store, nil
}

func runColumns() []column {
	return []column{
		{title: "ID"},
		{title: "Created"},
		{title: "Condition"},
		{title: "Units", right: true},
		{title: "Skipped", right: true},
		{title: "Collar", right: true},
		{title: "DER %", right: true},
	}
}

func runRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.CreatedAt.Local().Format(historyTimeLayout),
			run.Condition,
			strconv.Itoa(run.UnitCount),
			strconv.Itoa(run.Skipped),
			strconv.FormatFloat(run.Collar, 'f', 2, 64),
			fmt.Sprintf("%.2f", run.DER()*100),
		})
	}
	return rows
}

func printRun(cmd *cobra.Command, run *history.Run) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", run.ID)
	fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Reference:  %s\n", describeInput(run.Ref))
	fmt.Fprintf(out, "System:     %s\n", describeInput(run.Sys))
	if run.HasUEM() {
		fmt.Fprintf(out, "UEM:        %s\n", describeInput(run.UEM))
	} else {
		fmt.Fprintln(out, "UEM:        none (inferred from reference)")
	}
	fmt.Fprintf(out, "Collar:     %.2fs\n", run.Collar)
	fmt.Fprintf(out, "Single-speaker only: %s\n", yesNo(run.IgnoreOverlap))
	fmt.Fprintf(out, "Units:      %d scored, %d skipped\n", run.UnitCount, run.Skipped)
	fmt.Fprintln(out)

	condition := run.Condition
	if condition == "" {
		condition = report.DefaultCondition
	}
	if err := report.WriteText(out, condition, run.Total); err != nil {
		return err
	}
	if len(run.Units) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(unitColumns(), unitRows(run.Units)))
	return nil
}

func unitColumns() []column {
	return []column{
		{title: "File"},
		{title: "Channel"},
		{title: "Mask"},
		{title: "Scored (s)", right: true},
		{title: "Miss (s)", right: true},
		{title: "False Alarm (s)", right: true},
		{title: "Speaker Error (s)", right: true},
		{title: "DER %", right: true},
	}
}

func unitRows(units []history.UnitRecord) [][]string {
	rows := make([][]string, 0, len(units))
	for _, unit := range units {
		s := unit.Stats
		rows = append(rows, []string{
			unit.File,
			unit.Channel,
			unit.MaskSource,
			fmt.Sprintf("%.2f", s.ScoredSpeaker),
			fmt.Sprintf("%.2f", s.MissedSpeaker),
			fmt.Sprintf("%.2f", s.FalarmSpeaker),
			fmt.Sprintf("%.2f", s.SpeakerError),
			fmt.Sprintf("%.2f", s.DER()*100),
		})
	}
	return rows
}

func describeInput(fp fileutil.Fingerprint) string {
	return fmt.Sprintf("%s (%s, %d bytes)", fp.Path, shortDigest(fp.SHA256), fp.Size)
}

func shortDigest(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

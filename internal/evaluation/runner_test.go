package evaluation_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"mdeval/internal/evaluation"
	"mdeval/internal/logging"
	"mdeval/internal/rttm"
	"mdeval/internal/scoring"
	"mdeval/internal/testsupport"
)

func parse(t *testing.T, turns ...testsupport.Turn) *rttm.Annotations {
	t.Helper()
	ann, err := rttm.ParseRTTM(strings.NewReader(testsupport.RTTM(turns...)))
	if err != nil {
		t.Fatalf("ParseRTTM: %v", err)
	}
	return ann
}

func newRunner(t *testing.T, opts evaluation.Options) *evaluation.Runner {
	t.Helper()
	runner, err := evaluation.NewRunner(opts, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRunSkipsMissingSystemInputs(t *testing.T) {
	ref := parse(t,
		testsupport.Turn{File: "file1", Channel: "1", Begin: 0, Duration: 5, Speaker: "a"},
		testsupport.Turn{File: "file1", Channel: "2", Begin: 0, Duration: 5, Speaker: "a"},
		testsupport.Turn{File: "file2", Channel: "1", Begin: 0, Duration: 5, Speaker: "b"},
	)
	sys := parse(t,
		testsupport.Turn{File: "file1", Channel: "1", Begin: 0, Duration: 5, Speaker: "x"},
		testsupport.Turn{File: "file3", Channel: "1", Begin: 0, Duration: 5, Speaker: "y"},
	)

	out, err := newRunner(t, evaluation.Options{}).Run(context.Background(), ref, sys, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(out.Units) != 1 || out.Units[0].File != "file1" || out.Units[0].Channel != "1" {
		t.Fatalf("unexpected units: %+v", out.Units)
	}
	want := []evaluation.Skip{
		{File: "file1", Channel: "2", Reason: evaluation.SkipMissingChannel},
		{File: "file2", Reason: evaluation.SkipMissingFile},
	}
	if len(out.Skips) != len(want) {
		t.Fatalf("skips = %+v, want %+v", out.Skips, want)
	}
	for i := range want {
		if out.Skips[i] != want[i] {
			t.Fatalf("skip %d = %+v, want %+v", i, out.Skips[i], want[i])
		}
	}
	if out.Total.DER() != 0 {
		t.Fatalf("expected perfect score for the scored pair, got %v", out.Total.DER())
	}
}

func TestRunUsesUEMWhenPresent(t *testing.T) {
	ref := parse(t,
		testsupport.Turn{File: "file1", Begin: 2, Duration: 8, Speaker: "a"},
		testsupport.Turn{File: "file2", Begin: 1, Duration: 3, Speaker: "a"},
	)
	sys := parse(t,
		testsupport.Turn{File: "file1", Begin: 2, Duration: 8, Speaker: "x"},
		testsupport.Turn{File: "file2", Begin: 1, Duration: 3, Speaker: "x"},
	)
	uem, err := rttm.ParseUEM(strings.NewReader(testsupport.UEM(testsupport.Range{File: "file1", Begin: 0, End: 20})))
	if err != nil {
		t.Fatalf("ParseUEM: %v", err)
	}

	out, err := newRunner(t, evaluation.Options{Workers: 2}).Run(context.Background(), ref, sys, uem)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(out.Units) != 2 {
		t.Fatalf("expected two units, got %d", len(out.Units))
	}

	first, second := out.Units[0], out.Units[1]
	if first.MaskSource != evaluation.MaskFromUEM || !closeTo(first.Result.Stats.EvalTime, 20) {
		t.Fatalf("file1 should use the UEM mask: %+v", first)
	}
	if second.MaskSource != evaluation.MaskFromInferred || !closeTo(second.Result.Stats.EvalTime, 3) {
		t.Fatalf("file2 should infer its mask: %+v", second)
	}
	if !closeTo(out.Total.EvalTime, 23) || !closeTo(out.Total.EvalSpeech, 11) {
		t.Fatalf("unexpected totals: %+v", out.Total)
	}
}

func TestRunTotalsAreAdditiveAndOrdered(t *testing.T) {
	var refTurns, sysTurns []testsupport.Turn
	files := []string{"rec-c", "rec-a", "rec-b", "rec-d"}
	for i, file := range files {
		offset := float64(i)
		refTurns = append(refTurns,
			testsupport.Turn{File: file, Begin: 0, Duration: 4 + offset, Speaker: "a"},
			testsupport.Turn{File: file, Begin: 4 + offset, Duration: 3, Speaker: "b"},
		)
		sysTurns = append(sysTurns,
			testsupport.Turn{File: file, Begin: 0.5, Duration: 4 + offset, Speaker: "s1"},
			testsupport.Turn{File: file, Begin: 5 + offset, Duration: 3, Speaker: "s2"},
		)
	}
	ref, sys := parse(t, refTurns...), parse(t, sysTurns...)
	opts := scoring.Options{Collar: 0.25}

	serial, err := newRunner(t, evaluation.Options{Scoring: opts, Workers: 1}).Run(context.Background(), ref, sys, nil)
	if err != nil {
		t.Fatalf("serial Run: %v", err)
	}
	parallel, err := newRunner(t, evaluation.Options{Scoring: opts, Workers: 4}).Run(context.Background(), ref, sys, nil)
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}

	wantOrder := []string{"rec-a", "rec-b", "rec-c", "rec-d"}
	var sum scoring.Stats
	for i, unit := range parallel.Units {
		if unit.File != wantOrder[i] {
			t.Fatalf("unit %d is %s, want %s", i, unit.File, wantOrder[i])
		}
		if unit.Result.Stats != serial.Units[i].Result.Stats {
			t.Fatalf("unit %s differs between worker counts", unit.File)
		}
		sum = sum.Add(unit.Result.Stats)
	}
	if sum != parallel.Total {
		t.Fatalf("total %+v is not the sum of units %+v", parallel.Total, sum)
	}
	if parallel.Total.DER() <= 0 {
		t.Fatalf("expected shifted system output to produce errors, got DER %v", parallel.Total.DER())
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ref := parse(t, testsupport.Turn{File: "file1", Begin: 0, Duration: 1, Speaker: "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(t, evaluation.Options{}).Run(ctx, ref, ref, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRunnerRejectsInvalidOptions(t *testing.T) {
	if _, err := evaluation.NewRunner(evaluation.Options{Scoring: scoring.Options{Collar: -1}}, nil); err == nil {
		t.Fatal("expected negative collar to be rejected")
	}
}

func TestRunEmptyReference(t *testing.T) {
	empty := parse(t)
	out, err := newRunner(t, evaluation.Options{}).Run(context.Background(), empty, empty, nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(out.Units) != 0 || len(out.Skips) != 0 || out.Total != (scoring.Stats{}) {
		t.Fatalf("expected empty outcome, got %+v", out)
	}
}

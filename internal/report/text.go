package report

import (
	"bufio"
	"fmt"
	"io"

	"mdeval/internal/scoring"
)

// DefaultCondition labels a report that covers every scored pair.
const DefaultCondition = "ALL"

const rule = "---------------------------------------------"

// Percent returns 100*num/den, or 0 when den is 0.
func Percent(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return 100 * num / den
}

// WriteText writes the md-eval performance block for stats to w.
func WriteText(w io.Writer, condition string, stats scoring.Stats) error {
	if condition == "" {
		condition = DefaultCondition
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\n*** Performance analysis for Speaker Diarization for %s ***\n\n", condition)
	fmt.Fprintf(bw, "    EVAL TIME = %10.2f secs\n", stats.EvalTime)
	fmt.Fprintf(bw, "  EVAL SPEECH = %10.2f secs (%5.1f percent of evaluated time)\n",
		stats.EvalSpeech, Percent(stats.EvalSpeech, stats.EvalTime))
	fmt.Fprintf(bw, "  SCORED TIME = %10.2f secs (%5.1f percent of evaluated time)\n",
		stats.ScoredTime, Percent(stats.ScoredTime, stats.EvalTime))
	fmt.Fprintf(bw, "SCORED SPEECH = %10.2f secs (%5.1f percent of scored time)\n",
		stats.ScoredSpeech, Percent(stats.ScoredSpeech, stats.ScoredTime))
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "MISSED SPEECH = %10.2f secs (%5.1f percent of scored time)\n",
		stats.MissedSpeech, Percent(stats.MissedSpeech, stats.ScoredTime))
	fmt.Fprintf(bw, "FALARM SPEECH = %10.2f secs (%5.1f percent of scored time)\n",
		stats.FalarmSpeech, Percent(stats.FalarmSpeech, stats.ScoredTime))
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "SCORED SPEAKER TIME = %10.2f secs (%5.1f percent of scored speech)\n",
		stats.ScoredSpeaker, Percent(stats.ScoredSpeaker, stats.ScoredSpeech))
	fmt.Fprintf(bw, "MISSED SPEAKER TIME = %10.2f secs (%5.1f percent of scored speaker time)\n",
		stats.MissedSpeaker, Percent(stats.MissedSpeaker, stats.ScoredSpeaker))
	fmt.Fprintf(bw, "FALARM SPEAKER TIME = %10.2f secs (%5.1f percent of scored speaker time)\n",
		stats.FalarmSpeaker, Percent(stats.FalarmSpeaker, stats.ScoredSpeaker))
	fmt.Fprintf(bw, " SPEAKER ERROR TIME = %10.2f secs (%5.1f percent of scored speaker time)\n",
		stats.SpeakerError, Percent(stats.SpeakerError, stats.ScoredSpeaker))
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw, DERLine(condition, stats))
	fmt.Fprintln(bw, rule)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// DERLine returns the md-eval overall error line without a trailing newline.
func DERLine(condition string, stats scoring.Stats) string {
	return fmt.Sprintf(" OVERALL SPEAKER DIARIZATION ERROR = %5.2f percent of scored speaker time  `(%s)",
		100*stats.DER(), condition)
}

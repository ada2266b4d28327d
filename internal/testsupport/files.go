package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Turn is one speaker turn written as an RTTM SPEAKER line.
type Turn struct {
	File     string
	Channel  string
	Begin    float64
	Duration float64
	Speaker  string
}

// RTTM renders turns as RTTM text.
func RTTM(turns ...Turn) string {
	var b strings.Builder
	for _, turn := range turns {
		channel := turn.Channel
		if channel == "" {
			channel = "1"
		}
		fmt.Fprintf(&b, "SPEAKER %s %s %.3f %.3f <NA> <NA> %s <NA> <NA>\n",
			turn.File, channel, turn.Begin, turn.Duration, turn.Speaker)
	}
	return b.String()
}

// Range is one UEM line.
type Range struct {
	File    string
	Channel string
	Begin   float64
	End     float64
}

// UEM renders ranges as UEM text.
func UEM(ranges ...Range) string {
	var b strings.Builder
	for _, r := range ranges {
		channel := r.Channel
		if channel == "" {
			channel = "1"
		}
		fmt.Fprintf(&b, "%s %s %.3f %.3f\n", r.File, channel, r.Begin, r.End)
	}
	return b.String()
}

// WriteFile writes content to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

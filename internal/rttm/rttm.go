package rttm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"mdeval/internal/scoring"
)

// ErrMalformed marks input lines that cannot be parsed.
var ErrMalformed = errors.New("malformed annotation")

// notAvailable is the RTTM placeholder for an empty field.
const notAvailable = "<NA>"

const (
	typeSpeaker  = "SPEAKER"
	rttmMinField = 9
)

// Record is one SPEAKER line of an RTTM file.
type Record struct {
	File     string
	Channel  string
	Begin    float64
	Duration float64
	Speaker  string
}

// Annotations holds SPEAKER records grouped by file and channel.
type Annotations struct {
	files   map[string]map[string][]Record
	Ignored int
}

// LoadRTTM reads the RTTM file at path.
func LoadRTTM(path string) (*Annotations, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rttm: %w", err)
	}
	defer file.Close()

	ann, err := ParseRTTM(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ann, nil
}

// ParseRTTM reads RTTM lines from r. Blank lines, comments (';' or '#') and
// lines with fewer than nine fields are skipped. Records other than SPEAKER
// are counted in Ignored. A duration of <NA> is read as zero.
func ParseRTTM(r io.Reader) (*Annotations, error) {
	ann := &Annotations{files: map[string]map[string][]Record{}}
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) < rttmMinField {
			return nil
		}
		if fields[0] != typeSpeaker {
			ann.Ignored++
			return nil
		}
		begin, err := parseSeconds(fields[3])
		if err != nil {
			return lineError(lineNo, "begin time %q", fields[3])
		}
		duration := 0.0
		if fields[4] != notAvailable {
			duration, err = parseSeconds(fields[4])
			if err != nil {
				return lineError(lineNo, "duration %q", fields[4])
			}
		}
		if duration < 0 {
			return lineError(lineNo, "negative duration %v", duration)
		}
		ann.add(Record{
			File:     fields[1],
			Channel:  fields[2],
			Begin:    begin,
			Duration: duration,
			Speaker:  fields[7],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ann, nil
}

func (a *Annotations) add(rec Record) {
	channels, ok := a.files[rec.File]
	if !ok {
		channels = map[string][]Record{}
		a.files[rec.File] = channels
	}
	channels[rec.Channel] = append(channels[rec.Channel], rec)
}

// Files returns the file identifiers in sorted order.
func (a *Annotations) Files() []string {
	return slices.Sorted(maps.Keys(a.files))
}

// Channels returns the channels present for file in sorted order.
func (a *Annotations) Channels(file string) []string {
	return slices.Sorted(maps.Keys(a.files[file]))
}

// HasFile reports whether any record names file.
func (a *Annotations) HasFile(file string) bool {
	_, ok := a.files[file]
	return ok
}

// HasChannel reports whether file has records on channel.
func (a *Annotations) HasChannel(file, channel string) bool {
	_, ok := a.files[file][channel]
	return ok
}

// Records returns the records of one file/channel in input order.
func (a *Annotations) Records(file, channel string) []Record {
	return slices.Clone(a.files[file][channel])
}

// Speakers groups the records of one file/channel by speaker label.
func (a *Annotations) Speakers(file, channel string) scoring.Speakers {
	out := scoring.Speakers{}
	for _, rec := range a.files[file][channel] {
		out[rec.Speaker] = append(out[rec.Speaker], scoring.Segment{Begin: rec.Begin, Duration: rec.Duration})
	}
	return out
}

func scanLines(r io.Reader, handle func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if err := handle(lineNo, strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read annotations: %w", err)
	}
	return nil
}

func parseSeconds(value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return v, nil
}

func lineError(lineNo int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: invalid %s", ErrMalformed, lineNo, fmt.Sprintf(format, args...))
}

package rttm

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"mdeval/internal/interval"
)

const uemMinFields = 4

// Partition is an evaluation partition (UEM): scored time ranges per file and
// channel.
type Partition map[string]map[string][]interval.Interval

// LoadUEM reads the UEM file at path.
func LoadUEM(path string) (Partition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open uem: %w", err)
	}
	defer file.Close()

	part, err := ParseUEM(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return part, nil
}

// ParseUEM reads "file channel begin end" lines from r. Comment, blank and
// short lines are skipped; an end before its begin is rejected.
func ParseUEM(r io.Reader) (Partition, error) {
	part := Partition{}
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) < uemMinFields {
			return nil
		}
		begin, err := parseSeconds(fields[2])
		if err != nil {
			return lineError(lineNo, "begin time %q", fields[2])
		}
		end, err := parseSeconds(fields[3])
		if err != nil {
			return lineError(lineNo, "end time %q", fields[3])
		}
		if end < begin {
			return lineError(lineNo, "range %v-%v (end before begin)", begin, end)
		}
		channels, ok := part[fields[0]]
		if !ok {
			channels = map[string][]interval.Interval{}
			part[fields[0]] = channels
		}
		channels[fields[1]] = append(channels[fields[1]], interval.New(begin, end))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}

// Mask returns the sorted, non-overlapping evaluation ranges for file and
// channel. The boolean is false when the partition says nothing about them.
func (p Partition) Mask(file, channel string) ([]interval.Interval, bool) {
	ranges, ok := p[file][channel]
	if !ok {
		return nil, false
	}
	return interval.Merge(ranges), true
}

// Files returns the file identifiers in sorted order.
func (p Partition) Files() []string {
	return slices.Sorted(maps.Keys(p))
}

// Package rttm reads the NIST annotation formats consumed by the scorer:
// RTTM speaker segmentations and UEM evaluation partitions.
//
// Parsing is line oriented and tolerant in the same places md-eval is
// (comments, short lines, <NA> durations) while rejecting numbers it cannot
// read, with the offending line number wrapped in ErrMalformed.
package rttm

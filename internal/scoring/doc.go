// Package scoring computes diarization error statistics for a single
// file/channel following the md-eval scoring rules.
//
// Scoring runs in four steps:
//
//  1. The evaluation mask (explicit or inferred from the reference extent) is
//     narrowed by overlap exclusion and then by the no-score collar.
//  2. Sweep cuts the narrowed mask into sub-segments with constant sets of
//     active reference and system speakers.
//  3. Speaker overlap over those sub-segments feeds the assignment solver,
//     which picks the reference to system mapping with the most shared time.
//  4. Accumulate charges missed, false alarm and speaker confusion time per
//     sub-segment.
//
// Event tie-breaking differs between the sweeps and is load-bearing: the
// collar sweep sorts begins first, every other sweep sorts ends first.
//
// The package is pure: no I/O, no logging and no shared state, so callers may
// score files concurrently.
package scoring

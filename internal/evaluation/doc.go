// Package evaluation runs the scoring engine over every file and channel of a
// reference annotation, applying md-eval's warn-and-skip policy for inputs
// the system never produced, and sums the per-pair statistics.
//
// Pairs are scored concurrently by a bounded worker pool; results are always
// reported in (file, channel) order.
package evaluation

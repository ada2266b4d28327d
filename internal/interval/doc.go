// Package interval provides the time-range value type shared by the scoring
// engine, the annotation readers, and the report layer.
//
// Intervals are plain values: every operation returns a new interval or slice
// and never mutates its inputs. Endpoint comparisons use an absolute tolerance
// so that boundaries produced by floating-point arithmetic still line up.
package interval

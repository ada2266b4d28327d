// Package assignment solves the rectangular linear assignment problem with the
// Kuhn-Munkres (Hungarian) algorithm.
//
// It knows nothing about speakers or time: callers build a cost matrix,
// receive the minimum-cost one-to-one pairing, and translate indices back into
// their own domain. Maximization problems are expressed by negating costs.
package assignment

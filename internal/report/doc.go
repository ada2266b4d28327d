// Package report renders scoring results: the md-eval text block, a per-file
// table and a JSON document. Every ratio is guarded so that empty inputs
// report 0 rather than NaN.
package report

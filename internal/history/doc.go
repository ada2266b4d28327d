// Package history archives scoring runs in a local SQLite database so that
// results can be compared across system versions.
//
// Each run stores the input fingerprints, the scoring options, the summed
// statistics and one row per scored file/channel. Writers hold an exclusive
// flock on "<db>.lock" while recording; the schema is versioned and a
// mismatch is reported as ErrSchemaMismatch.
package history

// Package preflight checks the filesystem before a scoring run starts: every
// annotation file must be readable, and the history directory must be
// writable when run archiving is enabled. Failures are collected so the user
// sees every problem at once.
package preflight

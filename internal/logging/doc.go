// Package logging assembles structured slog loggers for mdeval.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the file/channel being scored or
// the archived run ID. Logs default to stderr; stdout belongs to reports.
package logging

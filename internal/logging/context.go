package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFile is the key for the recording (RTTM file identifier) being scored.
	FieldFile = "file"
	// FieldChannel is the key for the recording channel being scored.
	FieldChannel = "channel"
	// FieldRunID is the key for archived scoring run identifiers.
	FieldRunID = "run_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey int

const (
	unitKey contextKey = iota
	runIDKey
)

type unit struct {
	file    string
	channel string
}

// WithUnit tags ctx with the file/channel pair being scored.
func WithUnit(ctx context.Context, file, channel string) context.Context {
	return context.WithValue(ctx, unitKey, unit{file: file, channel: channel})
}

// WithRunID tags ctx with an archived run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if u, ok := ctx.Value(unitKey).(unit); ok {
		fields = append(fields, slog.String(FieldFile, u.file), slog.String(FieldChannel, u.channel))
	}
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}

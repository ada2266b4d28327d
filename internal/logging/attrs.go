package logging

import (
	"log/slog"
	"time"
)

// Attr is re-exported so callers build fields without importing log/slog.
type Attr = slog.Attr

func Any(key string, value any) Attr                { return slog.Any(key, value) }
func Bool(key string, value bool) Attr              { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }
func Float64(key string, value float64) Attr        { return slog.Float64(key, value) }
func Int(key string, value int) Attr                { return slog.Int(key, value) }
func String(key, value string) Attr                 { return slog.String(key, value) }

// Error attaches err under the "error" key; a nil error is logged as "<nil>".
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that drops everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags every record of logger with component. A nil
// logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// warnDefaults fill in the triage fields a warning did not set itself.
var warnDefaults = []Attr{
	slog.String(FieldErrorHint, "check the input files"),
	slog.String(FieldImpact, "result excludes this input"),
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Fields present in attrs win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	present := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		present[a.Key] = true
	}
	args := make([]any, 0, len(attrs)+len(warnDefaults)+1)
	if !present[FieldEventType] {
		args = append(args, String(FieldEventType, eventType))
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	for _, def := range warnDefaults {
		if !present[def.Key] {
			args = append(args, def)
		}
	}
	logger.Warn(msg, args...)
}

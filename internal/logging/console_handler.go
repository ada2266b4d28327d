package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const logTimestampLayout = "2006-01-02 15:04:05"

// shortRunIDLen is how much of a run ID the console header shows.
const shortRunIDLen = 8

// warningFields are printed ahead of every other field, in this order.
var warningFields = []string{FieldEventType, FieldImpact, FieldErrorHint}

// consoleHandler renders records for people reading a terminal. The header
// names the scoring unit the record is about and the body lists the
// remaining fields:
//
//	2026-01-02 15:04:05 WARN  evaluation file1/1 run 1b2c3d4e: system output missing
//	    event_type: missing_system_file
//	    impact: pair excluded from totals
type consoleHandler struct {
	out       *lockedWriter
	level     slog.Leveler
	addSource bool
	group     string
	preset    []field
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &lockedWriter{w: w}, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = appendFields(append([]field(nil), h.preset...), h.group, attrs)
	return &next
}

// WithGroup qualifies later keys as "group.key".
func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := newFieldSet(h.preset)
	record.Attrs(func(attr slog.Attr) bool {
		for _, f := range appendFields(nil, h.group, []slog.Attr{attr}) {
			fields.set(f.key, f.value)
		}
		return true
	})

	var buf bytes.Buffer
	h.writeHeader(&buf, record, fields)
	for _, key := range warningFields {
		if value, ok := fields.take(key); ok {
			writeField(&buf, key, value)
		}
	}
	for _, f := range fields.rest() {
		writeField(&buf, f.key, f.value)
	}
	return h.out.write(buf.Bytes())
}

func (h *consoleHandler) writeHeader(buf *bytes.Buffer, record slog.Record, fields *fieldSet) {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(buf, "%s %-5s", ts.Local().Format(logTimestampLayout), levelLabel(record.Level))

	if component, ok := fields.take(FieldComponent); ok {
		buf.WriteByte(' ')
		buf.WriteString(attrString(component))
	}
	if unit := unitLabel(fields); unit != "" {
		buf.WriteByte(' ')
		buf.WriteString(unit)
	}
	if runID, ok := fields.take(FieldRunID); ok {
		id := attrString(runID)
		if len(id) > shortRunIDLen {
			id = id[:shortRunIDLen]
		}
		buf.WriteString(" run ")
		buf.WriteString(id)
	}

	buf.WriteString(": ")
	if msg := strings.TrimSpace(record.Message); msg != "" {
		buf.WriteString(msg)
	} else {
		buf.WriteString("(no message)")
	}
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')
}

// unitLabel consumes the file and channel fields and renders them as
// "file/channel", or just the file for file-level records.
func unitLabel(fields *fieldSet) string {
	var file, channel string
	if v, ok := fields.take(FieldFile); ok {
		file = strings.TrimSpace(attrString(v))
	}
	if v, ok := fields.take(FieldChannel); ok {
		channel = strings.TrimSpace(attrString(v))
	}
	if file == "" || channel == "" {
		return file
	}
	return file + "/" + channel
}

func writeField(buf *bytes.Buffer, key string, value slog.Value) {
	buf.WriteString("    ")
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(formatValue(value))
	buf.WriteByte('\n')
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

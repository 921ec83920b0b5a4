package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

// defaultKeyOrder controls the leading keys of every log line so that
// grep-ability stays consistent across components.
var defaultKeyOrder = []string{
	"ts", "level", "component", "event", "status", "rid",
	"handler", "update_id", "chat_id", "user_id",
}

type handlerConfig struct {
	level  slog.Leveler
	writer *asyncWriter
	format logFormat
}

type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.cfg.level.Level()
}

// Handle formats the slog.Record and writes it using the configured writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	fields := make(map[string]any, 16)
	isJSON := h.cfg.format == formatJSON
	ts := r.Time.UTC()
	fields["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	fields["level"] = strings.ToUpper(r.Level.String())
	if isJSON {
		fields["ts_unix_nano"] = ts.UnixNano()
	}

	for _, a := range h.attrs {
		collectAttr(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collectAttr(fields, a)
		return true
	})
	if msg := strings.TrimSpace(r.Message); msg != "" {
		if _, ok := fields["event"]; !ok {
			fields["event"] = msg
		}
	}

	enrichFromContext(fields, ctx)
	compactRIDField(fields, isJSON)

	var line []byte
	if isJSON {
		line = encodeJSON(fields)
	} else {
		line = encodeKV(fields)
	}
	_, err := h.cfg.writer.Write(line)
	return err
}

// WithAttrs returns a handler that includes the provided attributes on every record.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup is accepted but flattened; grouped keys are rare in this codebase.
func (h *structuredHandler) WithGroup(name string) slog.Handler {
	return h
}

func collectAttr(fields map[string]any, a slog.Attr) {
	if a.Key == "" {
		return
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		fields[a.Key] = v.Duration().String()
	case slog.KindTime:
		fields[a.Key] = v.Time().UTC().Format(timeFormatMillis)
	case slog.KindGroup:
		for _, ga := range v.Group() {
			collectAttr(fields, ga)
		}
	default:
		fields[a.Key] = v.Any()
	}
}

func enrichFromContext(fields map[string]any, ctx context.Context) {
	if ctx == nil {
		return
	}
	if _, ok := fields["rid"]; !ok {
		if rid := RIDFrom(ctx); rid != "" {
			fields["rid"] = rid
		}
	}
	if _, ok := fields["handler"]; !ok {
		if handler := HandlerFrom(ctx); handler != "" {
			fields["handler"] = handler
		}
	}
	if _, ok := fields["update_id"]; !ok {
		if id := UpdateIDFrom(ctx); id != 0 {
			fields["update_id"] = id
		}
	}
	if _, ok := fields["user_id"]; !ok {
		if id := UserIDFrom(ctx); id != 0 {
			fields["user_id"] = id
		}
	}
	if _, ok := fields["chat_id"]; !ok {
		if id := ChatIDFrom(ctx); id != 0 {
			fields["chat_id"] = id
		}
	}
}

// compactRIDField shortens rid for readability. JSON output keeps the raw
// value under rid_full for machine correlation.
func compactRIDField(fields map[string]any, isJSON bool) {
	raw, ok := fields["rid"].(string)
	if !ok || raw == "" {
		return
	}
	compact := CompactRID(raw)
	if compact == raw {
		return
	}
	fields["rid"] = compact
	if isJSON {
		fields["rid_full"] = raw
	}
}

func orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range defaultKeyOrder {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func encodeKV(fields map[string]any) []byte {
	var b strings.Builder
	for i, k := range orderedKeys(fields) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

func kvValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\"=") {
			return strconv.Quote(val)
		}
		return val
	case error:
		return strconv.Quote(val.Error())
	default:
		return fmt.Sprintf("%v", val)
	}
}

func encodeJSON(fields map[string]any) []byte {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for _, k := range orderedKeys(fields) {
		data, err := json.Marshal(fields[k])
		if err != nil {
			data, _ = json.Marshal(fmt.Sprintf("%v", fields[k]))
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		keyData, _ := json.Marshal(k)
		b.Write(keyData)
		b.WriteByte(':')
		b.Write(data)
	}
	b.WriteString("}\n")
	return []byte(b.String())
}

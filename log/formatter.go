// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// TextFormatter renders an Entry as a single human-readable line:
// "[time] [LEVEL] [file:line] message {field=value, ...}".
type TextFormatter struct {
	EnableColors    bool
	DisableCaller   bool
	TimestampFormat string
}

// NewTextFormatter builds a TextFormatter, optionally wrapping each line
// in the level's ANSI color.
func NewTextFormatter(enableColors bool) *TextFormatter {
	return &TextFormatter{
		EnableColors:    enableColors,
		TimestampFormat: "2006-01-02 15:04:05.000",
	}
}

func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	var b bytes.Buffer
	if f.EnableColors {
		b.WriteString(entry.Level.Color())
	}

	ts := f.TimestampFormat
	if ts == "" {
		ts = "2006-01-02 15:04:05.000"
	}
	fmt.Fprintf(&b, "[%s] [%-5s] ", entry.Time.Format(ts), entry.Level.String())

	if !f.DisableCaller && entry.Caller != nil {
		fmt.Fprintf(&b, "[%s:%d] ", entry.Caller.File, entry.Caller.Line)
	}

	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		b.WriteString(" ")
		writeFields(&b, entry.Fields)
	}

	if f.EnableColors {
		b.WriteString("\033[0m")
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeFields(b *bytes.Buffer, fields Fields) {
	sorted := sortFields(fields)
	b.WriteString("{")
	for i, field := range sorted {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s=", field.Key)
		writeValue(b, field.Value)
	}
	b.WriteString("}")
}

func writeValue(b *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case string:
		if strings.ContainsAny(v, " \t\r\n\"={},[]") {
			fmt.Fprintf(b, "%q", v)
		} else {
			b.WriteString(v)
		}
	case error:
		if v == nil {
			b.WriteString("null")
		} else {
			fmt.Fprintf(b, "%q", v.Error())
		}
	default:
		fmt.Fprint(b, v)
	}
}

func sortFields(fields Fields) Fields {
	sorted := make(Fields, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

// JSONFormatter renders an Entry as a single-line JSON object, for
// shipping logs to a collector that parses structured fields directly.
type JSONFormatter struct {
	TimestampFormat string
	DisableCaller   bool
}

// NewJSONFormatter builds a JSONFormatter using RFC3339Nano timestamps.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339Nano}
}

func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	ts := f.TimestampFormat
	if ts == "" {
		ts = time.RFC3339Nano
	}

	doc := map[string]interface{}{
		"time":  entry.Time.Format(ts),
		"level": entry.Level.String(),
		"msg":   entry.Message,
	}
	if !f.DisableCaller && entry.Caller != nil {
		doc["caller"] = fmt.Sprintf("%s:%d", entry.Caller.File, entry.Caller.Line)
		doc["function"] = entry.Caller.Function
	}
	for _, field := range entry.Fields {
		doc[field.Key] = field.Value
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("log: failed to marshal entry: %w", err)
	}
	return append(encoded, '\n'), nil
}

// WithLevel sets the logger's minimum severity level.
func WithLevel(level Level) Option {
	return func(cfg *LoggerConfig) { cfg.Level = level }
}

// WithOutput replaces the logger's output destinations with a single writer.
func WithOutput(output io.Writer) Option {
	return func(cfg *LoggerConfig) { cfg.Outputs = []io.Writer{output} }
}

// WithFormatter sets the Formatter the logger renders entries with.
func WithFormatter(formatter Formatter) Option {
	return func(cfg *LoggerConfig) { cfg.Formatter = formatter }
}

// WithColors toggles ANSI colors on the logger's default TextFormatter.
func WithColors(enable bool) Option {
	return func(cfg *LoggerConfig) { cfg.EnableColors = enable }
}

// WithCaller toggles reporting the source line that issued each log call.
func WithCaller(enable bool) Option {
	return func(cfg *LoggerConfig) { cfg.ReportCaller = enable }
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
)

// DefaultLogger is the Logger database/sqldb uses when the caller doesn't
// supply one of its own; manager logs nothing unless given one.
type DefaultLogger struct {
	mu            sync.Mutex
	config        LoggerConfig
	defaultFields Fields
	clock         Clock
}

// NewLogger builds a DefaultLogger. With no options it writes text lines
// to stdout at InfoLevel with no caller info.
func NewLogger(options ...Option) *DefaultLogger {
	cfg := LoggerConfig{
		Level:            InfoLevel,
		Outputs:          []io.Writer{os.Stdout},
		ReportCaller:     false,
		CallerSkipFrames: 3,
		EnableColors:     false,
		ExitFunc:         os.Exit,
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.Formatter == nil {
		cfg.Formatter = NewTextFormatter(cfg.EnableColors)
	}
	return &DefaultLogger{config: cfg, clock: &SystemClock{}}
}

func (l *DefaultLogger) emit(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	cfg := l.config
	merged := make(Fields, 0, len(l.defaultFields)+len(fields))
	merged = append(merged, l.defaultFields...)
	merged = append(merged, fields...)
	l.mu.Unlock()

	if level < cfg.Level {
		return
	}

	entry := &Entry{Time: l.clock.Now(), Level: level, Message: msg, Fields: merged}
	if cfg.ReportCaller {
		entry.Caller = getCaller(cfg.CallerSkipFrames)
	}

	data, err := cfg.Formatter.Format(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: failed to format entry: %v\n", err)
		return
	}
	for _, out := range cfg.Outputs {
		if _, err := out.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "log: failed to write entry: %v\n", err)
		}
	}
	if level == FatalLevel && cfg.ExitFunc != nil {
		cfg.ExitFunc(1)
	}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields...) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields...) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields...) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields...) }
func (l *DefaultLogger) Fatal(msg string, fields ...Field) { l.emit(FatalLevel, msg, fields...) }

// WithField returns a derived logger that always includes key=value.
func (l *DefaultLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a derived logger that always includes fields.
func (l *DefaultLogger) WithFields(fields ...Field) Logger {
	clone := l.clone()
	clone.defaultFields = append(clone.defaultFields, fields...)
	return clone
}

// WithError returns a derived logger carrying err's message as a field,
// or l unchanged if err is nil.
func (l *DefaultLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

func (l *DefaultLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.config.Level
}

func (l *DefaultLogger) SetFormatter(formatter Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Formatter = formatter
}

func (l *DefaultLogger) AddWriter(writer io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Outputs = append(l.config.Outputs, writer)
}

func (l *DefaultLogger) SetOutput(output io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Outputs = []io.Writer{output}
}

func (l *DefaultLogger) clone() *DefaultLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	clone := &DefaultLogger{
		config:        l.config,
		defaultFields: make(Fields, len(l.defaultFields)),
		clock:         l.clock,
	}
	copy(clone.defaultFields, l.defaultFields)
	return clone
}

// getCaller walks the stack skip frames up and reports the qstack source
// line that issued the log call, trimmed to a bare filename.
func getCaller(skip int) *CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return &CallerInfo{File: "unknown", Function: "unknown"}
	}
	funcName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
		if idx := strings.LastIndex(funcName, "."); idx >= 0 {
			funcName = funcName[idx+1:]
		}
	}
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}
	return &CallerInfo{File: file, Line: line, Function: funcName}
}

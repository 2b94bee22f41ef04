// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kerem/qstack/log"
)

// WithFile adds a JSON file configuration source, loaded immediately so
// later options see its values.
func WithFile(path string, optional bool) Option {
	return func(cfg *Config) {
		_ = cfg.LoadFrom(NewFileSource(path, optional))
	}
}

// WithEnv adds an environment-variable configuration source for
// variables named prefix_KEY, loaded immediately.
func WithEnv(prefix string) Option {
	return func(cfg *Config) {
		_ = cfg.LoadFrom(NewEnvSource(prefix))
	}
}

// DatabaseConfig holds the settings sqldb.OpenFromConfig needs to open a
// connection pool.
type DatabaseConfig struct {
	Driver          string        `json:"driver"`
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

// Validate reports whether the database configuration is usable.
func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("database driver cannot be empty")
	}
	if c.DSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}
	return nil
}

// LoggingConfig holds the settings NewLogger uses to build the
// log.Logger passed to sqldb.WithLogger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, fatal, silent.
	Level string `json:"level"`

	// Format is "text" or "json".
	Format string `json:"format"`

	// Output is "stdout", "stderr", or "file" (with FilePath set).
	Output string `json:"output"`

	FilePath     string `json:"file_path"`
	Colors       bool   `json:"colors"`
	ReportCaller bool   `json:"report_caller"`
	TimeFormat   string `json:"time_format"`
}

// Validate reports whether the logging configuration is usable.
func (c *LoggingConfig) Validate() error {
	if c.Output == "file" && c.FilePath == "" {
		return fmt.Errorf("log file path cannot be empty when output is 'file'")
	}
	return nil
}

// GetOutput resolves Output/FilePath to the io.Writer NewLogger should
// write to.
func (c *LoggingConfig) GetOutput() (io.Writer, error) {
	switch c.Output {
	case "stdout", "":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		if c.FilePath == "" {
			return nil, fmt.Errorf("log file path cannot be empty")
		}
		return os.OpenFile(c.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	default:
		return nil, fmt.Errorf("unsupported log output %q", c.Output)
	}
}

// BuildLoggerOptions converts this LoggingConfig into log.Option values
// ready to pass to log.NewLogger.
func (c *LoggingConfig) BuildLoggerOptions() ([]log.Option, error) {
	output, err := c.GetOutput()
	if err != nil {
		return nil, err
	}

	opts := make([]log.Option, 0, 5)
	opts = append(opts, log.WithOutput(output))
	opts = append(opts, log.WithColors(c.Colors))
	opts = append(opts, log.WithCaller(c.ReportCaller))

	if c.Level != "" {
		level, err := parseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		opts = append(opts, log.WithLevel(level))
	}

	formatter, err := c.buildFormatter()
	if err != nil {
		return nil, err
	}
	opts = append(opts, log.WithFormatter(formatter))

	return opts, nil
}

func (c *LoggingConfig) buildFormatter() (log.Formatter, error) {
	switch strings.ToLower(c.Format) {
	case "json":
		jf := log.NewJSONFormatter()
		if c.TimeFormat != "" {
			jf.TimestampFormat = c.TimeFormat
		}
		return jf, nil
	case "", "text":
		tf := log.NewTextFormatter(c.Colors)
		if c.TimeFormat != "" {
			tf.TimestampFormat = c.TimeFormat
		}
		return tf, nil
	default:
		return nil, fmt.Errorf("unsupported log format %q", c.Format)
	}
}

// NewLogger builds a log.Logger from this configuration, ready to pass
// to sqldb.WithLogger or manager.WithLogger.
func (c *LoggingConfig) NewLogger() (log.Logger, error) {
	opts, err := c.BuildLoggerOptions()
	if err != nil {
		return nil, err
	}
	return log.NewLogger(opts...), nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	case "silent":
		return log.SilentLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// AppConfig is the top-level configuration for a qstack-backed
// application: how to reach the database and how to log what it does.
type AppConfig struct {
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`

	// Dialect names the SQL dialect the builder should target
	// (pgsql, mysql, mssql, sqlite, oci). Defaults to Database.Driver
	// when empty.
	Dialect string `json:"dialect"`

	// Debug is decoded from configuration; nothing in this module reads it.
	Debug bool `json:"debug"`
}

// Validate validates every section of the application configuration.
func (c *AppConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// LoadAppConfig loads application configuration from a JSON file,
// layering QSTACK_-prefixed environment variables on top.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := New(
		WithFile(path, false),
		WithEnv("QSTACK"),
	)

	appConfig := &AppConfig{
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute * 5,
			ConnMaxIdleTime: time.Minute * 2,
		},
		Logging: LoggingConfig{
			Level:        "info",
			Format:       "text",
			Output:       "stdout",
			Colors:       true,
			ReportCaller: true,
			TimeFormat:   "2006-01-02 15:04:05.000",
		},
	}

	if err := cfg.GetStruct("", appConfig); err != nil {
		return nil, err
	}

	if err := appConfig.Validate(); err != nil {
		return nil, err
	}

	if appConfig.Dialect == "" {
		appConfig.Dialect = appConfig.Database.Driver
	}

	return appConfig, nil
}

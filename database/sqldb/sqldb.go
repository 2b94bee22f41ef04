// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package sqldb is the database/sql-backed implementation of the
// database.Database contract. It owns the real connection pool and
// driver; every other package in this module talks to the database only
// through the database.Database interface sqldb satisfies.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	_ "github.com/godror/godror"

	"github.com/kerem/qstack/config"
	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/log"
	"github.com/kerem/qstack/platform"
)

// driverDialect maps a database/sql driver name to its Platform dialect.
var driverDialect = map[string]platform.Name{
	"postgres": platform.Pgsql,
	"pgx":      platform.Pgsql,
	"mysql":    platform.Mysql,
	"sqlite3":  platform.Sqlite,
	"sqlserver": platform.Mssql,
	"godror":   platform.Oci,
}

// Option configures a DB at construction time.
type Option func(*DB)

// WithLogger attaches a structured logger; every Query/Execute/Prepare
// call logs at DebugLevel with the rendered SQL, duration and rows.
func WithLogger(logger log.Logger) Option {
	return func(db *DB) { db.logger = logger }
}

// WithContext sets the context used for every blocking call issued
// through this DB.
func WithContext(ctx context.Context) Option {
	return func(db *DB) { db.ctx = ctx }
}

// WithMaxOpenConns caps the number of open connections in the pool.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) { db.sqlDB.SetMaxOpenConns(n) }
}

// WithMaxIdleConns caps the number of idle connections in the pool.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) { db.sqlDB.SetMaxIdleConns(n) }
}

// WithConnMaxLifetime bounds how long a pooled connection may be reused.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(db *DB) { db.sqlDB.SetConnMaxLifetime(d) }
}

// DB is the concrete database.Database adapter over database/sql.
type DB struct {
	core
	sqlDB *sql.DB
}

// core holds the behavior shared between a plain DB and a Tx: escaping,
// preparing, quoting, and the actual query/execute plumbing, parameterized
// over an execer so both *sql.DB and *sql.Tx can drive it.
type core struct {
	driver   string
	platform *platform.Platform
	execer   execer
	logger   log.Logger
	ctx      context.Context
}

// execer is the subset of *sql.DB / *sql.Tx the core needs.
type execer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// New opens a connection pool for driverName/dsn and returns a Database
// adapter targeting the matching SQL dialect.
func New(driverName, dsn string, opts ...Option) (*DB, error) {
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errors.NewConnectionError(driverName, "failed to open connection", err)
	}

	dialect, ok := driverDialect[driverName]
	if !ok {
		return nil, errors.NewConnectionError(driverName, "unrecognized driver", nil)
	}

	plat, err := platform.New(string(dialect))
	if err != nil {
		return nil, err
	}

	db := &DB{
		core: core{
			driver:   driverName,
			platform: plat,
			logger:   log.NewLogger(),
			ctx:      context.Background(),
		},
		sqlDB: sqlDB,
	}
	db.core.execer = sqlDB

	for _, opt := range opts {
		opt(db)
	}

	return db, nil
}

// NewPostgres opens a PostgreSQL connection pool.
func NewPostgres(dsn string, opts ...Option) (*DB, error) { return New("postgres", dsn, opts...) }

// NewMySQL opens a MySQL connection pool.
func NewMySQL(dsn string, opts ...Option) (*DB, error) { return New("mysql", dsn, opts...) }

// NewSQLite opens a SQLite connection pool.
func NewSQLite(dsn string, opts ...Option) (*DB, error) { return New("sqlite3", dsn, opts...) }

// NewMSSQL opens a SQL Server connection pool.
func NewMSSQL(dsn string, opts ...Option) (*DB, error) { return New("sqlserver", dsn, opts...) }

// NewOracle opens an Oracle connection pool.
func NewOracle(dsn string, opts ...Option) (*DB, error) { return New("godror", dsn, opts...) }

// OpenFromConfig opens a connection pool driven by a config.DatabaseConfig
// (validated first), translating its pool-sizing fields into Options so
// callers don't have to repeat the New/With* dance by hand. extra is
// appended after the config-derived options, so it can override them.
func OpenFromConfig(cfg *config.DatabaseConfig, extra ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConnectionError(cfg.Driver, "invalid database configuration", err)
	}

	opts := make([]Option, 0, 4+len(extra))
	if cfg.MaxOpenConns > 0 {
		opts = append(opts, WithMaxOpenConns(cfg.MaxOpenConns))
	}
	if cfg.MaxIdleConns > 0 {
		opts = append(opts, WithMaxIdleConns(cfg.MaxIdleConns))
	}
	if cfg.ConnMaxLifetime > 0 {
		opts = append(opts, WithConnMaxLifetime(cfg.ConnMaxLifetime))
	}
	if cfg.ConnMaxIdleTime > 0 {
		idle := cfg.ConnMaxIdleTime
		opts = append(opts, func(db *DB) { db.sqlDB.SetConnMaxIdleTime(idle) })
	}
	opts = append(opts, extra...)

	return New(cfg.Driver, cfg.DSN, opts...)
}

// Platform exposes the dialect Platform backing this DB.
func (db *DB) Platform() *platform.Platform { return db.platform }

// Close releases the underlying connection pool.
func (db *DB) Close() error { return db.sqlDB.Close() }

// Begin starts a transaction bound to the same dialect and logger.
func (db *DB) Begin() (database.Tx, error) {
	sqlTx, err := db.sqlDB.BeginTx(db.ctx, nil)
	if err != nil {
		return nil, errors.NewTransactionError("begin", "failed to start transaction", err)
	}
	return &Tx{
		core: core{
			driver:   db.driver,
			platform: db.platform,
			logger:   db.logger,
			ctx:      db.ctx,
			execer:   sqlTx,
		},
		sqlTx: sqlTx,
	}, nil
}

// Tx is a Database bound to an in-flight transaction.
type Tx struct {
	core
	sqlTx *sql.Tx
}

// Begin is not supported on an already-open transaction.
func (t *Tx) Begin() (database.Tx, error) {
	return nil, errors.NewTransactionError("begin", "transaction already in progress", nil)
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.sqlTx.Commit(); err != nil {
		return errors.NewTransactionError("commit", "failed to commit transaction", err)
	}
	return nil
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	if err := t.sqlTx.Rollback(); err != nil {
		return errors.NewTransactionError("rollback", "failed to roll back transaction", err)
	}
	return nil
}

// Escape renders value as a dialect-correct SQL literal. Slice values
// render as a comma-joined sequence of literals suitable for an IN (...)
// list.
func (c *core) Escape(value interface{}, format ...string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			s, err := c.Escape(item, format...)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), nil
	case []string:
		parts := make([]string, len(v))
		for i, item := range v {
			s, err := c.Escape(item, format...)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), nil
	case bool:
		if c.platform.Equals(string(platform.Mysql), string(platform.Mssql), string(platform.Sqlite), string(platform.Oci)) {
			if v {
				return "1", nil
			}
			return "0", nil
		}
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float32, float64:
		return fmt.Sprintf("%v", v), nil
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05.999999") + "'", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''") + "'", nil
	}
}

// EscapeName returns a dialect-quoted identifier.
func (c *core) EscapeName(name string) (string, error) {
	return c.platform.QuoteName(name), nil
}

// EscapeNames splits csv on commas/whitespace, quotes each token, and
// rejoins with ", ".
func (c *core) EscapeNames(csv string) (string, error) {
	tokens := strings.FieldsFunc(csv, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	quoted := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		quoted = append(quoted, c.platform.QuoteName(tok))
	}
	return strings.Join(quoted, ", "), nil
}

// EscapeLikeString escapes %, _, and backslash in a LIKE pattern,
// optionally wrapping the result in string-literal quotes.
func (c *core) EscapeLikeString(s string, full bool) (string, error) {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	if full {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	}
	return s, nil
}

// Prepare substitutes positional ? placeholders and @name / @[a,b]
// identifier placeholders using params, returning ready-to-run SQL text.
// See prepare.go for the tokenizer grammar.
func (c *core) Prepare(sqlText string, params ...interface{}) (string, error) {
	return prepare(c, sqlText, params)
}

// Query executes sqlText and returns a Result, applying any recorded
// RETURNING fallback plan.
func (c *core) Query(sqlText string, opts database.QueryOptions) (database.Result, error) {
	start := time.Now()
	rows, err := c.execer.QueryContext(c.ctx, sqlText)
	if err != nil {
		c.logQuery(sqlText, time.Since(start), 0, err)
		return nil, errors.NewQueryError(sqlText, "query failed", err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		c.logQuery(sqlText, time.Since(start), 0, err)
		return nil, errors.NewQueryError(sqlText, "failed to scan rows", err)
	}

	if opts.Return != nil && opts.Return.Op == database.ReturnFallbackDelete {
		result.rows = opts.Return.Data
	} else if opts.Return != nil && len(result.rows) == 0 {
		// INSERT/UPDATE fallback: recover rows with a follow-up SELECT.
		fields := opts.Return.Fields
		if fields == "" {
			fields = "*"
		}
		selectSQL := fmt.Sprintf("SELECT %s FROM %s", fields, c.platform.QuoteName(opts.Return.Table))
		if opts.Return.Where != "" {
			selectSQL += " WHERE " + opts.Return.Where
		}
		fbRows, ferr := c.execer.QueryContext(c.ctx, selectSQL)
		if ferr == nil {
			defer fbRows.Close()
			if fb, serr := scanRows(fbRows); serr == nil {
				result.rows = fb.rows
			}
		}
	}

	c.logQuery(sqlText, time.Since(start), result.Count(), nil)
	return result, nil
}

// Execute runs sqlText and returns the affected row count.
func (c *core) Execute(sqlText string) (int, error) {
	start := time.Now()
	res, err := c.execer.ExecContext(c.ctx, sqlText)
	if err != nil {
		c.logQuery(sqlText, time.Since(start), 0, err)
		return 0, errors.NewQueryError(sqlText, "execute failed", err)
	}
	affected, _ := res.RowsAffected()
	c.logQuery(sqlText, time.Since(start), int(affected), nil)
	return int(affected), nil
}

// CountQuery wraps sqlText in a COUNT aggregate and returns the scalar.
func (c *core) CountQuery(sqlText string) (int, error) {
	wrapped := "SELECT COUNT(*) FROM (" + sqlText + ") AS count_query"
	rows, err := c.execer.QueryContext(c.ctx, wrapped)
	if err != nil {
		return 0, errors.NewQueryError(wrapped, "count query failed", err)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, errors.NewQueryError(wrapped, "failed to scan count", err)
		}
	}
	return count, nil
}

func (c *core) logQuery(sqlText string, d time.Duration, rows int, err error) {
	if c.logger == nil {
		return
	}
	fields := log.QueryFields(sqlText, d, rows)
	if err != nil {
		c.logger.WithError(err).Error("query failed", fields...)
		return
	}
	c.logger.Debug("query executed", fields...)
}

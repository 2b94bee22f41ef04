// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package database defines the collaborator contract the query builder and
// entity manager depend on. The concrete adapter lives in database/sqldb;
// this package only describes the interface, so callers can supply a test
// double without pulling in a real driver.
package database

// Fetch selects the row shape a Query call should decode results into.
type Fetch string

const (
	FetchArray  Fetch = "array"
	FetchObject Fetch = "object"
)

// ReturnFallbackOp names which statement a RETURNING fallback plan was
// recorded for.
type ReturnFallbackOp string

const (
	ReturnFallbackInsert ReturnFallbackOp = "insert"
	ReturnFallbackUpdate ReturnFallbackOp = "update"
	ReturnFallbackDelete ReturnFallbackOp = "delete"
)

// ReturnFallback is the snapshot recorded by Query.Return() on dialects
// without native RETURNING support, so the caller can recover the
// affected rows with a follow-up SELECT (or, for DELETE, rows already
// captured before the delete ran).
type ReturnFallback struct {
	Op     ReturnFallbackOp
	Table  string
	Fields string
	Fetch  string
	Where  string

	// Data holds eagerly captured rows for the DELETE case, where the
	// SELECT must run before the row-deleting statement.
	Data []map[string]interface{}
}

// QueryOptions configures a Query call.
type QueryOptions struct {
	// Fetch selects the row decoding shape ("array", "object", or a
	// caller-defined class/struct name).
	Fetch string

	// Sequence requests that a returned identity column be treated as a
	// database sequence value rather than a plain auto-increment.
	Sequence bool

	// Return carries the RETURNING fallback plan, if one was recorded.
	Return *ReturnFallback
}

// Result is the handle returned by Database.Query.
type Result interface {
	// Count returns the number of rows affected or returned.
	Count() int

	// First returns the first row, if any.
	First() (map[string]interface{}, bool)

	// Rows returns all rows, or the row at index i when i is given.
	Rows(i ...int) interface{}

	// ID returns the single inserted/returned identity value, if any.
	ID() (int64, bool)

	// IDs returns every inserted/returned identity value.
	IDs() []int64

	// GetRow is an alias for First used by the builder's getRow().
	GetRow() (map[string]interface{}, bool)

	// GetRows is an alias for the full row list used by getRows().
	GetRows() []map[string]interface{}
}

// Database is the external collaborator the query builder and entity
// manager depend on for escaping, preparing, querying, and executing SQL.
// The concrete implementation (database/sqldb.DB) owns the physical
// connection pool and driver; this package only describes its contract.
type Database interface {
	// Escape returns a dialect-correct SQL literal for value. A slice
	// value yields a comma-joined sequence of literals, suitable for
	// inlining into an IN (...) list. format optionally names a
	// presentation hint ("date", "time", ...).
	Escape(value interface{}, format ...string) (string, error)

	// EscapeName returns a dialect-quoted identifier.
	EscapeName(name string) (string, error)

	// EscapeNames splits csv on commas and/or whitespace, quotes each
	// token, and rejoins them with ", ".
	EscapeNames(csv string) (string, error)

	// EscapeLikeString escapes %, _, and the dialect's escape character
	// inside a LIKE pattern. When full is true the result is additionally
	// wrapped in the dialect's string-literal quotes.
	EscapeLikeString(s string, full bool) (string, error)

	// Prepare substitutes positional ? placeholders and @name / @[a,b]
	// identifier placeholders in sql using params, returning ready-to-run
	// SQL text.
	Prepare(sql string, params ...interface{}) (string, error)

	// Query executes sql and returns a Result.
	Query(sql string, opts QueryOptions) (Result, error)

	// Execute runs sql and returns the affected row count.
	Execute(sql string) (int, error)

	// CountQuery wraps sql in a COUNT aggregate and returns the scalar.
	CountQuery(sql string) (int, error)

	// Begin starts a transaction, returning a Database bound to it.
	Begin() (Tx, error)
}

// Tx is a Database bound to an in-flight transaction.
type Tx interface {
	Database

	// Commit commits the transaction.
	Commit() error

	// Rollback aborts the transaction.
	Rollback() error
}

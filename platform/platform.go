// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package platform captures the per-dialect behavior the query builder
// branches on: identifier quoting, LIKE/ILIKE lowering, JSON aggregation
// function selection, the random function, and placeholder style. It does
// not talk to a database — it only knows how to render dialect-correct
// fragments of SQL text.
package platform

import (
	"strconv"
	"strings"

	"github.com/kerem/qstack/errors"
)

// Name identifies a supported SQL dialect.
type Name string

const (
	Pgsql  Name = "pgsql"
	Mysql  Name = "mysql"
	Mssql  Name = "mssql"
	Sqlite Name = "sqlite"
	Oci    Name = "oci"
)

var known = map[Name]bool{
	Pgsql:  true,
	Mysql:  true,
	Mssql:  true,
	Sqlite: true,
	Oci:    true,
}

// Platform renders dialect-specific SQL fragments for a single dialect.
type Platform struct {
	name Name
}

// New constructs a Platform for the given lowercase alphabetic dialect
// name. An unrecognized name fails with errors.KindUnsupportedDialect.
func New(name string) (*Platform, error) {
	n := Name(strings.ToLower(strings.TrimSpace(name)))
	if !known[n] {
		return nil, errors.NewQueryErrorKind(errors.KindUnsupportedDialect,
			"unknown platform", nil).WithContext("dialect", name)
	}
	return &Platform{name: n}, nil
}

// Name returns the dialect name this Platform was constructed for.
func (p *Platform) Name() Name {
	return p.name
}

// Equals reports whether the platform's dialect matches name, or any of
// the additional names given.
func (p *Platform) Equals(name string, names ...string) bool {
	if Name(strings.ToLower(name)) == p.name {
		return true
	}
	for _, n := range names {
		if Name(strings.ToLower(n)) == p.name {
			return true
		}
	}
	return false
}

// delimiters returns the (open, close) quote characters for identifiers.
func (p *Platform) delimiters() (string, string) {
	switch p.name {
	case Mysql:
		return "`", "`"
	case Mssql:
		return "[", "]"
	default: // pgsql, sqlite, oci
		return `"`, `"`
	}
}

// QuoteName wraps an identifier in the dialect's quote characters, first
// stripping one layer of existing wrapping (so re-quoting an already
// quoted identifier, or one quoted for a different dialect, is a no-op on
// the underlying name). A qualified "schema.table" or "table.column" form
// is quoted segment by segment.
func (p *Platform) QuoteName(s string) string {
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		for i, part := range parts {
			parts[i] = p.QuoteName(part)
		}
		return strings.Join(parts, ".")
	}

	s = unwrap(s)
	if s == "*" {
		return s
	}
	open, close := p.delimiters()
	return open + p.EscapeName(s) + close
}

// unwrap strips one layer of surrounding `, [...], or "..." from s.
func unwrap(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	switch {
	case first == '`' && last == '`':
		return s[1 : len(s)-1]
	case first == '"' && last == '"':
		return s[1 : len(s)-1]
	case first == '[' && last == ']':
		return s[1 : len(s)-1]
	default:
		return s
	}
}

// EscapeName doubles the delimiter character inside an (unwrapped)
// identifier, so it can be safely placed between quote characters.
func (p *Platform) EscapeName(s string) string {
	open, close := p.delimiters()
	if open == close {
		return strings.ReplaceAll(s, open, open+open)
	}
	s = strings.ReplaceAll(s, open, open+open)
	return strings.ReplaceAll(s, close, close+close)
}

// JSONFunction returns the JSON construction function name for this
// dialect (array=true selects the array-building variant), and false if
// the dialect has no native JSON construction function.
func (p *Platform) JSONFunction(array bool) (string, bool) {
	switch p.name {
	case Pgsql:
		if array {
			return "json_build_array", true
		}
		return "json_build_object", true
	case Mysql:
		if array {
			return "json_array", true
		}
		return "json_object", true
	default:
		return "", false
	}
}

// RandomFunction returns the dialect's random-value function.
func (p *Platform) RandomFunction() string {
	if p.name == Pgsql {
		return "random()"
	}
	return "rand()"
}

// FormatILike renders a case-insensitive LIKE predicate. fieldSQL must
// already be a rendered (quoted) identifier; placeholder is the already
// rendered value placeholder (positional marker or literal). PostgreSQL
// uses the native ILIKE operator; every other dialect lowercases both
// sides and falls back to LIKE.
func (p *Platform) FormatILike(fieldSQL, placeholder string) string {
	if p.name == Pgsql {
		return fieldSQL + " ILIKE " + placeholder
	}
	return "LOWER(" + fieldSQL + ") LIKE LOWER(" + placeholder + ")"
}

// FormatNotILike is the negated counterpart of FormatILike.
func (p *Platform) FormatNotILike(fieldSQL, placeholder string) string {
	if p.name == Pgsql {
		return fieldSQL + " NOT ILIKE " + placeholder
	}
	return "LOWER(" + fieldSQL + ") NOT LIKE LOWER(" + placeholder + ")"
}

// SupportsNativeReturning reports whether the dialect can emit a native
// RETURNING clause on INSERT/UPDATE/DELETE (pgsql, oci). Every other
// dialect requires the rendering pipeline's RETURNING fallback plan.
func (p *Platform) SupportsNativeReturning() bool {
	return p.name == Pgsql || p.name == Oci
}

// SupportsSelectJSON reports whether selectJson() is legal for this
// dialect (pgsql, mysql only, per spec).
func (p *Platform) SupportsSelectJSON() bool {
	return p.name == Pgsql || p.name == Mysql
}

// SupportsConflict reports whether conflict() is legal for this dialect
// (pgsql's ON CONFLICT, mysql's ON DUPLICATE KEY UPDATE).
func (p *Platform) SupportsConflict() bool {
	return p.name == Pgsql || p.name == Mysql
}

// Placeholder returns the positional value placeholder for argument
// number pos (1-based): PostgreSQL uses $N, every other dialect uses a
// bare ?.
func (p *Platform) Placeholder(pos int) string {
	if p.name == Pgsql {
		return "$" + strconv.Itoa(pos)
	}
	return "?"
}

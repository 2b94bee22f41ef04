// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/kerem/qstack/errors"
)

// Conflict records an upsert clause for the current INSERT. action must
// be "NOTHING" or "UPDATE"; UPDATE requires a non-empty update argument,
// either "*" (reuse the insert's own field list) or an explicit SQL SET
// fragment. Unsupported dialects (anything but pgsql/mysql) fail
// UnsupportedDialect.
func (q *Query) Conflict(fields, action string, update string, where ...string) *Query {
	if q.err != nil {
		return q
	}
	if !q.plat.SupportsConflict() {
		return q.fail(errors.NewQueryErrorKind(errors.KindUnsupportedDialect,
			"conflict() requires pgsql or mysql", nil))
	}
	upperAction := strings.ToUpper(action)
	if upperAction != "NOTHING" && upperAction != "UPDATE" {
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"conflict() action must be NOTHING or UPDATE", nil))
	}
	if upperAction == "UPDATE" && strings.TrimSpace(update) == "" {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"conflict() action UPDATE requires a non-empty update argument", nil))
	}

	w := ""
	if len(where) > 0 {
		w = where[0]
	}
	q.s.conflict = &conflictPayload{
		Fields: fields, Action: upperAction, Update: update, Where: w,
	}
	return q
}

// renderConflict emits the dialect-appropriate upsert clause for the
// recorded conflict payload, consuming the already-rendered insert field
// list when update == "*".
func (q *Query) renderConflict() (string, error) {
	c := q.s.conflict

	switch q.plat.Name() {
	case "pgsql":
		var b strings.Builder
		b.WriteString("ON CONFLICT (")
		b.WriteString(quoteCSVFields(q.plat, c.Fields))
		b.WriteString(") DO ")
		if c.Action == "NOTHING" {
			b.WriteString("NOTHING")
			return b.String(), nil
		}
		b.WriteString("UPDATE SET ")
		b.WriteString(q.expandConflictAssignments(c.Update, "EXCLUDED"))
		if c.Where != "" {
			b.WriteString(" WHERE ")
			b.WriteString(c.Where)
		}
		return b.String(), nil
	case "mysql":
		if c.Action == "NOTHING" {
			// MySQL has no direct equivalent to DO NOTHING; a
			// self-referential no-op assignment on the first
			// conflict field achieves the same effect.
			firstField := strings.Split(quoteCSVFields(q.plat, c.Fields), ", ")[0]
			return "ON DUPLICATE KEY UPDATE " + firstField + " = " + firstField, nil
		}
		return "ON DUPLICATE KEY UPDATE " + q.expandConflictAssignments(c.Update, "VALUES"), nil
	default:
		return "", errors.NewQueryErrorKind(errors.KindUnsupportedDialect,
			"conflict() requires pgsql or mysql", nil)
	}
}

// expandConflictAssignments expands update == "*" into "field = src.field"
// for every insert field (style selects "EXCLUDED.field" on pgsql, or the
// deprecated-but-still-supported "VALUES(field)" form on mysql, per the
// historical source). Any non-"*" update argument is passed through
// verbatim as a raw SET fragment; EXCLUDED. references inside it are not
// re-quoted.
func (q *Query) expandConflictAssignments(update, style string) string {
	if update != "*" {
		return update
	}
	fields := strings.Split(q.s.insert.Fields, ", ")
	assignments := make([]string, len(fields))
	for i, quotedField := range fields {
		bare := strings.Trim(quotedField, "`\"[]")
		if style == "VALUES" {
			assignments[i] = quotedField + " = VALUES(" + quotedField + ")"
		} else {
			assignments[i] = quotedField + " = EXCLUDED." + q.plat.QuoteName(bare)
		}
	}
	return strings.Join(assignments, ", ")
}

func quoteCSVFields(p interface {
	QuoteName(string) string
}, csv string) string {
	parts := strings.Split(csv, ",")
	quoted := make([]string, len(parts))
	for i, part := range parts {
		quoted[i] = p.QuoteName(strings.TrimSpace(part))
	}
	return strings.Join(quoted, ", ")
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/kerem/qstack/errors"
)

// GroupBy appends a GROUP BY field, optionally wrapped in ROLLUP(...).
func (q *Query) GroupBy(field string, rollup ...bool) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	if len(rollup) > 0 && rollup[0] {
		quoted = "ROLLUP(" + quoted + ")"
	}
	q.s.group = append(q.s.group, quoted)
	return q
}

// Having sets the HAVING expression (replace-on-set), substituting "?"
// positional params through the bound Database's Prepare.
func (q *Query) Having(expr string, params ...interface{}) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := q.db.Prepare(expr, params...)
	if err != nil {
		return q.fail(err)
	}
	q.s.having = rendered
	return q
}

// OrderByOptions configures OrderBy.
type OrderByOptions struct {
	Collate string
	Nulls   string // "FIRST" or "LAST"
}

// OrderBy appends an ORDER BY field. dir accepts "ASC"/"DESC" (any case)
// or the numeric convention 1/+1 → ASC, -1 → DESC; anything else fails
// InvalidOp. field may be a Name/Sql wrapper or a plain identifier.
func (q *Query) OrderBy(field interface{}, dir interface{}, opts ...OrderByOptions) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	direction, err := normalizeDirection(dir)
	if err != nil {
		return q.fail(err)
	}

	frag := quoted
	if len(opts) > 0 && opts[0].Collate != "" {
		frag += " COLLATE " + opts[0].Collate
	}
	frag += " " + direction
	if len(opts) > 0 && opts[0].Nulls != "" {
		frag += " NULLS " + strings.ToUpper(opts[0].Nulls)
	}
	q.s.order = append(q.s.order, frag)
	return q
}

func normalizeDirection(dir interface{}) (string, error) {
	switch v := dir.(type) {
	case string:
		switch strings.ToUpper(v) {
		case "ASC":
			return "ASC", nil
		case "DESC":
			return "DESC", nil
		}
	case int:
		switch v {
		case 1:
			return "ASC", nil
		case -1:
			return "DESC", nil
		}
	}
	return "", errors.NewQueryErrorKind(errors.KindInvalidOp,
		"orderBy direction must be ASC/DESC or 1/-1", nil)
}

// OrderByRandom appends an ORDER BY <random()>.
func (q *Query) OrderByRandom() *Query {
	if q.err != nil {
		return q
	}
	q.s.order = append(q.s.order, q.plat.RandomFunction())
	return q
}

// Asc is shorthand for OrderBy(field, "ASC"); field defaults to "id".
func (q *Query) Asc(field ...string) *Query {
	return q.OrderBy(firstOr(field, "id"), "ASC")
}

// Desc is shorthand for OrderBy(field, "DESC"); field defaults to "id".
func (q *Query) Desc(field ...string) *Query {
	return q.OrderBy(firstOr(field, "id"), "DESC")
}

// Limit sets the row limit (replace-on-set), optionally also setting the
// offset in the same call.
func (q *Query) Limit(n int64, offset ...int64) *Query {
	if q.err != nil {
		return q
	}
	l := n
	q.s.limit = &l
	if len(offset) > 0 {
		return q.Offset(offset[0])
	}
	return q
}

// Offset sets the row offset (replace-on-set). Rendering fails with
// OffsetWithoutLimit if no Limit has been set.
func (q *Query) Offset(n int64) *Query {
	if q.err != nil {
		return q
	}
	o := n
	q.s.offset = &o
	return q
}

// Union appends a UNION clause for sub, rendered and parenthesization-free
// per SQL's UNION grammar (the inner SELECT supplies its own structure).
func (q *Query) Union(sub *Query, all ...bool) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := sub.ToString()
	if err != nil {
		return q.fail(err)
	}
	allFlag := false
	if len(all) > 0 {
		allFlag = all[0]
	}
	q.s.union = append(q.s.union, unionPair{SQL: rendered, All: allFlag})
	return q
}

// WithOptions configures With.
type WithOptions struct {
	Fields       []string
	Recursive    bool
	Materialized bool
}

// With appends a named common table expression preceding the main
// statement.
func (q *Query) With(name string, sub *Query, opts ...WithOptions) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := sub.ToString()
	if err != nil {
		return q.fail(err)
	}
	var opt WithOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	fieldsSQL := ""
	if len(opt.Fields) > 0 {
		quoted := make([]string, len(opt.Fields))
		for i, f := range opt.Fields {
			quoted[i] = q.plat.QuoteName(f)
		}
		fieldsSQL = strings.Join(quoted, ", ")
	}
	q.s.with = append(q.s.with, withEntry{
		Name: name, SQL: rendered, Fields: fieldsSQL,
		Recursive: opt.Recursive, Materialized: opt.Materialized,
	})
	return q
}

// Append bolts an unparsed SQL fragment directly onto the stack, emitted
// before the main statement clause. indent, if given, is ignored.
func (q *Query) Append(sql string, indent ...int) *Query {
	if q.err != nil {
		return q
	}
	q.s.appendFrags = append(q.s.appendFrags, sql)
	return q
}

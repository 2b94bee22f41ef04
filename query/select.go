// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"sort"
	"strings"

	"github.com/kerem/qstack/errors"
)

// Select appends one or more SELECT items: plain field names (dialect
// quoted), "*" (kept literal), expression-looking strings (passed
// through raw), Name/Sql wrappers, or a *Query subquery.
func (q *Query) Select(fields ...interface{}) *Query {
	if q.err != nil {
		return q
	}
	if len(fields) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"select() requires at least one field", nil))
	}
	for _, f := range fields {
		if sub, ok := f.(*Query); ok {
			rendered, err := sub.ToString()
			if err != nil {
				return q.fail(err)
			}
			q.s.selectItems = append(q.s.selectItems, "("+rendered+")")
			continue
		}
		rendered, err := q.quoteField(f)
		if err != nil {
			return q.fail(err)
		}
		q.s.selectItems = append(q.s.selectItems, rendered)
	}
	return q
}

// SelectRaw appends a raw SQL expression, substituting "?" positional
// params through the bound Database's Prepare.
func (q *Query) SelectRaw(sql string, params ...interface{}) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := q.db.Prepare(sql, params...)
	if err != nil {
		return q.fail(err)
	}
	q.s.selectItems = append(q.s.selectItems, rendered)
	return q
}

// SelectQuery appends a subquery as a SELECT item, parenthesized and
// optionally aliased.
func (q *Query) SelectQuery(sub *Query, as ...string) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := sub.ToString()
	if err != nil {
		return q.fail(err)
	}
	item := "(" + rendered + ")"
	if len(as) > 0 && as[0] != "" {
		item += " AS " + q.plat.QuoteName(as[0])
	}
	q.s.selectItems = append(q.s.selectItems, item)
	return q
}

// SelectJson appends a JSON object/array construction SELECT item built
// from mapping (map[string]string field->alias for object construction,
// or []string for array construction). Only pgsql and mysql support this;
// any other dialect fails UnsupportedDialect.
func (q *Query) SelectJson(mapping interface{}, as ...string) *Query {
	if q.err != nil {
		return q
	}
	switch v := mapping.(type) {
	case map[string]string:
		fn, ok := q.plat.JSONFunction(false)
		if !ok {
			return q.fail(errors.NewQueryErrorKind(errors.KindUnsupportedDialect,
				"selectJson requires pgsql or mysql", nil))
		}
		args := make([]string, 0, len(v)*2)
		for _, k := range sortedStringKeys(v) {
			args = append(args, quoteJSONKey(k), q.plat.QuoteName(v[k]))
		}
		return q.appendSelectJSON(fn, args, as)
	case []string:
		fn, ok := q.plat.JSONFunction(true)
		if !ok {
			return q.fail(errors.NewQueryErrorKind(errors.KindUnsupportedDialect,
				"selectJson requires pgsql or mysql", nil))
		}
		args := make([]string, 0, len(v))
		for _, field := range v {
			args = append(args, q.plat.QuoteName(field))
		}
		return q.appendSelectJSON(fn, args, as)
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"selectJson() accepts map[string]string or []string", nil))
	}
}

func (q *Query) appendSelectJSON(fn string, args []string, as []string) *Query {
	item := fn + "(" + strings.Join(args, ", ") + ")"
	if len(as) > 0 && as[0] != "" {
		item += " AS " + q.plat.QuoteName(as[0])
	}
	q.s.selectItems = append(q.s.selectItems, item)
	return q
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quoteJSONKey(k string) string {
	return "'" + strings.ReplaceAll(k, "'", "''") + "'"
}

// baseAggregates is the set of the five scalar aggregate functions.
var baseAggregates = map[string]bool{
	"count": true, "min": true, "max": true, "avg": true, "sum": true,
}

// aggAggregates is the set of functions emitted with an "_agg" suffix.
var aggAggregates = map[string]bool{
	"array": true, "string": true, "json": true,
	"json_object": true, "jsonb": true, "jsonb_object": true,
}

// AggregateOptions configures Aggregate.
type AggregateOptions struct {
	Distinct bool
	Order    string
}

// Aggregate appends "func(field) AS as" (or "func_agg(field)" for the six
// aggregate-suffixed functions) as a SELECT item. fn must be one of the
// five base aggregates or one of the six _agg functions; anything else
// fails UnknownAggregate.
func (q *Query) Aggregate(fn, field string, as string, opts ...AggregateOptions) *Query {
	if q.err != nil {
		return q
	}
	lower := strings.ToLower(fn)
	var call string
	switch {
	case baseAggregates[lower]:
		call = lower
	case aggAggregates[lower]:
		call = lower + "_agg"
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindUnknownAggregate,
			"unknown aggregate function: "+fn, nil))
	}

	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}

	var opt AggregateOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	inner := quoted
	if opt.Distinct {
		inner = "DISTINCT " + inner
	}
	if opt.Order != "" {
		inner += " ORDER BY " + opt.Order
	}

	item := call + "(" + inner + ")"
	if as != "" {
		item += " AS " + q.plat.QuoteName(as)
	}
	q.s.selectItems = append(q.s.selectItems, item)
	return q
}

// SelectCount is a thin wrapper over Aggregate("count", ...).
func (q *Query) SelectCount(field string, as ...string) *Query {
	return q.Aggregate("count", field, firstOr(as, ""))
}

// SelectMin is a thin wrapper over Aggregate("min", ...).
func (q *Query) SelectMin(field string, as ...string) *Query {
	return q.Aggregate("min", field, firstOr(as, ""))
}

// SelectMax is a thin wrapper over Aggregate("max", ...).
func (q *Query) SelectMax(field string, as ...string) *Query {
	return q.Aggregate("max", field, firstOr(as, ""))
}

// SelectAvg is a thin wrapper over Aggregate("avg", ...).
func (q *Query) SelectAvg(field string, as ...string) *Query {
	return q.Aggregate("avg", field, firstOr(as, ""))
}

// SelectSum is a thin wrapper over Aggregate("sum", ...).
func (q *Query) SelectSum(field string, as ...string) *Query {
	return q.Aggregate("sum", field, firstOr(as, ""))
}

func firstOr(list []string, def string) string {
	if len(list) > 0 {
		return list[0]
	}
	return def
}

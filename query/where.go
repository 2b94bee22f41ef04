// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"strings"

	"github.com/kerem/qstack/errors"
)

// QueryParam is one structured WHERE condition: compare Field against
// Value using Op, joined to whatever precedes it with Logic ("AND"/"OR",
// defaulting to "AND" when empty).
type QueryParam struct {
	Field string
	Op    string
	Value interface{}
	Logic string
}

// QueryParams is an ordered collection of QueryParam, appended to a
// Query's WHERE stack in sequence by Where.
type QueryParams []QueryParam

// Where appends one or more WHERE predicates. cond accepts:
//   - a string SQL expression, optionally with "?" placeholders filled
//     from the trailing params;
//   - a map[string]interface{} bare mapping, one predicate per key, using
//     the suffix operator convention (trailing "!", "<", ">");
//   - a QueryParams collection, one predicate per entry.
//
// New predicates default to logic "AND"; use OrWhere for "OR".
func (q *Query) Where(cond interface{}, params ...interface{}) *Query {
	return q.whereAny(cond, params, "AND")
}

// OrWhere is Where with the new predicate(s) defaulting to logic "OR".
func (q *Query) OrWhere(cond interface{}, params ...interface{}) *Query {
	return q.whereAny(cond, params, "OR")
}

func (q *Query) whereAny(cond interface{}, params []interface{}, logic string) *Query {
	if q.err != nil {
		return q
	}
	switch c := cond.(type) {
	case string:
		rendered, err := q.db.Prepare(c, params...)
		if err != nil {
			return q.fail(err)
		}
		return q.appendWhere(rendered, logic)
	case map[string]interface{}:
		return q.whereMapping(c, logic)
	case QueryParams:
		filled := make(QueryParams, len(c))
		for i, p := range c {
			if p.Logic == "" {
				p.Logic = logic
			}
			filled[i] = p
		}
		return q.whereParams(filled)
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"where() accepts a string, map[string]interface{}, or QueryParams", nil))
	}
}

func (q *Query) whereMapping(m map[string]interface{}, logic string) *Query {
	for _, k := range sortedKeys(m) {
		field, op := parseFieldOp(k)
		expr, err := q.buildComparison(field, op, m[k])
		if err != nil {
			return q.fail(err)
		}
		q.appendWhere(expr, logic)
	}
	return q
}

func (q *Query) whereParams(params QueryParams) *Query {
	for _, p := range params {
		logic := p.Logic
		if logic == "" {
			logic = "AND"
		}
		expr, err := q.buildComparison(p.Field, p.Op, p.Value)
		if err != nil {
			return q.fail(err)
		}
		q.appendWhere(expr, logic)
	}
	return q
}

// Render appends params onto q as WHERE predicates, in order, with the
// same field/op/value/logic handling Where(QueryParams) uses, and
// returns q's sticky error (nil on success). It lets a QueryParams value
// built ahead of time be applied to a Query without going through
// Where's cond-type switch.
func (params QueryParams) Render(q *Query) error {
	q.whereParams(params)
	return q.Err()
}

func (q *Query) appendWhere(expr, logic string) *Query {
	if logic == "" {
		logic = "AND"
	}
	q.s.where = append(q.s.where, wherePair{Expr: expr, Logic: logic})
	return q
}

// buildComparison renders "field op value", escaping field as an
// identifier and value through the bound Database (or the subquery's own
// rendering, when value is a *Query; or an IN/NOT IN list, when value is
// a slice).
func (q *Query) buildComparison(field, op string, value interface{}) (string, error) {
	quotedField, err := q.quoteField(field)
	if err != nil {
		return "", err
	}

	switch v := value.(type) {
	case *Query:
		sub, err := v.ToString()
		if err != nil {
			return "", err
		}
		return quotedField + " " + op + " (" + sub + ")", nil
	case []interface{}:
		escaped, err := q.db.Escape(v)
		if err != nil {
			return "", err
		}
		if op == "!=" {
			return quotedField + " NOT IN (" + escaped + ")", nil
		}
		return quotedField + " IN (" + escaped + ")", nil
	default:
		escaped, err := q.db.Escape(v)
		if err != nil {
			return "", err
		}
		return quotedField + " " + op + " " + escaped, nil
	}
}

// WhereEqual adds "field = value".
func (q *Query) WhereEqual(field string, value interface{}) *Query {
	return q.whereCompare(field, "=", value, "AND")
}

// WhereNotEqual adds "field != value".
func (q *Query) WhereNotEqual(field string, value interface{}) *Query {
	return q.whereCompare(field, "!=", value, "AND")
}

// WhereIs adds "field IS value" (typically used with NULL, or a boolean
// on dialects that render unquoted TRUE/FALSE).
func (q *Query) WhereIs(field string, value interface{}) *Query {
	return q.whereCompare(field, "IS", value, "AND")
}

// WhereIsNot adds "field IS NOT value".
func (q *Query) WhereIsNot(field string, value interface{}) *Query {
	return q.whereCompare(field, "IS NOT", value, "AND")
}

// WhereIn adds "field IN (values...)". Passing a *Query renders it as a
// parenthesized subquery instead of a literal list.
func (q *Query) WhereIn(field string, values interface{}) *Query {
	if sub, ok := values.(*Query); ok {
		return q.whereCompare(field, "IN", sub, "AND")
	}
	return q.whereCompare(field, "=", asInList(values), "AND")
}

// WhereNotIn adds "field NOT IN (values...)".
func (q *Query) WhereNotIn(field string, values interface{}) *Query {
	if sub, ok := values.(*Query); ok {
		return q.whereCompare(field, "NOT IN", sub, "AND")
	}
	return q.whereCompare(field, "!=", asInList(values), "AND")
}

func asInList(values interface{}) interface{} {
	if sub, ok := values.(*Query); ok {
		return sub
	}
	if list, ok := values.([]interface{}); ok {
		return list
	}
	return values
}

// WhereNull adds "field IS NULL".
func (q *Query) WhereNull(field string) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	return q.appendWhere(quoted+" IS NULL", "AND")
}

// WhereNotNull adds "field IS NOT NULL".
func (q *Query) WhereNotNull(field string) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	return q.appendWhere(quoted+" IS NOT NULL", "AND")
}

// WhereBetween adds "field BETWEEN lo AND hi".
func (q *Query) WhereBetween(field string, lo, hi interface{}) *Query {
	return q.whereBetween(field, lo, hi, false)
}

// WhereNotBetween adds "field NOT BETWEEN lo AND hi".
func (q *Query) WhereNotBetween(field string, lo, hi interface{}) *Query {
	return q.whereBetween(field, lo, hi, true)
}

func (q *Query) whereBetween(field string, lo, hi interface{}, not bool) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	loSQL, err := q.db.Escape(lo)
	if err != nil {
		return q.fail(err)
	}
	hiSQL, err := q.db.Escape(hi)
	if err != nil {
		return q.fail(err)
	}
	kw := "BETWEEN"
	if not {
		kw = "NOT BETWEEN"
	}
	return q.appendWhere(fmt.Sprintf("%s %s %s AND %s", quoted, kw, loSQL, hiSQL), "AND")
}

// WhereLessThan adds "field < value".
func (q *Query) WhereLessThan(field string, value interface{}) *Query {
	return q.whereCompare(field, "<", value, "AND")
}

// WhereLessThanEqual adds "field <= value".
func (q *Query) WhereLessThanEqual(field string, value interface{}) *Query {
	return q.whereCompare(field, "<=", value, "AND")
}

// WhereGreaterThan adds "field > value".
func (q *Query) WhereGreaterThan(field string, value interface{}) *Query {
	return q.whereCompare(field, ">", value, "AND")
}

// WhereGreaterThanEqual adds "field >= value".
func (q *Query) WhereGreaterThanEqual(field string, value interface{}) *Query {
	return q.whereCompare(field, ">=", value, "AND")
}

// WhereLike adds "field LIKE pattern", with pattern escaped and quoted.
func (q *Query) WhereLike(field, pattern string) *Query {
	return q.whereLike(field, pattern, "LIKE")
}

// WhereNotLike adds "field NOT LIKE pattern".
func (q *Query) WhereNotLike(field, pattern string) *Query {
	return q.whereLike(field, pattern, "NOT LIKE")
}

func (q *Query) whereLike(field, pattern, kw string) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	escaped, err := q.db.EscapeLikeString(pattern, true)
	if err != nil {
		return q.fail(err)
	}
	return q.appendWhere(quoted+" "+kw+" "+escaped, "AND")
}

// WhereILike adds a case-insensitive LIKE predicate, using the dialect's
// native ILIKE when available and a LOWER()/LOWER() fallback otherwise.
func (q *Query) WhereILike(field, pattern string) *Query {
	return q.whereILike(field, pattern, false)
}

// WhereNotILike is the negated counterpart of WhereILike.
func (q *Query) WhereNotILike(field, pattern string) *Query {
	return q.whereILike(field, pattern, true)
}

func (q *Query) whereILike(field, pattern string, not bool) *Query {
	if q.err != nil {
		return q
	}
	quoted, err := q.quoteField(field)
	if err != nil {
		return q.fail(err)
	}
	escaped, err := q.db.EscapeLikeString(pattern, true)
	if err != nil {
		return q.fail(err)
	}
	if not {
		return q.appendWhere(q.plat.FormatNotILike(quoted, escaped), "AND")
	}
	return q.appendWhere(q.plat.FormatILike(quoted, escaped), "AND")
}

// WhereExists adds "EXISTS (sub)".
func (q *Query) WhereExists(sub *Query) *Query {
	return q.whereExists(sub, false)
}

// WhereNotExists adds "NOT EXISTS (sub)".
func (q *Query) WhereNotExists(sub *Query) *Query {
	return q.whereExists(sub, true)
}

func (q *Query) whereExists(sub *Query, not bool) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := sub.ToString()
	if err != nil {
		return q.fail(err)
	}
	kw := "EXISTS"
	if not {
		kw = "NOT EXISTS"
	}
	return q.appendWhere(kw+" ("+rendered+")", "AND")
}

// WhereRandom adds "<random()> < p", useful for random-sample queries.
func (q *Query) WhereRandom(p float64) *Query {
	if q.err != nil {
		return q
	}
	return q.appendWhere(fmt.Sprintf("%s < %v", q.plat.RandomFunction(), p), "AND")
}

func (q *Query) whereCompare(field, op string, value interface{}, logic string) *Query {
	if q.err != nil {
		return q
	}
	expr, err := q.buildComparison(field, op, value)
	if err != nil {
		return q.fail(err)
	}
	return q.appendWhere(expr, logic)
}

// Id is shorthand for WhereEqual("id", v).
func (q *Query) Id(v interface{}) *Query {
	return q.WhereEqual("id", v)
}

// And overwrites the last WHERE element's logic to "AND". Fails with
// NoPrecedingClause if no WHERE element exists yet.
func (q *Query) And() *Query {
	return q.addTo("where", "AND")
}

// Or overwrites the last WHERE element's logic to "OR".
func (q *Query) Or() *Query {
	return q.addTo("where", "OR")
}

// On attaches an ON expression to the last JOIN element. Fails with
// NoPrecedingClause if no JOIN element exists yet.
func (q *Query) On(expr string, params ...interface{}) *Query {
	if q.err != nil {
		return q
	}
	rendered, err := q.db.Prepare(expr, params...)
	if err != nil {
		return q.fail(err)
	}
	return q.addTo("join", "ON "+rendered)
}

// Using attaches a USING (fields...) context to the last JOIN element.
func (q *Query) Using(fields ...string) *Query {
	if q.err != nil {
		return q
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		qf, err := q.quoteField(f)
		if err != nil {
			return q.fail(err)
		}
		quoted = append(quoted, qf)
	}
	return q.addTo("join", "USING ("+strings.Join(quoted, ", ")+")")
}

// addTo overwrites the trailing element's logic/context slot for key.
func (q *Query) addTo(key, suffix string) *Query {
	if q.err != nil {
		return q
	}
	switch key {
	case "where":
		if len(q.s.where) == 0 {
			return q.fail(errors.NewQueryErrorKind(errors.KindNoPrecedingClause,
				"no preceding WHERE element", nil))
		}
		q.s.where[len(q.s.where)-1].Logic = suffix
	case "join":
		if len(q.s.join) == 0 {
			return q.fail(errors.NewQueryErrorKind(errors.KindNoPrecedingClause,
				"no preceding JOIN element", nil))
		}
		q.s.join[len(q.s.join)-1].Context = suffix
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindNoPrecedingClause,
			"addTo: unknown key "+key, nil))
	}
	return q
}

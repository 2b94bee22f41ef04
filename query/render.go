// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strconv"
	"strings"

	"github.com/kerem/qstack/errors"
)

// ToString renders the accumulated stack into SQL text. indent, when
// given and >= 1, introduces newlines and tab indentation between
// clauses; the default (0) renders a single-line statement. Rendering is
// pure: two calls against an unchanged stack return identical strings.
func (q *Query) ToString(indent ...int) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	level := 0
	if len(indent) > 0 {
		level = indent[0]
	}

	var parts []string

	if frag := q.renderWith(level); frag != "" {
		parts = append(parts, frag)
	}
	for _, frag := range q.s.appendFrags {
		parts = append(parts, frag)
	}

	switch {
	case q.s.insert != nil:
		frag, err := q.renderInsert()
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	case len(q.s.update) > 0:
		frag, err := q.renderUpdate()
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	case q.s.del:
		frag, err := q.renderDelete()
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	case len(q.s.selectItems) > 0 || q.s.from != "" || q.s.table != "":
		frag, err := q.renderSelect()
		if err != nil {
			return "", err
		}
		parts = append(parts, frag)
	default:
		return "", errors.NewQueryErrorKind(errors.KindNoQueryReady,
			"toString(): no statement clause (select/insert/update/delete) set", nil)
	}

	sep := " "
	if level >= 1 {
		sep = "\n" + strings.Repeat("\t", level)
	}
	return strings.Join(parts, sep), nil
}

func (q *Query) renderWith(level int) string {
	if len(q.s.with) == 0 {
		return ""
	}
	entries := make([]string, 0, len(q.s.with))
	for _, w := range q.s.with {
		entry := q.plat.QuoteName(w.Name)
		if w.Fields != "" {
			entry += " (" + w.Fields + ")"
		}
		entry += " AS "
		if w.Materialized {
			entry += "MATERIALIZED "
		}
		entry += "(" + w.SQL + ")"
		entries = append(entries, entry)
	}
	kw := "WITH"
	for _, w := range q.s.with {
		if w.Recursive {
			kw = "WITH RECURSIVE"
			break
		}
	}
	return kw + " " + strings.Join(entries, ", ")
}

func (q *Query) renderSelect() (string, error) {
	target, err := q.targetName()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.s.selectItems) == 1 && q.s.selectItems[0] == "*" {
		b.WriteString("*")
	} else if len(q.s.selectItems) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(q.s.selectItems, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(q.renderTarget(target))

	joinSQL, err := q.renderJoins()
	if err != nil {
		return "", err
	}
	if joinSQL != "" {
		b.WriteString(" ")
		b.WriteString(joinSQL)
	}

	whereSQL, err := q.renderWherePairs()
	if err != nil {
		return "", err
	}
	if whereSQL != "" {
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
	}

	if unionSQL := q.renderUnion(); unionSQL != "" {
		b.WriteString(" ")
		b.WriteString(unionSQL)
	}
	if len(q.s.group) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(q.s.group, ", "))
	}
	if q.s.having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(q.s.having)
	}
	if len(q.s.order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.s.order, ", "))
	}
	if err := q.appendLimitOffset(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderTarget renders table/from/into: a value already containing
// whitespace or parens (a subquery fragment built by From) is passed
// through verbatim; a bare name is dialect-quoted.
func (q *Query) renderTarget(target string) string {
	if strings.ContainsAny(target, "( ") {
		return target
	}
	return q.plat.QuoteName(target)
}

func (q *Query) renderInsert() (string, error) {
	target, err := q.targetName()
	if err != nil {
		return "", err
	}
	if len(q.s.insert.Values) == 0 {
		return "", errors.NewQueryErrorKind(errors.KindEmptyInput,
			"insert() has no rows to render", nil)
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(q.plat.QuoteName(target))
	b.WriteString(" (")
	b.WriteString(q.s.insert.Fields)
	b.WriteString(") VALUES ")
	b.WriteString(strings.Join(q.s.insert.Values, ", "))

	if q.s.conflict != nil {
		frag, err := q.renderConflict()
		if err != nil {
			return "", err
		}
		b.WriteString(" ")
		b.WriteString(frag)
	}

	if q.s.ret != nil && q.plat.SupportsNativeReturning() {
		b.WriteString(" RETURNING ")
		b.WriteString(q.s.ret.Fields)
	}
	return b.String(), nil
}

func (q *Query) renderUpdate() (string, error) {
	target, err := q.targetName()
	if err != nil {
		return "", err
	}

	whereSQL, err := q.renderWherePairs()
	if err != nil {
		return "", err
	}
	if whereSQL == "" {
		return "", errors.NewQueryErrorKind(errors.KindMissingWhere,
			"update() requires a WHERE clause; pass an explicit 1=1 to opt out", nil)
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(q.plat.QuoteName(target))
	b.WriteString(" SET ")
	b.WriteString(strings.Join(q.s.update, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(whereSQL)

	if len(q.s.order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.s.order, ", "))
	}
	if err := q.appendLimitOffset(&b); err != nil {
		return "", err
	}
	if q.s.ret != nil && q.plat.SupportsNativeReturning() {
		b.WriteString(" RETURNING ")
		b.WriteString(q.s.ret.Fields)
	}
	return b.String(), nil
}

func (q *Query) renderDelete() (string, error) {
	target, err := q.targetName()
	if err != nil {
		return "", err
	}

	whereSQL, err := q.renderWherePairs()
	if err != nil {
		return "", err
	}
	if whereSQL == "" {
		return "", errors.NewQueryErrorKind(errors.KindMissingWhere,
			"delete() requires a WHERE clause; pass an explicit 1=1 to opt out", nil)
	}

	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(q.plat.QuoteName(target))
	b.WriteString(" WHERE ")
	b.WriteString(whereSQL)

	if len(q.s.order) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.s.order, ", "))
	}
	if err := q.appendLimitOffset(&b); err != nil {
		return "", err
	}
	if q.s.ret != nil && q.plat.SupportsNativeReturning() {
		b.WriteString(" RETURNING ")
		b.WriteString(q.s.ret.Fields)
	}
	return b.String(), nil
}

func (q *Query) appendLimitOffset(b *strings.Builder) error {
	if q.s.offset != nil && q.s.limit == nil {
		return errors.NewQueryErrorKind(errors.KindOffsetWithoutLimit,
			"offset() requires limit() to be set", nil)
	}
	if q.s.limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatInt(*q.s.limit, 10))
	}
	if q.s.offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.FormatInt(*q.s.offset, 10))
	}
	return nil
}

func (q *Query) renderJoins() (string, error) {
	if len(q.s.join) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(q.s.join))
	for _, j := range q.s.join {
		if j.Context == "" {
			return "", errors.NewQueryErrorKind(errors.KindJoinContextMissing,
				"join element rendered without ON or USING", nil)
		}
		parts = append(parts, j.Content+" "+j.Context)
	}
	return strings.Join(parts, " "), nil
}

func (q *Query) renderUnion() string {
	if len(q.s.union) == 0 {
		return ""
	}
	var b strings.Builder
	for _, u := range q.s.union {
		b.WriteString("UNION ")
		if u.All {
			b.WriteString("ALL ")
		}
		b.WriteString(u.SQL)
		b.WriteString(" ")
	}
	return strings.TrimRight(b.String(), " ")
}

// renderWherePairs renders the WHERE predicate list, including its own
// outer parens, but without the "WHERE " keyword — empty when no
// predicate has been accumulated. Pair i's Logic (i >= 1) is the operator
// placed immediately before it; a run of 3+ predicates opens a nested
// group exactly at the boundary where the joining operator changes,
// provided at least one more predicate follows that boundary.
func (q *Query) renderWherePairs() (string, error) {
	pairs := q.s.where
	if len(pairs) == 0 {
		return "", nil
	}
	if len(pairs) == 1 {
		return "(" + pairs[0].Expr + ")", nil
	}

	var b strings.Builder
	b.WriteString("(")
	b.WriteString(pairs[0].Expr)

	open := 0
	for i := 1; i < len(pairs); i++ {
		logic := pairs[i].Logic
		if logic == "" {
			logic = "AND"
		}
		boundary := i >= 2 && logic != pairs[i-1].Logic && i < len(pairs)-1
		b.WriteString(" ")
		b.WriteString(logic)
		b.WriteString(" ")
		if boundary {
			b.WriteString("(")
			open++
		}
		b.WriteString(pairs[i].Expr)
	}
	for ; open > 0; open-- {
		b.WriteString(")")
	}
	b.WriteString(")")
	return b.String(), nil
}

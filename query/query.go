// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package query implements the chainable, stack-based SQL builder: callers
// accumulate clauses onto a Query and render or execute it against a
// database.Database collaborator. A Query is not safe for concurrent
// mutation by design — confine one instance to one call site, the way the
// rest of this module confines a *sql.Tx to one goroutine.
package query

import (
	"sort"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/platform"
)

// Query accumulates SQL clauses onto a keyed stack and renders or executes
// them through a database.Database collaborator. Fallible mutating calls
// set a sticky error instead of breaking the fluent chain; check Err() (or
// let ToString/Run surface it) after a chain that might have failed.
type Query struct {
	plat *platform.Platform
	db   database.Database

	s   stack
	err error
}

// New constructs a Query bound to plat for dialect branching and db for
// escaping, preparing, and execution.
func New(plat *platform.Platform, db database.Database) *Query {
	return &Query{plat: plat, db: db}
}

// Err returns the sticky error set by the first fallible call in the
// current chain, if any.
func (q *Query) Err() error { return q.err }

// fail records err as the sticky error unless one is already set, so the
// first failure in a chain wins.
func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// targetName resolves the table a statement renders against: table, then
// from, then into, in that order. Fails with NoQueryReady if none is set.
func (q *Query) targetName() (string, error) {
	switch {
	case q.s.table != "":
		return q.s.table, nil
	case q.s.from != "":
		return q.s.from, nil
	case q.s.into != "":
		return q.s.into, nil
	default:
		return "", errors.NewQueryErrorKind(errors.KindNoQueryReady,
			"no table, from, or into target set", nil)
	}
}

// Table sets the statement's target table (replace-on-set). With no
// statement clause set, a Query with a table renders "SELECT * FROM table".
func (q *Query) Table(name string) *Query {
	if q.err != nil {
		return q
	}
	q.s.table = name
	return q
}

// From sets the SELECT/DELETE source table, or a subquery when src is a
// *Query (rendered parenthesized, aliased by as).
func (q *Query) From(src interface{}, as ...string) *Query {
	if q.err != nil {
		return q
	}
	switch v := src.(type) {
	case string:
		q.s.from = v
	case *Query:
		rendered, err := v.ToString()
		if err != nil {
			return q.fail(err)
		}
		frag := "(" + rendered + ")"
		if len(as) > 0 && as[0] != "" {
			frag += " AS " + q.plat.QuoteName(as[0])
		}
		q.s.from = frag
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"from() accepts a string or *Query", nil))
	}
	return q
}

// Into sets the INSERT target table for dialects/styles that spell it
// that way (replace-on-set, independent of Table).
func (q *Query) Into(name string) *Query {
	if q.err != nil {
		return q
	}
	q.s.into = name
	return q
}

// has reports whether the clause key is present with a non-empty value.
func (q *Query) Has(key string) bool {
	switch key {
	case "table":
		return q.s.table != ""
	case "from":
		return q.s.from != ""
	case "into":
		return q.s.into != ""
	case "select":
		return len(q.s.selectItems) > 0
	case "insert":
		return q.s.insert != nil
	case "update":
		return len(q.s.update) > 0
	case "delete":
		return q.s.del
	case "where":
		return len(q.s.where) > 0
	case "join":
		return len(q.s.join) > 0
	case "group":
		return len(q.s.group) > 0
	case "having":
		return q.s.having != ""
	case "order":
		return len(q.s.order) > 0
	case "limit":
		return q.s.limit != nil
	case "offset":
		return q.s.offset != nil
	case "union":
		return len(q.s.union) > 0
	case "with":
		return len(q.s.with) > 0
	case "return":
		return q.s.ret != nil
	case "conflict":
		return q.s.conflict != nil
	case "return.fallback":
		return q.s.returnFallback != nil
	case "append":
		return len(q.s.appendFrags) > 0
	default:
		return false
	}
}

// Pick returns a shallow snapshot of the clause key's payload, or nil if
// absent. The concrete type mirrors the data model's stack shape table.
func (q *Query) Pick(key string) interface{} {
	if !q.Has(key) {
		return nil
	}
	switch key {
	case "table":
		return q.s.table
	case "from":
		return q.s.from
	case "into":
		return q.s.into
	case "select":
		return append([]string(nil), q.s.selectItems...)
	case "insert":
		return *q.s.insert
	case "update":
		return append([]string(nil), q.s.update...)
	case "delete":
		return q.s.del
	case "where":
		return append([]wherePair(nil), q.s.where...)
	case "join":
		return append([]joinPair(nil), q.s.join...)
	case "group":
		return append([]string(nil), q.s.group...)
	case "having":
		return q.s.having
	case "order":
		return append([]string(nil), q.s.order...)
	case "limit":
		return *q.s.limit
	case "offset":
		return *q.s.offset
	case "union":
		return append([]unionPair(nil), q.s.union...)
	case "with":
		return append([]withEntry(nil), q.s.with...)
	case "return":
		return *q.s.ret
	case "conflict":
		return *q.s.conflict
	case "return.fallback":
		return *q.s.returnFallback
	case "append":
		return append([]string(nil), q.s.appendFrags...)
	default:
		return nil
	}
}

// Pull returns the same value as Pick and drops the key.
func (q *Query) Pull(key string) interface{} {
	v := q.Pick(key)
	q.Drop(key)
	return v
}

// Drop clears the clause key.
func (q *Query) Drop(key string) *Query {
	switch key {
	case "table":
		q.s.table = ""
	case "from":
		q.s.from = ""
	case "into":
		q.s.into = ""
	case "select":
		q.s.selectItems = nil
	case "insert":
		q.s.insert = nil
	case "update":
		q.s.update = nil
	case "delete":
		q.s.del = false
	case "where":
		q.s.where = nil
	case "join":
		q.s.join = nil
	case "group":
		q.s.group = nil
	case "having":
		q.s.having = ""
	case "order":
		q.s.order = nil
	case "limit":
		q.s.limit = nil
	case "offset":
		q.s.offset = nil
	case "union":
		q.s.union = nil
	case "with":
		q.s.with = nil
	case "return":
		q.s.ret = nil
	case "conflict":
		q.s.conflict = nil
	case "return.fallback":
		q.s.returnFallback = nil
	case "append":
		q.s.appendFrags = nil
	}
	return q
}

// Reset clears the entire stack and any sticky error, keeping the bound
// platform and database.
func (q *Query) Reset() *Query {
	q.s = stack{}
	q.err = nil
	return q
}

// Clone returns an independent copy of q. When reset is true the copy's
// stack is cleared (its ToString will raise NoQueryReady) while the
// platform/database binding is preserved — useful for building a fresh
// statement against the same connection.
func (q *Query) Clone(reset ...bool) *Query {
	c := &Query{plat: q.plat, db: q.db, err: q.err}
	if len(reset) > 0 && reset[0] {
		return c
	}
	c.s = *q.s.clone()
	return c
}

// Merge copies every clause from other onto q, appending sequence keys and
// overwriting scalar/replace keys. Merging a clone into an empty Query
// (q.Clone(true).Merge(q.Clone())) therefore renders the same SQL as q;
// merging into a Query that already holds clauses appends to them.
func (q *Query) Merge(other *Query) *Query {
	if q.err != nil {
		return q
	}
	o := other.s
	if o.table != "" {
		q.s.table = o.table
	}
	if o.from != "" {
		q.s.from = o.from
	}
	if o.into != "" {
		q.s.into = o.into
	}
	q.s.selectItems = append(q.s.selectItems, o.selectItems...)
	if o.insert != nil {
		ip := *o.insert
		ip.Values = append([]string(nil), o.insert.Values...)
		q.s.insert = &ip
	}
	if len(o.update) > 0 {
		q.s.update = append([]string(nil), o.update...)
	}
	if o.del {
		q.s.del = true
	}
	q.s.where = append(q.s.where, o.where...)
	q.s.join = append(q.s.join, o.join...)
	q.s.group = append(q.s.group, o.group...)
	if o.having != "" {
		q.s.having = o.having
	}
	q.s.order = append(q.s.order, o.order...)
	if o.limit != nil {
		l := *o.limit
		q.s.limit = &l
	}
	if o.offset != nil {
		off := *o.offset
		q.s.offset = &off
	}
	q.s.union = append(q.s.union, o.union...)
	q.s.with = append(q.s.with, o.with...)
	if o.ret != nil {
		rp := *o.ret
		q.s.ret = &rp
	}
	if o.conflict != nil {
		cp := *o.conflict
		q.s.conflict = &cp
	}
	if o.returnFallback != nil {
		rf := *o.returnFallback
		q.s.returnFallback = &rf
	}
	q.s.appendFrags = append(q.s.appendFrags, o.appendFrags...)
	return q
}

// ToArray flattens the stack into a key->payload map for inspection or
// logging. The result is a Go map, so its iteration order is not defined;
// sortKeys only changes the order in which keys are collected and has no
// visible effect on the returned map.
func (q *Query) ToArray(sortKeys ...bool) map[string]interface{} {
	keys := []string{"table", "from", "into", "select", "insert", "update",
		"delete", "where", "join", "group", "having", "order", "limit",
		"offset", "union", "with", "return", "conflict", "return.fallback", "append"}
	if len(sortKeys) > 0 && sortKeys[0] {
		sort.Strings(keys)
	}
	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if q.Has(k) {
			out[k] = q.Pick(k)
		}
	}
	return out
}

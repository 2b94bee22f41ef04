// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import "github.com/kerem/qstack/database"

// wherePair is one accumulated WHERE predicate. Logic is the boolean
// operator placed immediately before Expr when rendering (it is unused
// on the first pair, since nothing precedes it). or()/and() mutate the
// trailing pair's Logic in place, which changes the operator rendered
// before that pair (and has no visible effect when it is the only pair).
type wherePair struct {
	Expr  string
	Logic string
}

// joinPair is one accumulated JOIN clause. Context holds the ON/USING
// fragment attached by a following on()/using() call; an empty Context at
// render time is a JoinContextMissing error.
type joinPair struct {
	Content string
	Context string
}

type unionPair struct {
	SQL string
	All bool
}

type withEntry struct {
	Name         string
	SQL          string
	Fields       string
	Recursive    bool
	Materialized bool
}

type insertPayload struct {
	Fields   string
	Values   []string
	Sequence bool
}

type returnPayload struct {
	Fields string
	Fetch  string
}

type conflictPayload struct {
	Fields string
	Action string
	Update string
	Where  string
}

// stack is the keyed clause accumulator described by the query engine's
// data model: each exported-in-spirit field corresponds to one stack key.
// Sequence keys (select, where, join, group, order, union, with, append)
// grow by append; scalar keys (table, from, into, having, limit, offset)
// replace on set; insert/update/delete/return/conflict replace as a unit.
type stack struct {
	table string
	from  string
	into  string

	selectItems []string

	insert *insertPayload
	update []string
	del    bool

	where []wherePair
	join  []joinPair

	group  []string
	having string
	order  []string

	limit  *int64
	offset *int64

	union []unionPair
	with  []withEntry

	ret            *returnPayload
	conflict       *conflictPayload
	returnFallback *database.ReturnFallback

	appendFrags []string
}

func (s *stack) clone() *stack {
	c := *s
	c.selectItems = append([]string(nil), s.selectItems...)
	c.update = append([]string(nil), s.update...)
	c.where = append([]wherePair(nil), s.where...)
	c.join = append([]joinPair(nil), s.join...)
	c.group = append([]string(nil), s.group...)
	c.order = append([]string(nil), s.order...)
	c.union = append([]unionPair(nil), s.union...)
	c.with = append([]withEntry(nil), s.with...)
	c.appendFrags = append([]string(nil), s.appendFrags...)
	if s.insert != nil {
		ip := *s.insert
		ip.Values = append([]string(nil), s.insert.Values...)
		c.insert = &ip
	}
	if s.ret != nil {
		rp := *s.ret
		c.ret = &rp
	}
	if s.conflict != nil {
		cp := *s.conflict
		c.conflict = &cp
	}
	if s.limit != nil {
		l := *s.limit
		c.limit = &l
	}
	if s.offset != nil {
		o := *s.offset
		c.offset = &o
	}
	return &c
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package entity

import (
	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/query"
)

// State is the scratch bag an Entity's manager writes into after commit:
// whether the query returned any rows, which statement kind ran, plus
// caller-defined slots for anything else worth carrying alongside the row.
type State struct {
	Okay   bool
	Action string
	slots  map[string]interface{}
}

// Set stores an arbitrary caller slot on the state bag.
func (s *State) Set(key string, value interface{}) {
	if s.slots == nil {
		s.slots = make(map[string]interface{})
	}
	s.slots[key] = value
}

// Get returns a caller slot and whether it is present.
func (s *State) Get(key string) (interface{}, bool) {
	v, ok := s.slots[key]
	return v, ok
}

// Entity is a row-backed object carrying a prepared Query, its dynamic
// field data, and post-commit state. It is constructed empty, chained
// through Query() to build its statement, then handed to an
// EntryManager's Attach/Commit.
type Entity struct {
	data   *Data
	q      *query.Query
	result database.Result
	state  State
}

// New constructs an empty Entity bound to q (the statement this entity
// will execute on commit).
func New(q *query.Query) *Entity {
	return &Entity{data: NewData(), q: q}
}

// Query returns the builder this entity will execute on commit, for
// chaining further clause calls.
func (e *Entity) Query() *query.Query { return e.q }

// Data returns the entity's field mapping.
func (e *Entity) Data() *Data { return e.data }

// State returns the entity's scratch state bag.
func (e *Entity) State() *State { return &e.state }

// Result returns the Result captured from the last commit, if any.
func (e *Entity) Result() database.Result { return e.result }

// SetResult records result and mirrors its first row, if any, into the
// entity's Data. Exported so an EntryManager in another package can drive
// it; not meant to be called directly by ordinary callers.
func (e *Entity) SetResult(result database.Result) {
	e.result = result
	if row, ok := result.First(); ok {
		e.data.Update(row)
	}
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package entity

import (
	ireflect "github.com/kerem/qstack/internal/reflect"
	"github.com/kerem/qstack/internal/sqlcache"
	"github.com/kerem/qstack/query"
)

// FromStruct extracts model's tagged, exported fields (via the "qstack"
// struct tag) into a new Entity bound to q, with q.Insert already called
// on the extracted field map. model is typically a pointer to a struct
// whose fields carry `qstack:"column:..."` tags; untagged fields fall
// back to their snake_cased Go name. If q has no table set yet, one is
// derived from model's type name and applied.
func FromStruct(q *query.Query, model interface{}) (*Entity, error) {
	values, err := ireflect.GetFieldValues(model)
	if err != nil {
		return nil, err
	}

	if !q.Has("table") {
		q.Table(sqlcache.TableNameFor(model))
	}
	q.Insert(values)

	e := New(q)
	e.Data().Update(values)
	return e, nil
}

// ToStruct copies e's current Data back onto model's tagged fields.
// model must be a pointer. Unknown or write-only fields are skipped.
func ToStruct(e *Entity, model interface{}) error {
	return ireflect.SetFieldValues(model, e.Data().ToArray())
}

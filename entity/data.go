// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package entity implements the row-backed Entity object the transaction
// commit loop updates from returned rows: an insertion-ordered field map
// plus a scratch state bag for okay/action bookkeeping.
package entity

// Data is an insertion-ordered mapping from field name to value. Unlike a
// bare map[string]interface{}, it preserves the order fields were first
// set, matching how a row's columns are discovered.
type Data struct {
	order  []string
	values map[string]interface{}
}

// NewData returns an empty Data.
func NewData() *Data {
	return &Data{values: make(map[string]interface{})}
}

// Set stores value under field, appending field to the order if new.
func (d *Data) Set(field string, value interface{}) {
	if _, ok := d.values[field]; !ok {
		d.order = append(d.order, field)
	}
	d.values[field] = value
}

// Get returns field's value and whether it is present.
func (d *Data) Get(field string) (interface{}, bool) {
	v, ok := d.values[field]
	return v, ok
}

// Has reports whether field is present.
func (d *Data) Has(field string) bool {
	_, ok := d.values[field]
	return ok
}

// Remove deletes field, if present.
func (d *Data) Remove(field string) {
	if _, ok := d.values[field]; !ok {
		return
	}
	delete(d.values, field)
	for i, f := range d.order {
		if f == field {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Update merges mapping into d in mapping's key order (Go maps have no
// stable order, so callers that need deterministic merge order should
// call Set per field instead).
func (d *Data) Update(mapping map[string]interface{}) {
	for field, value := range mapping {
		d.Set(field, value)
	}
}

// Select returns the subset of d restricted to fields. When combine is
// true, the result is returned as a single map[string]interface{};
// otherwise it is returned as an ordered []interface{} of values aligned
// to fields.
func (d *Data) Select(fields []string, combine bool) interface{} {
	if combine {
		out := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			if v, ok := d.values[f]; ok {
				out[f] = v
			}
		}
		return out
	}
	out := make([]interface{}, len(fields))
	for i, f := range fields {
		out[i] = d.values[f]
	}
	return out
}

// Empty reports whether d holds no fields.
func (d *Data) Empty() bool { return len(d.order) == 0 }

// ToArray returns d's fields as a plain name->value map. The map does not
// keep insertion order; use Fields for the ordered field names.
func (d *Data) ToArray() map[string]interface{} {
	out := make(map[string]interface{}, len(d.order))
	for _, f := range d.order {
		out[f] = d.values[f]
	}
	return out
}

// Fields returns the field names in insertion order.
func (d *Data) Fields() []string {
	return append([]string(nil), d.order...)
}

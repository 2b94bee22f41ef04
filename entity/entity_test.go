// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/entity"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

func TestDataOrderedInsertion(t *testing.T) {
	t.Parallel()
	d := entity.NewData()
	d.Set("name", "bob")
	d.Set("age", 30)
	assert.Equal(t, []string{"name", "age"}, d.Fields())
}

func TestDataRemoveDropsFromOrder(t *testing.T) {
	t.Parallel()
	d := entity.NewData()
	d.Set("a", 1)
	d.Set("b", 2)
	d.Remove("a")
	assert.Equal(t, []string{"b"}, d.Fields())
	assert.False(t, d.Has("a"))
}

func TestDataSelectCombine(t *testing.T) {
	t.Parallel()
	d := entity.NewData()
	d.Set("a", 1)
	d.Set("b", 2)
	combined := d.Select([]string{"a"}, true).(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"a": 1}, combined)
}

func TestEntitySetResultMirrorsFirstRow(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, nil)
	e := entity.New(q)

	e.SetResult(&stubResult{rows: []map[string]interface{}{{"id": int64(1), "name": "bob"}}})

	v, ok := e.Data().Get("name")
	assert.True(t, ok)
	assert.Equal(t, "bob", v)
}

// stubResult is a minimal database.Result double for entity tests.
type stubResult struct {
	rows []map[string]interface{}
}

func (r *stubResult) Count() int { return len(r.rows) }
func (r *stubResult) First() (map[string]interface{}, bool) {
	if len(r.rows) == 0 {
		return nil, false
	}
	return r.rows[0], true
}
func (r *stubResult) Rows(i ...int) interface{}                   { return r.rows }
func (r *stubResult) ID() (int64, bool)                           { return 0, false }
func (r *stubResult) IDs() []int64                                { return nil }
func (r *stubResult) GetRow() (map[string]interface{}, bool)      { return r.First() }
func (r *stubResult) GetRows() []map[string]interface{}          { return r.rows }

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package entity_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/entity"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

type person struct {
	Name string `qstack:"column:full_name"`
	Age  int
}

// literalDB is a bare-bones database.Database double: it renders values
// with fmt rather than real dialect quoting, just enough for Insert's
// eager escaping not to panic on a nil collaborator.
type literalDB struct{}

func (literalDB) Escape(value interface{}, format ...string) (string, error) {
	return fmt.Sprintf("%v", value), nil
}
func (literalDB) EscapeName(name string) (string, error)          { return name, nil }
func (literalDB) EscapeNames(csv string) (string, error)          { return csv, nil }
func (literalDB) EscapeLikeString(s string, full bool) (string, error) { return s, nil }
func (literalDB) Prepare(sql string, params ...interface{}) (string, error) { return sql, nil }
func (literalDB) Query(sql string, opts database.QueryOptions) (database.Result, error) {
	return nil, fmt.Errorf("literalDB does not support querying")
}
func (literalDB) Execute(sql string) (int, error)    { return 0, nil }
func (literalDB) CountQuery(sql string) (int, error) { return 0, nil }
func (literalDB) Begin() (database.Tx, error)        { return nil, fmt.Errorf("literalDB does not support transactions") }

func TestFromStructExtractsTaggedFields(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, literalDB{})

	model := person{Name: "bob", Age: 30}
	e, err := entity.FromStruct(q, &model)
	require.NoError(t, err)

	v, ok := e.Data().Get("full_name")
	assert.True(t, ok)
	assert.Equal(t, "bob", v)

	v, ok = e.Data().Get("age")
	assert.True(t, ok)
	assert.Equal(t, 30, v)

	assert.True(t, q.Has("insert"))
	assert.True(t, q.Has("table"))
}

func TestFromStructDerivesTableNameWhenUnset(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, literalDB{})

	model := person{Name: "bob"}
	_, err = entity.FromStruct(q, &model)
	require.NoError(t, err)

	sqlText, err := q.ToString()
	require.NoError(t, err)
	assert.Contains(t, sqlText, `"persons"`)
}

func TestFromStructKeepsExplicitTable(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, literalDB{})
	q.Table("people")

	model := person{Name: "bob"}
	_, err = entity.FromStruct(q, &model)
	require.NoError(t, err)

	sqlText, err := q.ToString()
	require.NoError(t, err)
	assert.Contains(t, sqlText, `"people"`)
}

func TestToStructWritesBackFields(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, nil)
	e := entity.New(q)
	e.Data().Set("full_name", "alice")
	e.Data().Set("age", 25)

	var out person
	require.NoError(t, entity.ToStruct(e, &out))
	assert.Equal(t, "alice", out.Name)
	assert.Equal(t, 25, out.Age)
}

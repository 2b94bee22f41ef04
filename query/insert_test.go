// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/query"
)

func TestInsertMapSortsFieldsAlphabetically(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("users").
		Insert(map[string]interface{}{"name": "bob", "age": 30}).
		ToString()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES (30, 'bob')`, sqlText)
}

func TestInsertRowPreservesDeclaredOrder(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("users").
		Insert(query.Row(
			query.FieldValue{Name: "name", Value: "bob"},
			query.FieldValue{Name: "age", Value: 30},
		)).
		ToString()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "age") VALUES ('bob', 30)`, sqlText)
}

func TestInsertBatchArityMismatchFails(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("users").Insert([]map[string]interface{}{
		{"name": "bob", "age": 30},
		{"name": "alice"},
	})
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindInsertArity))
}

func TestInsertEmptyMapFails(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("users").Insert(map[string]interface{}{})
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindEmptyInput))
}

func TestInsertRowsExplicitArityMismatchFails(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("users").Insert(query.InsertRows{
		Fields: []string{"name", "age"},
		Values: [][]interface{}{{"bob"}},
	})
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindInsertArity))
}

func TestInsertBatchRenders(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("users").Insert([]map[string]interface{}{
		{"name": "bob", "age": 30},
		{"name": "alice", "age": 25},
	}).ToString()
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES (30, 'bob'), (25, 'alice')`, sqlText)
}

func TestStickyErrorFirstFailureWins(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("t").Or() // NoPrecedingClause: first failure
	firstErr := q.Err()
	q.WhereEqual("a", 1) // should be a no-op once q.err is set
	assert.Same(t, firstErr, q.Err())
}

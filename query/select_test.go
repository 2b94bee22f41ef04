// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

func TestAggregateCount(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("orders").SelectCount("id", "total").ToString()
	require.NoError(t, err)
	assert.Equal(t, `SELECT count("id") AS "total" FROM "orders"`, sqlText)
}

func TestAggregateUnknownFunctionFails(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("orders").Aggregate("median", "id", "")
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindUnknownAggregate))
}

func TestAggregateSuffixedArrayAgg(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("orders").Aggregate("array", "id", "ids", query.AggregateOptions{Distinct: true}).ToString()
	require.NoError(t, err)
	assert.Equal(t, `SELECT array_agg(DISTINCT "id") AS "ids" FROM "orders"`, sqlText)
}

func TestSelectJsonObjectOnPgsql(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	sqlText, err := q.Table("users").SelectJson(map[string]string{"n": "name"}, "info").ToString()
	require.NoError(t, err)
	assert.Equal(t, `SELECT json_build_object('n', "name") AS "info" FROM "users"`, sqlText)
}

func TestSelectJsonUnsupportedOnSqlite(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("sqlite")
	require.NoError(t, err)
	db := newFakeDB("sqlite")
	q := query.New(plat, db)
	q.Table("users").SelectJson([]string{"name"})
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindUnsupportedDialect))
}

func TestSelectEmptyFails(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("t").Select()
	require.Error(t, q.Err())
	assert.True(t, errors.IsKind(q.Err(), errors.KindEmptyInput))
}

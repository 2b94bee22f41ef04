// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHashIsStableAndValueSensitive(t *testing.T) {
	t.Parallel()
	q1, _ := newPgQuery(t)
	q1.Table("t").WhereEqual("a", 1)
	h1, err := q1.ToHash()
	require.NoError(t, err)

	q2, _ := newPgQuery(t)
	q2.Table("t").WhereEqual("a", 1)
	h2, err := q2.ToHash()
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32) // md5 hex digest

	q3, _ := newPgQuery(t)
	q3.Table("t").WhereEqual("a", 2)
	h3, err := q3.ToHash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestToHashSha256Length(t *testing.T) {
	t.Parallel()
	q, _ := newPgQuery(t)
	q.Table("t").WhereEqual("a", 1)
	h, err := q.ToHash("sha256")
	require.NoError(t, err)
	assert.Len(t, h, 64)
}

func TestRunPassesRenderedSQL(t *testing.T) {
	t.Parallel()
	q, db := newPgQuery(t)
	db.queueResult(&fakeResult{rows: []map[string]interface{}{{"id": int64(1)}}})

	row, ok, err := q.Table("t").WhereEqual("id", 1).Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), row["id"])
	require.Len(t, db.calls, 1)
	assert.Equal(t, `SELECT * FROM "t" WHERE ("id" = 1)`, db.calls[0])
}

func TestCommitResetsStackKeepingTable(t *testing.T) {
	t.Parallel()
	q, db := newPgQuery(t)
	db.queueResult(&fakeResult{})

	_, err := q.Table("t").WhereEqual("id", 1).Commit()
	require.NoError(t, err)

	assert.False(t, q.Has("where"))
	assert.Equal(t, "t", q.Pick("table"))
}

func TestPaginateAppliesLimitOffset(t *testing.T) {
	t.Parallel()
	q, db := newPgQuery(t)
	db.queueResult(&fakeResult{rows: []map[string]interface{}{{"id": int64(1)}}})

	rows, paginator, err := q.Table("t").Paginate(2, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, paginator)
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0], "LIMIT 10 OFFSET 10")
}

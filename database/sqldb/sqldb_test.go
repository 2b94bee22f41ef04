// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqldb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/platform"
)

func newCore(t *testing.T, dialect string) *core {
	t.Helper()
	plat, err := platform.New(dialect)
	require.NoError(t, err)
	return &core{driver: dialect, platform: plat}
}

func TestCoreEscapeScalars(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")

	s, err := c.Escape(nil)
	require.NoError(t, err)
	assert.Equal(t, "NULL", s)

	s, err = c.Escape(42)
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	s, err = c.Escape("O'Brien")
	require.NoError(t, err)
	assert.Equal(t, "'O''Brien'", s)

	s, err = c.Escape(true)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", s)
}

func TestCoreEscapeBoolByDialect(t *testing.T) {
	t.Parallel()
	my := newCore(t, "mysql")
	s, err := my.Escape(true)
	require.NoError(t, err)
	assert.Equal(t, "1", s)

	s, err = my.Escape(false)
	require.NoError(t, err)
	assert.Equal(t, "0", s)
}

func TestCoreEscapeSlice(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := c.Escape([]interface{}{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "1, 2, 3", s)
}

func TestCoreEscapeTime(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s, err := c.Escape(ts)
	require.NoError(t, err)
	assert.Equal(t, "'2026-01-02 03:04:05'", s)
}

func TestCoreEscapeName(t *testing.T) {
	t.Parallel()
	c := newCore(t, "mysql")
	s, err := c.EscapeName("users")
	require.NoError(t, err)
	assert.Equal(t, "`users`", s)
}

func TestCoreEscapeNamesSplitsOnCommaAndWhitespace(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := c.EscapeNames("id, name  age")
	require.NoError(t, err)
	assert.Equal(t, `"id", "name", "age"`, s)
}

func TestCoreEscapeLikeStringEscapesWildcards(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := c.EscapeLikeString("50%_off", true)
	require.NoError(t, err)
	assert.Equal(t, `'50\%\_off'`, s)

	s, err = c.EscapeLikeString("50%_off", false)
	require.NoError(t, err)
	assert.Equal(t, `50\%\_off`, s)
}

func TestPreparePositionalPlaceholder(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := prepare(c, "id = ? AND name = ?", []interface{}{5, "Kerem"})
	require.NoError(t, err)
	assert.Equal(t, "id = 5 AND name = 'Kerem'", s)
}

func TestPrepareRawPlaceholder(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := prepare(c, "id IN (?r)", []interface{}{"SELECT id FROM active"})
	require.NoError(t, err)
	assert.Equal(t, "id IN (SELECT id FROM active)", s)
}

func TestPrepareNamePlaceholder(t *testing.T) {
	t.Parallel()
	c := newCore(t, "mysql")
	s, err := prepare(c, "SELECT @name FROM t", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT `name` FROM t", s)
}

func TestPrepareNameListPlaceholder(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	s, err := prepare(c, "SELECT @[id, name] FROM t", nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM t`, s)
}

func TestPrepareNotEnoughParamsFails(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	_, err := prepare(c, "id = ?", nil)
	require.Error(t, err)
}

func TestPrepareUnterminatedNameListFails(t *testing.T) {
	t.Parallel()
	c := newCore(t, "pgsql")
	_, err := prepare(c, "SELECT @[id, name FROM t", nil)
	require.Error(t, err)
}

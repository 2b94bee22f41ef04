// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package manager_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/entity"
	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/log"
	"github.com/kerem/qstack/manager"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

// capturingLogger is a log.Logger double that records every message
// logged at Debug/Error level plus its fields, so tests can assert
// Commit actually logs without wiring up a real formatter/output.
type capturingLogger struct {
	debugged []log.Fields
	errored  []string
}

func (l *capturingLogger) Debug(msg string, fields ...log.Field) {
	l.debugged = append(l.debugged, log.Fields(fields))
}
func (l *capturingLogger) Info(msg string, fields ...log.Field) {}
func (l *capturingLogger) Warn(msg string, fields ...log.Field) {}
func (l *capturingLogger) Error(msg string, fields ...log.Field) {
	l.errored = append(l.errored, msg)
}
func (l *capturingLogger) Fatal(msg string, fields ...log.Field) {}

func (l *capturingLogger) WithField(key string, value interface{}) log.Logger { return l }
func (l *capturingLogger) WithFields(fields ...log.Field) log.Logger          { return l }
func (l *capturingLogger) WithError(err error) log.Logger                    { return l }

func (l *capturingLogger) SetLevel(level log.Level)             {}
func (l *capturingLogger) GetLevel() log.Level                  { return log.DebugLevel }
func (l *capturingLogger) SetFormatter(formatter log.Formatter) {}
func (l *capturingLogger) AddWriter(writer io.Writer)            {}
func (l *capturingLogger) SetOutput(output io.Writer)            {}

// fakeTxDB is a minimal database.Database double whose Begin() returns a
// working fakeTx, so manager.Commit's transactional path can be exercised
// without a real driver.
type fakeTxDB struct {
	plat        *platform.Platform
	queries     []string
	failQuery   string
	failOnBegin bool
	lastTx      *fakeTx
}

func newFakeTxDB(dialect string) *fakeTxDB {
	plat, err := platform.New(dialect)
	if err != nil {
		panic(err)
	}
	return &fakeTxDB{plat: plat}
}

func (f *fakeTxDB) Escape(value interface{}, format ...string) (string, error) {
	return fmt.Sprintf("%v", value), nil
}

func (f *fakeTxDB) EscapeName(name string) (string, error) { return f.plat.QuoteName(name), nil }

func (f *fakeTxDB) EscapeNames(csv string) (string, error) { return csv, nil }

func (f *fakeTxDB) EscapeLikeString(s string, full bool) (string, error) { return s, nil }

func (f *fakeTxDB) Prepare(sql string, params ...interface{}) (string, error) { return sql, nil }

func (f *fakeTxDB) Query(sql string, opts database.QueryOptions) (database.Result, error) {
	return &fakeTxResult{}, nil
}

func (f *fakeTxDB) Execute(sql string) (int, error) { return 1, nil }

func (f *fakeTxDB) CountQuery(sql string) (int, error) { return 0, nil }

func (f *fakeTxDB) Begin() (database.Tx, error) {
	if f.failOnBegin {
		return nil, fmt.Errorf("connection refused")
	}
	tx := &fakeTx{fakeTxDB: f}
	f.lastTx = tx
	return tx, nil
}

// fakeTx layers transaction bookkeeping over fakeTxDB; queries run
// against it are recorded separately so a test can confirm they ran
// inside the transaction, not against the outer database.
type fakeTx struct {
	*fakeTxDB
	committed bool
	rolledBack bool
}

func (tx *fakeTx) Query(sql string, opts database.QueryOptions) (database.Result, error) {
	tx.queries = append(tx.queries, sql)
	if tx.failQuery != "" && sql == tx.failQuery {
		return nil, fmt.Errorf("simulated query failure")
	}
	return &fakeTxResult{rows: []map[string]interface{}{{"id": int64(len(tx.queries))}}}, nil
}

func (tx *fakeTx) Commit() error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.rolledBack = true
	return nil
}

type fakeTxResult struct {
	rows []map[string]interface{}
}

func (r *fakeTxResult) Count() int { return len(r.rows) }
func (r *fakeTxResult) First() (map[string]interface{}, bool) {
	if len(r.rows) == 0 {
		return nil, false
	}
	return r.rows[0], true
}
func (r *fakeTxResult) Rows(i ...int) interface{}              { return r.rows }
func (r *fakeTxResult) ID() (int64, bool)                      { return 0, false }
func (r *fakeTxResult) IDs() []int64                            { return nil }
func (r *fakeTxResult) GetRow() (map[string]interface{}, bool) { return r.First() }
func (r *fakeTxResult) GetRows() []map[string]interface{}      { return r.rows }

func newEntity(t *testing.T, db database.Database, table string) *entity.Entity {
	t.Helper()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	q := query.New(plat, db)
	q.Table(table).Insert(map[string]interface{}{"name": "bob"})
	return entity.New(q)
}

func TestCommitRunsAttachedEntitiesInOrderAndCommits(t *testing.T) {
	t.Parallel()
	db := newFakeTxDB("pgsql")

	m, err := manager.New(db, nil)
	require.NoError(t, err)

	e1 := newEntity(t, db, "users")
	e2 := newEntity(t, db, "accounts")
	m.Attach(e1)
	m.Attach(e2)
	assert.Equal(t, 2, m.Count())

	committed, err := m.Commit()
	require.NoError(t, err)
	assert.Len(t, committed, 2)
	assert.True(t, db.lastTx.committed)
	assert.False(t, db.lastTx.rolledBack)
	assert.Len(t, db.lastTx.queries, 2)

	assert.True(t, e1.State().Okay)
	assert.Equal(t, "insert", e1.State().Action)
	assert.True(t, e2.State().Okay)

	assert.True(t, m.Empty())
}

func TestCommitLogsOneDebugLinePerAttachedEntity(t *testing.T) {
	t.Parallel()
	db := newFakeTxDB("pgsql")
	logger := &capturingLogger{}

	m, err := manager.New(db, nil, manager.WithLogger(logger))
	require.NoError(t, err)

	e1 := newEntity(t, db, "users")
	e2 := newEntity(t, db, "accounts")
	m.Attach(e1)
	m.Attach(e2)

	_, err = m.Commit()
	require.NoError(t, err)

	require.Len(t, logger.debugged, 2)
	assert.Empty(t, logger.errored)
	for _, fields := range logger.debugged {
		var sawAction, sawRows, sawDuration bool
		for _, f := range fields {
			switch f.Key {
			case "action":
				sawAction = f.Value == "insert"
			case "rows":
				sawRows = true
			case "duration":
				sawDuration = true
			}
		}
		assert.True(t, sawAction, "expected an action field set to insert")
		assert.True(t, sawRows, "expected a rows field")
		assert.True(t, sawDuration, "expected a duration field")
	}
}

func TestCommitLogsErrorOnQueryFailure(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	db := newFakeTxDB("pgsql")

	q1 := query.New(plat, db)
	q1.Table("users").Insert(map[string]interface{}{"name": "bob"})
	sqlText, err := q1.ToString()
	require.NoError(t, err)
	db.failQuery = sqlText

	logger := &capturingLogger{}
	m, err := manager.New(db, nil, manager.WithLogger(logger))
	require.NoError(t, err)
	m.Attach(entity.New(q1))

	_, err = m.Commit()
	require.Error(t, err)
	assert.NotEmpty(t, logger.errored)
}

func TestCommitRollsBackOnQueryFailureAndLeavesPriorEntitiesUntouched(t *testing.T) {
	t.Parallel()
	plat, err := platform.New("pgsql")
	require.NoError(t, err)
	db := newFakeTxDB("pgsql")

	q1 := query.New(plat, db)
	q1.Table("users").Insert(map[string]interface{}{"name": "bob"})
	sqlText, err := q1.ToString()
	require.NoError(t, err)

	db.failQuery = sqlText

	m, err := manager.New(db, nil)
	require.NoError(t, err)

	e1 := entity.New(q1)
	e2 := newEntity(t, db, "accounts")
	m.Attach(e2)
	m.Attach(e1)

	_, err = m.Commit()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindDelegatedDatabaseError))

	assert.True(t, db.lastTx.rolledBack)
	assert.False(t, db.lastTx.committed)

	assert.False(t, e1.State().Okay)
	assert.Equal(t, "", e2.State().Action)
	assert.Equal(t, 2, m.Count())
}

func TestCommitFailsWithNoAttachedEntities(t *testing.T) {
	t.Parallel()
	db := newFakeTxDB("pgsql")
	m, err := manager.New(db, nil)
	require.NoError(t, err)

	_, err = m.Commit()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNoEntitiesAttached))
}

func TestNewFallsBackToRegistryDefault(t *testing.T) {
	t.Parallel()
	db := newFakeTxDB("pgsql")
	reg := manager.NewRegistry()
	reg.SetDefault(db)

	m, err := manager.New(nil, reg)
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestNewFailsWithoutDatabaseOrRegistryDefault(t *testing.T) {
	t.Parallel()
	_, err := manager.New(nil, manager.NewRegistry())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNoDefaultDatabase))
}

func TestAttachIsIdempotentAndDetachRemoves(t *testing.T) {
	t.Parallel()
	db := newFakeTxDB("pgsql")
	m, err := manager.New(db, nil)
	require.NoError(t, err)

	e := newEntity(t, db, "users")
	m.Attach(e)
	m.Attach(e)
	assert.Equal(t, 1, m.Count())

	m.Detach(e)
	assert.True(t, m.Empty())
}

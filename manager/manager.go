// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package manager

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/entity"
	"github.com/kerem/qstack/errors"
	"github.com/kerem/qstack/log"
)

// statementKeys is the order clause-presence is checked to derive an
// entity's post-commit Action, matching the stack's statement precedence.
var statementKeys = []string{"select", "insert", "update", "delete"}

// EntryManager attaches entities carrying prepared queries and executes
// them together inside a single transaction: commit() runs every
// attached entity's query in attach order, updates each entity's data
// from its first returned row, and commits — or rolls back the whole
// transaction on the first error.
type EntryManager struct {
	db       database.Database
	entities []*entity.Entity
	index    map[*entity.Entity]bool
	logger   log.Logger
}

// Option configures an EntryManager at construction time.
type Option func(*EntryManager)

// WithLogger attaches a structured logger; Commit logs one DebugLevel
// line per attached entity as it executes (log.CommitFields: action,
// rows, duration), and an ErrorLevel line if rendering, beginning,
// executing, or committing the transaction fails.
func WithLogger(logger log.Logger) Option {
	return func(m *EntryManager) { m.logger = logger }
}

// New constructs an EntryManager bound to db. If db is nil, New looks up
// registry's default database once, here, and returns its error if none
// is registered (NoDefaultDatabase when registry itself is nil).
func New(db database.Database, registry *Registry, opts ...Option) (*EntryManager, error) {
	if db == nil {
		if registry == nil {
			return nil, errors.NewQueryErrorKind(errors.KindNoDefaultDatabase,
				"EntryManager requires a database or a registry", nil)
		}
		d, err := registry.GetDefault()
		if err != nil {
			return nil, err
		}
		db = d
	}
	m := &EntryManager{db: db, index: make(map[*entity.Entity]bool)}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Attach registers e with the manager, if not already attached,
// preserving insertion (attach) order.
func (m *EntryManager) Attach(e *entity.Entity) {
	if m.index[e] {
		return
	}
	m.index[e] = true
	m.entities = append(m.entities, e)
}

// Detach removes e from the manager's attached set.
func (m *EntryManager) Detach(e *entity.Entity) {
	if !m.index[e] {
		return
	}
	delete(m.index, e)
	for i, existing := range m.entities {
		if existing == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
}

// Count returns the number of attached entities.
func (m *EntryManager) Count() int { return len(m.entities) }

// Empty reports whether no entities are attached.
func (m *EntryManager) Empty() bool { return len(m.entities) == 0 }

// Commit executes every attached entity's query inside a single
// transaction, in attach order, then commits. Any error aborts the loop,
// rolls back the transaction, and is re-raised as DelegatedDatabaseError
// wrapping the cause. Detaches all entities on success.
func (m *EntryManager) Commit() ([]*entity.Entity, error) {
	if m.Empty() {
		return nil, errors.NewQueryErrorKind(errors.KindNoEntitiesAttached,
			"commit() called with no attached entities", nil)
	}

	// Rendering each entity's query is pure and independent of the others
	// (no RETURNING fallback prefetch remains to do here — Query.Return
	// already captured it eagerly when the clause was added), so it can
	// run concurrently ahead of the transaction. The actual statements
	// still execute against tx in attach order below: a single *sql.Tx
	// is not safe for concurrent use.
	rendered := make([]string, len(m.entities))
	g := new(errgroup.Group)
	for i, e := range m.entities {
		i, e := i, e
		g.Go(func() error {
			sqlText, err := e.Query().ToString()
			if err != nil {
				return err
			}
			rendered[i] = sqlText
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if m.logger != nil {
			m.logger.WithError(err).Error("failed to render attached entity's query")
		}
		return nil, errors.NewQueryErrorKind(errors.KindDelegatedDatabaseError,
			"failed to render attached entity's query", err)
	}

	tx, err := m.db.Begin()
	if err != nil {
		if m.logger != nil {
			m.logger.WithError(err).Error("failed to begin transaction")
		}
		return nil, errors.NewQueryErrorKind(errors.KindDelegatedDatabaseError,
			"failed to begin transaction", err)
	}

	results := make([]database.Result, len(m.entities))
	for i, e := range m.entities {
		q := e.Query()
		sqlText := rendered[i]
		start := time.Now()

		result, err := tx.Query(sqlText, q.Options(""))
		if err != nil {
			if m.logger != nil {
				m.logger.WithError(err).Error("attached entity's query failed", log.F("index", i))
			}
			_ = tx.Rollback()
			return nil, errors.NewQueryErrorKind(errors.KindDelegatedDatabaseError,
				"attached entity's query failed", err)
		}

		results[i] = result

		if m.logger != nil {
			m.logger.Debug("entity committed", log.CommitFields(firstPresentStatement(q), result.Count(), time.Since(start))...)
		}
	}

	if err := tx.Commit(); err != nil {
		if m.logger != nil {
			m.logger.WithError(err).Error("failed to commit transaction")
		}
		_ = tx.Rollback()
		return nil, errors.NewQueryErrorKind(errors.KindDelegatedDatabaseError,
			"failed to commit transaction", err)
	}

	for i, e := range m.entities {
		e.State().Okay = results[i].Count() > 0
		e.State().Action = firstPresentStatement(e.Query())
		e.SetResult(results[i])
	}

	committed := m.entities
	m.entities = nil
	m.index = make(map[*entity.Entity]bool)
	return committed, nil
}

// queryHaser is the subset of *query.Query's surface Commit needs to
// inspect which statement clause is set, kept narrow to avoid an import
// cycle concern should query ever need to depend on manager.
type queryHaser interface {
	Has(key string) bool
}

func firstPresentStatement(q queryHaser) string {
	for _, key := range statementKeys {
		if q.Has(key) {
			return key
		}
	}
	return ""
}

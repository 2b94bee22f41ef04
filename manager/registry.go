// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package manager implements the entity-commit engine: EntryManager
// attaches entities carrying prepared queries, runs them inside a single
// transaction, and updates each entity's data and state from the
// returned rows.
package manager

import (
	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/errors"
)

// Registry holds a single default Database, consulted only when an
// EntryManager is constructed without one explicitly. Rendering and the
// builder never consult process-wide state; only this explicit object
// does, and only at EntryManager construction time.
type Registry struct {
	db database.Database
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// SetDefault records db as the registry's default Database.
func (r *Registry) SetDefault(db database.Database) {
	r.db = db
}

// GetDefault returns the registry's default Database, or
// NoDefaultDatabase if none has been set.
func (r *Registry) GetDefault() (database.Database, error) {
	if r.db == nil {
		return nil, errors.NewQueryErrorKind(errors.KindNoDefaultDatabase,
			"no default database registered", nil)
	}
	return r.db, nil
}

// DefaultRegistry is a convenience Registry instance for applications
// that want one process-wide default without constructing their own.
// It is never implicitly consulted by the query builder or by an
// EntryManager unless passed in explicitly.
var DefaultRegistry = NewRegistry()

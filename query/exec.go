// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"github.com/kerem/qstack/database"
)

// Options builds the database.QueryOptions this Query would run with,
// for callers (the entity commit loop) that execute the rendered SQL
// against a different Database than the one this Query is bound to (a
// transaction handle, typically).
func (q *Query) Options(fetch string) database.QueryOptions {
	if fetch == "" {
		fetch = string(database.FetchArray)
	}
	seq := false
	if q.s.insert != nil {
		seq = q.s.insert.Sequence
	}
	return database.QueryOptions{Fetch: fetch, Sequence: seq, Return: q.s.returnFallback}
}

// Run renders the statement and executes it through the bound Database,
// returning its Result. fetch defaults to "array"; the insert payload's
// Sequence flag is passed on through Options to the RETURNING fallback.
func (q *Query) Run(fetch ...string) (database.Result, error) {
	sqlText, err := q.ToString()
	if err != nil {
		return nil, err
	}
	fetchVal := ""
	if len(fetch) > 0 {
		fetchVal = fetch[0]
	}
	return q.db.Query(sqlText, q.Options(fetchVal))
}

// Exec renders the statement and executes it, returning the affected row
// count without decoding any rows.
func (q *Query) Exec() (int, error) {
	sqlText, err := q.ToString()
	if err != nil {
		return 0, err
	}
	return q.db.Execute(sqlText)
}

// Commit executes the statement via Run, then resets the stack while
// retaining the target table, so the same Query can be chained into the
// next statement against the same table.
func (q *Query) Commit(fetch ...string) (database.Result, error) {
	result, err := q.Run(fetch...)
	if err != nil {
		return nil, err
	}
	target, _ := q.targetName()
	q.Reset()
	q.s.table = target
	return result, nil
}

// Get runs the statement and returns the first row.
func (q *Query) Get(fetch ...string) (map[string]interface{}, bool, error) {
	result, err := q.Run(fetch...)
	if err != nil {
		return nil, false, err
	}
	row, ok := result.First()
	return row, ok, nil
}

// GetAll runs the statement and returns every row. It applies no limit of
// its own; use Limit on the Query to cap the result.
func (q *Query) GetAll(fetch ...string) ([]map[string]interface{}, error) {
	result, err := q.Run(fetch...)
	if err != nil {
		return nil, err
	}
	return result.GetRows(), nil
}

// GetArray is an alias for GetAll using array-shaped row decoding.
func (q *Query) GetArray() ([]map[string]interface{}, error) {
	return q.GetAll(string(database.FetchArray))
}

// GetObject is an alias for GetAll using object-shaped row decoding.
func (q *Query) GetObject() ([]map[string]interface{}, error) {
	return q.GetAll(string(database.FetchObject))
}

// GetClass runs the statement requesting rows decoded as className.
func (q *Query) GetClass(className string) ([]map[string]interface{}, error) {
	return q.GetAll(className)
}

// GetId runs the statement and returns the first row's identity value.
func (q *Query) GetId() (int64, bool, error) {
	result, err := q.Run()
	if err != nil {
		return 0, false, err
	}
	id, ok := result.ID()
	return id, ok, nil
}

// GetIds runs the statement and returns every row's identity value.
func (q *Query) GetIds() ([]int64, error) {
	result, err := q.Run()
	if err != nil {
		return nil, err
	}
	return result.IDs(), nil
}

// GetRow is an alias for Get using array-shaped decoding.
func (q *Query) GetRow() (map[string]interface{}, bool, error) {
	return q.Get(string(database.FetchArray))
}

// GetRows is an alias for GetAll using array-shaped decoding.
func (q *Query) GetRows() ([]map[string]interface{}, error) {
	return q.GetAll(string(database.FetchArray))
}

// Count renders the statement wrapped in a COUNT aggregate via the bound
// Database and returns the scalar.
func (q *Query) Count() (int, error) {
	sqlText, err := q.ToString()
	if err != nil {
		return 0, err
	}
	return q.db.CountQuery(sqlText)
}

// Paginator carries the total row count alongside one page of results.
type Paginator struct {
	Page    int64
	PerPage int64
	Total   int
}

// Paginate applies LIMIT/OFFSET for the given 1-based page and page size,
// runs the statement, and returns the page's rows. When withCount is true
// it also runs a COUNT query against a clone of the pre-paginated stack.
func (q *Query) Paginate(page, perPage int64, withCount ...bool) ([]map[string]interface{}, *Paginator, error) {
	if page < 1 {
		page = 1
	}
	var paginator *Paginator
	if len(withCount) > 0 && withCount[0] {
		counter := q.Clone()
		total, err := counter.Count()
		if err != nil {
			return nil, nil, err
		}
		paginator = &Paginator{Page: page, PerPage: perPage, Total: total}
	}
	q.Limit(perPage, (page-1)*perPage)
	rows, err := q.GetRows()
	if err != nil {
		return nil, nil, err
	}
	return rows, paginator, nil
}

// ToHash renders the statement and returns a hex digest of the resulting
// SQL text, using algo ("md5" (default), "sha1", "sha256") as the hash.
// Two rendering-equivalent builders produce the same hash.
func (q *Query) ToHash(algo ...string) (string, error) {
	sqlText, err := q.ToString()
	if err != nil {
		return "", err
	}
	name := "md5"
	if len(algo) > 0 && algo[0] != "" {
		name = algo[0]
	}
	switch name {
	case "sha1":
		sum := sha1.Sum([]byte(sqlText))
		return hex.EncodeToString(sum[:]), nil
	case "sha256":
		sum := sha256.Sum256([]byte(sqlText))
		return hex.EncodeToString(sum[:]), nil
	default:
		sum := md5.Sum([]byte(sqlText))
		return hex.EncodeToString(sum[:]), nil
	}
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqldb

import (
	"database/sql"
)

// result is the database.Result implementation backing every Query call.
type result struct {
	rows []map[string]interface{}
}

func (r *result) Count() int { return len(r.rows) }

func (r *result) First() (map[string]interface{}, bool) {
	if len(r.rows) == 0 {
		return nil, false
	}
	return r.rows[0], true
}

func (r *result) Rows(i ...int) interface{} {
	if len(i) == 0 {
		return r.rows
	}
	idx := i[0]
	if idx < 0 || idx >= len(r.rows) {
		return nil
	}
	return r.rows[idx]
}

func (r *result) ID() (int64, bool) {
	if len(r.rows) == 0 {
		return 0, false
	}
	for _, key := range []string{"id", "ID", "Id"} {
		if v, ok := r.rows[0][key]; ok {
			if id, ok := toInt64(v); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func (r *result) IDs() []int64 {
	ids := make([]int64, 0, len(r.rows))
	for _, row := range r.rows {
		for _, key := range []string{"id", "ID", "Id"} {
			if v, ok := row[key]; ok {
				if id, ok := toInt64(v); ok {
					ids = append(ids, id)
				}
				break
			}
		}
	}
	return ids
}

func (r *result) GetRow() (map[string]interface{}, bool) { return r.First() }

func (r *result) GetRows() []map[string]interface{} { return r.rows }

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	return 0, false
}

// scanRows decodes a *sql.Rows into an ordered slice of column->value maps.
func scanRows(rows *sql.Rows) (*result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = normalizeScanValue(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &result{rows: out}, nil
}

// normalizeScanValue converts driver-returned []byte (common for
// TEXT/VARCHAR columns on several drivers) into a plain string.
func normalizeScanValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

// fakeDB is a minimal database.Database double: it escapes/quotes the
// same way sqldb's core does, but never touches a real connection. Query
// results are supplied in advance via queueResult so tests can exercise
// Run/Get/Paginate without a driver.
type fakeDB struct {
	plat    *platform.Platform
	results []database.Result
	execs   []string
	calls   []string
}

func newFakeDB(dialect string) *fakeDB {
	plat, err := platform.New(dialect)
	if err != nil {
		panic(err)
	}
	return &fakeDB{plat: plat}
}

func (f *fakeDB) queueResult(r database.Result) {
	f.results = append(f.results, r)
}

func (f *fakeDB) Escape(value interface{}, format ...string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			s, err := f.Escape(item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, ", "), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05") + "'", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	default:
		return "'" + fmt.Sprintf("%v", v) + "'", nil
	}
}

func (f *fakeDB) EscapeName(name string) (string, error) {
	return f.plat.QuoteName(name), nil
}

func (f *fakeDB) EscapeNames(csv string) (string, error) {
	tokens := strings.Split(csv, ",")
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = f.plat.QuoteName(strings.TrimSpace(t))
	}
	return strings.Join(quoted, ", "), nil
}

func (f *fakeDB) EscapeLikeString(s string, full bool) (string, error) {
	if full {
		return "'" + s + "'", nil
	}
	return s, nil
}

func (f *fakeDB) Prepare(sql string, params ...interface{}) (string, error) {
	out := sql
	for _, p := range params {
		escaped, err := f.Escape(p)
		if err != nil {
			return "", err
		}
		out = strings.Replace(out, "?", escaped, 1)
	}
	return out, nil
}

func (f *fakeDB) Query(sql string, opts database.QueryOptions) (database.Result, error) {
	f.calls = append(f.calls, sql)
	if len(f.results) == 0 {
		return &fakeResult{}, nil
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r, nil
}

func (f *fakeDB) Execute(sql string) (int, error) {
	f.execs = append(f.execs, sql)
	return 1, nil
}

func (f *fakeDB) CountQuery(sql string) (int, error) {
	return 0, nil
}

func (f *fakeDB) Begin() (database.Tx, error) {
	return nil, fmt.Errorf("fakeDB does not support transactions")
}

// fakeResult is a minimal database.Result double.
type fakeResult struct {
	rows []map[string]interface{}
	ids  []int64
}

func (r *fakeResult) Count() int { return len(r.rows) }

func (r *fakeResult) First() (map[string]interface{}, bool) {
	if len(r.rows) == 0 {
		return nil, false
	}
	return r.rows[0], true
}

func (r *fakeResult) Rows(i ...int) interface{} {
	if len(i) > 0 {
		if i[0] < 0 || i[0] >= len(r.rows) {
			return nil
		}
		return r.rows[i[0]]
	}
	return r.rows
}

func (r *fakeResult) ID() (int64, bool) {
	if len(r.ids) == 0 {
		return 0, false
	}
	return r.ids[0], true
}

func (r *fakeResult) IDs() []int64 { return r.ids }

func (r *fakeResult) GetRow() (map[string]interface{}, bool) { return r.First() }

func (r *fakeResult) GetRows() []map[string]interface{} { return r.rows }

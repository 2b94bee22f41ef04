// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/platform"
)

// renderOnlyDB implements database.Database using nothing but a Platform,
// for CLI subcommands that only need to render SQL text and never touch a
// real connection. Query/Execute/CountQuery/Begin fail: there is no
// physical database behind this adapter.
type renderOnlyDB struct {
	plat *platform.Platform
}

func newRenderOnlyDB(plat *platform.Platform) *renderOnlyDB {
	return &renderOnlyDB{plat: plat}
}

func (r *renderOnlyDB) Escape(value interface{}, format ...string) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			escaped, err := r.Escape(item)
			if err != nil {
				return "", err
			}
			parts[i] = escaped
		}
		return strings.Join(parts, ", "), nil
	case bool:
		if r.plat.Equals("pgsql") {
			if v {
				return "true", nil
			}
			return "false", nil
		}
		if v {
			return "1", nil
		}
		return "0", nil
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", v), nil
	case time.Time:
		return "'" + v.Format("2006-01-02 15:04:05") + "'", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	default:
		return "'" + strings.ReplaceAll(fmt.Sprintf("%v", v), "'", "''") + "'", nil
	}
}

func (r *renderOnlyDB) EscapeName(name string) (string, error) {
	return r.plat.QuoteName(name), nil
}

func (r *renderOnlyDB) EscapeNames(csv string) (string, error) {
	tokens := strings.FieldsFunc(csv, func(c rune) bool { return c == ',' || c == ' ' })
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		quoted = append(quoted, r.plat.QuoteName(t))
	}
	return strings.Join(quoted, ", "), nil
}

func (r *renderOnlyDB) EscapeLikeString(s string, full bool) (string, error) {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
	if full {
		return "'" + escaped + "'", nil
	}
	return escaped, nil
}

func (r *renderOnlyDB) Prepare(sql string, params ...interface{}) (string, error) {
	var out strings.Builder
	pi := 0
	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '?' && pi < len(params) {
			escaped, err := r.Escape(params[pi])
			if err != nil {
				return "", err
			}
			out.WriteString(escaped)
			pi++
			continue
		}
		out.WriteRune(runes[i])
	}
	return out.String(), nil
}

func (r *renderOnlyDB) Query(sql string, opts database.QueryOptions) (database.Result, error) {
	return nil, fmt.Errorf("render-only mode: no database connection configured")
}

func (r *renderOnlyDB) Execute(sql string) (int, error) {
	return 0, fmt.Errorf("render-only mode: no database connection configured")
}

func (r *renderOnlyDB) CountQuery(sql string) (int, error) {
	return 0, fmt.Errorf("render-only mode: no database connection configured")
}

func (r *renderOnlyDB) Begin() (database.Tx, error) {
	return nil, fmt.Errorf("render-only mode: no database connection configured")
}

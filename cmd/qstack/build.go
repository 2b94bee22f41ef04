// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/platform"
	"github.com/kerem/qstack/query"
)

// addQueryFlags registers the flags shared by render and explain: enough
// of the builder's surface to compose a representative SELECT, INSERT,
// UPDATE, or DELETE from the command line.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("table", "", "target table name")
	cmd.Flags().StringSlice("select", nil, "comma-separated SELECT fields (\"*\" for all)")
	cmd.Flags().StringSlice("where", nil, "comma-separated field=value predicates; suffix field with !, <, or > to change the operator")
	cmd.Flags().StringToString("insert", nil, "field=value pairs for an INSERT row")
	cmd.Flags().StringToString("update", nil, "field=value pairs for an UPDATE")
	cmd.Flags().Bool("delete", false, "render a DELETE instead of a SELECT")
	cmd.Flags().Int64("limit", 0, "LIMIT row count (0 means unset)")
	cmd.Flags().Int64("offset", 0, "OFFSET row count (0 means unset)")
	cmd.Flags().String("order", "", "ORDER BY field")
	cmd.Flags().String("order-dir", "ASC", "ORDER BY direction (ASC or DESC)")
	cmd.Flags().String("return", "", "RETURNING field list for INSERT/UPDATE/DELETE")
}

// buildQuery composes a *query.Query from cmd's flags, bound to a
// render-only Database for the named dialect.
func buildQuery(cmd *cobra.Command, dialect string) (*query.Query, error) {
	plat, err := platform.New(dialect)
	if err != nil {
		return nil, err
	}
	return buildQueryWithDB(cmd, plat, newRenderOnlyDB(plat))
}

// buildQueryWithDB composes a *query.Query from cmd's flags against an
// already-resolved Platform and Database, so callers that opened a live
// connection (explain --config) can reuse the same flag-to-clause logic
// as the render-only path.
func buildQueryWithDB(cmd *cobra.Command, plat *platform.Platform, db database.Database) (*query.Query, error) {
	q := query.New(plat, db)

	table, _ := cmd.Flags().GetString("table")
	if table != "" {
		q.Table(table)
	}

	insert, _ := cmd.Flags().GetStringToString("insert")
	update, _ := cmd.Flags().GetStringToString("update")
	del, _ := cmd.Flags().GetBool("delete")

	switch {
	case len(insert) > 0:
		row := make(map[string]interface{}, len(insert))
		for k, v := range insert {
			row[k] = v
		}
		q.Insert(row)
	case len(update) > 0:
		row := make(map[string]interface{}, len(update))
		for k, v := range update {
			row[k] = v
		}
		q.Update(row)
	case del:
		q.Delete()
	default:
		fields, _ := cmd.Flags().GetStringSlice("select")
		if len(fields) == 0 {
			fields = []string{"*"}
		}
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			args[i] = f
		}
		q.Select(args...)
	}

	wheres, _ := cmd.Flags().GetStringSlice("where")
	for _, w := range wheres {
		field, value, err := splitWhere(w)
		if err != nil {
			return nil, err
		}
		q.Where(map[string]interface{}{field: value})
	}

	order, _ := cmd.Flags().GetString("order")
	if order != "" {
		dir, _ := cmd.Flags().GetString("order-dir")
		q.OrderBy(order, dir)
	}

	limit, _ := cmd.Flags().GetInt64("limit")
	if limit > 0 {
		q.Limit(limit)
	}
	offset, _ := cmd.Flags().GetInt64("offset")
	if offset > 0 {
		q.Offset(offset)
	}

	ret, _ := cmd.Flags().GetString("return")
	if ret != "" {
		q.Return(ret)
	}

	return q, nil
}

// splitWhere splits an expression at its first "=" into field and value,
// so it accepts "field=value", "field!=value", "field<=value" and
// "field>=value"; the character before "=" stays on field so Where's
// mapping-form suffix convention (trailing !, <, >) applies, which makes
// "age<=30" mean age < 30. An expression with no "=" is rejected.
func splitWhere(expr string) (field, value string, err error) {
	idx := strings.Index(expr, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("invalid --where %q: expected field=value", expr)
	}
	field = expr[:idx]
	value = expr[idx+1:]
	if field == "" {
		return "", "", fmt.Errorf("invalid --where %q: empty field", expr)
	}
	return field, value, nil
}

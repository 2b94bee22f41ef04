// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/kerem/qstack/database"
	"github.com/kerem/qstack/errors"
)

// Return requests the affected rows back from an INSERT/UPDATE/DELETE.
// fields accepts a string (a comma-separated field list, each name quoted,
// or "*" kept literal) or a []string (quoted individually and comma-joined). On dialects with
// native RETURNING this only records the clause; on every other dialect
// it additionally records a fallback plan so the Database collaborator
// can recover the rows with a follow-up SELECT — for DELETE, that SELECT
// runs immediately, before the delete itself executes.
func (q *Query) Return(fields interface{}, fetch ...string) *Query {
	if q.err != nil {
		return q
	}
	fieldsSQL, err := q.renderReturnFields(fields)
	if err != nil {
		return q.fail(err)
	}
	fetchVal := ""
	if len(fetch) > 0 {
		fetchVal = fetch[0]
	}
	q.s.ret = &returnPayload{Fields: fieldsSQL, Fetch: fetchVal}

	if q.plat.SupportsNativeReturning() {
		return q
	}
	return q.buildReturnFallback(fieldsSQL, fetchVal)
}

func (q *Query) renderReturnFields(fields interface{}) (string, error) {
	switch v := fields.(type) {
	case string:
		if v == "*" {
			return v, nil
		}
		return quoteCSVFields(q.plat, v), nil
	case []string:
		quoted := make([]string, len(v))
		for i, f := range v {
			quoted[i] = q.plat.QuoteName(f)
		}
		return strings.Join(quoted, ", "), nil
	default:
		return "", errors.NewQueryErrorKind(errors.KindInvalidOp,
			"return() accepts a string or []string", nil)
	}
}

func (q *Query) buildReturnFallback(fieldsSQL, fetchVal string) *Query {
	target, err := q.targetName()
	if err != nil {
		return q.fail(err)
	}

	switch {
	case q.s.insert != nil:
		q.s.returnFallback = &database.ReturnFallback{
			Op: database.ReturnFallbackInsert, Table: target,
			Fields: fieldsSQL, Fetch: fetchVal,
		}
	case len(q.s.update) > 0:
		whereSQL, err := q.renderWherePairs()
		if err != nil {
			return q.fail(err)
		}
		q.s.returnFallback = &database.ReturnFallback{
			Op: database.ReturnFallbackUpdate, Table: target,
			Fields: fieldsSQL, Fetch: fetchVal, Where: whereSQL,
		}
	case q.s.del:
		whereSQL, err := q.renderWherePairs()
		if err != nil {
			return q.fail(err)
		}
		selectSQL := "SELECT " + fieldsSQL + " FROM " + q.plat.QuoteName(target)
		if whereSQL != "" {
			selectSQL += " WHERE " + whereSQL
		}
		result, err := q.db.Query(selectSQL, database.QueryOptions{Fetch: string(database.FetchArray)})
		if err != nil {
			return q.fail(err)
		}
		q.s.returnFallback = &database.ReturnFallback{
			Op: database.ReturnFallbackDelete, Table: target,
			Fields: fieldsSQL, Fetch: fetchVal, Where: whereSQL,
			Data: result.GetRows(),
		}
	}
	return q
}

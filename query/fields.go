// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"sort"
	"strings"
)

// looksLikeExpression heuristically detects a field argument that is
// already a SQL expression (a function call, an alias, or anything with
// whitespace) rather than a bare identifier, so it is passed through
// unquoted instead of being wrapped as a single malformed identifier.
func looksLikeExpression(s string) bool {
	return strings.ContainsAny(s, "( )")
}

// quoteField renders one field argument: a Name or Sql wrapper is honored
// directly, a bare "*" passes through literally, an expression-looking
// string passes through raw, and everything else is dialect-quoted
// (dotted "table.column" forms quoted segment by segment).
func (q *Query) quoteField(field interface{}) (string, error) {
	switch v := field.(type) {
	case Sql:
		return string(v), nil
	case Name:
		return q.plat.QuoteName(string(v)), nil
	case string:
		if v == "*" {
			return v, nil
		}
		if looksLikeExpression(v) {
			return v, nil
		}
		return q.plat.QuoteName(v), nil
	default:
		return "", errInvalidFieldArg
	}
}

// sortedKeys returns m's keys in ascending order, giving deterministic
// output for mapping-shaped inputs (Go map iteration order is random).
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"fmt"

	"github.com/kerem/qstack/errors"
)

// Update sets the UPDATE assignment list (replace-on-set). mapping accepts
// a map[string]interface{} (fields taken in sorted key order, since Go
// maps have no stable order) or a []FieldValue (fields taken in the given
// order). Each value is escaped through the bound Database unless escape
// is explicitly false, in which case the value is inlined as a raw SQL
// fragment (useful for "col = col + 1" style increments).
func (q *Query) Update(mapping interface{}, escapeValues ...bool) *Query {
	if q.err != nil {
		return q
	}
	doEscape := true
	if len(escapeValues) > 0 {
		doEscape = escapeValues[0]
	}

	var pairs []FieldValue
	switch v := mapping.(type) {
	case map[string]interface{}:
		for _, field := range sortedKeys(v) {
			pairs = append(pairs, FieldValue{Name: field, Value: v[field]})
		}
	case []FieldValue:
		pairs = v
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"update() accepts map[string]interface{} or []FieldValue", nil))
	}
	if len(pairs) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"update() requires a non-empty mapping", nil))
	}

	assignments := make([]string, 0, len(pairs))
	for _, fv := range pairs {
		quoted, err := q.quoteField(fv.Name)
		if err != nil {
			return q.fail(err)
		}
		var rendered string
		if sqlVal, ok := fv.Value.(Sql); ok {
			rendered = string(sqlVal)
		} else if doEscape {
			escaped, err := q.db.Escape(fv.Value)
			if err != nil {
				return q.fail(err)
			}
			rendered = escaped
		} else {
			rendered = toRawString(fv.Value)
		}
		assignments = append(assignments, quoted+" = "+rendered)
	}
	q.s.update = assignments
	return q
}

func toRawString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/kerem/qstack/errors"
)

// InsertRows is the explicit {fields, values} input shape for Insert: one
// []interface{} per row, each matching len(Fields).
type InsertRows struct {
	Fields []string
	Values [][]interface{}
}

// FieldValue is one ordered field/value pair. A map[string]interface{}
// loses field order (Go map iteration is randomized), so Row lets a
// single-row Insert/Update preserve the caller's declared column order
// instead of falling back to alphabetical sorting.
type FieldValue struct {
	Name  string
	Value interface{}
}

// Row builds an ordered single row from name/value pairs, for callers
// that need a specific column order in the rendered SQL.
func Row(pairs ...FieldValue) []FieldValue { return pairs }

// Insert sets the INSERT payload (replace-on-set). rows accepts:
//   - []FieldValue: a single row in the given field order (see Row);
//   - map[string]interface{}: a single row, fields taken in sorted key
//     order for determinism, since Go maps have no stable order;
//   - []map[string]interface{}: a batch, fields taken from the first
//     row's sorted keys, every subsequent row must supply exactly those
//     keys or InsertArity is raised;
//   - InsertRows: an explicit fields/values pair, each Values entry must
//     have len(Fields) elements or InsertArity is raised.
func (q *Query) Insert(rows interface{}) *Query {
	if q.err != nil {
		return q
	}
	switch v := rows.(type) {
	case []FieldValue:
		return q.insertFieldValues(v)
	case map[string]interface{}:
		return q.insertSingle(v)
	case []map[string]interface{}:
		return q.insertBatch(v)
	case InsertRows:
		return q.insertRows(v)
	default:
		return q.fail(errors.NewQueryErrorKind(errors.KindInvalidOp,
			"insert() accepts []FieldValue, map[string]interface{}, []map[string]interface{}, or InsertRows", nil))
	}
}

func (q *Query) insertFieldValues(row []FieldValue) *Query {
	if len(row) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"insert() requires at least one field", nil))
	}
	fields := make([]string, len(row))
	values := make([]string, len(row))
	for i, fv := range row {
		fields[i] = fv.Name
		escaped, err := q.db.Escape(fv.Value)
		if err != nil {
			return q.fail(err)
		}
		values[i] = escaped
	}
	return q.setInsert(fields, [][]string{values})
}

func (q *Query) insertSingle(row map[string]interface{}) *Query {
	if len(row) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"insert() requires at least one field", nil))
	}
	fields := sortedKeys(row)
	values, err := q.escapeRow(fields, row)
	if err != nil {
		return q.fail(err)
	}
	return q.setInsert(fields, [][]string{values})
}

func (q *Query) insertBatch(rows []map[string]interface{}) *Query {
	if len(rows) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"insert() requires at least one row", nil))
	}
	fields := sortedKeys(rows[0])
	allValues := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) != len(fields) {
			return q.fail(errors.NewQueryErrorKind(errors.KindInsertArity,
				"insert row field count does not match the batch's field list", nil))
		}
		for _, f := range fields {
			if _, ok := row[f]; !ok {
				return q.fail(errors.NewQueryErrorKind(errors.KindInsertArity,
					"insert row keys do not match the batch's field list", nil))
			}
		}
		values, err := q.escapeRow(fields, row)
		if err != nil {
			return q.fail(err)
		}
		allValues = append(allValues, values)
	}
	return q.setInsert(fields, allValues)
}

func (q *Query) insertRows(ir InsertRows) *Query {
	if len(ir.Fields) == 0 {
		return q.fail(errors.NewQueryErrorKind(errors.KindEmptyInput,
			"insert() requires at least one field", nil))
	}
	allValues := make([][]string, 0, len(ir.Values))
	for _, row := range ir.Values {
		if len(row) != len(ir.Fields) {
			return q.fail(errors.NewQueryErrorKind(errors.KindInsertArity,
				"insert row cardinality does not match fields", nil))
		}
		values := make([]string, len(row))
		for i, v := range row {
			escaped, err := q.db.Escape(v)
			if err != nil {
				return q.fail(err)
			}
			values[i] = escaped
		}
		allValues = append(allValues, values)
	}
	return q.setInsert(ir.Fields, allValues)
}

func (q *Query) escapeRow(fields []string, row map[string]interface{}) ([]string, error) {
	values := make([]string, len(fields))
	for i, f := range fields {
		escaped, err := q.db.Escape(row[f])
		if err != nil {
			return nil, err
		}
		values[i] = escaped
	}
	return values, nil
}

func (q *Query) setInsert(fields []string, allValues [][]string) *Query {
	quotedFields := make([]string, len(fields))
	for i, f := range fields {
		quotedFields[i] = q.plat.QuoteName(f)
	}
	rows := make([]string, len(allValues))
	for i, values := range allValues {
		rows[i] = "(" + strings.Join(values, ", ") + ")"
	}
	q.s.insert = &insertPayload{
		Fields: strings.Join(quotedFields, ", "),
		Values: rows,
	}
	return q
}

// Sequence marks the INSERT's identity column as a database sequence
// value rather than a plain auto-increment, threaded through to the
// Database collaborator's Query options at run time.
func (q *Query) Sequence(seq bool) *Query {
	if q.err != nil {
		return q
	}
	if q.s.insert == nil {
		q.s.insert = &insertPayload{}
	}
	q.s.insert.Sequence = seq
	return q
}

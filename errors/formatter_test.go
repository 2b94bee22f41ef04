// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/errors"
)

func TestPrettyFormatIncludesQueryErrorKindAndQuery(t *testing.T) {
	t.Parallel()
	err := errors.NewQueryErrorKind(errors.KindMissingWhere, "UPDATE without WHERE", nil).
		WithQuery(`UPDATE "users" SET "name" = 'x'`)

	out := errors.PrettyFormat(err)
	assert.Contains(t, out, "kind=missing_where")
	assert.Contains(t, out, `UPDATE "users"`)
}

func TestPrettyFormatIncludesContext(t *testing.T) {
	t.Parallel()
	err := errors.NewQueryErrorKind(errors.KindInvalidOp, "bad op", nil).
		WithContext("field", "age")

	out := errors.PrettyFormat(err)
	assert.Contains(t, out, "field: age")
}

func TestPrettyFormatNilError(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", errors.PrettyFormat(nil))
}

func TestJSONFormatIncludesKind(t *testing.T) {
	t.Parallel()
	err := errors.NewQueryErrorKind(errors.KindNoQueryReady, "nothing to render", nil)

	out, jsonErr := errors.JSONFormat(err)
	require.NoError(t, jsonErr)
	assert.Contains(t, out, `"kind": "no_query_ready"`)
}

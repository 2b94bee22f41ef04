// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import (
	"strings"

	"github.com/kerem/qstack/errors"
)

// Sql marks a string as pre-composed SQL text: the rendering pipeline
// inlines it verbatim, bypassing value escaping entirely. Use it for
// fragments such as "NOW()" or "price * 1.1" that must not be treated as
// a literal or an identifier.
type Sql string

// NewSql wraps s as raw SQL. Empty or whitespace-only content fails with
// errors.KindInvalidContent.
func NewSql(s string) (Sql, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.NewQueryErrorKind(errors.KindInvalidContent,
			"sql fragment must not be empty", nil)
	}
	return Sql(s), nil
}

// String implements fmt.Stringer.
func (s Sql) String() string { return string(s) }

// Name marks a string as an identifier: the rendering pipeline still
// dialect-quotes it, but never treats it as a value to be escaped.
type Name string

// NewName wraps s as an identifier. Empty or whitespace-only content
// fails with errors.KindInvalidContent.
func NewName(s string) (Name, error) {
	if strings.TrimSpace(s) == "" {
		return "", errors.NewQueryErrorKind(errors.KindInvalidContent,
			"identifier must not be empty", nil)
	}
	return Name(s), nil
}

// String implements fmt.Stringer.
func (n Name) String() string { return string(n) }

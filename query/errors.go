// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import "github.com/kerem/qstack/errors"

var errInvalidFieldArg = errors.NewQueryErrorKind(errors.KindInvalidOp,
	"field argument must be a string, Name, or Sql", nil)

// parseFieldOp splits a mapping-form WHERE key into its bare field name
// and comparison operator, per the suffix convention: trailing "!" means
// "!=", "<"/">" their obvious meanings, and no suffix means "=".
func parseFieldOp(key string) (field, op string) {
	if key == "" {
		return key, "="
	}
	last := key[len(key)-1]
	switch last {
	case '!':
		return key[:len(key)-1], "!="
	case '<':
		return key[:len(key)-1], "<"
	case '>':
		return key[:len(key)-1], ">"
	default:
		return key, "="
	}
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqldb

import (
	"strings"

	"github.com/kerem/qstack/errors"
)

// prepare is a small tokenizer implementing the builder's placeholder
// grammar: a bare '?' consumes the next param as an escaped value
// literal; '?r' consumes the next param verbatim, unescaped (a raw
// sub-query inlining point); '@name' or '@[name1, name2]' route the next
// param (a string or []string) through identifier escaping instead of
// value escaping.
func prepare(c *core, sql string, params []interface{}) (string, error) {
	var out strings.Builder
	pi := 0

	next := func() (interface{}, error) {
		if pi >= len(params) {
			return nil, errors.NewQueryErrorKind(errors.KindEmptyInput,
				"not enough parameters for placeholders", nil).WithQuery(sql)
		}
		v := params[pi]
		pi++
		return v, nil
	}

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '?':
			if i+1 < len(runes) && runes[i+1] == 'r' {
				v, err := next()
				if err != nil {
					return "", err
				}
				out.WriteString(asRawString(v))
				i++
				continue
			}
			v, err := next()
			if err != nil {
				return "", err
			}
			escaped, err := c.Escape(v)
			if err != nil {
				return "", err
			}
			out.WriteString(escaped)
		case '@':
			if i+1 < len(runes) && runes[i+1] == '[' {
				end := indexRune(runes, i+2, ']')
				if end < 0 {
					return "", errors.NewQueryErrorKind(errors.KindInvalidOp,
						"unterminated @[...] identifier placeholder", nil).WithQuery(sql)
				}
				names := strings.Split(string(runes[i+2:end]), ",")
				quoted := make([]string, 0, len(names))
				for _, n := range names {
					q, err := c.EscapeName(strings.TrimSpace(n))
					if err != nil {
						return "", err
					}
					quoted = append(quoted, q)
				}
				out.WriteString(strings.Join(quoted, ", "))
				i = end
				continue
			}

			start := i + 1
			end := start
			for end < len(runes) && isIdentRune(runes[end]) {
				end++
			}
			if end == start {
				out.WriteRune('@')
				continue
			}
			q, err := c.EscapeName(string(runes[start:end]))
			if err != nil {
				return "", err
			}
			out.WriteString(q)
			i = end - 1
		default:
			out.WriteRune(runes[i])
		}
	}

	return out.String(), nil
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

func asRawString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

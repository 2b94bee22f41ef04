// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

import "strings"

// Join appends a JOIN clause against table to, optionally prefixed with a
// type ("LEFT", "RIGHT", "INNER", "FULL", optionally suffixed "OUTER").
// The element's ON/USING context must be supplied by a following On or
// Using call before rendering, or JoinContextMissing is raised.
func (q *Query) Join(to string, joinType ...string) *Query {
	if q.err != nil {
		return q
	}
	kw := "JOIN"
	if len(joinType) > 0 && joinType[0] != "" {
		kw = strings.ToUpper(joinType[0]) + " JOIN"
	}
	q.s.join = append(q.s.join, joinPair{Content: kw + " " + q.plat.QuoteName(to)})
	return q
}

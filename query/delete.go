// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package query

// Delete marks this Query as a DELETE statement (replace-on-set "1"
// sentinel from the data model, represented here as a bool).
func (q *Query) Delete() *Query {
	if q.err != nil {
		return q
	}
	q.s.del = true
	return q
}

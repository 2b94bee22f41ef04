// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package sqlcache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kerem/qstack/internal/sqlcache"
)

type Invoice struct{}
type OrderItem struct{}
type Bus struct{}
type Category struct{}

func TestTableNameForPluralizesSnakeCasedTypeName(t *testing.T) {
	t.Parallel()
	sqlcache.ClearCache()

	assert.Equal(t, "invoices", sqlcache.TableNameFor(Invoice{}))
	assert.Equal(t, "order_items", sqlcache.TableNameFor(OrderItem{}))
	assert.Equal(t, "buses", sqlcache.TableNameFor(Bus{}))
	assert.Equal(t, "categories", sqlcache.TableNameFor(Category{}))
}

func TestTableNameForAcceptsPointer(t *testing.T) {
	t.Parallel()
	sqlcache.ClearCache()

	assert.Equal(t, "invoices", sqlcache.TableNameFor(&Invoice{}))
}

func TestTableNameForIsCachedPerType(t *testing.T) {
	t.Parallel()
	sqlcache.ClearCache()

	first := sqlcache.TableNameFor(Invoice{})
	second := sqlcache.TableNameFor(Invoice{})
	assert.Equal(t, first, second)
}

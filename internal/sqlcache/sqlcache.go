// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package sqlcache derives and caches the default table name for a Go
// struct type, the way internal/reflect caches a type's tagged field
// list: a per-type map guarded by a RWMutex, populated once and reused
// on every subsequent lookup for that type.
package sqlcache

import (
	"reflect"
	"strings"
	"sync"

	ireflect "github.com/kerem/qstack/internal/reflect"
)

var (
	tableNames     = make(map[reflect.Type]string)
	tableNamesLock sync.RWMutex
)

// TableNameFor returns the default table name for model's type: its
// snake_cased, naively pluralized struct name (Invoice -> invoices,
// OrderItem -> order_items). model may be a struct value or a pointer to
// one. Results are cached per type.
func TableNameFor(model interface{}) string {
	t := indirectType(reflect.TypeOf(model))

	tableNamesLock.RLock()
	name, ok := tableNames[t]
	tableNamesLock.RUnlock()
	if ok {
		return name
	}

	name = pluralize(ireflect.ToSnakeCase(t.Name()))

	tableNamesLock.Lock()
	tableNames[t] = name
	tableNamesLock.Unlock()

	return name
}

// ClearCache drops all cached table names. Exposed for tests.
func ClearCache() {
	tableNamesLock.Lock()
	defer tableNamesLock.Unlock()
	tableNames = make(map[reflect.Type]string)
}

func indirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// pluralize applies the common English suffix rules qstack's target
// dialects' own naming conventions favor (table names, not general
// English): a trailing "y" preceded by a consonant becomes "ies", a
// trailing s/x/z/ch/sh takes "es", everything else takes a plain "s".
func pluralize(s string) string {
	if s == "" {
		return s
	}
	switch {
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(rune(s[len(s)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"),
		strings.HasSuffix(s, "ch"), strings.HasSuffix(s, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package reflect extracts tagged struct fields into ordered name/value
// pairs, so entity.FromStruct can turn a plain Go struct into the same
// Data shape the builder already accepts from a map or a Row. It does not
// model relationships, indexes, or schema: qstack builds SQL text, it
// does not manage one.
package reflect

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/kerem/qstack/errors"
)

var (
	fieldCache     = make(map[reflect.Type][]*FieldInfo)
	fieldCacheLock sync.RWMutex
)

// TagKey is the struct tag key this package reads field overrides from.
const TagKey = "qstack"

// FieldInfo describes one exported struct field and its database-facing
// name.
type FieldInfo struct {
	Name        string
	DBName      string
	Type        reflect.Type
	Index       []int
	IsAnonymous bool
	IsIgnored   bool
	IsReadOnly  bool
	IsWriteOnly bool
	RawTag      string
	TagSettings map[string]string
}

// ExtractFields extracts field information from a struct, descending into
// anonymous (embedded) struct fields. Results are cached per type.
func ExtractFields(model interface{}) ([]*FieldInfo, error) {
	modelType := IndirectType(TypeOf(model))
	if modelType.Kind() != reflect.Struct {
		return nil, errors.NewModelError(fmt.Sprintf("%T", model), "model must be a struct", nil)
	}

	fieldCacheLock.RLock()
	cached, ok := fieldCache[modelType]
	fieldCacheLock.RUnlock()
	if ok {
		fields := make([]*FieldInfo, len(cached))
		for i, f := range cached {
			fieldCopy := *f
			fields[i] = &fieldCopy
		}
		return fields, nil
	}

	fields, err := extractFields(modelType)
	if err != nil {
		return nil, err
	}

	fieldCacheLock.Lock()
	fieldCache[modelType] = fields
	fieldCacheLock.Unlock()

	return fields, nil
}

func extractFields(modelType reflect.Type) ([]*FieldInfo, error) {
	numField := modelType.NumField()
	fields := make([]*FieldInfo, 0, numField)

	for i := 0; i < numField; i++ {
		sf := modelType.Field(i)

		if sf.PkgPath != "" && !sf.Anonymous {
			continue
		}

		if sf.Anonymous {
			fieldType := IndirectType(sf.Type)
			if fieldType.Kind() == reflect.Struct {
				embedded, err := extractFields(fieldType)
				if err != nil {
					return nil, err
				}
				for _, ef := range embedded {
					ef.Index = append([]int{i}, ef.Index...)
					fields = append(fields, ef)
				}
				continue
			}
		}

		fi := &FieldInfo{
			Name:        sf.Name,
			DBName:      ToSnakeCase(sf.Name),
			Type:        sf.Type,
			Index:       sf.Index,
			IsAnonymous: sf.Anonymous,
			RawTag:      string(sf.Tag),
			TagSettings: make(map[string]string),
		}

		if tag, ok := sf.Tag.Lookup(TagKey); ok {
			fi.TagSettings = ParseTagSettings(tag)
			if name, ok := fi.TagSettings["column"]; ok && name != "" {
				fi.DBName = name
			}
			fi.IsIgnored = HasTagOption(tag, "-") || HasTagOption(tag, "ignore")
			fi.IsReadOnly = HasTagOption(tag, "readonly") || HasTagOption(tag, "readOnly")
			fi.IsWriteOnly = HasTagOption(tag, "writeonly") || HasTagOption(tag, "writeOnly")
		}

		fields = append(fields, fi)
	}

	return fields, nil
}

// TypeOf returns the reflection Type of value. Panics on nil, matching
// the teacher's own fail-fast convention for programmer errors.
func TypeOf(value interface{}) reflect.Type {
	valueType := reflect.TypeOf(value)
	if valueType == nil {
		panic(errors.NewInternalError("nil value passed to TypeOf", nil))
	}
	return valueType
}

// ValueOf returns the reflection Value of value.
func ValueOf(value interface{}) (reflect.Value, error) {
	if value == nil {
		return reflect.Value{}, errors.NewInternalError("nil value passed to ValueOf", nil)
	}
	return reflect.ValueOf(value), nil
}

// IndirectType dereferences pointer types down to the underlying type.
func IndirectType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// IndirectValue dereferences pointer values down to the underlying value.
func IndirectValue(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// ParseTagSettings parses a "key:value;flag" tag body into a settings map.
// A bare flag (no ":") maps to an empty string value.
func ParseTagSettings(tag string) map[string]string {
	settings := make(map[string]string)
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyValue := strings.SplitN(part, ":", 2)
		key := strings.TrimSpace(keyValue[0])
		if key == "" {
			continue
		}
		var value string
		if len(keyValue) > 1 {
			value = strings.TrimSpace(keyValue[1])
		}
		settings[key] = value
	}
	return settings
}

// HasTagOption reports whether tag contains option as a bare flag.
func HasTagOption(tag, option string) bool {
	for _, part := range strings.Split(tag, ";") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}

// ToSnakeCase converts a camelCase or PascalCase string to snake_case.
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s) + 5)

	prevLower := false
	for i, r := range s {
		isLower := unicode.IsLower(r)
		if i > 0 && !isLower && prevLower {
			result.WriteRune('_')
		}
		result.WriteRune(unicode.ToLower(r))
		prevLower = isLower
	}

	return result.String()
}

// GetFieldValues extracts a struct's tagged fields into a database-name
// keyed map, skipping ignored and read-only fields. If onlyFields is
// given, only those struct field names are included.
func GetFieldValues(model interface{}, onlyFields ...string) (map[string]interface{}, error) {
	fields, err := ExtractFields(model)
	if err != nil {
		return nil, err
	}

	modelValue, err := ValueOf(model)
	if err != nil {
		return nil, err
	}
	modelValue = IndirectValue(modelValue)

	include := make(map[string]bool, len(onlyFields))
	for _, f := range onlyFields {
		include[f] = true
	}

	result := make(map[string]interface{})
	for _, field := range fields {
		if field.IsIgnored || field.IsReadOnly {
			continue
		}
		if len(onlyFields) > 0 && !include[field.Name] {
			continue
		}
		result[field.DBName] = modelValue.FieldByIndex(field.Index).Interface()
	}

	return result, nil
}

// SetFieldValues sets a struct's tagged fields from a database-name keyed
// map. model must be a pointer. Unknown database names and write-only
// fields are skipped rather than rejected.
func SetFieldValues(model interface{}, values map[string]interface{}) error {
	fields, err := ExtractFields(model)
	if err != nil {
		return err
	}
	byDBName := make(map[string]*FieldInfo, len(fields))
	for _, f := range fields {
		byDBName[f.DBName] = f
	}

	modelValue, err := ValueOf(model)
	if err != nil {
		return err
	}
	if !modelValue.IsValid() || modelValue.Kind() != reflect.Ptr {
		return errors.NewInternalError("model must be addressable (a pointer)", nil)
	}
	modelValue = IndirectValue(modelValue)

	for dbName, value := range values {
		field, ok := byDBName[dbName]
		if !ok || field.IsIgnored || field.IsWriteOnly {
			continue
		}

		fieldValue := modelValue.FieldByIndex(field.Index)
		if !fieldValue.CanSet() {
			continue
		}

		if value == nil {
			continue
		}
		sourceValue := reflect.ValueOf(value)
		switch {
		case sourceValue.Type().AssignableTo(fieldValue.Type()):
			fieldValue.Set(sourceValue)
		case sourceValue.Type().ConvertibleTo(fieldValue.Type()):
			fieldValue.Set(sourceValue.Convert(fieldValue.Type()))
		default:
			return errors.NewModelError(field.Name,
				fmt.Sprintf("cannot set field value: incompatible types (got %v)", sourceValue.Type()), nil)
		}
	}

	return nil
}

// ClearCache drops all cached field extractions. Exposed for tests that
// register competing types under reflect.TypeOf identity.
func ClearCache() {
	fieldCacheLock.Lock()
	defer fieldCacheLock.Unlock()
	fieldCache = make(map[reflect.Type][]*FieldInfo)
}

// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package reflect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/kerem/qstack/errors"
	ireflect "github.com/kerem/qstack/internal/reflect"
)

type Address struct {
	City string
	Zip  string `qstack:"column:postal_code"`
}

type account struct {
	Address
	ID       int    `qstack:"column:id"`
	Name     string
	Secret   string `qstack:"-"`
	Computed string `qstack:"readonly"`
	Token    string `qstack:"writeonly"`
}

func TestExtractFieldsDescendsIntoEmbeddedStructs(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	fields, err := ireflect.ExtractFields(account{})
	require.NoError(t, err)

	byName := make(map[string]*ireflect.FieldInfo, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	city, ok := byName["City"]
	require.True(t, ok)
	assert.Equal(t, "city", city.DBName)

	zip, ok := byName["Zip"]
	require.True(t, ok)
	assert.Equal(t, "postal_code", zip.DBName)

	id, ok := byName["ID"]
	require.True(t, ok)
	assert.Equal(t, "id", id.DBName)

	secret, ok := byName["Secret"]
	require.True(t, ok)
	assert.True(t, secret.IsIgnored)

	computed, ok := byName["Computed"]
	require.True(t, ok)
	assert.True(t, computed.IsReadOnly)

	token, ok := byName["Token"]
	require.True(t, ok)
	assert.True(t, token.IsWriteOnly)
}

func TestExtractFieldsRejectsNonStruct(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	_, err := ireflect.ExtractFields(42)
	require.Error(t, err)
	var modelErr *qerrors.ModelError
	assert.True(t, qerrors.As(err, &modelErr))
}

func TestExtractFieldsCachesByType(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	first, err := ireflect.ExtractFields(account{})
	require.NoError(t, err)
	second, err := ireflect.ExtractFields(account{})
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	// Cached results are copies, not the same backing FieldInfo pointers.
	for i := range first {
		assert.NotSame(t, first[i], second[i])
	}

	ireflect.ClearCache()
	third, err := ireflect.ExtractFields(account{})
	require.NoError(t, err)
	assert.Equal(t, len(first), len(third))
}

func TestGetFieldValuesSkipsIgnoredAndReadOnly(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	model := account{
		Address:  Address{City: "nyc", Zip: "10001"},
		ID:       1,
		Name:     "bob",
		Secret:   "shh",
		Computed: "derived",
		Token:    "tok",
	}

	values, err := ireflect.GetFieldValues(&model)
	require.NoError(t, err)

	assert.Equal(t, "nyc", values["city"])
	assert.Equal(t, "10001", values["postal_code"])
	assert.Equal(t, 1, values["id"])
	assert.Equal(t, "bob", values["name"])
	assert.Equal(t, "tok", values["token"])

	_, hasSecret := values["secret"]
	assert.False(t, hasSecret)
	_, hasComputed := values["computed"]
	assert.False(t, hasComputed)
}

func TestGetFieldValuesOnlyFieldsFilter(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	model := account{Name: "bob", ID: 7}
	values, err := ireflect.GetFieldValues(&model, "Name")
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"name": "bob"}, values)
}

func TestSetFieldValuesRoundTripsGetFieldValues(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	src := account{Address: Address{City: "nyc", Zip: "10001"}, ID: 5, Name: "bob", Token: "tok"}
	values, err := ireflect.GetFieldValues(&src)
	require.NoError(t, err)

	var dst account
	require.NoError(t, ireflect.SetFieldValues(&dst, values))

	assert.Equal(t, "nyc", dst.City)
	assert.Equal(t, "10001", dst.Zip)
	assert.Equal(t, 5, dst.ID)
	assert.Equal(t, "bob", dst.Name)
	// Token is write-only: SetFieldValues skips it even though
	// GetFieldValues (which only excludes ignored/read-only fields)
	// included it in values.
	assert.Equal(t, "", dst.Token)
}

func TestSetFieldValuesSkipsWriteOnlyField(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	var dst account
	err := ireflect.SetFieldValues(&dst, map[string]interface{}{"token": "incoming"})
	require.NoError(t, err)
	assert.Equal(t, "", dst.Token)
}

func TestSetFieldValuesRequiresPointer(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	err := ireflect.SetFieldValues(account{}, map[string]interface{}{"name": "bob"})
	require.Error(t, err)
	var internalErr *qerrors.InternalError
	assert.True(t, qerrors.As(err, &internalErr))
}

func TestSetFieldValuesIgnoresUnknownDBName(t *testing.T) {
	t.Parallel()
	ireflect.ClearCache()

	var dst account
	err := ireflect.SetFieldValues(&dst, map[string]interface{}{"nonexistent": "x"})
	require.NoError(t, err)
}

func TestParseTagSettings(t *testing.T) {
	t.Parallel()
	settings := ireflect.ParseTagSettings("column:full_name;readonly")
	assert.Equal(t, "full_name", settings["column"])
	_, ok := settings["readonly"]
	assert.True(t, ok)
	assert.Equal(t, "", settings["readonly"])
}

func TestHasTagOption(t *testing.T) {
	t.Parallel()
	assert.True(t, ireflect.HasTagOption("column:x;readonly", "readonly"))
	assert.False(t, ireflect.HasTagOption("column:x;readonly", "writeonly"))
}

func TestToSnakeCase(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Name":     "name",
		"FullName": "full_name",
		"ID":       "id",
		"UserID":   "user_id",
		"":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ireflect.ToSnakeCase(in))
	}
}

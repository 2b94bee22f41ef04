// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerem/qstack/config"
)

func writeConfigFile(t *testing.T, doc map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "qstack.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadAppConfigMergesFileIntoDefaults(t *testing.T) {
	path := writeConfigFile(t, map[string]interface{}{
		"database": map[string]interface{}{
			"driver": "sqlite3",
			"dsn":    "file::memory:",
		},
	})

	appCfg, err := config.LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", appCfg.Database.Driver)
	assert.Equal(t, "file::memory:", appCfg.Database.DSN)
	// Defaults survive fields the file didn't set.
	assert.Equal(t, 10, appCfg.Database.MaxOpenConns)
	assert.Equal(t, "info", appCfg.Logging.Level)
	assert.Equal(t, "sqlite3", appCfg.Dialect)
}

func TestLoadAppConfigRejectsMissingDriver(t *testing.T) {
	path := writeConfigFile(t, map[string]interface{}{
		"database": map[string]interface{}{"dsn": "file::memory:"},
	})

	_, err := config.LoadAppConfig(path)
	require.Error(t, err)
}

func TestLoadAppConfigHonorsEnvOverride(t *testing.T) {
	path := writeConfigFile(t, map[string]interface{}{
		"database": map[string]interface{}{
			"driver": "sqlite3",
			"dsn":    "file::memory:",
		},
	})

	t.Setenv("QSTACK_DATABASE_DSN", "file:override.db")

	appCfg, err := config.LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "file:override.db", appCfg.Database.DSN)
}

func TestConfigGetSetAcrossProviders(t *testing.T) {
	cfg := config.New()
	cfg.Set("dialect", "pgsql")

	value, ok := cfg.Get("dialect")
	require.True(t, ok)
	assert.Equal(t, "pgsql", value)

	s, err := cfg.GetString("dialect")
	require.NoError(t, err)
	assert.Equal(t, "pgsql", s)

	_, err = cfg.GetString("missing")
	assert.Error(t, err)
}

func TestMemoryProviderNestedKeys(t *testing.T) {
	p := config.NewMemoryProvider()
	p.Set("database.driver", "mysql")

	v, ok := p.Get("database.driver")
	require.True(t, ok)
	assert.Equal(t, "mysql", v)
	assert.True(t, p.Has("database.driver"))
	assert.False(t, p.Has("database.missing"))
}

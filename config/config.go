// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

// Package config loads an AppConfig (database connection + logging
// settings) from a JSON file, layering QSTACK_-prefixed environment
// variables on top, for cmd/qstack's --config flag.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kerem/qstack/errors"
)

// Provider is a layer of configuration values Config reads through.
type Provider interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Has(key string) bool
	AllSettings() map[string]interface{}
	LoadFrom(source Source) error
}

// Source loads configuration values into a Provider.
type Source interface {
	Load(provider Provider) error
	Name() string
}

// Config layers zero or more Providers, later ones taking precedence,
// and is the entry point LoadAppConfig builds on.
type Config struct {
	mu        sync.RWMutex
	providers []Provider
}

// Option configures a Config at construction time.
type Option func(*Config)

// New builds a Config, applying options in order. With no providing
// option it holds a single empty MemoryProvider.
func New(options ...Option) *Config {
	cfg := &Config{}
	for _, option := range options {
		option(cfg)
	}
	if len(cfg.providers) == 0 {
		cfg.providers = append(cfg.providers, NewMemoryProvider())
	}
	return cfg
}

// Get retrieves a configuration value, searching providers from most to
// least recently added.
func (c *Config) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.providers) - 1; i >= 0; i-- {
		if value, ok := c.providers[i].Get(key); ok {
			return value, true
		}
	}
	return nil, false
}

// GetString retrieves a string configuration value.
func (c *Config) GetString(key string) (string, error) {
	value, ok := c.Get(key)
	if !ok {
		return "", errors.NewConfigError("key not found", nil).WithKey(key)
	}
	if str, ok := value.(string); ok {
		return str, nil
	}
	return fmt.Sprintf("%v", value), nil
}

// GetInt retrieves an integer configuration value.
func (c *Config) GetInt(key string) (int, error) {
	value, ok := c.Get(key)
	if !ok {
		return 0, errors.NewConfigError("key not found", nil).WithKey(key)
	}
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err != nil {
			return 0, errors.NewConfigError("invalid integer value", err).WithKey(key)
		}
		return i, nil
	}
	return 0, errors.NewConfigError("invalid integer value", nil).WithKey(key).WithValue(value)
}

// GetBool retrieves a boolean configuration value.
func (c *Config) GetBool(key string) (bool, error) {
	value, ok := c.Get(key)
	if !ok {
		return false, errors.NewConfigError("key not found", nil).WithKey(key)
	}
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "1", "on", "t", "y":
			return true, nil
		case "false", "no", "0", "off", "f", "n":
			return false, nil
		}
	}
	return false, errors.NewConfigError("invalid boolean value", nil).WithKey(key).WithValue(value)
}

// GetDuration retrieves a duration configuration value.
func (c *Config) GetDuration(key string) (time.Duration, error) {
	value, ok := c.Get(key)
	if !ok {
		return 0, errors.NewConfigError("key not found", nil).WithKey(key)
	}
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, errors.NewConfigError("invalid duration value", err).WithKey(key)
		}
		return d, nil
	}
	return 0, errors.NewConfigError("invalid duration value", nil).WithKey(key).WithValue(value)
}

// GetStruct decodes a configuration value into result, a pointer to a
// struct with json tags. An empty key merges every provider's
// AllSettings (outer keys like "database", "logging") into one document
// before decoding, which is how LoadAppConfig reads a whole file's worth
// of nested sections into a single AppConfig in one call.
func (c *Config) GetStruct(key string, result interface{}) error {
	var value interface{}
	if key == "" {
		value = c.AllSettings()
	} else {
		v, ok := c.Get(key)
		if !ok {
			return errors.NewConfigError("key not found", nil).WithKey(key)
		}
		value = v
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewConfigError("failed to marshal struct data", err).WithKey(key)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return errors.NewConfigError("failed to unmarshal struct data", err).WithKey(key)
	}
	return nil
}

// Set sets a configuration value on the most recently added provider.
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.providers[len(c.providers)-1].Set(key, value)
}

// Has checks whether a configuration key exists in any provider.
func (c *Config) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.providers) - 1; i >= 0; i-- {
		if c.providers[i].Has(key) {
			return true
		}
	}
	return false
}

// AllSettings deep-merges every provider's settings into one map, later
// providers winning key-by-key at every nesting level (an env override
// for "database.dsn" doesn't blank out "database.driver" set by a file).
func (c *Config) AllSettings() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string]interface{})
	for _, provider := range c.providers {
		result = mergeMaps(result, provider.AllSettings())
	}
	return result
}

// mergeMaps deep-merges override onto base, returning a new map. Nested
// maps are merged recursively; any other value in override replaces
// base's.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		if overrideMap, ok := v.(map[string]interface{}); ok {
			if baseMap, ok := result[k].(map[string]interface{}); ok {
				result[k] = mergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// LoadFrom loads source into a new provider layered on top of the
// existing ones.
func (c *Config) LoadFrom(source Source) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	provider := NewMemoryProvider()
	if err := source.Load(provider); err != nil {
		return errors.NewConfigError("failed to load configuration", err).WithValue(source.Name())
	}
	c.providers = append(c.providers, provider)
	return nil
}

// MemoryProvider is an in-memory, dot-path-addressable Provider.
type MemoryProvider struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewMemoryProvider builds an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{values: make(map[string]interface{})}
}

// Get retrieves a value by dot-separated path ("database.driver").
func (p *MemoryProvider) Get(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	parts := strings.Split(key, ".")
	curr := p.values
	for i, part := range parts {
		if i == len(parts)-1 {
			val, ok := curr[part]
			return val, ok
		}
		next, ok := curr[part]
		if !ok {
			return nil, false
		}
		nextMap, ok := next.(map[string]interface{})
		if !ok {
			return nil, false
		}
		curr = nextMap
	}
	return nil, false
}

// Set stores a value at a dot-separated path, creating intermediate maps
// as needed.
func (p *MemoryProvider) Set(key string, value interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	parts := strings.Split(key, ".")
	curr := p.values
	for i, part := range parts {
		if i == len(parts)-1 {
			curr[part] = value
			return
		}
		next, ok := curr[part]
		nextMap, ok2 := next.(map[string]interface{})
		if !ok || !ok2 {
			nextMap = make(map[string]interface{})
			curr[part] = nextMap
		}
		curr = nextMap
	}
}

// Has reports whether a dot-separated path is set.
func (p *MemoryProvider) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// AllSettings returns a deep copy of every value this provider holds.
func (p *MemoryProvider) AllSettings() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return deepCopyMap(p.values)
}

// LoadFrom loads source directly into this provider.
func (p *MemoryProvider) LoadFrom(source Source) error {
	return source.Load(p)
}

func deepCopyMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch value := v.(type) {
		case map[string]interface{}:
			result[k] = deepCopyMap(value)
		case []interface{}:
			result[k] = deepCopySlice(value)
		default:
			result[k] = v
		}
	}
	return result
}

func deepCopySlice(s []interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		switch value := v.(type) {
		case map[string]interface{}:
			result[i] = deepCopyMap(value)
		case []interface{}:
			result[i] = deepCopySlice(value)
		default:
			result[i] = v
		}
	}
	return result
}

// FileSource loads configuration from a JSON file.
type FileSource struct {
	path     string
	optional bool
}

// NewFileSource builds a FileSource. If optional is true, a missing file
// is not an error.
func NewFileSource(path string, optional bool) *FileSource {
	return &FileSource{path: path, optional: optional}
}

func (s *FileSource) Load(provider Provider) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) && s.optional {
			return nil
		}
		return errors.NewConfigError("failed to read config file", err).WithValue(s.path)
	}

	var result map[string]interface{}
	switch ext := strings.ToLower(filepath.Ext(s.path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &result); err != nil {
			return errors.NewConfigError("failed to parse JSON config", err).WithValue(s.path)
		}
	default:
		return errors.NewConfigError("unsupported config file format", nil).WithValue(s.path)
	}

	for k, v := range result {
		provider.Set(k, v)
	}
	return nil
}

func (s *FileSource) Name() string { return fmt.Sprintf("file(%s)", s.path) }

// EnvSource loads configuration from environment variables carrying a
// given prefix, converting FOO_BAR_BAZ into the dot path "bar.baz".
type EnvSource struct {
	prefix string
}

// NewEnvSource builds an EnvSource for variables named prefix_KEY.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

func (s *EnvSource) Load(provider Provider) error {
	for _, e := range os.Environ() {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]

		if s.prefix != "" {
			if !strings.HasPrefix(key, s.prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.prefix)
			key = strings.TrimPrefix(key, "_")
		}

		key = strings.ToLower(strings.ReplaceAll(key, "_", "."))
		provider.Set(key, value)
	}
	return nil
}

func (s *EnvSource) Name() string { return fmt.Sprintf("env(%s)", s.prefix) }

// Package cache is a small JSON key/value file used to persist client state
// between runs: fetched Safes, balances, analytics client id and consent.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "cache")

// DefaultPath is ~/.safeops/cache.json.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".safeops", "cache.json")
	}
	return filepath.Join(home, ".safeops", "cache.json")
}

type Cache struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]string
}

// New returns a cache backed by path. The file is read lazily on first use;
// a missing or corrupt file starts an empty cache.
func New(path string) *Cache {
	return &Cache{
		path: path,
		data: map[string]string{},
	}
}

func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	content, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("couldn't read cache file %s", c.path)
		}
		return
	}
	file := struct {
		Data map[string]string `json:"Data"`
	}{}
	if err := json.Unmarshal(content, &file); err != nil {
		log.WithError(err).Warnf("ignoring corrupt cache file %s", c.path)
		return
	}
	for k, v := range file.Data {
		c.data[strings.ToLower(k)] = v
	}
}

func (c *Cache) persist() error {
	jsonData, err := json.MarshalIndent(struct {
		Data map[string]string `json:"Data"`
	}{c.data}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("couldn't create cache dir: %w", err)
	}
	return os.WriteFile(c.path, jsonData, 0o644)
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	value, found := c.data[strings.ToLower(key)]
	return value, found
}

func (c *Cache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.data[strings.ToLower(key)] = value
	return c.persist()
}

func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	delete(c.data, strings.ToLower(key))
	return c.persist()
}

// GetJSON decodes the value under key into v. It reports false when the key
// is missing or the value doesn't decode.
func (c *Cache) GetJSON(key string, v interface{}) bool {
	raw, found := c.Get(key)
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.WithError(err).Debugf("couldn't decode cached %s", key)
		return false
	}
	return true
}

func (c *Cache) SetJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, string(raw))
}

var (
	mu           sync.Mutex
	defaultCache *Cache
)

// Default is the process wide cache, at DefaultPath unless SetPath was
// called.
func Default() *Cache {
	mu.Lock()
	defer mu.Unlock()
	if defaultCache == nil {
		defaultCache = New(DefaultPath())
	}
	return defaultCache
}

// SetPath points the process wide cache at path.
func SetPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	defaultCache = New(path)
}

func GetCache(key string) (string, bool) {
	return Default().Get(key)
}

func SetCache(key, value string) error {
	return Default().Set(key, value)
}

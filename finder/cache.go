package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// CacheFileName is the default path-cache file name.
const CacheFileName = "uitrans.cache"

// cacheVersion is the cache file format version.
const cacheVersion = 1

const cacheKeyBundle = "bundle_path"

// Cache is an explicit key-value store for resolved filesystem paths.
// It is passed to Resolve by the caller — there is no process-wide
// cached path anywhere in this tool.
type Cache struct {
	Version int               `yaml:"version"`
	Paths   map[string]string `yaml:"paths"`

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// LoadCache reads the cache file from dir. A missing file yields an
// empty cache; an unreadable one is discarded and started fresh — the
// cache is an optimization, never a source of truth.
func LoadCache(dir string) *Cache {
	path := filepath.Join(dir, CacheFileName)
	c := &Cache{
		Version: cacheVersion,
		Paths:   make(map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	if err := yaml.Unmarshal(data, c); err != nil || c.Paths == nil {
		c.Paths = make(map[string]string)
	}
	c.Version = cacheVersion
	return c
}

// Get returns the cached value for key, or "".
func (c *Cache) Get(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Paths[key]
}

// Set stores a value for key in memory. Call Save to persist.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Paths[key] = value
}

// Delete removes a key from the in-memory cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Paths, key)
}

// Save writes the cache back to its file.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

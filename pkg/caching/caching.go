package caching

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a file-based store of resolved metadata documents, one file per token.
// File existence is the only hit signal: there is no TTL and no checksum.
type Cache struct {
	path   string
	prefix string
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path, prefix string) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path:   path,
		prefix: prefix,
	}, nil
}

// FilePath returns the cache file for a token, e.g. ipfs_cache/gogo_42.json.
func (c *Cache) FilePath(tokenID int) string {
	name := fmt.Sprintf("%d.json", tokenID)
	if c.prefix != "" {
		name = fmt.Sprintf("%s_%d.json", c.prefix, tokenID)
	}
	return filepath.Join(c.path, name)
}

// Get retrieves a cached document.
// It returns the data and true if the file exists and is readable.
func (c *Cache) Get(tokenID int) ([]byte, bool) {
	data, err := os.ReadFile(c.FilePath(tokenID))
	if err != nil {
		return nil, false // Cache miss
	}
	return data, true
}

// Has reports whether a document is cached for the token.
func (c *Cache) Has(tokenID int) bool {
	_, err := os.Stat(c.FilePath(tokenID))
	return err == nil
}

// Set stores a document. An existing entry is left untouched.
func (c *Cache) Set(tokenID int, data []byte) (bool, error) {
	filePath := c.FilePath(tokenID)
	if c.Has(tokenID) {
		return false, nil
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write to cache: %w", err)
	}
	return true, nil
}

// Delete removes a cached document. Deleting a missing entry is not an error.
func (c *Cache) Delete(tokenID int) error {
	err := os.Remove(c.FilePath(tokenID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

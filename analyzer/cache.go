package analyzer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// cacheEntry is one cached file read with the metadata used for invalidation.
type cacheEntry struct {
	Content []byte
	ModTime time.Time
	Size    int64
}

// ContentCache caches raw file contents between analysis runs. Entries are
// invalidated when the source file's modification time or size changes.
type ContentCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// NewContentCache creates a cache rooted at cacheDir. An empty cacheDir
// defaults to ".cache" under the current working directory.
func NewContentCache(cacheDir string) (*ContentCache, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &ContentCache{cacheDir: cacheDir}, nil
}

func (c *ContentCache) cachePath(filePath string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%016x.cache", xxh3.HashString(filePath)))
}

// Get returns the cached content for filePath if the file is unchanged.
func (c *ContentCache) Get(filePath string) ([]byte, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data, err := os.ReadFile(c.cachePath(filePath))
	if err != nil {
		return nil, false
	}

	var entry cacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, false
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if !info.ModTime().Equal(entry.ModTime) || info.Size() != entry.Size {
		return nil, false
	}

	return entry.Content, true
}

// Set stores the content of filePath together with its current metadata.
func (c *ContentCache) Set(filePath string, content []byte) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat file for caching: %w", err)
	}

	entry := cacheEntry{
		Content: content,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	return os.WriteFile(c.cachePath(filePath), buf.Bytes(), 0644)
}

// Clear deletes every cache file.
func (c *ContentCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cache" {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache file %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Stats reports the number of cache files and their total size.
func (c *ContentCache) Stats() (files int, totalSize int64, err error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cache" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		totalSize += info.Size()
	}
	return files, totalSize, nil
}

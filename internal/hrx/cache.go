package hrx

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of decoded archives kept by NewCache(0).
const DefaultCacheSize = 64

// Cache keeps recently decoded archives keyed by absolute path.
//
// A cached tree is reused only while the file's size and modification time
// are unchanged. Safe for concurrent use.
type Cache struct {
	archives *lru.Cache[string, cachedArchive]
}

type cachedArchive struct {
	root    *Entry
	size    int64
	modTime time.Time
}

// NewCache creates a cache holding up to size archives.
// A non-positive size selects DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	archives, err := lru.New[string, cachedArchive](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive cache: %w", err)
	}
	return &Cache{archives: archives}, nil
}

// Load returns the decoded archive at path, decoding it on a cache miss.
func (c *Cache) Load(path string) (*Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve archive path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	if cached, ok := c.archives.Get(abs); ok &&
		cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.root, nil
	}

	root, err := Load(abs)
	if err != nil {
		return nil, err
	}
	c.archives.Add(abs, cachedArchive{root: root, size: info.Size(), modTime: info.ModTime()})
	return root, nil
}

// Len returns the number of cached archives.
func (c *Cache) Len() int {
	return c.archives.Len()
}

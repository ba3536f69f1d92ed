package fileio

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"keyword-mapping-service/internal/metrics"
)

// Cache keeps parsed uploads in memory, keyed by file content, so a user
// re-submitting the same file does not pay for parsing twice. Purely an
// optimization: a miss just parses again.
type Cache struct {
	ttl    time.Duration
	group  singleflight.Group
	mu     sync.Mutex
	items  map[string]cacheItem
	hits   atomic.Int64
	misses atomic.Int64
}

type cacheItem struct {
	table   *Table
	expires time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, items: make(map[string]cacheItem)}
}

// GetOrParse returns the cached table for this exact content, or parses and
// stores it. Concurrent calls for the same content share one parse.
func (c *Cache) GetOrParse(content []byte, filename string, headerRow int) (*Table, error) {
	if c == nil || c.ttl <= 0 {
		return ReadAny(bytes.NewReader(content), filename, headerRow)
	}

	key := c.buildKey(content, filename, headerRow)
	if t, ok := c.get(key); ok {
		c.hits.Add(1)
		metrics.RecordCacheLookup("hit")
		return t, nil
	}
	c.misses.Add(1)
	metrics.RecordCacheLookup("miss")

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if t, ok := c.get(key); ok {
			return t, nil
		}
		t, err := ReadAny(bytes.NewReader(content), filename, headerRow)
		if err != nil {
			return nil, err
		}
		c.set(key, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

func (c *Cache) stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) get(key string) (*Table, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expires) {
		delete(c.items, key)
		return nil, false
	}
	return it.table, true
}

func (c *Cache) set(key string, t *Table) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, it := range c.items {
		if now.After(it.expires) {
			delete(c.items, k)
		}
	}
	c.items[key] = cacheItem{table: t, expires: now.Add(c.ttl)}
}

func (c *Cache) buildKey(content []byte, filename string, headerRow int) string {
	sum := sha256.Sum256(content)
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%x:%s:h=%d", sum[:16], ext, headerRow)
}

// Package cache keeps recently normalized record sets in memory so repeated
// report requests over the same export skip parsing.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gyeh/hmnreport/internal/model"
)

// Loader produces the records of one export.
type Loader func(path string, kind model.Kind) ([]model.Record, error)

// Cache is a bounded read-through cache of record sets. Entries are keyed on
// the file's identity (absolute path, size and modification time) plus its
// kind, so a rewritten export is reloaded. Concurrent misses for the same key
// share one load. Returned slices are shared and must not be modified.
type Cache struct {
	load  Loader
	max   int
	group singleflight.Group

	mu      sync.Mutex
	entries map[string][]model.Record
	order   []string // oldest first
	hits    int
	misses  int
}

// New returns a cache holding at most max record sets.
func New(max int, load Loader) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{load: load, max: max, entries: make(map[string][]model.Record)}
}

// Get returns the records for path, loading them on a miss.
func (c *Cache) Get(path string, kind model.Kind) ([]model.Record, error) {
	key, err := fileKey(path, kind)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if recs, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return recs, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		recs, err := c.load(path, kind)
		if err != nil {
			return nil, err
		}
		c.put(key, recs)
		return recs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Record), nil
}

func (c *Cache) put(key string, recs []model.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = recs
	for len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// Stats returns hit and miss counts and the number of cached sets.
func (c *Cache) Stats() (hits, misses, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}

func fileKey(path string, kind model.Kind) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	st, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%s|%d|%d", abs, kind, st.Size(), st.ModTime().UnixNano()), nil
}

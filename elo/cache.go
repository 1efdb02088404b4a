/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package elo

import (
	"sync"
)

type entry struct {
	ratings Ratings
	fetched bool
	// restored entries came from Restore rather than a lookup
	restored bool
}

// Cache maps lower-cased player names to ratings. An entry is either a
// placeholder added by SetDefault, or ratings written by Update. Only the
// latter are reported as present by Get. Entries are never evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]entry),
	}
}

// Get returns the ratings for name and whether they were ever fetched.
func (c *Cache) Get(name string) (Ratings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[Key(name)]
	if !ok || !e.fetched {
		return Ratings{}, false
	}
	return e.ratings, true
}

// SetDefault adds a placeholder for name unless an entry already exists.
func (c *Cache) SetDefault(name string) {
	key := Key(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		c.entries[key] = entry{}
	}
}

// Update overwrites the ratings for name and marks them fetched.
func (c *Cache) Update(name string, r Ratings) {
	key := Key(name)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{ratings: r, fetched: true}
}

// Known reports whether name has an entry of either kind.
func (c *Cache) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[Key(name)]
	return ok
}

// Len returns the number of entries, placeholders included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Snapshot copies the fetched entries.
func (c *Cache) Snapshot() map[string]Ratings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Ratings, len(c.entries))
	for k, e := range c.entries {
		if e.fetched {
			out[k] = e.ratings
		}
	}
	return out
}

// Restore loads previously fetched ratings, e.g. from a snapshot on disk.
func (c *Cache) Restore(ratings map[string]Ratings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, r := range ratings {
		c.entries[Key(name)] = entry{ratings: r, fetched: true, restored: true}
	}
}

// Updates returns the ratings written by Update, leaving out those still
// as loaded by Restore.
func (c *Cache) Updates() map[string]Ratings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Ratings)
	for k, e := range c.entries {
		if e.fetched && !e.restored {
			out[k] = e.ratings
		}
	}
	return out
}

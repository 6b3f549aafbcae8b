// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package memcache provides a map-backed table with no persistence.
package memcache

import "github.com/luxfi/table"

var (
	_ table.Table[struct{}, struct{}] = (*Cache[struct{}, struct{}])(nil)
	_ table.Sizer                     = (*Cache[struct{}, struct{}])(nil)
)

// Cache is a table held entirely in memory. Its contents are lost when the
// process exits, so it suits small tables that are cheap to rebuild at
// startup.
type Cache[K comparable, V any] struct {
	items map[K]V
}

// New creates an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// Set inserts or replaces an element.
func (c *Cache[K, V]) Set(key K, value V) (V, bool) {
	prev, ok := c.items[key]
	c.items[key] = value
	return prev, ok
}

// Get returns the entry with the key, if it exists.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	val, ok := c.items[key]
	return val, ok
}

// ContainsKey reports whether the key exists.
func (c *Cache[K, V]) ContainsKey(key K) bool {
	_, ok := c.items[key]
	return ok
}

// Remove deletes the key and returns the value it held.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	prev, ok := c.items[key]
	if ok {
		delete(c.items, key)
	}
	return prev, ok
}

// Len returns the number of elements in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

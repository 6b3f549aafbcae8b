// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package synctable serializes access to a table that is not safe for
// concurrent use.
package synctable

import (
	"sync"

	"github.com/luxfi/table"
)

var (
	_ table.Table[struct{}, struct{}] = (*Table[struct{}, struct{}])(nil)
	_ table.Persister                 = (*Table[struct{}, struct{}])(nil)
	_ table.Sizer                     = (*Table[struct{}, struct{}])(nil)
)

// Table holds one exclusive lock for the duration of every operation on the
// wrapped table, including Persist.
type Table[K comparable, V any] struct {
	mu    sync.Mutex
	inner table.Table[K, V]
}

// New wraps t. t must not be used directly afterwards.
func New[K comparable, V any](t table.Table[K, V]) *Table[K, V] {
	return &Table[K, V]{inner: t}
}

func (t *Table[K, V]) Set(key K, value V) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.Set(key, value)
}

func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.Get(key)
}

func (t *Table[K, V]) ContainsKey(key K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.ContainsKey(key)
}

func (t *Table[K, V]) Remove(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inner.Remove(key)
}

// Persist flushes the wrapped table if it is a table.Persister and is a
// no-op otherwise.
func (t *Table[K, V]) Persist() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.inner.(table.Persister); ok {
		return p.Persist()
	}
	return nil
}

// Len returns the wrapped table's in-memory size, or 0 if it does not
// report one.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.inner.(table.Sizer); ok {
		return s.Len()
	}
	return 0
}

// Do runs f with the lock held, so check-then-act sequences are atomic. f
// must not call back into t.
func (t *Table[K, V]) Do(f func(table.Table[K, V]) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return f(t.inner)
}

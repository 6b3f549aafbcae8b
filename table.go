// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package table provides the key/value table contract shared by the
// in-memory and disk-backed implementations.
package table

// Table is a key/value store with at most one value per key.
//
// Implementations are not safe for concurrent use; callers sharing a table
// must serialize every operation behind a single lock (see synctable).
type Table[K comparable, V any] interface {
	// Set inserts or overwrites the value for key and returns the value it
	// replaced, if one was known to the table.
	Set(key K, value V) (V, bool)

	// Get returns the value for key, if it exists.
	Get(key K) (V, bool)

	// ContainsKey reports whether key exists without requiring its value to
	// be loaded.
	ContainsKey(key K) bool

	// Remove deletes key and returns the value it held, if that value was
	// known to the table.
	Remove(key K) (V, bool)
}

// Persister is implemented by tables whose changes become durable only after
// an explicit flush.
type Persister interface {
	// Persist reconciles every pending change with durable storage.
	Persist() error
}

// Sizer is implemented by tables that can report how many entries they hold
// in memory.
type Sizer interface {
	Len() int
}

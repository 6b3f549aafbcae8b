// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package diskcache provides a table whose records live in one file per key
// under a base directory.
//
// Records are loaded lazily: nothing is read at construction, and a key is
// only read from disk the first time it is requested. Set and Remove only
// touch memory and mark the key dirty; Persist is the single point where
// pending writes and deletions reach the disk.
//
// A Cache is not safe for concurrent use. Callers that share one must hold a
// single exclusive lock around every call, Persist included.
package diskcache

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/luxfi/table"
	"github.com/luxfi/table/codec"
)

var (
	// ErrNotFound is returned by Fetch when the key has no record.
	ErrNotFound = errors.New("record not found")
	// ErrCorrupt is returned by Fetch when a record exists but cannot be
	// decoded.
	ErrCorrupt = errors.New("corrupt record")
)

var (
	_ table.Table[fmtKey, struct{}] = (*Cache[fmtKey, struct{}])(nil)
	_ table.Persister               = (*Cache[fmtKey, struct{}])(nil)
	_ table.Sizer                   = (*Cache[fmtKey, struct{}])(nil)
)

type fmtKey string

func (k fmtKey) String() string { return string(k) }

// Key is the constraint on disk-backed keys. String must be stable for the
// lifetime of the records since it names the file holding the value.
type Key interface {
	comparable
	fmt.Stringer
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	log *slog.Logger
}

// WithLogger sets the logger used for load and persist diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Cache is a lazily populated table backed by per-key files.
type Cache[K Key, V any] struct {
	basePath string
	codec    codec.Codec[V]
	log      *slog.Logger

	// cache is the in-memory view: every key set, plus every key loaded.
	cache map[K]V
	// dirty holds keys whose disk state must be reconciled by Persist. A
	// dirty key missing from cache is pending deletion.
	dirty map[K]struct{}
}

// New creates a Cache rooted at basePath. The directory is not touched until
// a record is read or Persist writes one.
func New[K Key, V any](basePath string, c codec.Codec[V], opts ...Option) *Cache[K, V] {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[K, V]{
		basePath: filepath.Clean(basePath),
		codec:    c,
		log:      o.log,
		cache:    make(map[K]V),
		dirty:    make(map[K]struct{}),
	}
}

// Set stores value in memory and marks key dirty. It returns the previously
// cached value; a record that exists only on disk is not consulted.
func (c *Cache[K, V]) Set(key K, value V) (V, bool) {
	c.dirty[key] = struct{}{}
	prev, ok := c.cache[key]
	c.cache[key] = value
	return prev, ok
}

// Get returns the value for key, loading it from disk on first access.
// Missing, unreadable and undecodable records all report absence; use Fetch
// to tell them apart.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, err := c.Fetch(key)
	if err != nil {
		if errors.Is(err, ErrCorrupt) {
			c.log.Warn("Ignoring corrupt record", "key", key.String(), "error", err)
		}
		var zero V
		return zero, false
	}
	return v, true
}

// Fetch is Get with the failure reason: ErrNotFound when there is no record,
// ErrCorrupt when the record does not decode, or the underlying I/O error.
// Failed loads are not cached and are retried on the next call.
func (c *Cache[K, V]) Fetch(key K) (V, error) {
	var zero V
	if v, ok := c.cache[key]; ok {
		return v, nil
	}
	if c.pendingDelete(key) {
		return zero, ErrNotFound
	}

	v, err := c.load(key)
	if err != nil {
		return zero, err
	}
	// Loading is not a mutation, so key stays clean.
	c.cache[key] = v
	return v, nil
}

// ContainsKey reports whether key is cached or has a record on disk. The
// record is only stat'ed, never opened.
func (c *Cache[K, V]) ContainsKey(key K) bool {
	if _, ok := c.cache[key]; ok {
		return true
	}
	if c.pendingDelete(key) {
		return false
	}
	_, err := os.Stat(c.Path(key))
	return err == nil
}

// Remove drops key from memory and marks it dirty, so its record is deleted
// by the next Persist. It returns the cached value; a record that was never
// loaded reports absence even though it is still scheduled for deletion.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.dirty[key] = struct{}{}
	prev, ok := c.cache[key]
	if ok {
		delete(c.cache, key)
	}
	return prev, ok
}

// Len returns the number of values held in memory.
func (c *Cache[K, V]) Len() int {
	return len(c.cache)
}

// Dirty returns the number of keys awaiting Persist.
func (c *Cache[K, V]) Dirty() int {
	return len(c.dirty)
}

// BasePath returns the directory holding the records.
func (c *Cache[K, V]) BasePath() string {
	return c.basePath
}

// Path returns the file that holds, or would hold, the record for key.
func (c *Cache[K, V]) Path(key K) string {
	return filepath.Join(c.basePath, FileName(key.String()))
}

// pendingDelete reports whether key was removed since the last Persist. Its
// record may still be on disk but is no longer part of the table.
func (c *Cache[K, V]) pendingDelete(key K) bool {
	_, dirty := c.dirty[key]
	if !dirty {
		return false
	}
	_, cached := c.cache[key]
	return !cached
}

func (c *Cache[K, V]) load(key K) (V, error) {
	var zero V
	path := c.Path(key)

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, ErrNotFound
		}
		c.log.Debug("Failed to read record", "key", key.String(), "path", path, "error", err)
		return zero, fmt.Errorf("reading record %s: %w", path, err)
	}

	v, err := c.codec.Unmarshal(b)
	if err != nil {
		return zero, fmt.Errorf("%w %s: %v", ErrCorrupt, path, err)
	}

	c.log.Debug("Loaded record from disk", "key", key.String(), "path", path, "bytes", len(b))
	return v, nil
}

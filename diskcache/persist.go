// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package diskcache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// dirPerms is the permission for the records directory.
	dirPerms = 0o700
	// tmpPattern names in-flight writes. Escaped record names never start
	// with a dot, so temp files cannot shadow a record.
	tmpPattern = ".persist-*"
)

type pending[K Key] struct {
	key  K
	path string
}

// Persist reconciles every dirty key with disk: cached keys are written,
// removed keys have their record deleted, and keys that are neither cached
// nor on disk are skipped.
//
// Keys are processed in record-name order and each one leaves the dirty set
// as soon as its record is reconciled. The first error stops the pass; the
// failing key and every key after it stay dirty for the next call.
func (c *Cache[K, V]) Persist() error {
	if len(c.dirty) == 0 {
		return nil
	}

	start := time.Now()
	work := make([]pending[K], 0, len(c.dirty))
	for key := range c.dirty {
		work = append(work, pending[K]{key: key, path: c.Path(key)})
	}
	slices.SortFunc(work, func(a, b pending[K]) int {
		return strings.Compare(a.path, b.path)
	})

	var written, removed int
	madeDir := false
	for _, p := range work {
		if v, ok := c.cache[p.key]; ok {
			if !madeDir {
				if err := os.MkdirAll(c.basePath, dirPerms); err != nil {
					return fmt.Errorf("creating records directory %s: %w", c.basePath, err)
				}
				madeDir = true
			}
			b, err := c.codec.Marshal(v)
			if err != nil {
				return fmt.Errorf("encoding record %s: %w", p.path, err)
			}
			if err := c.writeRecord(p.path, b); err != nil {
				return err
			}
			written++
			c.log.Debug("Wrote record", "key", p.key.String(), "path", p.path, "bytes", len(b))
		} else {
			gone, err := removeRecord(p.path)
			if err != nil {
				return err
			}
			if gone {
				removed++
				c.log.Debug("Removed record", "key", p.key.String(), "path", p.path)
			}
		}
		delete(c.dirty, p.key)
	}

	c.log.Info("Persisted records",
		"path", c.basePath,
		"written", written,
		"removed", removed,
		"skipped", len(work)-written-removed,
		"duration", time.Since(start))
	return nil
}

// writeRecord replaces the record at path atomically.
func (c *Cache[K, V]) writeRecord(path string, b []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), tmpPattern)
	if err != nil {
		return fmt.Errorf("creating record file: %w", err)
	}
	tmpPath := file.Name()

	if _, err := file.Write(b); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing record %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing record %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing record %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming record %s: %w", path, err)
	}
	return nil
}

// removeRecord deletes the record at path. A missing record is a double
// remove and reports false with no error.
func removeRecord(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("removing record %s: %w", path, err)
	}
}

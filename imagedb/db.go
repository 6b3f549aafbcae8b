// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package imagedb stores images on disk and users in memory, both behind the
// table contract.
package imagedb

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/luxfi/ids"
	"github.com/luxfi/metric"

	"github.com/luxfi/table"
	"github.com/luxfi/table/codec"
	"github.com/luxfi/table/config"
	"github.com/luxfi/table/diskcache"
	"github.com/luxfi/table/memcache"
	"github.com/luxfi/table/metertable"
	"github.com/luxfi/table/synctable"
)

var (
	// ErrImageExists is returned by AddImage when the id is already taken.
	ErrImageExists = errors.New("image already exists")
	// ErrImageNotFound is returned when no image is stored under an id.
	ErrImageNotFound = errors.New("image not found")
	// ErrUnauthorized is returned by Logon for an unknown user or a wrong
	// password.
	ErrUnauthorized = errors.New("unauthorized")
)

// DB is safe for concurrent use.
type DB struct {
	log    *slog.Logger
	users  *synctable.Table[Username, User]
	images *synctable.Table[ids.ID, Image]
	// disk is only touched with the images lock held.
	disk *diskcache.Cache[ids.ID, Image]
}

// New opens the image database described by cfg. Nothing is read from disk
// until an image is requested.
func New(cfg *config.Config, reg metric.Registerer, log *slog.Logger) (*DB, error) {
	if log == nil {
		log = slog.Default()
	}
	imageCodec, err := codec.NewCBOR[Image]()
	if err != nil {
		return nil, err
	}
	disk := diskcache.New[ids.ID, Image](cfg.DataDir, imageCodec, diskcache.WithLogger(log))
	meteredImages, err := metertable.New[ids.ID, Image](cfg.MetricsNamespace+"_images", reg, disk)
	if err != nil {
		return nil, fmt.Errorf("registering image metrics: %w", err)
	}

	users := memcache.New[Username, User]()
	for name, hash := range cfg.Users {
		users.Set(Username(name), User{HashedPassword: hash})
	}
	meteredUsers, err := metertable.New[Username, User](cfg.MetricsNamespace+"_users", reg, users)
	if err != nil {
		return nil, fmt.Errorf("registering user metrics: %w", err)
	}

	return &DB{
		log:    log,
		users:  synctable.New[Username, User](meteredUsers),
		images: synctable.New[ids.ID, Image](meteredImages),
		disk:   disk,
	}, nil
}

// AddImage stores a new private image owned by owner. It fails with
// ErrImageExists if id is already taken, in memory or on disk.
func (db *DB) AddImage(owner Username, id ids.ID, data []byte) error {
	err := db.images.Do(func(t table.Table[ids.ID, Image]) error {
		if t.ContainsKey(id) {
			return ErrImageExists
		}
		t.Set(id, Image{
			Owner: owner,
			Data:  bytes.Clone(data),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("adding %s: %w", id, err)
	}
	db.log.Debug("Added image", "id", id, "owner", owner, "bytes", len(data))
	return nil
}

// Image returns the image stored under id.
func (db *DB) Image(id ids.ID) (Image, error) {
	img, ok := db.images.Get(id)
	if !ok {
		return Image{}, fmt.Errorf("%s: %w", id, ErrImageNotFound)
	}
	return img, nil
}

// HasImage reports whether id is taken without loading the image.
func (db *DB) HasImage(id ids.ID) bool {
	return db.images.ContainsKey(id)
}

// RemoveImage deletes the image stored under id. The record is deleted from
// disk on the next Logoff or Close.
func (db *DB) RemoveImage(id ids.ID) error {
	err := db.images.Do(func(t table.Table[ids.ID, Image]) error {
		// Load first so images that were never read can be removed too.
		if _, ok := t.Get(id); !ok {
			return ErrImageNotFound
		}
		t.Remove(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	db.log.Debug("Removed image", "id", id)
	return nil
}

// Logon checks hashedPassword against the user table.
func (db *DB) Logon(name Username, hashedPassword string) error {
	user, ok := db.users.Get(name)
	if !ok {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(user.HashedPassword), []byte(hashedPassword)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Logoff is the session-end hook: it persists every pending image change.
func (db *DB) Logoff(name Username) error {
	if err := db.images.Persist(); err != nil {
		db.log.Error("Failed to persist images on logoff", "user", name, "error", err)
		return fmt.Errorf("persisting images: %w", err)
	}
	return nil
}

// Summary reports table sizes.
func (db *DB) Summary() Summary {
	s := Summary{Users: db.users.Len()}
	_ = db.images.Do(func(table.Table[ids.ID, Image]) error {
		s.CachedImages = db.disk.Len()
		s.PendingChanges = db.disk.Dirty()
		return nil
	})
	return s
}

// Close persists pending image changes.
func (db *DB) Close() error {
	if err := db.images.Persist(); err != nil {
		return fmt.Errorf("persisting images: %w", err)
	}
	return nil
}

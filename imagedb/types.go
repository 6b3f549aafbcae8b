// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

package imagedb

import (
	"crypto/sha256"

	"github.com/luxfi/ids"
)

// Username identifies a user.
type Username string

func (u Username) String() string { return string(u) }

// User is a user table entry.
type User struct {
	HashedPassword string
}

// Image is an image table entry. Its encoding is the on-disk record format.
type Image struct {
	Public bool     `cbor:"public"`
	Owner  Username `cbor:"owner"`
	Data   []byte   `cbor:"data"`
}

// Summary describes the state of a DB.
type Summary struct {
	Users          int
	CachedImages   int
	PendingChanges int
}

// NewImageID returns the content address of data.
func NewImageID(data []byte) ids.ID {
	return ids.ID(sha256.Sum256(data))
}

// Copyright (C) 2026, Lux Partners Limited. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec converts table values to and from their on-disk bytes.
package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec encodes and decodes values of type V.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(b []byte) (V, error)
}

var _ Codec[struct{}] = (*CBOR[struct{}])(nil)

// CBOR encodes values with deterministic CBOR (RFC 8949 core deterministic
// encoding), so equal values always produce identical records.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBOR creates a CBOR codec.
func NewCBOR[V any]() (*CBOR[V], error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("building cbor encoder: %w", err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("building cbor decoder: %w", err)
	}
	return &CBOR[V]{enc: enc, dec: dec}, nil
}

// Marshal returns the CBOR encoding of v.
func (c *CBOR[V]) Marshal(v V) ([]byte, error) {
	return c.enc.Marshal(v)
}

// Unmarshal decodes b into a new V. Trailing bytes after the first CBOR data
// item are rejected.
func (c *CBOR[V]) Unmarshal(b []byte) (V, error) {
	var v V
	if err := c.dec.Unmarshal(b, &v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

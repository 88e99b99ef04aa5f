// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import "encoding/binary"

// PrefixKey returns the dedup key of a sequence: its first prefixLen bytes,
// or the whole sequence if prefixLen is zero or exceeds its length.
func PrefixKey(seq string, prefixLen int) string {
	if prefixLen > 0 && prefixLen < len(seq) {
		return seq[:prefixLen]
	}
	return seq
}

// CompositeKey is the encoded, ordered tuple of the per-input keys of a read
// group. Each key is preceded by its uvarint-encoded length, so two
// composite keys are equal iff their keys are equal position by position.
type CompositeKey []byte

// KeyBuilder assembles composite keys. The key returned by Key is only valid
// until the next call to Reset.
type KeyBuilder struct {
	prefixLen int
	buf       []byte
}

// NewKeyBuilder returns a builder that truncates sequences to prefixLen
// bases (zero: no truncation).
func NewKeyBuilder(prefixLen int) *KeyBuilder {
	return &KeyBuilder{prefixLen: prefixLen}
}

// Reset starts a new composite key.
func (b *KeyBuilder) Reset() {
	b.buf = b.buf[:0]
}

// Add appends the key of seq as the next position of the composite key.
func (b *KeyBuilder) Add(seq string) {
	key := PrefixKey(seq, b.prefixLen)
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(key)))
	b.buf = append(b.buf, lenBuf[:n]...)
	b.buf = append(b.buf, key...)
}

// Key returns the composite key built so far.
func (b *KeyBuilder) Key() CompositeKey { return b.buf }

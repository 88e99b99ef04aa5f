// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"crypto/rand"

	farm "github.com/dgryski/go-farm"
	"github.com/minio/highwayhash"
)

// Representative identifies the first read group inserted for a composite
// key.
type Representative struct {
	// Ordinal is the number of distinct keys inserted before this one.
	Ordinal int
	// IDs are the read IDs of the group, one per input.
	IDs []string
}

// Index remembers the representative of every composite key seen during a
// run. The first insertion of a key is final: it is never replaced or
// evicted. Implementations are not thread safe.
type Index interface {
	// LookupOrInsert returns (true, rep) with rep.IDs equal to ids if key has
	// not been seen before, and records ids as its representative. Otherwise
	// it returns (false, rep) where rep is the stored representative. key and
	// ids may be reused by the caller after the call returns.
	LookupOrInsert(key CompositeKey, ids []string) (bool, Representative)
	// Len returns the number of distinct keys.
	Len() int
}

// NewIndex creates an empty index. sizeHint is the expected number of
// distinct keys; it may be zero.
func NewIndex(mode IndexMode, sizeHint int) Index {
	if mode == DigestIndex {
		return newDigestIndex(sizeHint)
	}
	return newExactIndex(sizeHint)
}

// exactIndex buckets keys by farmhash. Each bucket is a chain through
// entries; the full key is compared on every probe, so hash collisions
// never produce false duplicates.
type exactIndex struct {
	buckets map[uint64]int // hash -> index of the chain head in entries.
	entries []exactEntry
}

type exactEntry struct {
	key  string
	ids  []string
	next int // next entry in the chain, or -1.
}

func newExactIndex(sizeHint int) *exactIndex {
	return &exactIndex{
		buckets: make(map[uint64]int, sizeHint),
		entries: make([]exactEntry, 0, sizeHint),
	}
}

func (x *exactIndex) LookupOrInsert(key CompositeKey, ids []string) (bool, Representative) {
	h := farm.Hash64(key)
	head, ok := x.buckets[h]
	if ok {
		for i := head; i >= 0; i = x.entries[i].next {
			if e := &x.entries[i]; e.key == string(key) {
				return false, Representative{Ordinal: i, IDs: e.ids}
			}
		}
	} else {
		head = -1
	}
	ordinal := len(x.entries)
	stored := append([]string(nil), ids...)
	x.entries = append(x.entries, exactEntry{key: string(key), ids: stored, next: head})
	x.buckets[h] = ordinal
	return true, Representative{Ordinal: ordinal, IDs: stored}
}

func (x *exactIndex) Len() int { return len(x.entries) }

type digest = [highwayhash.Size]byte

// digestIndex keys entries by a 256-bit HighwayHash of the composite key.
// The keys themselves are not retained. The hash key is drawn at random for
// every index, so colliding inputs cannot be constructed in advance.
type digestIndex struct {
	seed    [highwayhash.Size]byte
	entries map[digest]int // digest -> index into reps.
	reps    [][]string
}

func newDigestIndex(sizeHint int) *digestIndex {
	x := &digestIndex{
		entries: make(map[digest]int, sizeHint),
		reps:    make([][]string, 0, sizeHint),
	}
	if _, err := rand.Read(x.seed[:]); err != nil {
		panic(err)
	}
	return x
}

func (x *digestIndex) LookupOrInsert(key CompositeKey, ids []string) (bool, Representative) {
	d := highwayhash.Sum(key, x.seed[:])
	if ordinal, ok := x.entries[d]; ok {
		return false, Representative{Ordinal: ordinal, IDs: x.reps[ordinal]}
	}
	ordinal := len(x.reps)
	stored := append([]string(nil), ids...)
	x.reps = append(x.reps, stored)
	x.entries[d] = ordinal
	return true, Representative{Ordinal: ordinal, IDs: stored}
}

func (x *digestIndex) Len() int { return len(x.reps) }

// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/fastxdedup/encoding/fastx"
)

// IsArgumentError reports whether err was caused by invalid options.
func IsArgumentError(err error) bool { return errors.Is(errors.Invalid, err) }

// IsFormatError reports whether err was caused by malformed or
// desynchronized input records.
func IsFormatError(err error) bool { return errors.Is(errors.Integrity, err) }

// Deduplicator decides, group by group and in input order, which read groups
// are representatives. It owns the duplicate index and the cluster table of
// one run.
type Deduplicator struct {
	keys       *KeyBuilder
	index      Index
	recorder   *Recorder
	checkNames bool
	ids        []string
}

// NewDeduplicator creates a deduplicator for groups of opts.Inputs reads.
// sizeHint is the expected number of distinct groups.
func NewDeduplicator(opts Opts, sizeHint int) *Deduplicator {
	return &Deduplicator{
		keys:       NewKeyBuilder(opts.PrefixLength),
		index:      NewIndex(opts.IndexMode, sizeHint),
		recorder:   NewRecorder(),
		checkNames: opts.CheckPairNames,
	}
}

// Add processes one read group, one record per input in input order. It
// returns true if the group is a representative and must be written out.
// Invalid records are reported as errors.Integrity errors.
func (d *Deduplicator) Add(group []*fastx.Record) (bool, error) {
	d.keys.Reset()
	d.ids = d.ids[:0]
	for i, rec := range group {
		if err := rec.Validate(); err != nil {
			return false, errors.E(errors.Integrity, fmt.Sprintf("input %d, record %q:", i, rec.Name()), err)
		}
		d.keys.Add(rec.Seq())
		d.ids = append(d.ids, strings.Clone(rec.Name()))
	}
	if d.checkNames && len(d.ids) > 1 {
		a := trimMateSuffix(d.ids[0])
		for _, id := range d.ids[1:] {
			if trimMateSuffix(id) != a {
				return false, errors.E(errors.Integrity,
					fmt.Sprintf("read pair had different read IDs: (%s)", strings.Join(d.ids, ", ")))
			}
		}
	}
	isNew, rep := d.index.LookupOrInsert(d.keys.Key(), d.ids)
	d.recorder.Record(isNew, rep, d.ids)
	return isNew, nil
}

// Recorder returns the cluster table accumulated so far.
func (d *Deduplicator) Recorder() *Recorder { return d.recorder }

// Stats returns the counts accumulated so far.
func (d *Deduplicator) Stats() Stats { return d.recorder.Stats() }

// trimMateSuffix removes a trailing "/1" or "/2" from a read name.
func trimMateSuffix(name string) string {
	if n := len(name); n >= 2 && name[n-2] == '/' && (name[n-1] == '1' || name[n-1] == '2') {
		return name[:n-2]
	}
	return name
}

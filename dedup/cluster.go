// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/grailbio/base/tsv"
)

// Entry is one row of the cluster table.
type Entry struct {
	ReadID           string
	RepresentativeID string
}

// Stats summarizes a run.
type Stats struct {
	// Groups is the number of read groups processed.
	Groups int
	// Unique is the number of representative groups.
	Unique int
	// Reads is the number of reads processed across all inputs.
	Reads int
}

// Duplicates returns the number of groups that were dropped.
func (s Stats) Duplicates() int { return s.Groups - s.Unique }

// String returns the summary printed at the end of a run.
func (s Stats) String() string {
	return fmt.Sprintf("duplicates:   %16d\nunique reads: %16d\ntotal reads:  %16d\n",
		s.Duplicates(), s.Unique, s.Groups)
}

// Recorder accumulates the cluster table in input order.
type Recorder struct {
	entries []Entry
	// sizes[i] is the number of groups represented by the i'th
	// representative; repNames[i] is its first read ID.
	sizes    []int
	repNames []string
	stats    Stats
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Record adds the reads of one group. ids are the group's read IDs and rep is
// the representative returned by the index; isNew reports whether the group
// is its own representative. A read ID that repeats within the group with the
// same representative ID is recorded once.
func (r *Recorder) Record(isNew bool, rep Representative, ids []string) {
	r.stats.Groups++
	r.stats.Reads += len(ids)
	if isNew {
		if rep.Ordinal != len(r.sizes) {
			panic(fmt.Sprintf("representative %d recorded out of order, expected %d", rep.Ordinal, len(r.sizes)))
		}
		r.sizes = append(r.sizes, 1)
		r.repNames = append(r.repNames, rep.IDs[0])
		r.stats.Unique++
	} else {
		r.sizes[rep.Ordinal]++
	}
outer:
	for i, id := range ids {
		for j := 0; j < i; j++ {
			if ids[j] == id && rep.IDs[j] == rep.IDs[i] {
				continue outer
			}
		}
		r.entries = append(r.entries, Entry{ReadID: id, RepresentativeID: rep.IDs[i]})
	}
}

// Entries returns the cluster table rows in input order.
func (r *Recorder) Entries() []Entry { return r.entries }

// Stats returns the counts accumulated so far.
func (r *Recorder) Stats() Stats { return r.stats }

// WriteClusters writes the cluster table as CSV with a header row.
func (r *Recorder) WriteClusters(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"read_id", "representative_id"}); err != nil {
		return err
	}
	row := make([]string, 2)
	for _, e := range r.entries {
		row[0], row[1] = e.ReadID, e.RepresentativeID
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSizes writes one TSV row per representative, in first-seen order,
// giving the number of groups it represents.
func (r *Recorder) WriteSizes(w io.Writer) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("representative_id")
	tw.WriteString("size")
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i, size := range r.sizes {
		tw.WriteString(r.repNames[i])
		tw.WriteInt64(int64(size))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

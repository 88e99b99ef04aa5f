// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package dedup removes exact duplicate reads from one (single-end) or
  two (paired-end) FASTA/FASTQ files.

  Duplicate Concepts:

  Each read is reduced to a key: its sequence, or the first L bases of
  its sequence when a prefix length L is configured.  A sequence
  shorter than L contributes its whole (shorter) sequence.  Keys are
  compared byte for byte; case and ambiguous bases such as 'N' are not
  normalized.

  Reads are processed in groups, one read per input file at the same
  position.  A group's composite key is the ordered tuple of its
  per-file keys, so for paired input

    P1: r1=AAAA r2=TTTT
    P2: r1=AAAA r2=GGGG
    P3: r1=AAAA r2=TTTT

  P2 is not a duplicate of P1 (the r2 keys differ) but P3 is.  Keys are
  never compared across files: r1 of one pair is never matched against
  r2 of another.

  The first group seen with a given composite key is the
  representative.  It is written to the per-file outputs, in input
  order and exactly as read.  Later groups with the same key are
  dropped.  The representative is never replaced.

  Cluster file:

  Every input read ID is mapped to the ID of the read at the same
  position in its group's representative.  Rows are emitted in input
  order once all inputs are consumed:

    read_id,representative_id
    R1a,R1a
    R2a,R2a
    R1c,R1a
    R2c,R2a

  When both reads of a pair carry the same ID, the row is written once.

  Implementation:

  The index of seen keys is kept in memory for the whole run and grows
  with the number of distinct keys.  In the default exact mode, keys
  are bucketed by a 64-bit farmhash and each bucket keeps the full keys
  for comparison.  In digest mode the index keeps only a 256-bit
  HighwayHash digest of each key, which bounds the memory per key
  independently of read length.

  Decisions are made strictly in input order on one goroutine.
  Optionally, each input file is decoded by its own goroutine that
  feeds record batches through a bounded channel.
*/
package dedup

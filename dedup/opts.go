// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

const (
	// MaxInputs is the maximum number of synchronized input files.
	MaxInputs = 2
	// DefaultClusterOutput is the cluster file path used when
	// Opts.ClusterOutput is empty.
	DefaultClusterOutput = "clusters.csv"
	// DefaultBatchSize is the number of records per decoder batch used when
	// Opts.BatchSize is zero.
	DefaultBatchSize = 1024
)

// IndexMode selects how the duplicate index stores keys.
type IndexMode string

const (
	// ExactIndex keeps every distinct key in full.
	ExactIndex IndexMode = "exact"
	// DigestIndex keeps a 256-bit digest of every distinct key.
	DigestIndex IndexMode = "digest"
)

// Opts for dedup.
type Opts struct {
	// Inputs are the input paths, one per read file. The order defines the
	// position of each read within a group.
	Inputs []string
	// Outputs are the deduplicated output paths. Outputs[i] receives the
	// representatives of Inputs[i].
	Outputs []string
	// PrefixLength is the number of leading bases compared. Zero compares
	// the full sequence.
	PrefixLength int
	// ClusterOutput is the path of the read_id,representative_id table.
	ClusterOutput string
	// ClusterSizeOutput, if nonempty, is the path of a TSV listing the
	// number of groups per representative.
	ClusterSizeOutput string
	// IndexMode is ExactIndex or DigestIndex. Empty means ExactIndex.
	IndexMode IndexMode
	// DecodeQueue is the number of record batches buffered per input when
	// decoding inputs concurrently. Zero decodes inline.
	DecodeQueue int
	// BatchSize is the number of records per decoder batch.
	BatchSize int
	// CheckPairNames requires the reads of a group to share a name,
	// ignoring a trailing "/1" or "/2".
	CheckPairNames bool
}

// Validate checks the options for consistency. It does not access any file.
// Errors are of kind errors.Invalid.
func (o *Opts) Validate() error {
	if len(o.Inputs) == 0 {
		return errors.E(errors.Invalid, "at least one input is required")
	}
	if len(o.Inputs) > MaxInputs {
		return errors.E(errors.Invalid, fmt.Sprintf("at most %d inputs are supported, got %d", MaxInputs, len(o.Inputs)))
	}
	if len(o.Inputs) != len(o.Outputs) {
		return errors.E(errors.Invalid, fmt.Sprintf("must have the same number of inputs and outputs, got %d inputs and %d outputs",
			len(o.Inputs), len(o.Outputs)))
	}
	if o.PrefixLength < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid prefix length %d", o.PrefixLength))
	}
	switch o.IndexMode {
	case "", ExactIndex, DigestIndex:
	default:
		return errors.E(errors.Invalid, fmt.Sprintf("unknown index mode %q", o.IndexMode))
	}
	if o.DecodeQueue < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid decode queue length %d", o.DecodeQueue))
	}
	if o.BatchSize < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid batch size %d", o.BatchSize))
	}
	inputs := make(map[string]bool, len(o.Inputs))
	for _, in := range o.Inputs {
		inputs[in] = true
	}
	outputs := append(append([]string{}, o.Outputs...), o.clusterOutput())
	if o.ClusterSizeOutput != "" {
		outputs = append(outputs, o.ClusterSizeOutput)
	}
	seen := make(map[string]bool, len(outputs))
	for _, out := range outputs {
		if inputs[out] {
			return errors.E(errors.Invalid, fmt.Sprintf("output %s would overwrite an input", out))
		}
		if seen[out] {
			return errors.E(errors.Invalid, fmt.Sprintf("output %s is given more than once", out))
		}
		seen[out] = true
	}
	return nil
}

func (o *Opts) clusterOutput() string {
	if o.ClusterOutput == "" {
		return DefaultClusterOutput
	}
	return o.ClusterOutput
}

func (o *Opts) batchSize() int {
	if o.BatchSize == 0 {
		return DefaultBatchSize
	}
	return o.BatchSize
}

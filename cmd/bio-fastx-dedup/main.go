package main

/*
  bio-fastx-dedup removes exact duplicate reads from single-end or
  paired-end FASTA/FASTQ files and writes a table mapping every read to
  its representative. For more information, see
  github.com/grailbio/fastxdedup/dedup/doc.go

  Example:

    bio-fastx-dedup -i r1.fq -i r2.fq -o r1.dedup.fq -o r2.dedup.fq -l 50 -c clusters.csv
*/

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/fastxdedup/dedup"
)

// pathList is a flag.Value that collects the values of a repeated flag.
type pathList []string

func (l *pathList) String() string { return strings.Join(*l, ",") }

func (l *pathList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type dedupFlags struct {
	inputs            pathList
	outputs           pathList
	prefixLength      uint
	clusterOutput     string
	clusterSizeOutput string
	indexMode         string
	decodeQueue       int
	batchSize         int
	checkPairNames    bool
}

// registerFlags defines the command line flags on fs. Flags with a short
// form are registered under both names.
func registerFlags(fs *flag.FlagSet) *dedupFlags {
	f := &dedupFlags{}
	for _, name := range []string{"i", "inputs"} {
		fs.Var(&f.inputs, name, "Input FASTA/FASTQ file. Repeat once per read file (r1, then r2 for paired-end input)")
	}
	for _, name := range []string{"o", "deduped-outputs"} {
		fs.Var(&f.outputs, name, "Deduplicated output file. Repeat once per input, in the same order")
	}
	for _, name := range []string{"l", "prefix-length"} {
		fs.UintVar(&f.prefixLength, name, 0, "Number of leading bases compared. 0 compares whole sequences")
	}
	for _, name := range []string{"c", "cluster-output"} {
		fs.StringVar(&f.clusterOutput, name, dedup.DefaultClusterOutput, "Output cluster file mapping each read ID to its representative read ID")
	}
	fs.StringVar(&f.clusterSizeOutput, "cluster-size-output", "", "Output TSV with the number of reads per representative")
	fs.StringVar(&f.indexMode, "index-mode", string(dedup.ExactIndex), `Duplicate index mode. "exact" keeps every distinct key; "digest" keeps a 256-bit digest per key to save memory`)
	fs.IntVar(&f.decodeQueue, "decode-queue", 16, "Record batches buffered per input while decoding inputs concurrently. 0 decodes inline")
	fs.IntVar(&f.batchSize, "batch-size", dedup.DefaultBatchSize, "Records per decoder batch")
	fs.BoolVar(&f.checkPairNames, "check-pair-names", false, "Require the reads of a pair to share a name, ignoring a trailing /1 or /2")
	return f
}

func (f *dedupFlags) opts() dedup.Opts {
	return dedup.Opts{
		Inputs:            f.inputs,
		Outputs:           f.outputs,
		PrefixLength:      int(f.prefixLength),
		ClusterOutput:     f.clusterOutput,
		ClusterSizeOutput: f.clusterSizeOutput,
		IndexMode:         dedup.IndexMode(f.indexMode),
		DecodeQueue:       f.decodeQueue,
		BatchSize:         f.batchSize,
		CheckPairNames:    f.checkPairNames,
	}
}

func main() {
	flags := registerFlags(flag.CommandLine)
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() > 0 {
		a := flag.Args()
		log.Fatalf("unparsed flags, please check flag syntax: '%s'", strings.Join(a[len(a)-flag.NArg():], " "))
	}
	stats, err := dedup.Run(context.Background(), flags.opts())
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Print(stats)
}

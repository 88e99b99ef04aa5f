// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/fastxdedup/encoding/fastx"
)

const progressInterval = 1 << 20

// run holds the resources acquired by Run. Every field is released by
// close, whatever state the run ended in.
type run struct {
	opts     *Opts
	inputs   []*fastx.Input
	outputs  []*fastx.Output
	clusters file.File
	sizes    file.File
}

// Run deduplicates opts.Inputs into opts.Outputs and writes the cluster
// table. Option errors (errors.Invalid) are reported before any file is
// opened. On any error, files already written are incomplete.
func Run(ctx context.Context, opts Opts) (stats Stats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	r := &run{opts: &opts}
	defer func() {
		if e := r.close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if err = r.init(ctx); err != nil {
		return
	}
	d := NewDeduplicator(opts, 0)
	if err = r.stream(ctx, d); err != nil {
		return
	}
	if err = r.finalize(ctx, d.Recorder()); err != nil {
		return
	}
	stats = d.Stats()
	log.Debug.Printf("duplicate index holds %d keys", d.index.Len())
	log.Printf("%d read groups, %d unique, %d duplicates", stats.Groups, stats.Unique, stats.Duplicates())
	return
}

// init opens every input and output.
func (r *run) init(ctx context.Context) error {
	format := fastx.Unknown
	var formatPath string
	for _, path := range r.opts.Inputs {
		in, err := fastx.Open(ctx, path)
		if err != nil {
			if fastx.IsFormatError(err) {
				return errors.E(errors.Integrity, path, err)
			}
			return errors.E(err, "open", path)
		}
		r.inputs = append(r.inputs, in)
		log.Debug.Printf("%s: %v", path, in.Format())
		if in.Format() == fastx.Unknown {
			continue
		}
		if format == fastx.Unknown {
			format, formatPath = in.Format(), path
		} else if in.Format() != format {
			return errors.E(errors.Integrity, fmt.Sprintf("paired inputs have different file types %s: %v, %s: %v",
				formatPath, format, path, in.Format()))
		}
	}
	for i, path := range r.opts.Outputs {
		out, err := fastx.Create(ctx, path, r.inputs[i].Format())
		if err != nil {
			return errors.E(err, "create", path)
		}
		r.outputs = append(r.outputs, out)
	}
	var err error
	if r.clusters, err = file.Create(ctx, r.opts.clusterOutput()); err != nil {
		return errors.E(err, "create", r.opts.clusterOutput())
	}
	if r.opts.ClusterSizeOutput != "" {
		if r.sizes, err = file.Create(ctx, r.opts.ClusterSizeOutput); err != nil {
			return errors.E(err, "create", r.opts.ClusterSizeOutput)
		}
	}
	log.Printf("deduplicating %v (%v) into %v", r.opts.Inputs, format, r.opts.Outputs)
	return nil
}

// stream feeds every read group to d and writes the representatives.
func (r *run) stream(ctx context.Context, d *Deduplicator) (err error) {
	scanners := make([]recordScanner, len(r.inputs))
	for i, in := range r.inputs {
		scanners[i] = in
	}
	reader := newGroupReader(ctx, r.opts.Inputs, scanners, r.opts)
	defer func() {
		// A producer error takes precedence over the cancellation it caused
		// in its siblings.
		if e := reader.stop(); e != nil {
			err = e
		}
	}()
	for n := 1; ; n++ {
		group, err := reader.next()
		if err != nil {
			return err
		}
		if group == nil {
			for _, in := range r.inputs {
				log.Debug.Printf("%s: read %d records", in.Path(), in.NRead())
			}
			return nil
		}
		isNew, err := d.Add(group)
		if err != nil {
			return err
		}
		if isNew {
			for i, rec := range group {
				if err := r.outputs[i].Write(rec); err != nil {
					return errors.E(err, "write", r.outputs[i].Path())
				}
			}
		}
		if n%progressInterval == 0 {
			log.Printf("%s: %dMi read groups", r.opts.Inputs[0], n/progressInterval)
		}
	}
}

// finalize closes the outputs and writes the cluster tables.
func (r *run) finalize(ctx context.Context, rec *Recorder) error {
	for i, out := range r.outputs {
		r.outputs[i] = nil
		if err := out.Close(ctx); err != nil {
			return errors.E(err, "close", out.Path())
		}
		log.Debug.Printf("%s: wrote %d records", out.Path(), out.N())
	}
	if err := writeTable(ctx, &r.clusters, rec.WriteClusters); err != nil {
		return err
	}
	if r.sizes != nil {
		if err := writeTable(ctx, &r.sizes, rec.WriteSizes); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(ctx context.Context, fp *file.File, write func(io.Writer) error) error {
	f := *fp
	*fp = nil
	w := bufio.NewWriter(f.Writer(ctx))
	e := errors.Once{}
	e.Set(write(w))
	e.Set(w.Flush())
	e.Set(f.Close(ctx))
	if err := e.Err(); err != nil {
		return errors.E(err, "write", f.Name())
	}
	return nil
}

// close releases every file still held by r.
func (r *run) close(ctx context.Context) error {
	e := errors.Once{}
	for _, out := range r.outputs {
		if out != nil {
			e.Set(out.Close(ctx))
		}
	}
	for _, in := range r.inputs {
		e.Set(in.Close(ctx))
	}
	for _, f := range []file.File{r.clusters, r.sizes} {
		if f != nil {
			e.Set(f.Close(ctx))
		}
	}
	return e.Err()
}

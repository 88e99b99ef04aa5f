// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package dedup

import (
	"context"
	"fmt"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/fastxdedup/encoding/fastx"
)

// recordScanner is implemented by *fastx.Reader.
type recordScanner interface {
	Scan(rec *fastx.Record) bool
	Err() error
}

// source is a finite, non-restartable sequence of records from one input.
type source interface {
	// next returns the next record, or nil at the end of the input. The
	// record is valid until the following call to next.
	next() (*fastx.Record, error)
}

func scanError(path string, err error) error {
	if fastx.IsFormatError(err) {
		return errors.E(errors.Integrity, "read", path, err)
	}
	return errors.E(err, "read", path)
}

// syncSource decodes records on the caller's goroutine.
type syncSource struct {
	path string
	r    recordScanner
	rec  fastx.Record
}

func (s *syncSource) next() (*fastx.Record, error) {
	if s.r.Scan(&s.rec) {
		return &s.rec, nil
	}
	if err := s.r.Err(); err != nil {
		return nil, scanError(s.path, err)
	}
	return nil, nil
}

// asyncSource receives batches of records decoded by a producer goroutine.
type asyncSource struct {
	path  string
	r     recordScanner
	size  int
	ch    chan []fastx.Record
	err   error // set by the producer before ch is closed.
	batch []fastx.Record
	pos   int
}

func newAsyncSource(path string, r recordScanner, batchSize, queue int) *asyncSource {
	return &asyncSource{path: path, r: r, size: batchSize, ch: make(chan []fastx.Record, queue)}
}

// produce decodes the input until it is exhausted, an error occurs, or ctx
// is canceled. It closes s.ch before returning.
func (s *asyncSource) produce(ctx context.Context) error {
	defer close(s.ch)
	for {
		batch := make([]fastx.Record, s.size)
		n := 0
		for n < len(batch) && s.r.Scan(&batch[n]) {
			n++
		}
		if n > 0 {
			select {
			case s.ch <- batch[:n]:
			case <-ctx.Done():
				s.err = ctx.Err()
				return s.err
			}
		}
		if n < len(batch) {
			if err := s.r.Err(); err != nil {
				s.err = scanError(s.path, err)
			}
			return s.err
		}
	}
}

func (s *asyncSource) next() (*fastx.Record, error) {
	for s.pos == len(s.batch) {
		batch, ok := <-s.ch
		if !ok {
			s.batch, s.pos = nil, 0
			return nil, s.err
		}
		s.batch, s.pos = batch, 0
	}
	rec := &s.batch[s.pos]
	s.pos++
	return rec, nil
}

// groupReader advances all sources in lockstep.
type groupReader struct {
	paths   []string
	sources []source
	group   []*fastx.Record
	// stop cancels the producers, if any, and waits for them. It returns
	// the first producer error. It may be called more than once.
	stop func() error
}

func newGroupReader(ctx context.Context, paths []string, scanners []recordScanner, opts *Opts) *groupReader {
	g := &groupReader{
		paths:   paths,
		sources: make([]source, len(scanners)),
		group:   make([]*fastx.Record, len(scanners)),
	}
	if opts.DecodeQueue == 0 {
		for i, r := range scanners {
			g.sources[i] = &syncSource{path: paths[i], r: r}
		}
		g.stop = func() error { return nil }
		return g
	}
	ctx, cancel := context.WithCancel(ctx)
	var (
		wg   sync.WaitGroup
		errs errors.Once
		once sync.Once
	)
	for i, r := range scanners {
		src := newAsyncSource(paths[i], r, opts.batchSize(), opts.DecodeQueue)
		g.sources[i] = src
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Cancellation caused by a sibling's failure is not recorded.
			if err := src.produce(ctx); err != nil && err != context.Canceled {
				errs.Set(err)
				cancel()
			}
		}()
	}
	g.stop = func() error {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
		return errs.Err()
	}
	return g
}

// next returns the next group, one record per input, or nil once every
// input is exhausted. An input ending while another still has records is
// an errors.Integrity error.
func (g *groupReader) next() ([]*fastx.Record, error) {
	ended := 0
	for i, src := range g.sources {
		rec, err := src.next()
		if err != nil {
			return nil, err
		}
		g.group[i] = rec
		if rec == nil {
			ended++
		}
	}
	switch ended {
	case 0:
		return g.group, nil
	case len(g.sources):
		return nil, nil
	}
	var short, long string
	for i, rec := range g.group {
		if rec == nil && short == "" {
			short = g.paths[i]
		}
		if rec != nil && long == "" {
			long = g.paths[i]
		}
	}
	return nil, errors.E(errors.Integrity, fmt.Sprintf("reached the end of %s before %s", short, long))
}

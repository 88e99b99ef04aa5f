package fastx

import (
	"context"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Input is an open sequence file. Compressed inputs are decompressed
// transparently.
type Input struct {
	*Reader
	f   file.File
	unc io.ReadCloser
}

// Open opens the sequence file at path and detects its format.
func Open(ctx context.Context, path string) (*Input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	unc, _ := compress.NewReader(f.Reader(ctx))
	r, err := NewReader(unc)
	if err != nil {
		e := errors.Once{}
		e.Set(unc.Close())
		e.Set(f.Close(ctx))
		return nil, err
	}
	return &Input{Reader: r, f: f, unc: unc}, nil
}

// Path returns the name of the file.
func (in *Input) Path() string { return in.f.Name() }

// Close releases the file.
func (in *Input) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(in.unc.Close())
	e.Set(in.f.Close(ctx))
	return e.Err()
}

// Output is a sequence file being written.
type Output struct {
	*Writer
	f file.File
}

// Create creates the file at path for writing records of the given format.
func Create(ctx context.Context, path string, format Format) (*Output, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Output{Writer: NewWriter(f.Writer(ctx), format), f: f}, nil
}

// Path returns the name of the file.
func (out *Output) Path() string { return out.f.Name() }

// Close flushes buffered records and closes the file. The file is closed
// even if the flush fails.
func (out *Output) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(out.Writer.Flush())
	e.Set(out.f.Close(ctx))
	return e.Err()
}

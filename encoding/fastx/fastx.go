// Package fastx reads and writes sequence records whose format, FASTA or
// FASTQ, is detected from the content of the input.
package fastx

import (
	"bufio"
	"io"

	"github.com/grailbio/fastxdedup/encoding/fasta"
	"github.com/grailbio/fastxdedup/encoding/fastq"
	"github.com/pkg/errors"
)

// Format identifies a sequence file format.
type Format int

const (
	// Unknown is the format of an empty stream. It is compatible with every
	// other format.
	Unknown Format = iota
	// FASTA identifies a stream whose first byte is '>'.
	FASTA
	// FASTQ identifies a stream whose first byte is '@'.
	FASTQ
)

func (f Format) String() string {
	switch f {
	case FASTA:
		return "fasta"
	case FASTQ:
		return "fastq"
	}
	return "unknown"
}

// ErrFormat is returned when a stream is neither FASTA nor FASTQ.
var ErrFormat = errors.New("input is not a valid FASTA or FASTQ file")

// Detect peeks at the first byte of r to determine its format. It does not
// consume any input. An empty stream has format Unknown.
func Detect(r *bufio.Reader) (Format, error) {
	b, err := r.Peek(1)
	if err == io.EOF {
		return Unknown, nil
	}
	if err != nil {
		return Unknown, err
	}
	switch b[0] {
	case '>':
		return FASTA, nil
	case '@':
		return FASTQ, nil
	}
	return Unknown, ErrFormat
}

// Record is a FASTA or a FASTQ record. Only the field matching Format is
// meaningful.
type Record struct {
	Format Format
	FASTA  fasta.Record
	FASTQ  fastq.Read
}

// Name returns the read name.
func (r *Record) Name() string {
	if r.Format == FASTQ {
		return r.FASTQ.Name()
	}
	return r.FASTA.Name()
}

// Seq returns the read sequence.
func (r *Record) Seq() string {
	if r.Format == FASTQ {
		return r.FASTQ.Seq
	}
	return r.FASTA.Seq
}

// Validate checks the record for internal consistency.
func (r *Record) Validate() error {
	if r.Format == FASTQ {
		return r.FASTQ.Validate()
	}
	return r.FASTA.Validate()
}

// Reader scans records of a single format.
type Reader struct {
	format Format
	fa     *fasta.Scanner
	fq     *fastq.Scanner
}

// NewReader detects the format of in and returns a reader for it.
func NewReader(in io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(in, 1<<20)
	f, err := Detect(br)
	if err != nil {
		return nil, err
	}
	r := &Reader{format: f}
	switch f {
	case FASTA:
		r.fa = fasta.NewScanner(br)
	case FASTQ:
		r.fq = fastq.NewScanner(br, fastq.All)
	}
	return r, nil
}

// Format returns the detected format.
func (r *Reader) Format() Format { return r.format }

// Scan reads the next record into rec. It returns false at the end of the
// stream or on error; check Err afterwards.
func (r *Reader) Scan(rec *Record) bool {
	rec.Format = r.format
	switch r.format {
	case FASTA:
		return r.fa.Scan(&rec.FASTA)
	case FASTQ:
		return r.fq.Scan(&rec.FASTQ)
	}
	return false
}

// NRead returns the number of records scanned so far.
func (r *Reader) NRead() int {
	switch r.format {
	case FASTA:
		return r.fa.NRead()
	case FASTQ:
		return r.fq.NRead()
	}
	return 0
}

// Err returns the scanning error, if any.
func (r *Reader) Err() error {
	switch r.format {
	case FASTA:
		return r.fa.Err()
	case FASTQ:
		return r.fq.Err()
	}
	return nil
}

// IsFormatError reports whether err was caused by malformed record data, as
// opposed to a failure of the underlying reader.
func IsFormatError(err error) bool {
	switch errors.Cause(err) {
	case ErrFormat, bufio.ErrTooLong,
		fasta.ErrInvalid, fasta.ErrNoName,
		fastq.ErrInvalid, fastq.ErrShort, fastq.ErrLength, fastq.ErrNoName:
		return true
	}
	return false
}

// Writer writes records in one format.
type Writer struct {
	format Format
	fa     *fasta.Writer
	fq     *fastq.Writer
}

// NewWriter creates a writer that emits records of the given format to w.
// Records of format Unknown cannot be written; a writer of format Unknown
// only accepts Flush.
func NewWriter(w io.Writer, f Format) *Writer {
	x := &Writer{format: f}
	switch f {
	case FASTA:
		x.fa = fasta.NewWriter(w)
	case FASTQ:
		x.fq = fastq.NewWriter(w)
	}
	return x
}

// Write writes rec, which must have the writer's format.
func (w *Writer) Write(rec *Record) error {
	if rec.Format != w.format {
		return errors.Errorf("cannot write %v record to %v output", rec.Format, w.format)
	}
	switch w.format {
	case FASTA:
		return w.fa.Write(&rec.FASTA)
	case FASTQ:
		return w.fq.Write(&rec.FASTQ)
	}
	return errors.Errorf("cannot write %v record", rec.Format)
}

// N returns the number of records written.
func (w *Writer) N() int {
	switch w.format {
	case FASTA:
		return w.fa.N()
	case FASTQ:
		return w.fq.N()
	}
	return 0
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	switch w.format {
	case FASTA:
		return w.fa.Flush()
	case FASTQ:
		return w.fq.Flush()
	}
	return nil
}

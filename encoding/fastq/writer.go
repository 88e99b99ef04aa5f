package fastq

import (
	"bufio"
	"io"
)

// Writer is a buffered FASTQ file writer. Reads are emitted line for line as
// they were scanned, so a scanned read round-trips unchanged.
type Writer struct {
	w   *bufio.Writer
	n   int
	err error
}

// NewWriter constructs a new FASTQ writer that writes reads to the
// underlying writer w. Flush must be called once all reads are written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 256<<10)}
}

// Write writes the read r in FASTQ format.
// An error is returned if the write failed. Errors are sticky.
func (w *Writer) Write(r *Read) error {
	w.writeln(r.ID)
	w.writeln(r.Seq)
	w.writeln(r.Unk)
	w.writeln(r.Qual)
	if w.err == nil {
		w.n++
	}
	return w.err
}

// N returns the number of reads written.
func (w *Writer) N() int { return w.n }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) writeln(line string) {
	if w.err != nil {
		return
	}
	if _, w.err = w.w.WriteString(line); w.err == nil {
		w.err = w.w.WriteByte('\n')
	}
}

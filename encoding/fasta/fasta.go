// Package fasta reads and writes FASTA records as a stream.  Briefly, FASTA
// files consist of a number of named sequences that may be interrupted by
// newlines.  For example:
//
// >read1 sample=A
// ACGTAC
// GAGGAC
// GCG
// >read2
// ACGT
//
// Note: Record names are defined to be the stretch of characters excluding
// spaces immediately after '>'.  Any text appearing after a space is kept in
// the header but is not part of the name.  For example, '>read1 sample=A'
// has the name 'read1'.
//
// Scanned records keep their original line layout, so writing a scanned
// record back reproduces it byte for byte (blank lines excepted).
package fasta

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// MaxLineSize is the longest FASTA line the scanner accepts.
const MaxLineSize = 64 << 20

var (
	// ErrInvalid is returned when sequence data appears before the first
	// header line.
	ErrInvalid = errors.New("invalid FASTA file")
	// ErrNoName is returned by Record.Validate when the header carries no
	// name.
	ErrNoName = errors.New("FASTA record has an empty name")
)

// Record is one FASTA record.
type Record struct {
	// Header is the raw header line, including the leading '>'.
	Header string
	// Seq is the sequence with line breaks removed.
	Seq string
	// Lines holds the sequence lines as they appeared in the input. It is nil
	// when the sequence occupied at most one line, in which case Seq alone
	// describes the layout.
	Lines []string
}

// Name returns the record name: the header without its '>' marker, up to the
// first space or tab.
func (r *Record) Name() string {
	if len(r.Header) == 0 {
		return ""
	}
	name := r.Header[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Validate checks that the record has a name.
func (r *Record) Validate() error {
	if r.Name() == "" {
		return ErrNoName
	}
	return nil
}

// Scanner reads FASTA records one at a time. Scanners are not threadsafe.
type Scanner struct {
	b       *bufio.Scanner
	pending string // header line of the next record, if already read.
	err     error
	done    bool
	nread   int
	lines   []string
}

// NewScanner creates a scanner that reads FASTA data from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, MaxLineSize)
	return &Scanner{b: b}
}

// Scan reads the next record into rec. Scan returns false at the end of the
// stream or on error; once it returns false, it never returns true again.
// The caller should check Err afterwards.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil || s.done {
		return false
	}
	header := s.pending
	s.pending = ""
	for header == "" {
		if !s.b.Scan() {
			s.finish()
			return false
		}
		line := s.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			s.err = ErrInvalid
			return false
		}
		header = line
	}
	s.lines = s.lines[:0]
	for s.b.Scan() {
		line := s.b.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.pending = string(line)
			break
		}
		s.lines = append(s.lines, string(line))
	}
	if s.pending == "" {
		// The record ran to the end of the input.
		s.finish()
		if s.err != nil {
			return false
		}
	}
	rec.Header = header
	switch len(s.lines) {
	case 0:
		rec.Seq, rec.Lines = "", nil
	case 1:
		rec.Seq, rec.Lines = s.lines[0], nil
	default:
		rec.Seq = strings.Join(s.lines, "")
		rec.Lines = append([]string(nil), s.lines...)
	}
	s.nread++
	return true
}

func (s *Scanner) finish() {
	s.done = true
	if err := s.b.Err(); err != nil {
		s.err = err
	}
}

// NRead returns the number of records scanned so far.
func (s *Scanner) NRead() int { return s.nread }

// Err returns the scanning error, if any.
func (s *Scanner) Err() error { return s.err }

// Writer is a buffered FASTA writer.
type Writer struct {
	w   *bufio.Writer
	n   int
	err error
}

// NewWriter creates a writer that emits records to w. Flush must be called
// once all records are written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 256<<10)}
}

// Write writes rec using its original line layout. Errors are sticky.
func (w *Writer) Write(rec *Record) error {
	w.writeln(rec.Header)
	if rec.Lines != nil {
		for _, line := range rec.Lines {
			w.writeln(line)
		}
	} else if len(rec.Seq) > 0 {
		w.writeln(rec.Seq)
	}
	if w.err == nil {
		w.n++
	}
	return w.err
}

// N returns the number of records written.
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

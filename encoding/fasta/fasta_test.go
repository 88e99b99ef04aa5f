package fasta_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/fastxdedup/encoding/fasta"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

var fastaData = ">seq1\n" + "ACGTA\nCGTAC\nGT\n" + ">seq2 A viral sequence\n" + "ACGT\n" + ">seq3\n" + ">seq4\nTTTT\n"

func scanAll(t *testing.T, data string) []fasta.Record {
	s := fasta.NewScanner(strings.NewReader(data))
	var recs []fasta.Record
	var r fasta.Record
	for s.Scan(&r) {
		recs = append(recs, r)
	}
	assert.NoError(t, s.Err())
	expect.EQ(t, s.NRead(), len(recs))
	return recs
}

func TestScan(t *testing.T) {
	recs := scanAll(t, fastaData)
	assert.EQ(t, len(recs), 4)

	expect.EQ(t, recs[0].Name(), "seq1")
	expect.EQ(t, recs[0].Seq, "ACGTACGTACGT")
	expect.EQ(t, recs[0].Lines, []string{"ACGTA", "CGTAC", "GT"})

	expect.EQ(t, recs[1].Name(), "seq2")
	expect.EQ(t, recs[1].Header, ">seq2 A viral sequence")
	expect.EQ(t, recs[1].Seq, "ACGT")
	expect.True(t, recs[1].Lines == nil)

	expect.EQ(t, recs[2].Name(), "seq3")
	expect.EQ(t, recs[2].Seq, "")

	expect.EQ(t, recs[3].Seq, "TTTT")
}

func TestBlankLines(t *testing.T) {
	recs := scanAll(t, "\n>a\n\nAC\n\nGT\n\n>b\nCC")
	assert.EQ(t, len(recs), 2)
	expect.EQ(t, recs[0].Seq, "ACGT")
	expect.EQ(t, recs[1].Seq, "CC")
}

func TestInvalid(t *testing.T) {
	s := fasta.NewScanner(strings.NewReader("ACGT\n>a\nAC\n"))
	var r fasta.Record
	expect.False(t, s.Scan(&r))
	expect.EQ(t, s.Err(), fasta.ErrInvalid)

	expect.EQ(t, (&fasta.Record{Header: ">"}).Validate(), fasta.ErrNoName)
	expect.NoError(t, (&fasta.Record{Header: ">x"}).Validate())
}

func TestEmpty(t *testing.T) {
	expect.EQ(t, len(scanAll(t, "")), 0)
}

func TestRoundTrip(t *testing.T) {
	var (
		s   = fasta.NewScanner(strings.NewReader(fastaData))
		buf bytes.Buffer
		w   = fasta.NewWriter(&buf)
		r   fasta.Record
	)
	for s.Scan(&r) {
		assert.NoError(t, w.Write(&r))
	}
	assert.NoError(t, s.Err())
	assert.NoError(t, w.Flush())
	expect.EQ(t, w.N(), 4)
	expect.EQ(t, buf.String(), fastaData)
}

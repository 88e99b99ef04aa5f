package dedup

import (
	"bytes"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	a := Representative{Ordinal: 0, IDs: []string{"a1", "a2"}}
	c := Representative{Ordinal: 1, IDs: []string{"c1", "c2"}}
	r.Record(true, a, []string{"a1", "a2"})
	r.Record(false, a, []string{"b1", "b2"})
	r.Record(true, c, []string{"c1", "c2"})
	r.Record(false, a, []string{"d1", "d2"})

	expect.EQ(t, r.Entries(), []Entry{
		{"a1", "a1"}, {"a2", "a2"},
		{"b1", "a1"}, {"b2", "a2"},
		{"c1", "c1"}, {"c2", "c2"},
		{"d1", "a1"}, {"d2", "a2"},
	})
	expect.EQ(t, r.Stats(), Stats{Groups: 4, Unique: 2, Reads: 8})
	expect.EQ(t, r.Stats().Duplicates(), 2)

	var buf bytes.Buffer
	assert.NoError(t, r.WriteClusters(&buf))
	expect.EQ(t, buf.String(), "read_id,representative_id\n"+
		"a1,a1\na2,a2\nb1,a1\nb2,a2\nc1,c1\nc2,c2\nd1,a1\nd2,a2\n")

	buf.Reset()
	assert.NoError(t, r.WriteSizes(&buf))
	expect.EQ(t, buf.String(), "representative_id\tsize\na1\t3\nc1\t1\n")
}

// Paired reads usually share a read ID; each (read, representative) row is
// written once.
func TestRecorderSharedIDs(t *testing.T) {
	r := NewRecorder()
	a := Representative{Ordinal: 0, IDs: []string{"A", "A"}}
	r.Record(true, a, []string{"A", "A"})
	r.Record(false, a, []string{"B", "B"})
	// Same ID within the group, but different representative IDs.
	mixed := Representative{Ordinal: 1, IDs: []string{"X", "Y"}}
	r.Record(true, mixed, []string{"X", "Y"})
	r.Record(false, mixed, []string{"Z", "Z"})

	expect.EQ(t, r.Entries(), []Entry{
		{"A", "A"},
		{"B", "A"},
		{"X", "X"}, {"Y", "Y"},
		{"Z", "X"}, {"Z", "Y"},
	})
	expect.EQ(t, r.Stats(), Stats{Groups: 4, Unique: 2, Reads: 8})
}

func TestRecorderQuoting(t *testing.T) {
	r := NewRecorder()
	rep := Representative{Ordinal: 0, IDs: []string{"read,1"}}
	r.Record(true, rep, []string{"read,1"})
	var buf bytes.Buffer
	assert.NoError(t, r.WriteClusters(&buf))
	expect.EQ(t, buf.String(), "read_id,representative_id\n\"read,1\",\"read,1\"\n")
}

func TestRecorderOutOfOrder(t *testing.T) {
	r := NewRecorder()
	defer func() {
		expect.NotNil(t, recover())
	}()
	r.Record(true, Representative{Ordinal: 1, IDs: []string{"a"}}, []string{"a"})
}

func TestStatsString(t *testing.T) {
	s := Stats{Groups: 3, Unique: 2, Reads: 3}
	expect.EQ(t, s.String(),
		"duplicates:                  1\n"+
			"unique reads:                2\n"+
			"total reads:                 3\n")
}

package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTrip(t *testing.T) {
	rec := &Record{
		Path:  []byte("/x"),
		Dev:   2049,
		Ino:   12345,
		Atime: 1672531200,
		Mtime: 1672617600,
		Uid:   1000,
		Gid:   1000,
		Mode:  33188,
		Size:  1024,
		Disk:  42,
	}

	buf := EncodeBinary(nil, rec)
	require.Len(t, buf, 66, "4(path_len)+2(path)+60(fixed) must equal 66 bytes")

	got, err := ReadBinaryRecord(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestBinaryCleanEOFAtBoundary(t *testing.T) {
	rec := &Record{Path: []byte("/a")}
	buf := EncodeBinary(nil, rec)

	r := bytes.NewReader(buf)
	_, err := ReadBinaryRecord(r)
	require.NoError(t, err)

	_, err = ReadBinaryRecord(r)
	assert.ErrorIs(t, err, io.EOF)
}

func TestBinaryTruncatedMidRecordFails(t *testing.T) {
	rec := &Record{Path: []byte("/a/b")}
	buf := EncodeBinary(nil, rec)

	_, err := ReadBinaryRecord(bytes.NewReader(buf[:len(buf)-3]))
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestCSVQuotingVerbatimWhenSafe(t *testing.T) {
	out := AppendCSVPath(nil, []byte("/a/b/c.txt"))
	assert.Equal(t, "/a/b/c.txt", string(out))
}

func TestCSVQuotingDoublesEmbeddedQuotes(t *testing.T) {
	out := AppendCSVPath(nil, []byte(`a,b"c`))
	assert.Equal(t, `"a,b""c"`, string(out))
}

func TestCSVQuotingTriggersOnCRLF(t *testing.T) {
	for _, in := range []string{"a\nb", "a\rb", "a,b", `a"b`} {
		out := AppendCSVPath(nil, []byte(in))
		require.True(t, len(out) >= 2)
		assert.Equal(t, byte('"'), out[0])
		assert.Equal(t, byte('"'), out[len(out)-1])
	}
}

func TestParseCSVRowPermissive(t *testing.T) {
	row, ok := ParseCSVRow([]string{"2049-12345", "  100 ", "notanumber", "1000", "-5", "33188", "1024", "42", "/a/b"})
	require.True(t, ok)
	assert.Equal(t, uint64(2049), row.Dev)
	assert.Equal(t, uint64(12345), row.Ino)
	assert.Equal(t, int64(100), row.Atime)
	assert.Equal(t, int64(0), row.Mtime)
	assert.Equal(t, uint32(0), row.Gid) // negative input defaults to 0
	assert.Equal(t, "/a/b", row.Path)
}

func TestIsDirMode(t *testing.T) {
	assert.True(t, IsDirMode(0o040755))
	assert.False(t, IsDirMode(0o100644))
}

func TestBinaryRecordWriterRoundTripsThroughZstdStream(t *testing.T) {
	recs := []*Record{
		{Path: []byte("/a"), Dev: 1, Ino: 2, Atime: 10, Mtime: 20, Uid: 1000, Gid: 1000, Mode: 0o100644, Size: 3, Disk: 512},
		{Path: []byte("/a/b"), Dev: 1, Ino: 3, Atime: 11, Mtime: 21, Uid: 1000, Gid: 1000, Mode: 0o040755, Size: 0, Disk: 4096},
	}

	var buf bytes.Buffer
	w, err := NewBinaryRecordWriter(&buf)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.WriteRecord(r))
	}
	require.NoError(t, w.Close())

	require.True(t, DetectMagic(buf.Bytes()[:4]), "stream must begin with the zstd frame magic")

	dec, err := NewCompressedReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer dec.Close()

	for _, want := range recs {
		got, err := ReadBinaryRecord(dec)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = ReadBinaryRecord(dec)
	assert.ErrorIs(t, err, io.EOF)
}

func TestErrBadMagicfMentionsObservedValue(t *testing.T) {
	err := ErrBadMagicf(0xdeadbeef)
	assert.Contains(t, err.Error(), "deadbeef")
}

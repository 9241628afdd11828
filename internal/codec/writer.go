package codec

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/zstd"
)

// RecordWriter is the sum type over output formats. It is selected once
// per worker at construction time and stored as a concrete field so the
// hot write path never re-dispatches through a type switch per record.
type RecordWriter interface {
	WriteRecord(rec *Record) error
	Flush() error
	Close() error
}

// csvRecordWriter writes plain CSV rows, one per record, no per-shard
// header (the header is written once, by the merge step).
type csvRecordWriter struct {
	w   *bufio.Writer
	buf []byte
}

// NewCSVRecordWriter wraps w for CSV row output.
func NewCSVRecordWriter(w io.Writer) RecordWriter {
	return &csvRecordWriter{w: bufio.NewWriterSize(w, shardFlushThreshold)}
}

func (c *csvRecordWriter) WriteRecord(rec *Record) error {
	c.buf = c.buf[:0]
	c.buf = AppendCSVRow(c.buf, rec)
	c.buf = append(c.buf, '\n')
	_, err := c.w.Write(c.buf)
	return err
}

func (c *csvRecordWriter) Flush() error { return c.w.Flush() }
func (c *csvRecordWriter) Close() error { return c.w.Flush() }

// binaryRecordWriter writes length-prefixed binary records into a zstd
// stream.
type binaryRecordWriter struct {
	enc *zstd.Encoder
	buf []byte
}

// NewBinaryRecordWriter wraps w with a zstd encoder for binary record
// output.
func NewBinaryRecordWriter(w io.Writer) (RecordWriter, error) {
	enc, err := NewCompressedWriter(w)
	if err != nil {
		return nil, err
	}
	return &binaryRecordWriter{enc: enc}, nil
}

func (b *binaryRecordWriter) WriteRecord(rec *Record) error {
	b.buf = b.buf[:0]
	b.buf = EncodeBinary(b.buf, rec)
	_, err := b.enc.Write(b.buf)
	return err
}

func (b *binaryRecordWriter) Flush() error { return b.enc.Flush() }
func (b *binaryRecordWriter) Close() error { return b.enc.Close() }

// shardFlushThreshold is the buffered-writer size used for shard output.
const shardFlushThreshold = 4 << 20

package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewCompressedWriter wraps w in a zstd encoder whose frames begin with
// BinaryMagic, suitable for the binary shard/record stream. Shards written
// this way are self-contained zstd streams and can be concatenated
// verbatim into a single multi-frame file that remains decodable.
func NewCompressedWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// NewCompressedReader wraps r in a zstd decoder. Callers must call Close
// (or IOReadCloser.Close) once done to release decoder goroutines.
func NewCompressedReader(r io.Reader) (*zstd.Decoder, error) {
	return zstd.NewReader(r)
}

// DetectMagic reports whether first4 is the little-endian BinaryMagic.
// Peeking without consuming from a non-seekable source isn't possible in
// general; callers that can seek should read 4 bytes, check DetectMagic,
// then seek back to 0 before constructing a reader.
func DetectMagic(first4 []byte) bool {
	if len(first4) < 4 {
		return false
	}
	return binary.LittleEndian.Uint32(first4) == BinaryMagic
}

// ErrBadMagicf formats a bad-magic error with the observed value.
func ErrBadMagicf(got uint32) error {
	return fmt.Errorf("bad magic: want %#x, got %#x", BinaryMagic, got)
}

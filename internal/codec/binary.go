package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sganis/statwalker/internal/common"
)

// EncodeBinary appends the binary encoding of rec to dst:
// path_len:u32 | path_bytes | dev:u64 | ino:u64 | atime:i64 | mtime:i64 |
// uid:u32 | gid:u32 | mode:u32 | size:u64 | disk:u64 (all little-endian).
func EncodeBinary(dst []byte, rec *Record) []byte {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(rec.Path)))
	dst = append(dst, hdr[:]...)
	dst = append(dst, rec.Path...)

	var tail [FixedBinarySize]byte
	binary.LittleEndian.PutUint64(tail[0:8], rec.Dev)
	binary.LittleEndian.PutUint64(tail[8:16], rec.Ino)
	binary.LittleEndian.PutUint64(tail[16:24], uint64(rec.Atime))
	binary.LittleEndian.PutUint64(tail[24:32], uint64(rec.Mtime))
	binary.LittleEndian.PutUint32(tail[32:36], rec.Uid)
	binary.LittleEndian.PutUint32(tail[36:40], rec.Gid)
	binary.LittleEndian.PutUint32(tail[40:44], rec.Mode)
	binary.LittleEndian.PutUint64(tail[44:52], rec.Size)
	binary.LittleEndian.PutUint64(tail[52:60], rec.Disk)
	return append(dst, tail[:]...)
}

// ReadBinaryRecord reads one binary record from r. It returns io.EOF only
// when EOF falls exactly on a record boundary (no bytes of the next
// record's path_len have been consumed); any other truncation returns
// ErrTruncatedRecord.
func ReadBinaryRecord(r io.Reader) (*Record, error) {
	var hdr [4]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: path_len: %v", common.ErrTruncatedRecord, err)
	}
	pathLen := binary.LittleEndian.Uint32(hdr[:])

	path := make([]byte, pathLen)
	if _, err := io.ReadFull(r, path); err != nil {
		return nil, fmt.Errorf("%w: path bytes: %v", common.ErrTruncatedRecord, err)
	}

	var tail [FixedBinarySize]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return nil, fmt.Errorf("%w: fixed fields: %v", common.ErrTruncatedRecord, err)
	}

	rec := &Record{
		Path:  path,
		Dev:   binary.LittleEndian.Uint64(tail[0:8]),
		Ino:   binary.LittleEndian.Uint64(tail[8:16]),
		Atime: int64(binary.LittleEndian.Uint64(tail[16:24])),
		Mtime: int64(binary.LittleEndian.Uint64(tail[24:32])),
		Uid:   binary.LittleEndian.Uint32(tail[32:36]),
		Gid:   binary.LittleEndian.Uint32(tail[36:40]),
		Mode:  binary.LittleEndian.Uint32(tail[40:44]),
		Size:  binary.LittleEndian.Uint64(tail[44:52]),
		Disk:  binary.LittleEndian.Uint64(tail[52:60]),
	}
	return rec, nil
}

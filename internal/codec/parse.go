package codec

import (
	"strconv"
	"strings"
)

// ParsedRow is a loosely-typed decode of one scanner CSV data row, used by
// the aggregator. Integer fields use permissive parsing: malformed or
// negative input for an unsigned column becomes 0, matching the scanner
// CSV's permissive-reader contract.
type ParsedRow struct {
	Dev, Ino     uint64
	Atime, Mtime int64
	Uid, Gid     uint32
	Mode         uint64
	Size, Disk   uint64
	Path         string
}

// permissiveUint parses s as a base-10 unsigned integer, trimming
// whitespace and defaulting to 0 on any parse error (including negative
// input and overflow).
func permissiveUint(s string) uint64 {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// permissiveInt parses s as a base-10 signed integer, trimming whitespace
// and defaulting to 0 on any parse error.
func permissiveInt(s string) int64 {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCSVRow parses one already-split scanner CSV data row (encoding/csv
// has already handled quoting). The "inode" column still holds "dev-ino";
// ParseCSVRow splits it itself via SplitInode.
func ParseCSVRow(fields []string) (ParsedRow, bool) {
	if len(fields) != 9 {
		return ParsedRow{}, false
	}
	dev, ino := SplitInode(fields[0])
	row := ParsedRow{
		Dev:   dev,
		Ino:   ino,
		Atime: permissiveInt(fields[1]),
		Mtime: permissiveInt(fields[2]),
		Uid:   uint32(permissiveUint(fields[3])),
		Gid:   uint32(permissiveUint(fields[4])),
		Mode:  permissiveUint(fields[5]),
		Size:  permissiveUint(fields[6]),
		Disk:  permissiveUint(fields[7]),
		Path:  fields[8],
	}
	return row, true
}

// SplitInode splits the "dev-ino" composite column. Missing or malformed
// halves default to 0 under the same permissive rule as other columns.
func SplitInode(s string) (dev, ino uint64) {
	idx := strings.IndexByte(s, '-')
	if idx < 0 {
		return permissiveUint(s), 0
	}
	return permissiveUint(s[:idx]), permissiveUint(s[idx+1:])
}

// IsDirMode reports whether a raw mode value encodes a directory.
func IsDirMode(mode uint64) bool {
	const sIFMT = 0o170000
	const sIFDIR = 0o040000
	return mode&sIFMT == sIFDIR
}

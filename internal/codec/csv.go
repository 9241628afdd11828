package codec

import (
	"strconv"
)

// needsCSVQuoting reports whether path must be CSV-quoted: it contains a
// double quote, comma, LF or CR.
func needsCSVQuoting(path []byte) bool {
	for _, b := range path {
		switch b {
		case '"', ',', '\n', '\r':
			return true
		}
	}
	return false
}

// AppendCSVPath appends path to dst, CSV-quoting it only if required,
// doubling embedded quotes. Matches the scanner's "smart quoting" contract.
func AppendCSVPath(dst []byte, path []byte) []byte {
	if !needsCSVQuoting(path) {
		return append(dst, path...)
	}
	dst = append(dst, '"')
	for _, b := range path {
		if b == '"' {
			dst = append(dst, '"', '"')
		} else {
			dst = append(dst, b)
		}
	}
	return append(dst, '"')
}

// AppendCSVRow appends the scanner's CSV row for rec to dst, without a
// trailing newline: dev-ino,atime,mtime,uid,gid,mode,size,disk,path
func AppendCSVRow(dst []byte, rec *Record) []byte {
	dst = strconv.AppendUint(dst, rec.Dev, 10)
	dst = append(dst, '-')
	dst = strconv.AppendUint(dst, rec.Ino, 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, rec.Atime, 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, rec.Mtime, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(rec.Uid), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(rec.Gid), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, uint64(rec.Mode), 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, rec.Size, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, rec.Disk, 10)
	dst = append(dst, ',')
	dst = AppendCSVPath(dst, rec.Path)
	return dst
}

//go:build !unix

package scanner

import (
	"os"

	"github.com/sganis/statwalker/internal/codec"
)

// recordFromFileInfo builds a Record from link-metadata already fetched by
// a directory listing. On non-POSIX platforms dev/ino/uid/gid/mode/disk
// are not meaningfully available through the portable os.FileInfo API and
// are left zero.
func recordFromFileInfo(path string, info os.FileInfo) *codec.Record {
	return &codec.Record{
		Path:  []byte(normalizeWindowsPath(path)),
		Mtime: info.ModTime().Unix(),
		Size:  uint64(info.Size()),
	}
}

// lstatRecord stats path directly for the Dir task's own directory record.
func lstatRecord(path string) (*codec.Record, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return recordFromFileInfo(path, info), nil
}

// normalizeWindowsPath strips the \\?\ and \\?\UNC\ verbatim prefixes so
// emitted paths match what a user would type, per the "verbatim prefix"
// glossary entry.
func normalizeWindowsPath(p string) string {
	const uncPrefix = `\\?\UNC\`
	const verbatimPrefix = `\\?\`
	if len(p) >= len(uncPrefix) && p[:len(uncPrefix)] == uncPrefix {
		return `\\` + p[len(uncPrefix):]
	}
	if len(p) >= len(verbatimPrefix) && p[:len(verbatimPrefix)] == verbatimPrefix {
		return p[len(verbatimPrefix):]
	}
	return p
}

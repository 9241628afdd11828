//go:build !unix

package api

import "os"

// filesSupported is false on platforms with no POSIX uid to filter by;
// /api/files responds 501 there instead of attempting a listing.
const filesSupported = false

func fileOwnerUID(info os.FileInfo) (uint32, bool) {
	return 0, false
}

func fileAtime(info os.FileInfo) int64 {
	return info.ModTime().Unix()
}

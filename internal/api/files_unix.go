//go:build unix

package api

import (
	"os"
	"syscall"
)

// filesSupported is true wherever owner/age filtering can be resolved
// from the host's stat structure.
const filesSupported = true

func fileOwnerUID(info os.FileInfo) (uint32, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return st.Uid, true
}

// fileAtime returns the real access time from the host's stat structure,
// falling back to mtime when Sys() does not carry one.
func fileAtime(info os.FileInfo) int64 {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime().Unix()
	}
	return int64(st.Atim.Sec)
}

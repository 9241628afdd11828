//go:build unix

package scanner

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/sganis/statwalker/internal/codec"
)

// recordFromFileInfo builds a Record from link-metadata already fetched by
// a directory listing (os.DirEntry.Info(), which never follows symlinks).
func recordFromFileInfo(path string, info os.FileInfo) *codec.Record {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return &codec.Record{Path: []byte(path), Size: uint64(info.Size())}
	}
	return &codec.Record{
		Path:  []byte(path),
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Atime: int64(st.Atim.Sec),
		Mtime: int64(st.Mtim.Sec),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Mode:  uint32(st.Mode),
		Size:  uint64(st.Size),
		Disk:  uint64(st.Blocks) * 512,
	}
}

// lstatRecord stats path directly (no follow), used for the Dir task's own
// directory record. Uses golang.org/x/sys/unix rather than syscall so the
// field layout is kept current across platforms the stdlib syscall
// package no longer actively maintains parity for.
func lstatRecord(path string) (*codec.Record, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, err
	}
	return &codec.Record{
		Path:  []byte(path),
		Dev:   uint64(st.Dev),
		Ino:   uint64(st.Ino),
		Atime: int64(st.Atim.Sec),
		Mtime: int64(st.Mtim.Sec),
		Uid:   st.Uid,
		Gid:   st.Gid,
		Mode:  uint32(st.Mode),
		Size:  uint64(st.Size),
		Disk:  uint64(st.Blocks) * 512,
	}, nil
}

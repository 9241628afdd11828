package scanner

import "os"

// taskKind discriminates the three task variants. Go has no tagged union,
// so Task is a small struct with a kind byte and only the fields relevant
// to that kind populated — kept monomorphic (no interface boxing) since
// tasks are created and destroyed at a very high rate.
type taskKind uint8

const (
	taskDir taskKind = iota
	taskFiles
	taskShutdown
)

// fileEntry is one pre-stat'd non-directory directory entry queued as part
// of a Files batch. info was obtained via os.DirEntry.Info(), which on
// every platform Go supports is already link-metadata (no follow), so no
// second stat call is needed when the batch is later processed.
type fileEntry struct {
	name string
	info os.FileInfo
}

// task is one unit of scanner work.
type task struct {
	kind taskKind

	// taskDir
	dir string

	// taskFiles
	base    string
	entries []fileEntry
}

// filesChunkSize is the maximum number of pre-stat'd entries batched into
// one taskFiles before it is flushed to the queue.
const filesChunkSize = 2048

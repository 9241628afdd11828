package scanner

import (
	"os"
	"path/filepath"
	"sync/atomic"
)

// workerCtx bundles the per-scan state a worker needs so helper functions
// do not grow an ever-longer parameter list as the scanner gains options.
type workerCtx struct {
	q        *taskQueue
	sw       *shardWriter
	skip     skipMatcher
	counted  *atomic.Int64
	errCount *atomic.Int64
	noAtime  bool
}

// workerLoop drains tasks from q until it receives its own Shutdown task
// (or the queue is closed with nothing left). Workers never decide to
// exit on their own initiative — only a Shutdown task (broadcast by the
// supervisor once the in-flight counter reaches zero) ends the loop.
func workerLoop(ctx *workerCtx) {
	for {
		t, ok := ctx.q.pop()
		if !ok {
			return
		}

		switch t.kind {
		case taskShutdown:
			ctx.q.done()
			return
		case taskDir:
			processDir(ctx, t.dir)
		case taskFiles:
			processFiles(ctx, t.base, t.entries)
		}
		ctx.q.done()
	}
}

func processDir(ctx *workerCtx, dir string) {
	if ctx.skip.shouldSkip(dir) {
		return
	}

	rec, err := lstatRecord(dir)
	if err != nil {
		ctx.errCount.Add(1)
	} else {
		rec.Atime = 0 // directories never carry a meaningful atime, regardless of --no-atime
		if err := ctx.sw.write(rec); err != nil {
			// Shard write errors are fatal to the whole scan, unlike a
			// per-entry stat failure: the shard is no longer trustworthy.
			ctx.q.abort(err)
			return
		}
		ctx.counted.Add(1)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		ctx.errCount.Add(1)
		return
	}

	batch := make([]fileEntry, 0, filesChunkSize)
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			ctx.q.push(task{kind: taskDir, dir: full})
			continue
		}

		info, err := entry.Info()
		if err != nil {
			ctx.errCount.Add(1)
			continue
		}

		batch = append(batch, fileEntry{name: entry.Name(), info: info})
		if len(batch) >= filesChunkSize {
			ctx.q.push(task{kind: taskFiles, base: dir, entries: batch})
			batch = make([]fileEntry, 0, filesChunkSize)
		}
	}

	if len(batch) > 0 {
		ctx.q.push(task{kind: taskFiles, base: dir, entries: batch})
	}
}

func processFiles(ctx *workerCtx, base string, entries []fileEntry) {
	if ctx.skip.shouldSkip(base) {
		return
	}

	for _, e := range entries {
		full := filepath.Join(base, e.name)

		// e.info came from os.DirEntry.Info(), which never follows
		// symlinks, so this already satisfies the "link-metadata, no
		// follow" rule for both plain files and symlink entries.
		rec := recordFromFileInfo(full, e.info)
		if ctx.noAtime {
			rec.Atime = 0
		}

		if err := ctx.sw.write(rec); err != nil {
			// Fatal: abort the scan rather than skip-and-continue, same
			// as the directory record's own write failure above.
			ctx.q.abort(err)
			return
		}
		ctx.counted.Add(1)
	}
}

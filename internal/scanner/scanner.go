// Package scanner implements the parallel filesystem metadata scanner: a
// work-stealing task queue served by a worker pool, per-worker shard
// output, and a final shard merge.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sganis/statwalker/internal/common"
)

// Config controls one Scan invocation.
type Config struct {
	Roots     []string
	OutDir    string
	OutPath   string
	Workers   int
	Skip      string
	Binary    bool
	NoAtime   bool
	FilesHint int64
	Quiet     bool
}

// Result summarizes a completed scan.
type Result struct {
	TotalEntries int64
	TotalErrors  int64
	OutputPath   string
	Elapsed      time.Duration
}

// defaultWorkerCount implements min(48, max(4, 2×cpu)).
func defaultWorkerCount() int {
	n := 2 * runtime.NumCPU()
	if n < 4 {
		n = 4
	}
	if n > 48 {
		n = 48
	}
	return n
}

// Scan walks cfg.Roots to completion and writes the merged output to
// cfg.OutPath.
func Scan(cfg Config) (*Result, error) {
	start := time.Now()

	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("%w: no folders given", common.ErrMissingPath)
	}
	if st, err := os.Stat(cfg.OutDir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", common.ErrOutputDirBad, cfg.OutDir)
	}
	if _, err := os.Stat(cfg.OutPath); err == nil {
		return nil, fmt.Errorf("%w: %s", common.ErrOutputExists, cfg.OutPath)
	}

	// Canonicalize every root before any worker or the supervisor starts,
	// so a bad root never has to unwind already-running goroutines.
	absRoots := make([]string, len(cfg.Roots))
	for i, root := range cfg.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("canonicalize %s: %w", root, err)
		}
		absRoots[i] = abs
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkerCount()
	}

	q := newTaskQueue()
	skip := newSkipMatcher(cfg.Skip)

	shardWriters := make([]*shardWriter, workers)
	for i := 0; i < workers; i++ {
		sw, err := newShardWriter(cfg.OutDir, i, cfg.Binary)
		if err != nil {
			return nil, err
		}
		shardWriters[i] = sw
	}

	var counted, errCount atomic.Int64
	progress := newProgressReporter(&counted, &errCount, cfg.FilesHint, cfg.Quiet)
	progress.start()

	// The worker pool is joined with an errgroup rather than a bare
	// WaitGroup. workerLoop itself never fails (per-entry errors are
	// counted, shard-write errors go through taskQueue.abort), so every
	// goroutine returns nil and Wait() only joins them. No panic is
	// recovered here: a panicking worker ends the process.
	var eg errgroup.Group
	for i := 0; i < workers; i++ {
		ctx := &workerCtx{
			q:        q,
			sw:       shardWriters[i],
			skip:     skip,
			counted:  &counted,
			errCount: &errCount,
			noAtime:  cfg.NoAtime,
		}
		eg.Go(func() error {
			workerLoop(ctx)
			return nil
		})
	}

	// Push every root task before the supervisor starts watching the
	// in-flight counter: starting the supervisor first risks its very
	// first tick observing inFlight==0 before any root has been pushed,
	// which is the "false zero" §9 warns against — here at scan startup
	// rather than mid-scan.
	for _, abs := range absRoots {
		q.push(task{kind: taskDir, dir: abs})
	}

	go superviseShutdown(q, workers)

	_ = eg.Wait()
	progress.stopAndWait()

	shardPaths := make([]string, len(shardWriters))
	var closeErr error
	for i, sw := range shardWriters {
		if err := sw.close(); err != nil && closeErr == nil {
			closeErr = err
		}
		shardPaths[i] = sw.path
	}

	// A shard write failure is fatal (§7): discard every shard rather
	// than merge a partial, untrustworthy set of them.
	if ferr := q.fatal(); ferr != nil {
		for _, p := range shardPaths {
			os.Remove(p)
		}
		return nil, ferr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	sortedMerge := cfg.NoAtime && !cfg.Binary
	if err := mergeShards(shardPaths, cfg.OutPath, cfg.Binary, sortedMerge); err != nil {
		return nil, err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Total entries: %d   Total errors: %d\n", counted.Load(), errCount.Load())
	}

	return &Result{
		TotalEntries: counted.Load(),
		TotalErrors:  errCount.Load(),
		OutputPath:   cfg.OutPath,
		Elapsed:      time.Since(start),
	}, nil
}

// superviseShutdown is the dedicated goroutine that owns the shutdown
// decision: it alone reads the in-flight counter and, once it observes
// zero, broadcasts exactly one Shutdown task per worker. Workers never
// decide to exit on their own.
func superviseShutdown(q *taskQueue, numWorkers int) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for range ticker.C {
		if q.inFlight.Load() == 0 {
			for i := 0; i < numWorkers; i++ {
				q.push(task{kind: taskShutdown})
			}
			q.close()
			return
		}
	}
}

package scanner

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
)

// progressReporter samples an atomic counter once a second and renders a
// single rewriting status line, in the carriage-return style already used
// by the indexer's progress output. The percentage (when a hint is known)
// is monotonic: it is computed from a counter that only ever grows, so
// it can never decrease between samples.
type progressReporter struct {
	counted   *atomic.Int64
	errCount  *atomic.Int64
	filesHint int64
	quiet     bool
	stop      chan struct{}
	done      chan struct{}
}

func newProgressReporter(counted, errCount *atomic.Int64, filesHint int64, quiet bool) *progressReporter {
	return &progressReporter{
		counted:   counted,
		errCount:  errCount,
		filesHint: filesHint,
		quiet:     quiet,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (p *progressReporter) start() {
	if p.quiet {
		close(p.done)
		return
	}
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.render(start)
			}
		}
	}()
}

func (p *progressReporter) render(start time.Time) {
	n := p.counted.Load()
	elapsed := time.Since(start).Seconds()
	rate := float64(0)
	if elapsed > 0 {
		rate = float64(n) / elapsed
	}
	if p.filesHint > 0 {
		pct := float64(n) / float64(p.filesHint) * 100
		if pct > 100 {
			pct = 100
		}
		fmt.Fprintf(os.Stderr, "\r\033[K%6.1f%%  %s entries  %s/s  errors=%d",
			pct, humanize.Comma(n), humanize.Comma(int64(rate)), p.errCount.Load())
		return
	}
	fmt.Fprintf(os.Stderr, "\r\033[K%s entries  %s/s  errors=%d",
		humanize.Comma(n), humanize.Comma(int64(rate)), p.errCount.Load())
}

func (p *progressReporter) stopAndWait() {
	close(p.stop)
	<-p.done
	if !p.quiet {
		fmt.Fprintln(os.Stderr)
	}
}

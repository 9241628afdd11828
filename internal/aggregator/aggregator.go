package aggregator

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sganis/statwalker/internal/codec"
)

// key identifies one accumulator bucket.
type key struct {
	path string
	user string
	age  int
}

// bucket is the running total for one (path, user, age) key.
type bucket struct {
	files    uint64
	disk     uint64
	accessed int64
	modified int64
}

// Aggregator is a single-pass, single-threaded streaming accumulator: no
// suspension points beyond the input reader's own I/O.
type Aggregator struct {
	now      int64
	resolver *userResolver
	acc      map[key]*bucket
}

// New creates an Aggregator that buckets ages relative to now (unix
// seconds).
func New(now int64) *Aggregator {
	return &Aggregator{
		now:      now,
		resolver: newUserResolver(),
		acc:      make(map[key]*bucket),
	}
}

// IngestRow applies one scanner CSV row to the accumulator.
func (a *Aggregator) IngestRow(row codec.ParsedRow) {
	isDir := codec.IsDirMode(row.Mode)
	atime := row.Atime
	if isDir {
		atime = 0
	}
	mtime := SanitizeMtime(a.now, row.Mtime)

	user := a.resolver.Resolve(row.Uid)
	if user == "" || row.Path == "" {
		return
	}

	path := NormalizePath(row.Path)
	age := AgeBucket(a.now, mtime)

	for _, ancestor := range Ancestors(path) {
		k := key{path: ancestor, user: user, age: age}
		b, ok := a.acc[k]
		if !ok {
			b = &bucket{}
			a.acc[k] = b
		}
		b.files++
		b.disk += row.Disk
		if atime > b.accessed {
			b.accessed = atime
		}
		if mtime > b.modified {
			b.modified = mtime
		}
	}
}

// UnknownUIDs returns the uids that never resolved to a username.
func (a *Aggregator) UnknownUIDs() []uint32 {
	return a.resolver.UnknownUIDs()
}

// OutputRow is one row of the aggregate CSV.
type OutputRow struct {
	Path     string
	User     string
	Age      int
	Files    uint64
	Disk     uint64
	Accessed int64
	Modified int64
}

// Rows returns the accumulated buckets sorted by (path_bytes, user, age),
// matching the aggregate output's determinism invariant.
func (a *Aggregator) Rows() []OutputRow {
	out := make([]OutputRow, 0, len(a.acc))
	for k, b := range a.acc {
		out = append(out, OutputRow{
			Path:     k.path,
			User:     k.user,
			Age:      k.age,
			Files:    b.files,
			Disk:     b.disk,
			Accessed: b.accessed,
			Modified: b.modified,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		if out[i].User != out[j].User {
			return out[i].User < out[j].User
		}
		return out[i].Age < out[j].Age
	})
	return out
}

// CSVHeader is the literal aggregate CSV header.
const CSVHeader = "path,user,age,files,disk,accessed,modified"

// ProgressFunc is invoked at roughly ten equal checkpoints while Run
// streams its input, with the fraction of totalBytesHint consumed so far.
// A zero totalBytesHint disables progress reporting (no size was known
// ahead of time).
type ProgressFunc func(fracDone float64)

// Run streams r as the scanner's CSV (including its own header line),
// ingesting every row into a fresh Aggregator. Malformed rows are skipped,
// not fatal — the only fatal condition is a missing/incorrect header.
func Run(r io.Reader, now int64, totalBytesHint int64, progress ProgressFunc) (*Aggregator, error) {
	cr := &countingReader{r: r}
	csvR := csv.NewReader(cr)
	csvR.FieldsPerRecord = 9
	csvR.ReuseRecord = true

	header, err := csvR.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(header, ",") != codec.CSVHeader {
		return nil, fmt.Errorf("wrong csv header: got %q", strings.Join(header, ","))
	}

	agg := New(now)
	nextCheckpoint := int64(1)
	for {
		rec, err := csvR.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: logged and skipped, per the error-handling
			// policy (the aggregator never aborts on a single bad row).
			fmt.Fprintf(os.Stderr, "Warning: skipping malformed csv row: %v\n", err)
			continue
		}
		row, ok := codec.ParseCSVRow(rec)
		if !ok {
			continue
		}
		agg.IngestRow(row)

		if progress != nil && totalBytesHint > 0 {
			frac := float64(cr.n) / float64(totalBytesHint)
			if frac >= float64(nextCheckpoint)/10 {
				progress(frac)
				nextCheckpoint++
			}
		}
	}

	return agg, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

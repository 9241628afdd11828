package index

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/sganis/statwalker/internal/aggregator"
)

// Stat is the per-(path, user, age) accumulator the index serves. JSON
// field names match the query service's HTTP contract, not the CSV
// column names.
type Stat struct {
	Files    uint64 `json:"count"`
	Disk     uint64 `json:"disk"`
	Accessed int64  `json:"atime"`
	Modified int64  `json:"mtime"`
}

func (s *Stat) mergeFrom(files, disk uint64, accessed, modified int64) {
	s.Files += files
	s.Disk += disk
	if accessed > s.Accessed {
		s.Accessed = accessed
	}
	if modified > s.Modified {
		s.Modified = modified
	}
}

type tripleKey struct {
	path string
	user string
	age  int
}

// Index is the loaded, immutable-after-build in-memory aggregate: a path
// trie for drill-down and a flat triple-keyed map for the actual stats.
type Index struct {
	root       *trieNode
	perUserAge map[tripleKey]*Stat
	users      map[string]struct{}
}

// Load streams the aggregate CSV (header + rows) and builds an Index.
// Identical (path, user, age) keys across rows merge additively, with max
// taken for the two timestamp columns.
func Load(r io.Reader) (*Index, error) {
	csvR := csv.NewReader(r)
	csvR.FieldsPerRecord = 7
	csvR.ReuseRecord = true

	header, err := csvR.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if strings.Join(header, ",") != aggregator.CSVHeader {
		return nil, fmt.Errorf("wrong aggregate csv header: got %q", strings.Join(header, ","))
	}

	idx := &Index{
		root:       newTrieNode(),
		perUserAge: make(map[tripleKey]*Stat),
		users:      make(map[string]struct{}),
	}

	for {
		rec, err := csvR.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if err := idx.ingestRow(rec); err != nil {
			continue
		}
	}

	return idx, nil
}

func (idx *Index) ingestRow(rec []string) error {
	path := normalize(rec[0])
	user := rec[1]
	age, err := strconv.Atoi(rec[2])
	if err != nil {
		return err
	}
	files, err := strconv.ParseUint(rec[3], 10, 64)
	if err != nil {
		return err
	}
	disk, err := strconv.ParseUint(rec[4], 10, 64)
	if err != nil {
		return err
	}
	accessed, err := strconv.ParseInt(rec[5], 10, 64)
	if err != nil {
		return err
	}
	modified, err := strconv.ParseInt(rec[6], 10, 64)
	if err != nil {
		return err
	}

	comps := components(path)
	node := idx.root.insert(comps)
	if node.users == nil {
		node.users = make(map[string]struct{})
	}
	node.users[user] = struct{}{}
	idx.users[user] = struct{}{}

	k := tripleKey{path: path, user: user, age: age}
	s, ok := idx.perUserAge[k]
	if !ok {
		s = &Stat{}
		idx.perUserAge[k] = s
	}
	s.mergeFrom(files, disk, accessed, modified)
	return nil
}

// Users returns every username observed during Load, sorted.
func (idx *Index) Users() []string {
	out := make([]string, 0, len(idx.users))
	for u := range idx.users {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sganis/statwalker/internal/codec"
	"github.com/sganis/statwalker/internal/common"
)

// shardWriter owns one worker's output file exclusively until merge.
type shardWriter struct {
	path   string
	file   *os.File
	rw     codec.RecordWriter
	binary bool
}

// newShardWriter creates shard_<host>_<pid>_<worker>.tmp exclusively
// (fails if it already exists, matching the scanner's lifecycle rule).
func newShardWriter(outDir string, worker int, binary bool) (*shardWriter, error) {
	path := filepath.Join(outDir, common.ShardName(worker))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrShardWrite, err)
	}

	var rw codec.RecordWriter
	if binary {
		rw, err = codec.NewBinaryRecordWriter(f)
		if err != nil {
			f.Close()
			os.Remove(path)
			return nil, fmt.Errorf("%w: %v", common.ErrShardWrite, err)
		}
	} else {
		rw = codec.NewCSVRecordWriter(f)
	}

	return &shardWriter{path: path, file: f, rw: rw, binary: binary}, nil
}

func (s *shardWriter) write(rec *codec.Record) error {
	if err := s.rw.WriteRecord(rec); err != nil {
		return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
	}
	return nil
}

func (s *shardWriter) close() error {
	if err := s.rw.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
	}
	return s.file.Close()
}

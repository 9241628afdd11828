package scanner

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sganis/statwalker/internal/codec"
	"github.com/sganis/statwalker/internal/common"
)

// shardFlushThreshold is the buffered-writer size used for the merged
// output file.
const shardFlushThreshold = 4 << 20

// mergeShards assembles the final output from the per-worker shard files,
// in worker-id order, then removes the shards. binary mode concatenates
// the self-contained zstd streams verbatim; CSV mode either streams
// (header + concatenation) or, when sorted is true (only valid when atime
// was forced to zero), performs a full lexicographic sort for byte-stable
// output.
func mergeShards(shardPaths []string, outPath string, binary bool, sorted bool) error {
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("%w: %s", common.ErrOutputExists, outPath)
	}

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrOutputExists, err)
	}
	defer out.Close()

	bw := bufio.NewWriterSize(out, shardFlushThreshold)

	if binary {
		if err := concatShards(shardPaths, bw); err != nil {
			return err
		}
	} else if sorted {
		if err := sortMergeCSV(shardPaths, bw); err != nil {
			return err
		}
	} else {
		if _, err := bw.WriteString(codec.CSVHeader + "\n"); err != nil {
			return err
		}
		if err := concatShards(shardPaths, bw); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	if err := out.Sync(); err != nil {
		return err
	}

	for _, p := range shardPaths {
		os.Remove(p)
	}
	return nil
}

func concatShards(shardPaths []string, dst io.Writer) error {
	for _, p := range shardPaths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
		}
		_, err = io.Copy(dst, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
		}
	}
	return nil
}

// sortMergeCSV reads every shard's lines into memory, sorts them
// lexicographically, and writes header + sorted lines. This is the
// deterministic conformance-testing path; it is explicitly slower and must
// never be enabled silently.
func sortMergeCSV(shardPaths []string, dst io.Writer) error {
	var lines []string
	for _, p := range shardPaths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
		}
		scanner := newLineScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrShardWrite, err)
		}
	}

	sort.Strings(lines)

	if _, err := io.WriteString(dst, codec.CSVHeader+"\n"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(dst, line); err != nil {
			return err
		}
		if _, err := io.WriteString(dst, "\n"); err != nil {
			return err
		}
	}
	return nil
}

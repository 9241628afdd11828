package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sganis/statwalker/internal/common"
	"github.com/sganis/statwalker/internal/scanner"
)

func runScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	out := fs.String("o", "", "output file path (default derived from first folder)")
	workers := fs.Int("w", 0, "worker count (default min(48, max(4, 2*cpu)))")
	skip := fs.String("s", "", "skip paths containing this substring")
	binary := fs.Bool("bin", false, "write length-prefixed zstd-framed binary records instead of CSV")
	noAtime := fs.Bool("no-atime", false, "force atime to zero and sort-merge for deterministic output")
	filesHint := fs.Int64("files-hint", 0, "expected file count, for the progress percentage")
	quiet := fs.Bool("q", false, "suppress progress output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	folders := fs.Args()
	if len(folders) == 0 {
		return fmt.Errorf("%w: no folders given", common.ErrMissingPath)
	}

	outPath := *out
	outDir := "."
	if outPath == "" {
		stem := common.SanitizeOutputStem(folders[0])
		ext := ".csv"
		if *binary {
			ext = ".zst"
		}
		outPath = stem + ext
	} else {
		outDir = filepath.Dir(outPath)
	}

	cfg := scanner.Config{
		Roots:     folders,
		OutDir:    outDir,
		OutPath:   outPath,
		Workers:   *workers,
		Skip:      *skip,
		Binary:    *binary,
		NoAtime:   *noAtime,
		FilesHint: *filesHint,
		Quiet:     *quiet,
	}

	res, err := scanner.Scan(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d entries, %d errors, %s)\n", res.OutputPath, res.TotalEntries, res.TotalErrors, res.Elapsed)
	return nil
}

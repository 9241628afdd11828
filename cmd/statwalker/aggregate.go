package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sganis/statwalker/internal/aggregator"
	"github.com/sganis/statwalker/internal/common"
)

func runAggregate(args []string) error {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)
	out := fs.String("o", "", "output file path (default <stem>.agg.csv)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing INPUT.csv", common.ErrMissingPath)
	}
	inPath := rest[0]

	stem := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	outPath := *out
	if outPath == "" {
		outPath = stem + ".agg.csv"
	}
	unkPath := stem + ".unk.csv"

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	st, err := in.Stat()
	var sizeHint int64
	if err == nil {
		sizeHint = st.Size()
	}

	now := time.Now().Unix()
	agg, err := aggregator.Run(in, now, sizeHint, func(frac float64) {
		fmt.Fprintf(os.Stderr, "\r\033[K%3.0f%% aggregated", frac*100)
	})
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	fmt.Fprintln(os.Stderr)

	rows := agg.Rows()

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer outFile.Close()
	if err := aggregator.WriteCSV(outFile, rows); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	unknown := agg.UnknownUIDs()
	unkFile, err := os.Create(unkPath)
	if err != nil {
		return fmt.Errorf("create unk file: %w", err)
	}
	defer unkFile.Close()
	if err := aggregator.WriteUnknownUIDs(unkFile, unknown); err != nil {
		return fmt.Errorf("write unk file: %w", err)
	}

	fmt.Printf("wrote %s (%d rows), %s (%d unresolved uids)\n", outPath, len(rows), unkPath, len(unknown))
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/sganis/statwalker/internal/api"
	"github.com/sganis/statwalker/internal/common"
	"github.com/sganis/statwalker/internal/index"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	staticDir := fs.String("static-dir", os.Getenv("STATIC_DIR"), "directory of static assets to serve at /")
	port := fs.Int("port", envPortOrDefault(8080), "HTTP port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing INPUT.agg.csv", common.ErrMissingPath)
	}
	aggPath := rest[0]

	if err := index.InitGlobal(aggPath); err != nil {
		return fmt.Errorf("load index: %w", err)
	}

	srv := api.New(api.Config{
		Port:      *port,
		StaticDir: *staticDir,
		DevOrigin: os.Getenv("DEV_ORIGIN"),
	})
	registerCleanup(func() { fmt.Fprintln(os.Stderr, "query service stopped") })

	return srv.Run()
}

func envPortOrDefault(def int) int {
	if s := os.Getenv("PORT"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	return def
}

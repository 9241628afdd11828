// Command statwalker dispatches the scan, aggregate and serve
// subcommands behind one binary, in the same index/query/daemon/write
// shape the indexer CLI this project grew out of already used.
package main

import (
	"fmt"
	"os"
)

// Version and BuildDate are overridden at link time with
// -ldflags "-X main.Version=... -X main.BuildDate=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
)

// cleanupFuncs accumulates teardown actions registered by whichever
// subcommand is running; main runs them in reverse order once the
// subcommand returns. main installs no interrupt handler of its own.
var cleanupFuncs []func()

func registerCleanup(f func()) {
	cleanupFuncs = append(cleanupFuncs, f)
}

func runCleanup() {
	for i := len(cleanupFuncs) - 1; i >= 0; i-- {
		cleanupFuncs[i]()
	}
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = runScan(os.Args[2:])
	case "aggregate":
		err = runAggregate(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "version":
		fmt.Printf("statwalker %s (%s)\n", Version, BuildDate)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	runCleanup()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `statwalker - parallel filesystem metadata scanner, aggregator and query service

Usage:
  statwalker scan <folder...> [-o OUT] [-w N] [-s SUBSTR] [--bin] [--no-atime] [--files-hint HINT] [-q]
  statwalker aggregate INPUT.csv [-o OUT]
  statwalker serve INPUT.agg.csv [--static-dir DIR] [--port N]
  statwalker version
  statwalker help
`)
}

package main

import (
	"fmt"
	"os"

	"github.com/sapmachine/vitals/pkg/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "monitor", "m":
		cmd.Monitor(args)
	case "report", "r":
		cmd.Report(args)
	case "snapshot", "ss":
		cmd.Snapshot(args)
	case "legend", "l":
		cmd.Legend(args)
	case "chart", "c":
		cmd.Chart(args)
	case "serve", "s":
		cmd.Serve(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`vitals - low-overhead in-process telemetry sampler

Usage:
  vitals <command> [flags]

Commands:
  monitor, m      Sample continuously until Ctrl+C, then print and export
  report, r       Sample for -duration and print a table (or -csv)
  snapshot, ss    Take a single sample and print name/value pairs
  legend, l       Print the column reference for this platform
  chart, c        Sample for -duration and write an HTML chart page
  serve, s        Expose table, CSV, legend, and Prometheus endpoints

Sampling Flags:
  -interval duration   Sampling interval (default: 10s)
  -duration duration   Total run time (0 = until interrupted)
  -history int         Samples retained in memory (default: 360)
  -no-system           Disable platform metrics
  -no-runtime          Disable runtime metrics
  -gpu                 Enable NVIDIA GPU metrics

Report Flags:
  -scale string        Memory scale: auto, 1, k, m, g
  -raw                 Print raw values without scaling
  -csv                 Print CSV instead of a table
  -reverse             Print newest samples first
  -no-legend           Suppress table header and legend
  -max-samples int     Cap on printed rows (0 = all)

High-Memory Report Flags:
  -highmem string      Threshold, e.g. 512m (empty = disabled)
  -highmem-dump        Write the report to a file (default: true)
  -highmem-print       Print the report to stderr
  -highmem-detail      Include runtime memory detail (default: true)

Output Flags:
  -output-dir string   Export directory (default: .)
  -format string       Export format: csv, jsonl, parquet (default: csv)

Other Flags:
  -config string       YAML config file
  -addr string         HTTP listen address for serve (default: :8080)
  -log-level string    trace, debug, info, warn, error (default: info)

Examples:
  # Watch process vitals every second for a minute
  vitals report -interval 1s -duration 1m

  # Long-running agent with a one-shot high-memory report at 2 GiB
  vitals monitor -interval 10s -highmem 2g -output-dir /var/log/vitals

  # Prometheus endpoint plus human-readable table over HTTP
  vitals serve -addr :9100 -interval 5s
`)
}

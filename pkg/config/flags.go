package config

import (
	"flag"
)

// GetFlags registers every option on the flag set and returns a function to
// run after parsing that folds flag values back into derived settings.
func GetFlags(fs *flag.FlagSet, cfg *Config) func() {
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Sampling interval")
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "Total run time (0 = until interrupted)")
	fs.IntVar(&cfg.HistorySize, "history", cfg.HistorySize, "Number of samples retained in memory")

	var noSystem, noRuntime bool
	fs.BoolVar(&noSystem, "no-system", false, "Disable platform metrics")
	fs.BoolVar(&noRuntime, "no-runtime", false, "Disable runtime metrics")
	fs.BoolVar(&cfg.EnableGPU, "gpu", cfg.EnableGPU, "Enable NVIDIA GPU metrics")

	fs.StringVar(&cfg.Scale, "scale", cfg.Scale, "Memory scale: auto, 1, k, m, g")
	fs.BoolVar(&cfg.Raw, "raw", cfg.Raw, "Print raw values without scaling")
	fs.BoolVar(&cfg.CSV, "csv", cfg.CSV, "Print CSV instead of a table")
	fs.BoolVar(&cfg.Reverse, "reverse", cfg.Reverse, "Print newest samples first")
	fs.BoolVar(&cfg.NoLegend, "no-legend", cfg.NoLegend, "Suppress table header and legend")
	fs.IntVar(&cfg.MaxSamples, "max-samples", cfg.MaxSamples, "Cap on printed rows (0 = all)")
	fs.IntVar(&cfg.MaxDeltaAge, "max-delta-age", cfg.MaxDeltaAge, "Suppress deltas older than this many samples (0 = annotate only)")

	fs.StringVar(&cfg.HighMemThreshold, "highmem", cfg.HighMemThreshold, "Memory threshold for the one-shot report, e.g. 512m (empty = disabled)")
	fs.BoolVar(&cfg.HighMemDump, "highmem-dump", cfg.HighMemDump, "Write the high-memory report to a file")
	fs.BoolVar(&cfg.HighMemPrint, "highmem-print", cfg.HighMemPrint, "Print the high-memory report to stderr")
	fs.BoolVar(&cfg.HighMemDetail, "highmem-detail", cfg.HighMemDetail, "Include runtime memory detail in the report")
	fs.StringVar(&cfg.HighMemMetric, "highmem-metric", cfg.HighMemMetric, "Qualified column watched against the threshold (default: process-rss)")

	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Export directory")
	fs.StringVar(&cfg.OutputFormat, "format", cfg.OutputFormat, "Export format (csv, jsonl, parquet)")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (trace, debug, info, warn, error)")

	return func() {
		if noSystem {
			cfg.EnableSystem = false
		}
		if noRuntime {
			cfg.EnableRuntime = false
		}
		if cfg.Interval <= 0 {
			cfg.Interval = DefaultInterval
		}
		if cfg.Duration < 0 {
			cfg.Duration = 0
		}
	}
}

// Package config provides configuration management for the vitals agent.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all agent configuration options.
type Config struct {
	// Sampling settings
	Interval      time.Duration
	Duration      time.Duration
	HistorySize   int
	EnableSystem  bool
	EnableRuntime bool
	EnableGPU     bool

	// Report settings
	Scale       string
	Raw         bool
	CSV         bool
	Reverse     bool
	NoLegend    bool
	MaxSamples  int
	MaxDeltaAge int

	// High-memory report settings
	HighMemThreshold string
	HighMemDump      bool
	HighMemPrint     bool
	HighMemDetail    bool
	HighMemMetric    string

	// Output settings
	OutputDir    string
	OutputFormat string

	// Server settings
	Addr string

	// Logging
	LogLevel string
}

// Default configuration values.
const (
	DefaultInterval    = 10 * time.Second
	DefaultHistorySize = 360
	DefaultOutputDir   = "."
	DefaultFormat      = "csv"
	DefaultAddr        = ":8080"
	DefaultLogLevel    = "info"
)

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Interval:      DefaultInterval,
		HistorySize:   DefaultHistorySize,
		EnableSystem:  true,
		EnableRuntime: true,
		EnableGPU:     false,
		HighMemDump:   true,
		HighMemDetail: true,
		OutputDir:     DefaultOutputDir,
		OutputFormat:  DefaultFormat,
		Addr:          DefaultAddr,
		LogLevel:      DefaultLogLevel,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Interval < 10*time.Millisecond {
		return fmt.Errorf("interval must be at least 10ms, got %v", c.Interval)
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration cannot be negative, got %v", c.Duration)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("history size cannot be negative, got %d", c.HistorySize)
	}
	if !isValidOutputFormat(c.OutputFormat) {
		return fmt.Errorf("invalid output format: %s (valid: csv, jsonl, parquet)", c.OutputFormat)
	}
	if !isValidScale(c.Scale) {
		return fmt.Errorf("invalid scale: %s (valid: auto, 1, k, m, g)", c.Scale)
	}
	if _, err := ParseSize(c.HighMemThreshold); err != nil {
		return fmt.Errorf("invalid high-memory threshold: %w", err)
	}
	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("cannot access output directory: %w", err)
			}
		} else if !info.IsDir() {
			return fmt.Errorf("output path is not a directory: %s", c.OutputDir)
		}
	}
	return nil
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultFormat
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// ValidOutputFormats returns the list of supported export formats.
func ValidOutputFormats() []string {
	return []string{"csv", "jsonl", "parquet"}
}

func isValidOutputFormat(format string) bool {
	for _, f := range ValidOutputFormats() {
		if f == format {
			return true
		}
	}
	return false
}

func isValidScale(s string) bool {
	switch s {
	case "", "auto", "1", "k", "m", "g":
		return true
	}
	return false
}

// ParseSize interprets a byte count with an optional k/m/g suffix, so
// thresholds read naturally: "512m", "8g", "1048576". Empty means zero.
func ParseSize(s string) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	mult := uint64(1)
	switch s[len(s)-1] {
	case 'k':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'm':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'g':
		mult = 1 << 30
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing size %q: %w", s, err)
	}
	return n * mult, nil
}

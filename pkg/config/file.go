package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with optional fields, so a config file only
// overrides the keys it actually contains. Durations are written in their
// human form ("5s", "1m30s").
type fileConfig struct {
	Interval    *string `yaml:"interval"`
	Duration    *string `yaml:"duration"`
	HistorySize *int    `yaml:"history_size"`
	System      *bool   `yaml:"system"`
	Runtime     *bool   `yaml:"runtime"`
	GPU         *bool   `yaml:"gpu"`

	Scale       *string `yaml:"scale"`
	Raw         *bool   `yaml:"raw"`
	CSV         *bool   `yaml:"csv"`
	Reverse     *bool   `yaml:"reverse"`
	NoLegend    *bool   `yaml:"no_legend"`
	MaxSamples  *int    `yaml:"max_samples"`
	MaxDeltaAge *int    `yaml:"max_delta_age"`

	HighMemThreshold *string `yaml:"highmem_threshold"`
	HighMemDump      *bool   `yaml:"highmem_dump"`
	HighMemPrint     *bool   `yaml:"highmem_print"`
	HighMemDetail    *bool   `yaml:"highmem_detail"`
	HighMemMetric    *string `yaml:"highmem_metric"`

	OutputDir    *string `yaml:"output_dir"`
	OutputFormat *string `yaml:"format"`

	Addr     *string `yaml:"addr"`
	LogLevel *string `yaml:"log_level"`
}

// LoadFile overlays settings from a YAML file onto cfg. A missing file is an
// error when the path was given explicitly; flags parsed afterwards still win.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fc.Interval != nil {
		d, err := time.ParseDuration(*fc.Interval)
		if err != nil {
			return fmt.Errorf("parsing interval: %w", err)
		}
		cfg.Interval = d
	}
	if fc.Duration != nil {
		d, err := time.ParseDuration(*fc.Duration)
		if err != nil {
			return fmt.Errorf("parsing duration: %w", err)
		}
		cfg.Duration = d
	}
	setInt(&cfg.HistorySize, fc.HistorySize)
	setBool(&cfg.EnableSystem, fc.System)
	setBool(&cfg.EnableRuntime, fc.Runtime)
	setBool(&cfg.EnableGPU, fc.GPU)

	setString(&cfg.Scale, fc.Scale)
	setBool(&cfg.Raw, fc.Raw)
	setBool(&cfg.CSV, fc.CSV)
	setBool(&cfg.Reverse, fc.Reverse)
	setBool(&cfg.NoLegend, fc.NoLegend)
	setInt(&cfg.MaxSamples, fc.MaxSamples)
	setInt(&cfg.MaxDeltaAge, fc.MaxDeltaAge)

	setString(&cfg.HighMemThreshold, fc.HighMemThreshold)
	setBool(&cfg.HighMemDump, fc.HighMemDump)
	setBool(&cfg.HighMemPrint, fc.HighMemPrint)
	setBool(&cfg.HighMemDetail, fc.HighMemDetail)
	setString(&cfg.HighMemMetric, fc.HighMemMetric)

	setString(&cfg.OutputDir, fc.OutputDir)
	setString(&cfg.OutputFormat, fc.OutputFormat)

	setString(&cfg.Addr, fc.Addr)
	setString(&cfg.LogLevel, fc.LogLevel)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// Package cmd implements the agent subcommands.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sapmachine/vitals/pkg/config"
	"github.com/sapmachine/vitals/pkg/highmem"
	"github.com/sapmachine/vitals/pkg/logging"
	"github.com/sapmachine/vitals/pkg/reporting"
	"github.com/sapmachine/vitals/pkg/sampling"
	"github.com/sapmachine/vitals/pkg/vitals"
)

// CmdContext holds initialized command resources.
type CmdContext struct {
	Config  *config.Config
	Engine  *vitals.Engine
	Logger  zerolog.Logger
	Runtime *sampling.RuntimeSampler

	closers []func()
}

// InitCmd parses flags (an optional config file first, flags win), sets up
// logging, and builds a frozen engine with the enabled samplers registered.
func InitCmd(name string, args []string) (*CmdContext, func()) {
	cfg := config.New()

	// The config file has to be known before flag registration so its
	// values become the flag defaults and explicit flags still override.
	if path := configPathArg(args); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML config file")
	applyFlags := config.GetFlags(fs, cfg)
	fs.Parse(args)
	applyFlags()
	cfg.ApplyDefaults()

	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := &CmdContext{
		Config: cfg,
		Logger: logger,
	}

	engine := vitals.New(vitals.Options{
		HistorySize: cfg.HistorySize,
		Logger:      logger,
	})
	if cfg.EnableSystem {
		engine.RegisterSampler(sampling.NewPlatformSampler(logger))
	}
	if cfg.EnableRuntime {
		ctx.Runtime = sampling.NewRuntimeSampler(logger)
		engine.RegisterSampler(ctx.Runtime)
	}
	if cfg.EnableGPU {
		gpu := sampling.NewGPUSampler(logger)
		engine.RegisterSampler(gpu)
		ctx.closers = append(ctx.closers, func() {
			if err := gpu.Close(); err != nil {
				logger.Debug().Err(err).Msg("closing gpu sampler")
			}
		})
	}
	engine.Freeze()
	ctx.Engine = engine

	cleanup := func() {
		for i := len(ctx.closers) - 1; i >= 0; i-- {
			ctx.closers[i]()
		}
	}
	return ctx, cleanup
}

// configPathArg scans raw arguments for the config flag ahead of the real
// parse.
func configPathArg(args []string) string {
	for i, arg := range args {
		switch arg {
		case "-config", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		}
		for _, prefix := range []string{"-config=", "--config="} {
			if len(arg) > len(prefix) && arg[:len(prefix)] == prefix {
				return arg[len(prefix):]
			}
		}
	}
	return ""
}

// PrintOptions maps the configured report settings to the renderer's options.
func (c *CmdContext) PrintOptions() reporting.PrintOptions {
	o := reporting.Defaults()
	switch c.Config.Scale {
	case "1":
		o.Scale = reporting.ScaleBytes
	case "k":
		o.Scale = reporting.ScaleK
	case "m":
		o.Scale = reporting.ScaleM
	case "g":
		o.Scale = reporting.ScaleG
	}
	o.Raw = c.Config.Raw
	o.CSV = c.Config.CSV
	o.Reverse = c.Config.Reverse
	o.NoLegend = c.Config.NoLegend
	o.MaxSamples = c.Config.MaxSamples
	o.MaxDeltaAge = c.Config.MaxDeltaAge
	return o
}

// HighMemTrigger builds the one-shot report trigger from the configured
// threshold, or nil when disabled.
func (c *CmdContext) HighMemTrigger() *highmem.Trigger {
	threshold, err := config.ParseSize(c.Config.HighMemThreshold)
	if err != nil || threshold == 0 {
		return nil
	}
	var detail highmem.RuntimeDetailFunc
	if c.Runtime != nil {
		rt := c.Runtime
		detail = func() *highmem.RuntimeDetail {
			ms := rt.Cached()
			if ms == nil {
				return nil
			}
			return &highmem.RuntimeDetail{
				HeapAlloc:    ms.HeapAlloc,
				HeapSys:      ms.HeapSys,
				HeapObjects:  ms.HeapObjects,
				StackSys:     ms.StackSys,
				Sys:          ms.Sys,
				NumGC:        ms.NumGC,
				PauseTotalNs: ms.PauseTotalNs,
			}
		}
	}
	return highmem.New(highmem.Config{
		Threshold:     threshold,
		TriggerMetric: c.Config.HighMemMetric,
		DumpToFile:    c.Config.HighMemDump,
		PrintToDiag:   c.Config.HighMemPrint,
		Dir:           c.Config.OutputDir,
		RuntimeDetail: c.Config.HighMemDetail,
	}, c.Engine, os.Stderr, detail, c.Logger)
}

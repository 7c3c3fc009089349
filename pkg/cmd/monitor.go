package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sapmachine/vitals/pkg/exporting"
	"github.com/sapmachine/vitals/pkg/reporting"
)

// Monitor samples continuously until interrupted or the configured duration
// elapses, then prints the collected table and exports the raw window.
func Monitor(args []string) {
	ctx, cleanup := InitCmd("monitor", args)
	defer cleanup()

	runCtx, cancel := signalContext(ctx.Config.Duration)
	defer cancel()

	trigger := ctx.HighMemTrigger()

	ctx.Logger.Info().
		Dur("interval", ctx.Config.Interval).
		Int("history", ctx.Config.HistorySize).
		Msg("monitoring started")

	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		ticker := time.NewTicker(ctx.Config.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return nil
			case <-ticker.C:
				s := ctx.Engine.SampleNow(false)
				if trigger != nil {
					trigger.Check(s)
				}
			}
		}
	})
	if err := g.Wait(); err != nil {
		ctx.Logger.Error().Err(err).Msg("monitor loop failed")
	}

	if err := reporting.WriteReport(os.Stdout, ctx.Engine, ctx.PrintOptions()); err != nil {
		ctx.Logger.Error().Err(err).Msg("rendering final report")
	}
	exportWindow(ctx)
}

// exportWindow writes the retained samples to the configured output file.
func exportWindow(ctx *CmdContext) {
	window := ctx.Engine.Window(0)
	if len(window) == 0 {
		return
	}
	exporter, err := exporting.NewExporter(ctx.Config.OutputDir, ctx.Logger)
	if err != nil {
		ctx.Logger.Error().Err(err).Msg("creating exporter")
		return
	}
	path, err := exporter.ExportWindow(ctx.Engine.Registry(), window, ctx.Config.OutputFormat)
	if err != nil {
		ctx.Logger.Error().Err(err).Msg("exporting samples")
		return
	}
	ctx.Logger.Info().Str("path", path).Int("samples", len(window)).Msg("samples exported")
}

// signalContext is cancelled on SIGINT/SIGTERM, and additionally after the
// given duration when it is positive.
func signalContext(duration time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if duration <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, duration)
	return tctx, func() {
		cancel()
		stop()
	}
}

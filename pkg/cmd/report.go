package cmd

import (
	"os"
	"time"

	"github.com/sapmachine/vitals/pkg/reporting"
)

// Report samples for the configured duration and prints the resulting table
// or CSV to stdout. With no duration it prints a single fresh sample.
func Report(args []string) {
	ctx, cleanup := InitCmd("report", args)
	defer cleanup()

	opts := ctx.PrintOptions()

	if ctx.Config.Duration <= 0 {
		opts.SampleNow = true
		if err := reporting.WriteReport(os.Stdout, ctx.Engine, opts); err != nil {
			ctx.Logger.Fatal().Err(err).Msg("rendering report")
		}
		return
	}

	runCtx, cancel := signalContext(ctx.Config.Duration)
	defer cancel()

	ticker := time.NewTicker(ctx.Config.Interval)
	defer ticker.Stop()
	for done := false; !done; {
		select {
		case <-runCtx.Done():
			done = true
		case <-ticker.C:
			ctx.Engine.SampleNow(false)
		}
	}

	if err := reporting.WriteReport(os.Stdout, ctx.Engine, opts); err != nil {
		ctx.Logger.Fatal().Err(err).Msg("rendering report")
	}
}

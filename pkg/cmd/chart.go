package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sapmachine/vitals/pkg/reporting"
)

// Chart samples for the configured duration and writes an HTML chart page,
// one line chart per category, into the output directory.
func Chart(args []string) {
	ctx, cleanup := InitCmd("chart", args)
	defer cleanup()

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

	path := filepath.Join(ctx.Config.OutputDir,
		fmt.Sprintf("vitals_chart_%s.html", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		ctx.Logger.Fatal().Err(err).Msg("creating chart file")
	}
	defer f.Close()

	if err := reporting.WriteChart(f, ctx.Engine, ctx.PrintOptions()); err != nil {
		ctx.Logger.Fatal().Err(err).Msg("rendering chart")
	}
	ctx.Logger.Info().Str("path", path).Msg("chart written")
}

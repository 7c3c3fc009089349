package cmd

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sapmachine/vitals/pkg/serving"
)

// Serve runs the sampling loop and the HTTP endpoints until interrupted.
func Serve(args []string) {
	ctx, cleanup := InitCmd("serve", args)
	defer cleanup()

	runCtx, cancel := signalContext(ctx.Config.Duration)
	defer cancel()

	trigger := ctx.HighMemTrigger()
	server := serving.New(ctx.Config.Addr, ctx.Engine, ctx.PrintOptions(), ctx.Logger)

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
	g.Go(func() error {
		return server.Run(runCtx)
	})

	if err := g.Wait(); err != nil {
		ctx.Logger.Fatal().Err(err).Msg("server failed")
	}
	exportWindow(ctx)
}

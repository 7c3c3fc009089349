package cmd

import (
	"os"

	"github.com/sapmachine/vitals/pkg/reporting"
)

// Snapshot takes one sample and prints it as a name/value listing.
func Snapshot(args []string) {
	ctx, cleanup := InitCmd("snapshot", args)
	defer cleanup()

	opts := ctx.PrintOptions()
	opts.SampleNow = true
	if err := reporting.WriteSnapshot(os.Stdout, ctx.Engine, opts); err != nil {
		ctx.Logger.Fatal().Err(err).Msg("rendering snapshot")
	}
}

// Legend prints the column reference for the enabled samplers on this
// platform.
func Legend(args []string) {
	ctx, cleanup := InitCmd("legend", args)
	defer cleanup()

	if err := reporting.Legend(os.Stdout, ctx.Engine); err != nil {
		ctx.Logger.Fatal().Err(err).Msg("rendering legend")
	}
}

/*
Package cli provides helpers shared by the tollgate command: typed errors
with exit codes, signal-aware contexts and output formatters.

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := app.Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

Configuration problems are reported as *ConfigError so that main can exit
with ExitConfig rather than the generic failure code.
*/
package cli

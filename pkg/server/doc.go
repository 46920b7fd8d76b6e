// Package server assembles Tollgate from its configuration and runs it.
//
// Server owns the HTTP side: a chi router with the ambient middleware chain,
// one protected route per configured route, the operational endpoints and
// the Prometheus handler. App owns everything else a running gateway needs:
// the tracker, the decision journal with its recorder and pruner, and the
// configuration watcher that swaps in new quota groups.
//
//	cfg, _ := config.LoadConfigWithEnvOverrides("config.yaml")
//	app, err := server.NewApp(cfg, "config.yaml")
//	if err != nil {
//	    return err
//	}
//	return app.Run(ctx)
//
// Routes are fixed at startup. A reload replaces quota groups only; records
// already created keep the quota they captured.
package server

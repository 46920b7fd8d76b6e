package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/cli"
	"mercator-hq/tollgate/pkg/config"
	"mercator-hq/tollgate/pkg/server"
	"mercator-hq/tollgate/pkg/telemetry/health"
	"mercator-hq/tollgate/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Tollgate gateway",
	Long: `Start the Tollgate gateway with the specified configuration.

The gateway serves every configured route behind the quota middleware, plus
/health, /ready, /version, /capabilities and the Prometheus metrics endpoint.
SIGHUP reloads quota groups from the configuration file.

Examples:
  # Start with default config
  tollgate run

  # Override listen address
  tollgate run --listen 0.0.0.0:8080

  # Validate config without starting the gateway
  tollgate run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.WrapConfigError(err)
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(err)
	}

	logger, err := logging.New(logging.Config{
		Level:           cfg.Telemetry.Logging.Level,
		Format:          cfg.Telemetry.Logging.Format,
		AddSource:       cfg.Telemetry.Logging.AddSource,
		RedactConsumers: cfg.RedactLogConsumers(),
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	app, err := server.NewApp(cfg, cfgFile, server.WithVersionInfo(health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	}))
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	hup, stopHUP := cli.ReloadSignals()
	defer stopHUP()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				if err := app.Reload(); err != nil {
					slog.Error("reload on SIGHUP failed", "error", err)
				}
			}
		}
	}()

	if err := app.Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

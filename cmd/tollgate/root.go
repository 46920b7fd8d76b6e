package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/cli"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "tollgate",
	Short: "Tollgate - quota admission gateway",
	Long: `Tollgate admits or rejects HTTP requests against named quota groups.

Each consumer gets a fixed allowance per time window. Requests that would
exceed it are answered with 429 Too Many Requests and a Retry-After header;
admitted requests carry Request-Quota, Request-Cost and Remaining headers.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
}

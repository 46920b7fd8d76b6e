package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/tollgate/pkg/cli"
	"mercator-hq/tollgate/pkg/config"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file with environment overrides, report every
validation error, and print the resulting quota groups and routes.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format (text, json)")
}

// validateSummary is what validate prints for a valid configuration.
type validateSummary struct {
	Valid    bool                 `json:"valid"`
	Window   string               `json:"window"`
	Consumer string               `json:"consumer_strategy"`
	Groups   []groupSummary       `json:"groups"`
	Routes   []config.RouteConfig `json:"routes"`
}

type groupSummary struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
	Cost  int64  `json:"cost,omitempty"`
}

func (s validateSummary) String() string {
	var sb strings.Builder
	sb.WriteString("✓ Configuration valid\n")
	fmt.Fprintf(&sb, "  window: %s, consumer: %s\n", s.Window, s.Consumer)
	sb.WriteString("  quota groups:\n")
	for _, g := range s.Groups {
		fmt.Fprintf(&sb, "    %-16s total=%d cost=%d\n", g.Name, g.Total, g.Cost)
	}
	sb.WriteString("  routes:\n")
	for _, r := range s.Routes {
		cost := "group"
		if c, ok := r.CostOverride(); ok {
			cost = fmt.Sprint(c)
		}
		fmt.Fprintf(&sb, "    %-7s %-24s group=%s cost=%s status=%d\n", r.Method, r.Path, r.Group, cost, r.Status)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func runValidate(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(validateFlags.output))
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.WrapConfigError(err)
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return cli.WrapConfigError(err)
	}

	summary := validateSummary{
		Valid:    true,
		Window:   cfg.Window.Duration.String(),
		Consumer: cfg.Consumer.Strategy,
		Routes:   cfg.Routes,
	}
	for _, name := range catalog.Names() {
		g, _ := catalog.Resolve(name)
		summary.Groups = append(summary.Groups, groupSummary{Name: name, Total: g.Total, Cost: g.Cost})
	}

	return formatter.FormatTo(cmd.OutOrStdout(), summary)
}

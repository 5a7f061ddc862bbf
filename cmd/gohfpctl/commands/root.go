package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hfpstack/gohfp/internal/config"
)

var (
	// cfg is the loaded configuration, populated in PersistentPreRunE.
	cfg *config.Config

	// configPath is the path to a YAML configuration file; empty uses
	// built-in defaults.
	configPath string

	// outputFormat selects table or json output; only the indicators
	// command reads it.
	outputFormat string
)

// rootCmd is the top-level cobra command for gohfpctl.
var rootCmd = &cobra.Command{
	Use:   "gohfpctl",
	Short: "Inspect and exercise the gohfp Hands-Free Profile core",
	Long:  "gohfpctl loads gohfp's configuration and indicator templates and drives a local session against an in-memory transport, without requiring a running daemon or a Bluetooth controller.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a gohfp configuration file (YAML); defaults to built-in defaults")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table, json")

	rootCmd.AddCommand(indicatorsCmd())
	rootCmd.AddCommand(sessionCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(shellCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

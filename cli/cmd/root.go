package cmd

import (
	"fmt"
	"os"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/internal/client"
	"github.com/pulsegraph-io/pulsegraph-stack/cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pgraph",
	Short: "PulseGraph Stack CLI",
	Long: `pgraph is the command-line interface for the PulseGraph event pipeline.

Submit events for processing, seed demo data, inspect queue depth, and view
analytics over processed results from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.pulsegraph/config.yaml)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
	rootCmd.PersistentFlags().String("output", "table", "output format: table, json")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = config.Default()
	}
}

// apiClient builds a client for the profile selected by the --profile flag.
func apiClient(cmd *cobra.Command) *client.Client {
	profile, _ := cmd.Flags().GetString("profile")
	return client.New(cfg.GetAPIURL(profile), cfg.GetToken(profile))
}

func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return format
}

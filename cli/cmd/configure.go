package cmd

import (
	"fmt"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/pkg/output"
	"github.com/spf13/cobra"
)

var (
	configureAPIURL  string
	configureToken   string
	configureProfile string
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save an API profile",
	Long: `Save the ingest API URL and token as a named profile.

Examples:
  pgraph configure --api-url http://localhost:8090 --token YOUR_TOKEN
  pgraph configure --profile staging --api-url https://api.staging.example.com --token YOUR_TOKEN`,
	RunE: runConfigure,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List saved profiles",
	Run: func(cmd *cobra.Command, args []string) {
		if len(cfg.Profiles) == 0 {
			output.Info("No profiles saved. Run 'pgraph configure' first.")
			return
		}
		table := output.NewTable([]string{"PROFILE", "API URL", "CURRENT"})
		for name, profile := range cfg.Profiles {
			current := ""
			if name == cfg.CurrentProfile {
				current = "*"
			}
			table.AddRow([]string{name, profile.APIURL, current})
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(profilesCmd)

	configureCmd.Flags().StringVar(&configureAPIURL, "api-url", "", "ingest API base URL")
	configureCmd.Flags().StringVarP(&configureToken, "token", "t", "", "API token")
	configureCmd.Flags().StringVar(&configureProfile, "name", "default", "profile name to save under")
	configureCmd.MarkFlagRequired("token")
}

func runConfigure(cmd *cobra.Command, args []string) error {
	apiURL := configureAPIURL
	if apiURL == "" {
		apiURL = cfg.GetAPIURL(configureProfile)
	}

	if err := cfg.SaveProfile(configureProfile, apiURL, configureToken); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	output.Success("Saved profile '%s' (%s)", configureProfile, apiURL)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/pkg/output"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "View analytics over processed results",
	Long:  "Summaries cover roughly the last hour of activity; older results expire from the cache.",
}

var analyticsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Pipeline overview: processed counts and queue depths",
	RunE:  analyticsView("dashboard"),
}

var analyticsLeadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Lead scoring summary",
	RunE:  analyticsView("leads"),
}

var analyticsBlockchainCmd = &cobra.Command{
	Use:   "blockchain",
	Short: "Blockchain event summary",
	RunE:  analyticsView("blockchain"),
}

var analyticsChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat sentiment and engagement summary",
	RunE:  analyticsView("chat"),
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.AddCommand(analyticsDashboardCmd)
	analyticsCmd.AddCommand(analyticsLeadsCmd)
	analyticsCmd.AddCommand(analyticsBlockchainCmd)
	analyticsCmd.AddCommand(analyticsChatCmd)
}

func analyticsView(view string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		result, err := apiClient(cmd).Analytics(view)
		if err != nil {
			return err
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(result)
		}

		if summary, ok := result["summary"].(map[string]interface{}); ok {
			table := output.NewTable([]string{"METRIC", "VALUE"})
			for key, value := range summary {
				table.AddRow([]string{key, fmt.Sprintf("%v", value)})
			}
			table.Render()
			return nil
		}
		return output.JSON(result)
	}
}

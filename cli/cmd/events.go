package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/pkg/output"
	"github.com/spf13/cobra"
)

var (
	eventsSendType string
	eventsSendData string
	recentType     string
	recentLimit    int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Submit and inspect pipeline events",
}

var eventsSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit one event for processing",
	Long: `Submit a single event to the pipeline.

Examples:
  pgraph events send --type lead_scoring --data '{"name":"Ada","email":"ada@acme.io"}'
  pgraph events send --type chat_analysis --data @message.json`,
	RunE: runEventsSend,
}

var eventsTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported event types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := apiClient(cmd).EventTypes()
		if err != nil {
			return err
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(map[string]interface{}{"event_types": types})
		}
		for _, t := range types {
			output.Info("  %s", t)
		}
		return nil
	},
}

var eventsQueueStatusCmd = &cobra.Command{
	Use:   "queue-status",
	Short: "Show pending event counts per queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient(cmd).QueueStatus()
		if err != nil {
			return err
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(status)
		}
		table := output.NewTable([]string{"EVENT TYPE", "QUEUE", "PENDING"})
		for eventType, info := range status {
			table.AddRow([]string{eventType, info.QueueName, strconv.FormatInt(info.PendingEvents, 10)})
		}
		table.Render()
		return nil
	},
}

var eventsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently processed results",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := apiClient(cmd).Recent(recentType, recentLimit)
		if err != nil {
			return err
		}

		if outputFormat(cmd) == "json" {
			return output.JSON(events)
		}
		table := output.NewTable([]string{"ID", "TYPE", "WORKER", "PROCESSED AT"})
		for _, evt := range events {
			table.AddRow([]string{
				stringField(evt, "id"),
				stringField(evt, "type"),
				stringField(evt, "worker"),
				stringField(evt, "processed_at"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsSendCmd)
	eventsCmd.AddCommand(eventsTypesCmd)
	eventsCmd.AddCommand(eventsQueueStatusCmd)
	eventsCmd.AddCommand(eventsRecentCmd)

	eventsSendCmd.Flags().StringVar(&eventsSendType, "type", "", "event type")
	eventsSendCmd.Flags().StringVar(&eventsSendData, "data", "", "event data as JSON, or @file to read from disk")
	eventsSendCmd.MarkFlagRequired("type")
	eventsSendCmd.MarkFlagRequired("data")

	eventsRecentCmd.Flags().StringVar(&recentType, "type", "", "filter by event type")
	eventsRecentCmd.Flags().IntVar(&recentLimit, "limit", 10, "maximum results to return")
}

func runEventsSend(cmd *cobra.Command, args []string) error {
	raw := []byte(eventsSendData)
	if len(eventsSendData) > 0 && eventsSendData[0] == '@' {
		var err error
		raw, err = os.ReadFile(eventsSendData[1:])
		if err != nil {
			return fmt.Errorf("failed to read data file: %w", err)
		}
	}

	var data map[string]interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid event data: %w", err)
	}

	ack, err := apiClient(cmd).SendEvent(eventsSendType, data)
	if err != nil {
		return err
	}

	output.Success("Queued %s on %s (ready in ~%s)", ack.EventID, ack.Queue, ack.EstimatedProcessingTime)
	return nil
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

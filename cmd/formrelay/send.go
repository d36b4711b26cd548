package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"

	"github.com/tuannvm/formrelay/internal/common"
)

var (
	agentURL    string
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send [fields-file]",
	Short: "Submit a fields file to a running report agent over A2A",
	Long: `Send a JSON object of submission fields to a running formrelay agent
(serve --agent) and print the report it returns. The agent relays the
report to its configured sinks.

Examples:
  formrelay send submission.json
  formrelay send --agent-url http://relay.internal:8081 submission.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&agentURL, "agent-url", "", "agent URL (default agent.url)")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", time.Minute, "request timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	// Validate locally before the round trip
	if _, err := common.SubmissionFromJSON(raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	target := agentURL
	if target == "" {
		target = cfg.AgentURL
	}
	a2aClient, err := common.SetupA2AClient(cfg, target)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), sendTimeout)
	defer cancel()

	params := protocol.SendTaskParams{
		ID: uuid.NewString(),
		Message: protocol.Message{
			Parts: []protocol.Part{protocol.NewTextPart(string(raw))},
		},
	}
	msg, err := common.SendTask(ctx, a2aClient, params)
	if err != nil {
		return err
	}

	rep, err := common.ReportFromMessage(msg)
	if err != nil {
		return fmt.Errorf("agent returned no report: %w", err)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

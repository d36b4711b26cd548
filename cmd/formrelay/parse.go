package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannvm/formrelay/internal/common"
	"github.com/tuannvm/formrelay/internal/report"
)

var parseCmd = &cobra.Command{
	Use:   "parse [fields-file]",
	Short: "Print the report for a submission without sending it",
	Long: `Read a JSON object of submission fields (formTitle, pretty, rawRequest, ...)
from a file, or stdin when the file is "-", and print the resulting report
as JSON. Nothing is sent to Slack or Jira.

Examples:
  formrelay parse submission.json
  echo '{"formTitle":"Contact","pretty":"Name: Ann"}' | formrelay parse -`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	sub, err := common.SubmissionFromJSON(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	fields, err := sub.Resolve(cmd.Context())
	if err != nil {
		return err
	}

	rep := report.NewBuilder(cfg.FormHost).Build(fields, nil)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}

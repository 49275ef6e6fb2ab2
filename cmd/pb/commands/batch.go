package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errBatchHadFailures = errors.New("batch completed with failures")

// NewBatchCommand creates the batch command group.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run batched operations",
		Long:  "Execute a sequence of operations strictly in order with per-operation failure isolation",
	}

	cmd.AddCommand(newBatchRunCommand())

	return cmd
}

func newBatchRunCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a batch file",
		Long: `Run the operations listed in a YAML batch file, in order.

Each entry names a method and path, with optional id, body, and params:

  - id: create-feature
    method: POST
    path: /features
    body:
      name: Dark mode
      parent:
        component:
          id: comp-1
  - method: GET
    path: /features
    params:
      pageLimit: "10"

A failing operation is reported in its result slot; later operations still
run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading batch file: %w", err)
			}

			var operations []productboard.BatchOperation

			err = yaml.Unmarshal(data, &operations)
			if err != nil {
				return fmt.Errorf("parsing batch file: %w", err)
			}

			if len(operations) == 0 {
				return constants.ErrBatchFileEmpty
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			results := client.RunBatch(cmd.Context(), operations)

			err = renderOutput(results, renderBatchResultsTable)
			if err != nil {
				return err
			}

			for _, result := range results {
				if !result.Success {
					return fmt.Errorf("%w: %d of %d operations failed", errBatchHadFailures, countFailures(results), len(results))
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML batch file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func countFailures(results []productboard.BatchResult) int {
	failures := 0

	for _, result := range results {
		if !result.Success {
			failures++
		}
	}

	return failures
}

func renderBatchResultsTable(results []productboard.BatchResult) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "ID", "Success", "Duration", "Error")

	for index, result := range results {
		_ = table.Append(
			fmt.Sprintf("%d", index+1),
			valueOrNone(result.ID),
			fmt.Sprintf("%t", result.Success),
			result.Duration.String(),
			valueOrNone(result.Error),
		)
	}

	_ = table.Render()

	return nil
}

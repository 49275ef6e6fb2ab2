package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewObjectivesCommand creates the objectives command group, including the
// key-results subgroup.
func NewObjectivesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objectives",
		Aliases: []string{"objective", "obj"},
		Short:   "Manage objectives",
		Long:    "Manage strategic objectives and their key results",
	}

	cmd.AddCommand(newObjectivesListCommand())
	cmd.AddCommand(newObjectivesGetCommand())
	cmd.AddCommand(newObjectivesCreateCommand())
	cmd.AddCommand(newObjectivesUpdateCommand())
	cmd.AddCommand(newObjectivesDeleteCommand())
	cmd.AddCommand(newKeyResultsCommand())

	return cmd
}

func newObjectivesListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			objectives, err := client.Objectives().List(cmd.Context(), listParams(limit, nil))
			if err != nil {
				return fmt.Errorf("failed to list objectives: %w", err)
			}

			return renderOutput(objectives, renderObjectivesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func renderObjectivesTable(objectives []productboard.Objective) error {
	if len(objectives) == 0 {
		_, _ = os.Stdout.WriteString("No objectives found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "State", "Owner")

	for _, objective := range objectives {
		owner := constants.None
		if objective.Owner != nil {
			owner = objective.Owner.Email
		}

		_ = table.Append(objective.ID, truncate(objective.Name, 40), valueOrNone(objective.State), owner)
	}

	_ = table.Render()

	return nil
}

func newObjectivesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get OBJECTIVE_ID",
		Short: "Get an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			objective, err := client.Objectives().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get objective: %w", err)
			}

			return renderOutput(objective, func(o *productboard.Objective) error {
				return renderObjectivesTable([]productboard.Objective{*o})
			})
		},
	}
}

func newObjectivesCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		ownerEmail  string
		startDate   string
		endDate     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an objective",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return constants.ErrNameRequired
			}

			request := &productboard.ObjectiveCreateRequest{
				Name:        name,
				Description: description,
			}

			if ownerEmail != "" {
				request.Owner = &productboard.EmailRef{Email: ownerEmail}
			}

			if startDate != "" || endDate != "" {
				request.Timeframe = &productboard.Timeframe{StartDate: startDate, EndDate: endDate}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			objective, err := client.Objectives().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create objective: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created objective %s\n", objective.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "objective name (required)")
	cmd.Flags().StringVar(&description, "description", "", "objective description")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "owner email")
	cmd.Flags().StringVar(&startDate, "start-date", "", "timeframe start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "timeframe end (YYYY-MM-DD)")

	return cmd
}

func newObjectivesUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		state       string
		ownerEmail  string
	)

	cmd := &cobra.Command{
		Use:   "update OBJECTIVE_ID",
		Short: "Update an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.ObjectiveUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			if cmd.Flags().Changed("state") {
				request.State = &state
			}

			if ownerEmail != "" {
				request.Owner = &productboard.EmailRef{Email: ownerEmail}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			objective, err := client.Objectives().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update objective: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated objective %s\n", objective.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&state, "state", "", "new state")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "new owner email")

	return cmd
}

func newObjectivesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete OBJECTIVE_ID",
		Short: "Delete an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Objectives().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete objective: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted objective %s\n", args[0])

			return nil
		},
	}
}

func newKeyResultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "key-results",
		Aliases: []string{"kr"},
		Short:   "Manage key results",
	}

	cmd.AddCommand(newKeyResultsListCommand())
	cmd.AddCommand(newKeyResultsGetCommand())
	cmd.AddCommand(newKeyResultsUpdateCommand())

	return cmd
}

func newKeyResultsListCommand() *cobra.Command {
	var objectiveID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List key results",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(0, map[string]string{
				"objective.id": objectiveID,
			})

			keyResults, err := client.KeyResults().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list key results: %w", err)
			}

			return renderOutput(keyResults, renderKeyResultsTable)
		},
	}

	cmd.Flags().StringVar(&objectiveID, "objective", "", "filter by objective ID")

	return cmd
}

func renderKeyResultsTable(keyResults []productboard.KeyResult) error {
	if len(keyResults) == 0 {
		_, _ = os.Stdout.WriteString("No key results found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Current", "Target")

	for _, keyResult := range keyResults {
		_ = table.Append(keyResult.ID, truncate(keyResult.Name, 40), formatFloat(keyResult.CurrentValue), formatFloat(keyResult.TargetValue))
	}

	_ = table.Render()

	return nil
}

func formatFloat(value *float64) string {
	if value == nil {
		return constants.None
	}

	return fmt.Sprintf("%g", *value)
}

func newKeyResultsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY_RESULT_ID",
		Short: "Get a key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			keyResult, err := client.KeyResults().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get key result: %w", err)
			}

			return renderOutput(keyResult, func(kr *productboard.KeyResult) error {
				return renderKeyResultsTable([]productboard.KeyResult{*kr})
			})
		},
	}
}

func newKeyResultsUpdateCommand() *cobra.Command {
	var (
		name         string
		currentValue float64
		targetValue  float64
	)

	cmd := &cobra.Command{
		Use:   "update KEY_RESULT_ID",
		Short: "Update a key result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.KeyResultUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("current") {
				request.CurrentValue = &currentValue
			}

			if cmd.Flags().Changed("target") {
				request.TargetValue = &targetValue
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			keyResult, err := client.KeyResults().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update key result: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated key result %s\n", keyResult.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().Float64Var(&currentValue, "current", 0, "new current value")
	cmd.Flags().Float64Var(&targetValue, "target", 0, "new target value")

	return cmd
}

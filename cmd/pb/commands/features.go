package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewFeaturesCommand creates the features command group.
func NewFeaturesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "features",
		Aliases: []string{"feature", "feat"},
		Short:   "Manage features",
		Long:    "List, get, create, update, and delete features",
	}

	cmd.AddCommand(newFeaturesListCommand())
	cmd.AddCommand(newFeaturesGetCommand())
	cmd.AddCommand(newFeaturesCreateCommand())
	cmd.AddCommand(newFeaturesUpdateCommand())
	cmd.AddCommand(newFeaturesDeleteCommand())

	return cmd
}

func newFeaturesListCommand() *cobra.Command {
	var (
		limit      int
		statusName string
		ownerEmail string
		archived   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List features",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(limit, map[string]string{
				"status.name": statusName,
				"owner.email": ownerEmail,
				"archived":    archived,
			})

			features, err := client.Features().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list features: %w", err)
			}

			return renderOutput(features, renderFeaturesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&statusName, "status-name", "", "filter by status name")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "filter by owner email")
	cmd.Flags().StringVar(&archived, "archived", "", "filter by archived state (true/false)")

	return cmd
}

func renderFeaturesTable(features []productboard.Feature) error {
	if len(features) == 0 {
		_, _ = os.Stdout.WriteString("No features found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Status", "Owner", "Updated")

	for _, feature := range features {
		status := constants.None
		if feature.Status != nil {
			status = feature.Status.Name
		}

		owner := constants.None
		if feature.Owner != nil {
			owner = feature.Owner.Email
		}

		_ = table.Append(feature.ID, truncate(feature.Name, 40), status, owner, formatTime(feature.UpdatedAt))
	}

	_ = table.Render()

	return nil
}

func newFeaturesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FEATURE_ID",
		Short: "Get a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			feature, err := client.Features().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get feature: %w", err)
			}

			return renderOutput(feature, renderFeatureDetail)
		},
	}
}

func renderFeatureDetail(feature *productboard.Feature) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	_ = table.Append("ID", feature.ID)
	_ = table.Append("Name", feature.Name)
	_ = table.Append("Description", truncate(feature.Description, 80))

	if feature.Status != nil {
		_ = table.Append("Status", feature.Status.Name)
	}

	if feature.Owner != nil {
		_ = table.Append("Owner", feature.Owner.Email)
	}

	if feature.Timeframe != nil {
		_ = table.Append("Timeframe", feature.Timeframe.StartDate+" to "+feature.Timeframe.EndDate)
	}

	_ = table.Append("Archived", fmt.Sprintf("%t", feature.Archived))
	_ = table.Append("Created", formatTime(feature.CreatedAt))
	_ = table.Append("Updated", formatTime(feature.UpdatedAt))

	_ = table.Render()

	return nil
}

func newFeaturesCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		statusName  string
		componentID string
		productID   string
		ownerEmail  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a feature",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return constants.ErrNameRequired
			}

			request := &productboard.FeatureCreateRequest{
				Name:        name,
				Description: description,
			}

			switch {
			case componentID != "":
				request.Parent = &productboard.Parent{Component: &productboard.IDRef{ID: componentID}}
			case productID != "":
				request.Parent = &productboard.Parent{Product: &productboard.IDRef{ID: productID}}
			default:
				return constants.ErrParentRequired
			}

			if statusName != "" {
				request.Status = &productboard.StatusRef{Name: statusName}
			}

			if ownerEmail != "" {
				request.Owner = &productboard.EmailRef{Email: ownerEmail}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			feature, err := client.Features().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create feature: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created feature %s\n", feature.ID)

			return renderOutput(feature, renderFeatureDetail)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "feature name (required)")
	cmd.Flags().StringVar(&description, "description", "", "feature description")
	cmd.Flags().StringVar(&statusName, "status-name", "", "initial status name")
	cmd.Flags().StringVar(&componentID, "component", "", "parent component ID")
	cmd.Flags().StringVar(&productID, "product", "", "parent product ID")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "owner email")

	return cmd
}

func newFeaturesUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		statusName  string
		ownerEmail  string
		archive     bool
		unarchive   bool
	)

	cmd := &cobra.Command{
		Use:   "update FEATURE_ID",
		Short: "Update a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.FeatureUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			if statusName != "" {
				request.Status = &productboard.StatusRef{Name: statusName}
			}

			if ownerEmail != "" {
				request.Owner = &productboard.EmailRef{Email: ownerEmail}
			}

			if archive || unarchive {
				archived := archive
				request.Archived = &archived
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			feature, err := client.Features().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update feature: %w", err)
			}

			return renderOutput(feature, renderFeatureDetail)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&statusName, "status-name", "", "new status name")
	cmd.Flags().StringVar(&ownerEmail, "owner-email", "", "new owner email")
	cmd.Flags().BoolVar(&archive, "archive", false, "archive the feature")
	cmd.Flags().BoolVar(&unarchive, "unarchive", false, "unarchive the feature")

	return cmd
}

func newFeaturesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete FEATURE_ID",
		Short: "Delete a feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Features().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete feature: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted feature %s\n", args[0])

			return nil
		},
	}
}

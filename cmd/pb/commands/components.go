package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewComponentsCommand creates the components command group. Components
// cannot be deleted through the API.
func NewComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"component", "comp"},
		Short:   "Manage components",
		Long:    "List, get, create, and update product components",
	}

	cmd.AddCommand(newComponentsListCommand())
	cmd.AddCommand(newComponentsGetCommand())
	cmd.AddCommand(newComponentsCreateCommand())
	cmd.AddCommand(newComponentsUpdateCommand())

	return cmd
}

func newComponentsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List components",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			components, err := client.Components().List(cmd.Context(), listParams(limit, nil))
			if err != nil {
				return fmt.Errorf("failed to list components: %w", err)
			}

			return renderOutput(components, renderComponentsTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func renderComponentsTable(components []productboard.Component) error {
	if len(components) == 0 {
		_, _ = os.Stdout.WriteString("No components found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Description", "Updated")

	for _, component := range components {
		_ = table.Append(component.ID, component.Name, truncate(component.Description, 50), formatTime(component.UpdatedAt))
	}

	_ = table.Render()

	return nil
}

func newComponentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get COMPONENT_ID",
		Short: "Get a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			component, err := client.Components().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get component: %w", err)
			}

			return renderOutput(component, func(c *productboard.Component) error {
				return renderComponentsTable([]productboard.Component{*c})
			})
		},
	}
}

func newComponentsCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		productID   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a component",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return constants.ErrNameRequired
			}

			request := &productboard.ComponentCreateRequest{
				Name:        name,
				Description: description,
			}

			if productID != "" {
				request.Parent = &productboard.Parent{Product: &productboard.IDRef{ID: productID}}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			component, err := client.Components().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create component: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created component %s\n", component.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "component name (required)")
	cmd.Flags().StringVar(&description, "description", "", "component description")
	cmd.Flags().StringVar(&productID, "product", "", "parent product ID")

	return cmd
}

func newComponentsUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update COMPONENT_ID",
		Short: "Update a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.ComponentUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			component, err := client.Components().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update component: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated component %s\n", component.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}

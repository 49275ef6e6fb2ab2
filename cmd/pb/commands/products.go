package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command group. Products are
// created in the service itself, so only list, get, and update are exposed.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "prod"},
		Short:   "Manage products",
		Long:    "List, get, and update top-level products, and inspect the feature-status workflow",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())
	cmd.AddCommand(newProductsUpdateCommand())
	cmd.AddCommand(newStatusesCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			products, err := client.Products().List(cmd.Context(), listParams(limit, nil))
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			return renderOutput(products, renderProductsTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func renderProductsTable(products []productboard.Product) error {
	if len(products) == 0 {
		_, _ = os.Stdout.WriteString("No products found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Description", "Updated")

	for _, product := range products {
		_ = table.Append(product.ID, product.Name, truncate(product.Description, 50), formatTime(product.UpdatedAt))
	}

	_ = table.Render()

	return nil
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID",
		Short: "Get a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			product, err := client.Products().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			return renderOutput(product, func(p *productboard.Product) error {
				return renderProductsTable([]productboard.Product{*p})
			})
		},
	}
}

func newProductsUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update PRODUCT_ID",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.ProductUpdateRequest{}

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

			product, err := client.Products().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated product %s\n", product.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}

func newStatusesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List feature statuses",
		Long:  "List the columns of the feature-status workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			statuses, err := client.Statuses().List(cmd.Context(), nil)
			if err != nil {
				return fmt.Errorf("failed to list statuses: %w", err)
			}

			return renderOutput(statuses, func(items []productboard.Status) error {
				if len(items) == 0 {
					_, _ = os.Stdout.WriteString("No statuses found\n")

					return nil
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name")

				for _, status := range items {
					_ = table.Append(status.ID, status.Name)
				}

				_ = table.Render()

				return nil
			})
		},
	}
}

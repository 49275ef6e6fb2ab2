package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewCompaniesCommand creates the companies command group.
func NewCompaniesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage customer companies",
	}

	cmd.AddCommand(newCompaniesListCommand())
	cmd.AddCommand(newCompaniesGetCommand())
	cmd.AddCommand(newCompaniesCreateCommand())
	cmd.AddCommand(newCompaniesDeleteCommand())

	return cmd
}

func newCompaniesListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			companies, err := client.Companies().List(cmd.Context(), listParams(limit, nil))
			if err != nil {
				return fmt.Errorf("failed to list companies: %w", err)
			}

			return renderOutput(companies, renderCompaniesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func renderCompaniesTable(companies []productboard.Company) error {
	if len(companies) == 0 {
		_, _ = os.Stdout.WriteString("No companies found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Domain")

	for _, company := range companies {
		_ = table.Append(company.ID, company.Name, valueOrNone(company.Domain))
	}

	_ = table.Render()

	return nil
}

func newCompaniesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get COMPANY_ID",
		Short: "Get a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			company, err := client.Companies().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get company: %w", err)
			}

			return renderOutput(company, func(c *productboard.Company) error {
				return renderCompaniesTable([]productboard.Company{*c})
			})
		},
	}
}

func newCompaniesCreateCommand() *cobra.Command {
	var (
		name        string
		domain      string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return constants.ErrNameRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			company, err := client.Companies().Create(cmd.Context(), &productboard.CompanyCreateRequest{
				Name:        name,
				Domain:      domain,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created company %s\n", company.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	cmd.Flags().StringVar(&domain, "domain", "", "company domain")
	cmd.Flags().StringVar(&description, "description", "", "company description")

	return cmd
}

func newCompaniesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete COMPANY_ID",
		Short: "Delete a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Companies().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete company: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted company %s\n", args[0])

			return nil
		},
	}
}

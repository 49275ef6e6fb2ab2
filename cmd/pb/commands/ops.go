package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewOpsCommand creates the ops command group for the gated operation
// catalog.
func NewOpsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Work with the operation catalog",
		Long:  "List registered operations and invoke them by name through the permission gate",
	}

	cmd.AddCommand(newOpsListCommand())
	cmd.AddCommand(newOpsInvokeCommand())

	return cmd
}

func newOpsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			return renderOutput(client.Operations(), renderOperationsTable)
		},
	}
}

func renderOperationsTable(operations []productboard.OperationDescriptor) error {
	if len(operations) == 0 {
		_, _ = os.Stdout.WriteString("No operations registered\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Description", "Min Level", "Permissions")

	for _, operation := range operations {
		permissions := constants.None
		if len(operation.Permissions.RequiredPermissions) > 0 {
			names := make([]string, 0, len(operation.Permissions.RequiredPermissions))
			for _, permission := range operation.Permissions.RequiredPermissions {
				names = append(names, string(permission))
			}

			permissions = strings.Join(names, ", ")
		}

		_ = table.Append(
			operation.Name,
			truncate(operation.Description, 50),
			operation.Permissions.MinimumAccessLevel.String(),
			permissions,
		)
	}

	_ = table.Render()

	return nil
}

func newOpsInvokeCommand() *cobra.Command {
	var (
		paramsJSON  string
		accessLevel string
		permissions []string
	)

	cmd := &cobra.Command{
		Use:   "invoke OPERATION",
		Short: "Invoke an operation by name",
		Long: `Invoke a registered operation through the permission gate.

The caller identity is described by --access-level and --permission; the
operation runs only when both the level and the permission set admit it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" {
				return constants.ErrOperationRequired
			}

			level, err := productboard.ParseAccessLevel(accessLevel)
			if err != nil {
				return fmt.Errorf("%w: %s", constants.ErrInvalidAccessLevel, accessLevel)
			}

			caller := &productboard.CallerPermissions{AccessLevel: level}
			for _, permission := range permissions {
				caller.Permissions = append(caller.Permissions, productboard.Permission(strings.TrimSpace(permission)))
			}

			var params map[string]interface{}

			if paramsJSON != "" {
				err = json.Unmarshal([]byte(paramsJSON), &params)
				if err != nil {
					return fmt.Errorf("%w: %v", constants.ErrParamsNotJSON, err)
				}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Execute(cmd.Context(), caller, name, params)
			if err != nil {
				return fmt.Errorf("operation failed: %w", err)
			}

			return renderOutput(result, StandardJSONRenderer[interface{}])
		},
	}

	cmd.Flags().StringVar(&paramsJSON, "params", "", "operation parameters as a JSON object")
	cmd.Flags().StringVar(&accessLevel, "access-level", "read", "caller access level (read, write, delete, admin)")
	cmd.Flags().StringSliceVar(&permissions, "permissions", nil, "capabilities held by the caller (comma-separated or repeated)")

	return cmd
}

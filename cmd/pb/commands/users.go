package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewUsersCommand creates the users command group.
func NewUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage feedback-submitting users",
	}

	cmd.AddCommand(newUsersListCommand())
	cmd.AddCommand(newUsersGetCommand())
	cmd.AddCommand(newUsersCreateCommand())
	cmd.AddCommand(newUsersDeleteCommand())

	return cmd
}

func newUsersListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			users, err := client.Users().List(cmd.Context(), listParams(limit, nil))
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			return renderOutput(users, renderUsersTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")

	return cmd
}

func renderUsersTable(users []productboard.User) error {
	if len(users) == 0 {
		_, _ = os.Stdout.WriteString("No users found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Email", "Name", "Role")

	for _, user := range users {
		_ = table.Append(user.ID, user.Email, valueOrNone(user.Name), valueOrNone(user.Role))
	}

	_ = table.Render()

	return nil
}

func newUsersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			return renderOutput(user, func(u *productboard.User) error {
				return renderUsersTable([]productboard.User{*u})
			})
		},
	}
}

func newUsersCreateCommand() *cobra.Command {
	var (
		email string
		name  string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return constants.ErrEmailRequired
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			user, err := client.Users().Create(cmd.Context(), &productboard.UserCreateRequest{
				Email: email,
				Name:  name,
				Role:  role,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created user %s\n", user.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "user email (required)")
	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&role, "role", "", "user role")

	return cmd
}

func newUsersDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete USER_ID",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Users().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted user %s\n", args[0])

			return nil
		},
	}
}

package commands

import (
	"fmt"
	"os"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewReleasesCommand creates the releases command group, including the
// release-groups and assignments subgroups.
func NewReleasesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "releases",
		Aliases: []string{"release", "rel"},
		Short:   "Manage releases",
		Long:    "Manage releases, release groups, and feature-release assignments",
	}

	cmd.AddCommand(newReleasesListCommand())
	cmd.AddCommand(newReleasesGetCommand())
	cmd.AddCommand(newReleasesCreateCommand())
	cmd.AddCommand(newReleasesUpdateCommand())
	cmd.AddCommand(newReleasesDeleteCommand())
	cmd.AddCommand(newReleaseGroupsCommand())
	cmd.AddCommand(newAssignmentsCommand())

	return cmd
}

func newReleasesListCommand() *cobra.Command {
	var (
		limit          int
		releaseGroupID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List releases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(limit, map[string]string{
				"releaseGroup.id": releaseGroupID,
			})

			releases, err := client.Releases().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list releases: %w", err)
			}

			return renderOutput(releases, renderReleasesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&releaseGroupID, "release-group", "", "filter by release group ID")

	return cmd
}

func renderReleasesTable(releases []productboard.Release) error {
	if len(releases) == 0 {
		_, _ = os.Stdout.WriteString("No releases found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "State", "Timeframe")

	for _, release := range releases {
		timeframe := constants.None
		if release.Timeframe != nil {
			timeframe = release.Timeframe.StartDate + " to " + release.Timeframe.EndDate
		}

		_ = table.Append(release.ID, release.Name, release.State, timeframe)
	}

	_ = table.Render()

	return nil
}

func newReleasesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RELEASE_ID",
		Short: "Get a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			release, err := client.Releases().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get release: %w", err)
			}

			return renderOutput(release, func(r *productboard.Release) error {
				return renderReleasesTable([]productboard.Release{*r})
			})
		},
	}
}

func newReleasesCreateCommand() *cobra.Command {
	var (
		name           string
		description    string
		state          string
		releaseGroupID string
		startDate      string
		endDate        string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a release",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return constants.ErrNameRequired
			}

			request := &productboard.ReleaseCreateRequest{
				Name:        name,
				Description: description,
				State:       state,
			}

			if releaseGroupID != "" {
				request.ReleaseGroup = &productboard.IDRef{ID: releaseGroupID}
			}

			if startDate != "" || endDate != "" {
				request.Timeframe = &productboard.Timeframe{StartDate: startDate, EndDate: endDate}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			release, err := client.Releases().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create release: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created release %s\n", release.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "release name (required)")
	cmd.Flags().StringVar(&description, "description", "", "release description")
	cmd.Flags().StringVar(&state, "state", "", "release state (upcoming, in_progress, completed)")
	cmd.Flags().StringVar(&releaseGroupID, "release-group", "", "release group ID")
	cmd.Flags().StringVar(&startDate, "start-date", "", "timeframe start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "timeframe end (YYYY-MM-DD)")

	return cmd
}

func newReleasesUpdateCommand() *cobra.Command {
	var (
		name        string
		description string
		state       string
	)

	cmd := &cobra.Command{
		Use:   "update RELEASE_ID",
		Short: "Update a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.ReleaseUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}

			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			if cmd.Flags().Changed("state") {
				request.State = &state
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			release, err := client.Releases().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update release: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated release %s\n", release.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&state, "state", "", "new state")

	return cmd
}

func newReleasesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RELEASE_ID",
		Short: "Delete a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Releases().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete release: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted release %s\n", args[0])

			return nil
		},
	}
}

func newReleaseGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage release groups",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List release groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			groups, err := client.ReleaseGroups().List(cmd.Context(), nil)
			if err != nil {
				return fmt.Errorf("failed to list release groups: %w", err)
			}

			return renderOutput(groups, renderReleaseGroupsTable)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get RELEASE_GROUP_ID",
		Short: "Get a release group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			group, err := client.ReleaseGroups().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get release group: %w", err)
			}

			return renderOutput(group, func(g *productboard.ReleaseGroup) error {
				return renderReleaseGroupsTable([]productboard.ReleaseGroup{*g})
			})
		},
	})

	return cmd
}

func renderReleaseGroupsTable(groups []productboard.ReleaseGroup) error {
	if len(groups) == 0 {
		_, _ = os.Stdout.WriteString("No release groups found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Default")

	for _, group := range groups {
		_ = table.Append(group.ID, group.Name, fmt.Sprintf("%t", group.IsDefault))
	}

	_ = table.Render()

	return nil
}

func newAssignmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assignment"},
		Short:   "Manage feature-release assignments",
	}

	cmd.AddCommand(newAssignmentsListCommand())
	cmd.AddCommand(newAssignmentsSetCommand())

	return cmd
}

func newAssignmentsListCommand() *cobra.Command {
	var (
		featureID string
		releaseID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feature-release assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(0, map[string]string{
				"feature.id": featureID,
				"release.id": releaseID,
			})

			assignments, err := client.FeatureReleaseAssignments().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list assignments: %w", err)
			}

			return renderOutput(assignments, renderAssignmentsTable)
		},
	}

	cmd.Flags().StringVar(&featureID, "feature", "", "filter by feature ID")
	cmd.Flags().StringVar(&releaseID, "release", "", "filter by release ID")

	return cmd
}

func renderAssignmentsTable(assignments []productboard.FeatureReleaseAssignment) error {
	if len(assignments) == 0 {
		_, _ = os.Stdout.WriteString("No assignments found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Feature", "Release", "Assigned")

	for _, assignment := range assignments {
		_ = table.Append(assignment.Feature.ID, assignment.Release.ID, fmt.Sprintf("%t", assignment.IsAssigned))
	}

	_ = table.Render()

	return nil
}

func newAssignmentsSetCommand() *cobra.Command {
	var unassign bool

	cmd := &cobra.Command{
		Use:   "set FEATURE_ID RELEASE_ID",
		Short: "Assign or unassign a feature to a release",
		Args:  cobra.ExactArgs(constants.KeyValueSplitParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			request := &productboard.FeatureReleaseAssignmentUpdateRequest{IsAssigned: !unassign}

			assignment, err := client.FeatureReleaseAssignments().Update(cmd.Context(), args[0], args[1], request)
			if err != nil {
				return fmt.Errorf("failed to update assignment: %w", err)
			}

			verb := "Assigned"
			if !assignment.IsAssigned {
				verb = "Unassigned"
			}

			_, _ = fmt.Fprintf(os.Stdout, "%s feature %s %s release %s\n", verb, args[0], assignmentPreposition(assignment.IsAssigned), args[1])

			return nil
		},
	}

	cmd.Flags().BoolVar(&unassign, "unassign", false, "remove the feature from the release")

	return cmd
}

func assignmentPreposition(assigned bool) string {
	if assigned {
		return "to"
	}

	return "from"
}

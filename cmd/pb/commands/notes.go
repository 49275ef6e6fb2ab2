package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewNotesCommand creates the notes command group.
func NewNotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note"},
		Short:   "Manage feedback notes",
		Long:    "List, get, create, update, and delete customer feedback notes",
	}

	cmd.AddCommand(newNotesListCommand())
	cmd.AddCommand(newNotesGetCommand())
	cmd.AddCommand(newNotesCreateCommand())
	cmd.AddCommand(newNotesUpdateCommand())
	cmd.AddCommand(newNotesDeleteCommand())

	return cmd
}

func newNotesListCommand() *cobra.Command {
	var (
		limit     int
		companyID string
		term      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			params := listParams(limit, map[string]string{
				"companyId": companyID,
				"term":      term,
			})

			notes, err := client.Notes().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list notes: %w", err)
			}

			return renderOutput(notes, renderNotesTable)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&companyID, "company", "", "filter by company ID")
	cmd.Flags().StringVar(&term, "term", "", "full-text search term")

	return cmd
}

func renderNotesTable(notes []productboard.Note) error {
	if len(notes) == 0 {
		_, _ = os.Stdout.WriteString("No notes found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Title", "Tags", "Created")

	for _, note := range notes {
		tags := constants.None
		if len(note.Tags) > 0 {
			tags = strings.Join(note.Tags, ", ")
		}

		_ = table.Append(note.ID, truncate(note.Title, 40), tags, formatTime(note.CreatedAt))
	}

	_ = table.Render()

	return nil
}

func newNotesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NOTE_ID",
		Short: "Get a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			note, err := client.Notes().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}

			return renderOutput(note, renderNoteDetail)
		},
	}
}

func renderNoteDetail(note *productboard.Note) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	_ = table.Append("ID", note.ID)
	_ = table.Append("Title", note.Title)
	_ = table.Append("Content", truncate(note.Content, 80))

	if note.Company != nil {
		_ = table.Append("Company", note.Company.ID)
	}

	if note.User != nil {
		_ = table.Append("User", note.User.ID)
	}

	if len(note.Tags) > 0 {
		_ = table.Append("Tags", strings.Join(note.Tags, ", "))
	}

	_ = table.Append("Created", formatTime(note.CreatedAt))
	_ = table.Append("Updated", formatTime(note.UpdatedAt))

	_ = table.Render()

	return nil
}

func newNotesCreateCommand() *cobra.Command {
	var (
		title     string
		content   string
		tags      []string
		companyID string
		userEmail string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" {
				return constants.ErrTitleRequired
			}

			if content == "" {
				return constants.ErrContentRequired
			}

			request := &productboard.NoteCreateRequest{
				Title:   title,
				Content: content,
				Tags:    tags,
			}

			if companyID != "" {
				request.Company = &productboard.IDRef{ID: companyID}
			}

			if userEmail != "" {
				request.User = &productboard.EmailRef{Email: userEmail}
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			note, err := client.Notes().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create note: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created note %s\n", note.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title (required)")
	cmd.Flags().StringVar(&content, "content", "", "note content (required)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag to attach (repeatable)")
	cmd.Flags().StringVar(&companyID, "company", "", "company ID to attach")
	cmd.Flags().StringVar(&userEmail, "user-email", "", "submitting user email")

	return cmd
}

func newNotesUpdateCommand() *cobra.Command {
	var (
		title   string
		content string
		tags    []string
	)

	cmd := &cobra.Command{
		Use:   "update NOTE_ID",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &productboard.NoteUpdateRequest{}

			if cmd.Flags().Changed("title") {
				request.Title = &title
			}

			if cmd.Flags().Changed("content") {
				request.Content = &content
			}

			if cmd.Flags().Changed("tag") {
				request.Tags = tags
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			note, err := client.Notes().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated note %s\n", note.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tag set (repeatable)")

	return cmd
}

func newNotesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NOTE_ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			_, err = client.Notes().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted note %s\n", args[0])

			return nil
		},
	}
}

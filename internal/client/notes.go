package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// NotesClient implements productboard.NotesClient.
type NotesClient struct {
	httpClient *http.Client
}

// NewNotesClient creates a new notes client.
func NewNotesClient(httpClient *http.Client) *NotesClient {
	return &NotesClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.NotesClient.Create.
func (c *NotesClient) Create(ctx context.Context, request *productboard.NoteCreateRequest) (*productboard.Note, error) {
	resp, err := c.httpClient.Post(ctx, "/notes", request)
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	return decodeResource[productboard.Note](resp.Body, "note")
}

// Get implements productboard.NotesClient.Get.
func (c *NotesClient) Get(ctx context.Context, noteID string) (*productboard.Note, error) {
	path := "/notes/" + noteID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}

	return decodeResource[productboard.Note](resp.Body, "note")
}

// List implements productboard.NotesClient.List.
func (c *NotesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Note, error) {
	notes, err := listAll[productboard.Note](ctx, c.httpClient, "/notes", params)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	return notes, nil
}

// Update implements productboard.NotesClient.Update.
func (c *NotesClient) Update(ctx context.Context, noteID string, request *productboard.NoteUpdateRequest) (*productboard.Note, error) {
	path := "/notes/" + noteID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating note: %w", err)
	}

	return decodeResource[productboard.Note](resp.Body, "note")
}

// Delete implements productboard.NotesClient.Delete.
func (c *NotesClient) Delete(ctx context.Context, noteID string) (*productboard.DeleteResult, error) {
	path := "/notes/" + noteID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting note: %w", err)
	}

	return decodeDeleteResult(resp.Body, noteID)
}

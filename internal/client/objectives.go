package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// ObjectivesClient implements productboard.ObjectivesClient.
type ObjectivesClient struct {
	httpClient *http.Client
}

// NewObjectivesClient creates a new objectives client.
func NewObjectivesClient(httpClient *http.Client) *ObjectivesClient {
	return &ObjectivesClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.ObjectivesClient.Create.
func (c *ObjectivesClient) Create(ctx context.Context, request *productboard.ObjectiveCreateRequest) (*productboard.Objective, error) {
	resp, err := c.httpClient.Post(ctx, "/objectives", request)
	if err != nil {
		return nil, fmt.Errorf("creating objective: %w", err)
	}

	return decodeResource[productboard.Objective](resp.Body, "objective")
}

// Get implements productboard.ObjectivesClient.Get.
func (c *ObjectivesClient) Get(ctx context.Context, objectiveID string) (*productboard.Objective, error) {
	path := "/objectives/" + objectiveID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting objective: %w", err)
	}

	return decodeResource[productboard.Objective](resp.Body, "objective")
}

// List implements productboard.ObjectivesClient.List.
func (c *ObjectivesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Objective, error) {
	objectives, err := listAll[productboard.Objective](ctx, c.httpClient, "/objectives", params)
	if err != nil {
		return nil, fmt.Errorf("listing objectives: %w", err)
	}

	return objectives, nil
}

// Update implements productboard.ObjectivesClient.Update.
func (c *ObjectivesClient) Update(ctx context.Context, objectiveID string, request *productboard.ObjectiveUpdateRequest) (*productboard.Objective, error) {
	path := "/objectives/" + objectiveID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating objective: %w", err)
	}

	return decodeResource[productboard.Objective](resp.Body, "objective")
}

// Delete implements productboard.ObjectivesClient.Delete.
func (c *ObjectivesClient) Delete(ctx context.Context, objectiveID string) (*productboard.DeleteResult, error) {
	path := "/objectives/" + objectiveID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting objective: %w", err)
	}

	return decodeDeleteResult(resp.Body, objectiveID)
}

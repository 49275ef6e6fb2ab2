package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// ReleasesClient implements productboard.ReleasesClient.
type ReleasesClient struct {
	httpClient *http.Client
}

// NewReleasesClient creates a new releases client.
func NewReleasesClient(httpClient *http.Client) *ReleasesClient {
	return &ReleasesClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.ReleasesClient.Create.
func (c *ReleasesClient) Create(ctx context.Context, request *productboard.ReleaseCreateRequest) (*productboard.Release, error) {
	resp, err := c.httpClient.Post(ctx, "/releases", request)
	if err != nil {
		return nil, fmt.Errorf("creating release: %w", err)
	}

	return decodeResource[productboard.Release](resp.Body, "release")
}

// Get implements productboard.ReleasesClient.Get.
func (c *ReleasesClient) Get(ctx context.Context, releaseID string) (*productboard.Release, error) {
	path := "/releases/" + releaseID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting release: %w", err)
	}

	return decodeResource[productboard.Release](resp.Body, "release")
}

// List implements productboard.ReleasesClient.List.
func (c *ReleasesClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.Release, error) {
	releases, err := listAll[productboard.Release](ctx, c.httpClient, "/releases", params)
	if err != nil {
		return nil, fmt.Errorf("listing releases: %w", err)
	}

	return releases, nil
}

// Update implements productboard.ReleasesClient.Update.
func (c *ReleasesClient) Update(ctx context.Context, releaseID string, request *productboard.ReleaseUpdateRequest) (*productboard.Release, error) {
	path := "/releases/" + releaseID

	resp, err := c.httpClient.Patch(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating release: %w", err)
	}

	return decodeResource[productboard.Release](resp.Body, "release")
}

// Delete implements productboard.ReleasesClient.Delete.
func (c *ReleasesClient) Delete(ctx context.Context, releaseID string) (*productboard.DeleteResult, error) {
	path := "/releases/" + releaseID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting release: %w", err)
	}

	return decodeDeleteResult(resp.Body, releaseID)
}

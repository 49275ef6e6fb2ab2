package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// ReleaseGroupsClient implements productboard.ReleaseGroupsClient.
type ReleaseGroupsClient struct {
	httpClient *http.Client
}

// NewReleaseGroupsClient creates a new release groups client.
func NewReleaseGroupsClient(httpClient *http.Client) *ReleaseGroupsClient {
	return &ReleaseGroupsClient{
		httpClient: httpClient,
	}
}

// Get implements productboard.ReleaseGroupsClient.Get.
func (c *ReleaseGroupsClient) Get(ctx context.Context, releaseGroupID string) (*productboard.ReleaseGroup, error) {
	path := "/release-groups/" + releaseGroupID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting release group: %w", err)
	}

	return decodeResource[productboard.ReleaseGroup](resp.Body, "release group")
}

// List implements productboard.ReleaseGroupsClient.List.
func (c *ReleaseGroupsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.ReleaseGroup, error) {
	groups, err := listAll[productboard.ReleaseGroup](ctx, c.httpClient, "/release-groups", params)
	if err != nil {
		return nil, fmt.Errorf("listing release groups: %w", err)
	}

	return groups, nil
}

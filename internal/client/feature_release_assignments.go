package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// FeatureReleaseAssignmentsClient implements
// productboard.FeatureReleaseAssignmentsClient. Assignments are addressed by
// the (feature, release) pair rather than by their own identifier.
type FeatureReleaseAssignmentsClient struct {
	httpClient *http.Client
}

// NewFeatureReleaseAssignmentsClient creates a new feature release
// assignments client.
func NewFeatureReleaseAssignmentsClient(httpClient *http.Client) *FeatureReleaseAssignmentsClient {
	return &FeatureReleaseAssignmentsClient{
		httpClient: httpClient,
	}
}

// List implements productboard.FeatureReleaseAssignmentsClient.List.
func (c *FeatureReleaseAssignmentsClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.FeatureReleaseAssignment, error) {
	assignments, err := listAll[productboard.FeatureReleaseAssignment](ctx, c.httpClient, "/feature-release-assignments", params)
	if err != nil {
		return nil, fmt.Errorf("listing feature release assignments: %w", err)
	}

	return assignments, nil
}

// Update implements productboard.FeatureReleaseAssignmentsClient.Update.
func (c *FeatureReleaseAssignmentsClient) Update(ctx context.Context, featureID, releaseID string, request *productboard.FeatureReleaseAssignmentUpdateRequest) (*productboard.FeatureReleaseAssignment, error) {
	query := url.Values{}
	query.Set("feature.id", featureID)
	query.Set("release.id", releaseID)

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: "PUT",
		Path:   "/feature-release-assignments",
		Query:  query,
		Body:   request,
	})
	if err != nil {
		return nil, fmt.Errorf("updating feature release assignment: %w", err)
	}

	return decodeResource[productboard.FeatureReleaseAssignment](resp.Body, "feature release assignment")
}

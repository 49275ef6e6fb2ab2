package client

import (
	"context"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// UsersClient implements productboard.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
	}
}

// Create implements productboard.UsersClient.Create.
func (c *UsersClient) Create(ctx context.Context, request *productboard.UserCreateRequest) (*productboard.User, error) {
	resp, err := c.httpClient.Post(ctx, "/users", request)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return decodeResource[productboard.User](resp.Body, "user")
}

// Get implements productboard.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, userID string) (*productboard.User, error) {
	path := "/users/" + userID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return decodeResource[productboard.User](resp.Body, "user")
}

// List implements productboard.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, params *productboard.QueryParams) ([]productboard.User, error) {
	users, err := listAll[productboard.User](ctx, c.httpClient, "/users", params)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	return users, nil
}

// Delete implements productboard.UsersClient.Delete.
func (c *UsersClient) Delete(ctx context.Context, userID string) (*productboard.DeleteResult, error) {
	path := "/users/" + userID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	return decodeDeleteResult(resp.Body, userID)
}

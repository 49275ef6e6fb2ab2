//go:build integration
// +build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/pkg/pbclient"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

func TestFeatureLifecycle(t *testing.T) {
	client, _ := newIntegrationClient(t)
	ctx := context.Background()

	created, err := client.Features().Create(ctx, &productboard.FeatureCreateRequest{
		Name:        "Dark mode",
		Description: "Theme switching",
		Parent:      &productboard.Parent{Component: &productboard.IDRef{ID: "component-1"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Dark mode", created.Name)

	fetched, err := client.Features().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	newName := "Dark mode v2"
	updated, err := client.Features().Update(ctx, created.ID, &productboard.FeatureUpdateRequest{
		Name: &newName,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dark mode v2", updated.Name)

	deleted, err := client.Features().Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = client.Features().Get(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, productboard.IsNotFound(err))
}

func TestPaginationAggregation(t *testing.T) {
	client, service := newIntegrationClient(t)
	ctx := context.Background()

	ids := seedFeatures(t, client, 5)

	// The fake serves two items per page, so five features span three pages.
	features, err := client.Features().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, features, 5)

	for index, feature := range features {
		assert.Equal(t, ids[index], feature.ID)
	}

	raw, err := client.CollectAll(ctx, "/features", nil)
	require.NoError(t, err)
	assert.Len(t, raw, 5)

	// 5 creates + 3 list pages + 3 more list pages.
	assert.Equal(t, 11, service.requestCount())
}

func TestRetryOnServerErrors(t *testing.T) {
	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	t.Cleanup(server.Close)

	client, err := pbclient.New(context.Background(), &productboard.Config{
		APIEndpoint: server.URL,
		AccessToken: testToken,
		Retry: productboard.RetryPolicy{
			MaxAttempts:  3,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     50 * time.Millisecond,
		},
	})
	require.NoError(t, err)

	ctx := context.Background()

	created, err := client.Features().Create(ctx, &productboard.FeatureCreateRequest{
		Name:   "Flaky",
		Parent: &productboard.Parent{Component: &productboard.IDRef{ID: "component-1"}},
	})
	require.NoError(t, err)

	// Two 503s, then the stored feature.
	service.failNext("/features/"+created.ID, 2, http.StatusServiceUnavailable)

	fetched, err := client.Features().Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	snapshot := client.Metrics()
	assert.GreaterOrEqual(t, snapshot.TotalRetries, int64(2))
	assert.Equal(t, int64(0), snapshot.TotalFailures)
}

func TestRetryGivesUpOnPersistentFailure(t *testing.T) {
	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	t.Cleanup(server.Close)

	client, err := pbclient.New(context.Background(), &productboard.Config{
		APIEndpoint: server.URL,
		AccessToken: testToken,
		Retry: productboard.RetryPolicy{
			MaxAttempts:  3,
			InitialDelay: 10 * time.Millisecond,
			MaxDelay:     50 * time.Millisecond,
		},
	})
	require.NoError(t, err)

	service.failNext("/features", 10, http.StatusInternalServerError)

	_, err = client.Features().List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, productboard.IsKind(err, productboard.ErrorKindServerError))

	// Budget exhausted after exactly MaxAttempts tries.
	assert.Equal(t, 3, service.requestCount())
}

func TestValidationErrorsDoNotRetry(t *testing.T) {
	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	t.Cleanup(server.Close)

	client, err := pbclient.New(context.Background(), &productboard.Config{
		APIEndpoint: server.URL,
		AccessToken: testToken,
		Retry: productboard.RetryPolicy{
			MaxAttempts:  3,
			InitialDelay: 10 * time.Millisecond,
		},
	})
	require.NoError(t, err)

	service.failNext("/features", 10, http.StatusBadRequest)

	_, err = client.Features().List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, productboard.IsValidation(err))
	assert.Equal(t, 1, service.requestCount())
}

func TestGatedExecute(t *testing.T) {
	client, _ := newIntegrationClient(t)
	ctx := context.Background()

	seedFeatures(t, client, 2)

	t.Run("admitted caller", func(t *testing.T) {
		result, err := client.Execute(ctx, writerCaller(), "list_features", nil)
		require.NoError(t, err)

		features, ok := result.([]productboard.Feature)
		require.True(t, ok)
		assert.Len(t, features, 2)
	})

	t.Run("level shortfall", func(t *testing.T) {
		caller := &productboard.CallerPermissions{
			AccessLevel: productboard.AccessLevelWrite,
			Permissions: []productboard.Permission{"features:delete"},
		}

		_, err := client.Execute(ctx, caller, "delete_feature", map[string]interface{}{"id": "feature-1"})
		require.Error(t, err)
		assert.True(t, productboard.IsPermissionDenied(err))
	})

	t.Run("missing permission", func(t *testing.T) {
		caller := &productboard.CallerPermissions{AccessLevel: productboard.AccessLevelAdmin}

		_, err := client.Execute(ctx, caller, "create_feature", map[string]interface{}{"name": "X"})
		require.Error(t, err)
		assert.True(t, productboard.IsPermissionDenied(err))
	})

	t.Run("unknown operation", func(t *testing.T) {
		_, err := client.Execute(ctx, writerCaller(), "launch_rocket", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "launch_rocket")
	})

	t.Run("missing required parameter", func(t *testing.T) {
		_, err := client.Execute(ctx, writerCaller(), "get_feature", nil)
		require.Error(t, err)
	})
}

func TestBatchWorkflow(t *testing.T) {
	client, _ := newIntegrationClient(t)
	ctx := context.Background()

	ids := seedFeatures(t, client, 1)

	operations := []productboard.BatchOperation{
		{
			ID:     "create",
			Method: "POST",
			Path:   "/features",
			Body: map[string]interface{}{
				"name":   "Batched feature",
				"parent": map[string]interface{}{"component": map[string]interface{}{"id": "component-1"}},
			},
		},
		{
			ID:     "missing",
			Method: "GET",
			Path:   "/features/no-such-feature",
		},
		{
			ID:     "delete",
			Method: "DELETE",
			Path:   "/features/" + ids[0],
		},
	}

	results := client.RunBatch(ctx, operations)
	require.Len(t, results, 3)

	assert.Equal(t, "create", results[0].ID)
	assert.True(t, results[0].Success)
	assert.NotEmpty(t, results[0].Data)

	// The middle failure is isolated; the delete after it still ran.
	assert.Equal(t, "missing", results[1].ID)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "Feature not found")

	assert.Equal(t, "delete", results[2].ID)
	assert.True(t, results[2].Success)
}

func TestOperationCatalog(t *testing.T) {
	client, _ := newIntegrationClient(t)

	operations := client.Operations()
	require.NotEmpty(t, operations)

	names := make(map[string]bool, len(operations))
	for _, operation := range operations {
		names[operation.Name] = true
	}

	for _, expected := range []string{
		"list_features", "create_feature", "delete_feature",
		"list_notes", "create_note",
		"list_releases", "update_feature_release_assignment",
		"list_objectives", "update_key_result",
		"set_custom_field_value", "list_statuses",
	} {
		assert.True(t, names[expected], "missing operation %s", expected)
	}
}

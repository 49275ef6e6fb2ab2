package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

func fullAccessCaller() *productboard.CallerPermissions {
	return &productboard.CallerPermissions{
		AccessLevel: productboard.AccessLevelAdmin,
		Permissions: []productboard.Permission{
			"features:read", "features:write", "features:delete",
			"notes:read", "notes:write",
			"users:admin",
		},
	}
}

func TestClient_Execute(t *testing.T) {
	t.Parallel()

	t.Run("successful gated call", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/features/feature-1", request.URL.Path)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"data": map[string]interface{}{"id": "feature-1", "name": "Dark mode"},
			})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		result, err := client.Execute(context.Background(), fullAccessCaller(), "get_feature",
			map[string]interface{}{"id": "feature-1"})
		require.NoError(t, err)

		feature, ok := result.(*productboard.Feature)
		require.True(t, ok)
		assert.Equal(t, "Dark mode", feature.Name)
	})

	t.Run("unknown operation", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		_, err := client.Execute(context.Background(), fullAccessCaller(), "launch_rocket", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, productboard.ErrOperationNotFound)
	})

	t.Run("level shortfall is denied before any request", func(t *testing.T) {
		t.Parallel()

		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requests++
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		caller := &productboard.CallerPermissions{
			AccessLevel: productboard.AccessLevelRead,
			Permissions: []productboard.Permission{"features:delete"},
		}

		_, err := client.Execute(context.Background(), caller, "delete_feature",
			map[string]interface{}{"id": "feature-1"})
		require.Error(t, err)

		permErr := &productboard.PermissionError{}
		require.ErrorAs(t, err, &permErr)
		assert.True(t, permErr.LevelShortfall())
		assert.Empty(t, permErr.Missing)
		assert.Equal(t, 0, requests)
	})

	t.Run("missing permission is reported by name", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		caller := &productboard.CallerPermissions{
			AccessLevel: productboard.AccessLevelAdmin,
			Permissions: []productboard.Permission{"features:read"},
		}

		_, err := client.Execute(context.Background(), caller, "create_feature",
			map[string]interface{}{"name": "Dark mode"})
		require.Error(t, err)

		permErr := &productboard.PermissionError{}
		require.ErrorAs(t, err, &permErr)
		assert.False(t, permErr.LevelShortfall())
		assert.Equal(t, []productboard.Permission{"features:write"}, permErr.Missing)
	})

	t.Run("user management requires admin", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		caller := &productboard.CallerPermissions{
			AccessLevel: productboard.AccessLevelWrite,
			Permissions: []productboard.Permission{"users:read", "users:write"},
		}

		_, err := client.Execute(context.Background(), caller, "create_user",
			map[string]interface{}{"email": "dev@example.com"})
		require.Error(t, err)
		assert.True(t, productboard.IsPermissionDenied(err))
	})

	t.Run("missing required parameter", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		_, err := client.Execute(context.Background(), fullAccessCaller(), "get_feature",
			map[string]interface{}{})
		require.Error(t, err)
		assert.ErrorIs(t, err, productboard.ErrMissingRequiredParam)
	})

	t.Run("unexpected parameter", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, "http://localhost:0")

		_, err := client.Execute(context.Background(), fullAccessCaller(), "get_feature",
			map[string]interface{}{"id": "feature-1", "verbose": true})
		require.Error(t, err)
		assert.ErrorIs(t, err, productboard.ErrUnexpectedParam)
	})

	t.Run("list operation with filters and page limit", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/notes", request.URL.Path)
			assert.Equal(t, "25", request.URL.Query().Get("pageLimit"))
			assert.Equal(t, "company-1", request.URL.Query().Get("company.id"))
			pageResponse(writer, []interface{}{
				map[string]interface{}{"id": "note-1", "title": "Customer call"},
			}, "", false)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)

		result, err := client.Execute(context.Background(), fullAccessCaller(), "list_notes",
			map[string]interface{}{
				"pageLimit": float64(25),
				"filters":   map[string]interface{}{"company.id": "company-1"},
			})
		require.NoError(t, err)

		notes, ok := result.([]productboard.Note)
		require.True(t, ok)
		assert.Len(t, notes, 1)
	})
}

func TestClient_Operations(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, "http://localhost:0")

	descriptors := client.Operations()
	require.NotEmpty(t, descriptors)

	// Registration order starts with the feature group.
	assert.Equal(t, "list_features", descriptors[0].Name)

	byName := make(map[string]productboard.OperationDescriptor, len(descriptors))
	for _, descriptor := range descriptors {
		byName[descriptor.Name] = descriptor
	}

	expected := []string{
		"list_features", "get_feature", "create_feature", "update_feature", "delete_feature",
		"list_components", "get_component", "create_component", "update_component",
		"list_products", "get_product", "update_product",
		"list_releases", "get_release", "create_release", "update_release", "delete_release",
		"list_release_groups", "get_release_group",
		"list_feature_release_assignments", "update_feature_release_assignment",
		"list_notes", "get_note", "create_note", "update_note", "delete_note",
		"list_companies", "get_company", "create_company", "delete_company",
		"list_users", "get_user", "create_user", "delete_user",
		"list_objectives", "get_objective", "create_objective", "update_objective", "delete_objective",
		"list_key_results", "get_key_result", "update_key_result",
		"list_custom_fields", "get_custom_field", "list_custom_field_values",
		"get_custom_field_value", "set_custom_field_value",
		"list_statuses",
	}

	assert.Len(t, descriptors, len(expected))

	for _, name := range expected {
		_, ok := byName[name]
		assert.True(t, ok, "operation %s not registered", name)
	}

	// Metadata follows the naming convention on every operation.
	assert.Equal(t, productboard.AccessLevelRead, byName["list_features"].Permissions.MinimumAccessLevel)
	assert.Equal(t, productboard.AccessLevelWrite, byName["update_note"].Permissions.MinimumAccessLevel)
	assert.Equal(t, productboard.AccessLevelDelete, byName["delete_release"].Permissions.MinimumAccessLevel)
	assert.Equal(t, productboard.AccessLevelAdmin, byName["delete_user"].Permissions.MinimumAccessLevel)
	assert.Equal(t,
		[]productboard.Permission{"custom_fields:write"},
		byName["set_custom_field_value"].Permissions.RequiredPermissions)
}

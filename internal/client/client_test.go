package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/internal/auth"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), nil)
		require.ErrorIs(t, err, productboard.ErrConfigRequired)
	})

	t.Run("requires API endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := New(context.Background(), &productboard.Config{})
		require.ErrorIs(t, err, productboard.ErrAPIEndpointRequired)
	})

	t.Run("access token wins over OAuth2 credentials", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &productboard.Config{
			APIEndpoint:  "https://api.example.com",
			AccessToken:  "static-token",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		require.NoError(t, err)

		_, ok := client.GetTokenManager().(*auth.StaticTokenManager)
		assert.True(t, ok)

		token, err := client.GetToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "static-token", token)
	})

	t.Run("OAuth2 credentials build a refreshing manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &productboard.Config{
			APIEndpoint:  "https://api.example.com",
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		require.NoError(t, err)

		_, ok := client.GetTokenManager().(*auth.OAuth2TokenManager)
		assert.True(t, ok)
	})

	t.Run("refresh token alone builds a refreshing manager", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &productboard.Config{
			APIEndpoint:  "https://api.example.com",
			RefreshToken: "refresh-token",
		})
		require.NoError(t, err)

		_, ok := client.GetTokenManager().(*auth.OAuth2TokenManager)
		assert.True(t, ok)
	})

	t.Run("no credentials leaves the manager unset", func(t *testing.T) {
		t.Parallel()

		client, err := New(context.Background(), &productboard.Config{
			APIEndpoint: "https://api.example.com",
		})
		require.NoError(t, err)
		assert.Nil(t, client.GetTokenManager())

		_, err = client.GetToken(context.Background())
		require.Error(t, err)
	})
}

func TestClient_MakeRequest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/features", request.URL.Path)
		assert.Equal(t, "archived:false", request.URL.Query().Get("archived"))
		_, _ = writer.Write([]byte(`{"data":{"id":"feature-1"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	params := productboard.NewQueryParams().WithFilter("archived", "archived:false")

	raw, err := client.MakeRequest(context.Background(), "GET", "/features", nil, params, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"id":"feature-1"}}`, string(raw))
}

func TestClient_RunBatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/features/good":
			_ = json.NewEncoder(writer).Encode(map[string]string{"id": "good"})
		case "/features/bad":
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]string{"message": "Feature not found"})
		case "/features/gone":
			writer.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	operations := productboard.NewBatchBuilder().
		AddGet("first", "/features/good", nil).
		AddGet("second", "/features/bad", nil).
		AddDelete("third", "/features/gone").
		Build()

	results := client.RunBatch(context.Background(), operations)
	require.Len(t, results, 3)

	assert.Equal(t, "first", results[0].ID)
	assert.True(t, results[0].Success)

	assert.Equal(t, "second", results[1].ID)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "Feature not found")

	// A failure in the middle must not stop the remaining operations.
	assert.Equal(t, "third", results[2].ID)
	assert.True(t, results[2].Success)
	assert.JSONEq(t, `{"deleted":true}`, string(results[2].Data))
}

func TestClient_Metrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/features/missing" {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = writer.Write([]byte(`{"data":{"id":"feature-1"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Features().Get(context.Background(), "feature-1")
	require.NoError(t, err)

	_, err = client.Features().Get(context.Background(), "missing")
	require.Error(t, err)

	snapshot := client.Metrics()
	assert.Equal(t, int64(2), snapshot.TotalRequests)
	assert.Equal(t, int64(1), snapshot.TotalFailures)
	assert.Equal(t, int64(1), snapshot.FailuresByKind[productboard.ErrorKindNotFound])
	assert.Equal(t, int64(1), snapshot.FailuresByStatus[http.StatusNotFound])
}

func TestClient_CollectAll(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Query().Get("pageCursor") == "" {
			pageResponse(writer, []interface{}{
				map[string]string{"id": "note-1"},
				map[string]string{"id": "note-2"},
			}, "next", true)

			return
		}

		pageResponse(writer, []interface{}{
			map[string]string{"id": "note-3"},
		}, "", false)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	items, err := client.CollectAll(context.Background(), "/notes", nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

//go:build integration
// +build integration

// Package integration exercises full client workflows against an in-process
// fake of the service: authentication, dispatch, retries, pagination, the
// gated operation catalog, and the batch executor.
package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/pkg/pbclient"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

const testToken = "integration-token"

// fakeService is an in-memory stand-in for the real API. It stores features
// keyed by id, serves cursor-paginated lists, and can be told to fail the
// next N requests to a path with a given status.
type fakeService struct {
	mu       sync.Mutex
	features map[string]map[string]interface{}
	order    []string
	nextID   int
	pageSize int

	failures map[string]*plannedFailure
	requests int
}

type plannedFailure struct {
	remaining int
	status    int
}

func newFakeService() *fakeService {
	return &fakeService{
		features: make(map[string]map[string]interface{}),
		nextID:   1,
		pageSize: 2,
		failures: make(map[string]*plannedFailure),
	}
}

// failNext makes the next count requests to path answer with status.
func (s *fakeService) failNext(path string, count, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[path] = &plannedFailure{remaining: count, status: status}
}

func (s *fakeService) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

func (s *fakeService) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		s.mu.Lock()
		s.requests++

		if failure := s.failures[request.URL.Path]; failure != nil && failure.remaining > 0 {
			failure.remaining--
			status := failure.status
			s.mu.Unlock()

			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(status)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": http.StatusText(status)})

			return
		}
		s.mu.Unlock()

		if request.Header.Get("Authorization") != "Bearer "+testToken {
			writer.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": "Invalid token"})

			return
		}

		switch {
		case request.URL.Path == "/features" && request.Method == http.MethodGet:
			s.listFeatures(writer, request)
		case request.URL.Path == "/features" && request.Method == http.MethodPost:
			s.createFeature(writer, request)
		case strings.HasPrefix(request.URL.Path, "/features/"):
			s.featureByID(writer, request)
		default:
			writer.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": "Feature not found"})
		}
	})
}

func (s *fakeService) createFeature(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body map[string]interface{}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": "Malformed body"})

		return
	}

	id := fmt.Sprintf("feature-%d", s.nextID)
	s.nextID++
	body["id"] = id

	s.features[id] = body
	s.order = append(s.order, id)

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{"data": body})
}

func (s *fakeService) featureByID(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := request.URL.Path[len("/features/"):]

	feature, ok := s.features[id]
	if !ok {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"message": "Feature not found", "id": id})

		return
	}

	switch request.Method {
	case http.MethodGet:
		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"data": feature})

	case http.MethodPatch:
		var patch map[string]interface{}
		if err := json.NewDecoder(request.Body).Decode(&patch); err != nil {
			writer.WriteHeader(http.StatusBadRequest)

			return
		}

		for key, value := range patch {
			feature[key] = value
		}

		writer.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"data": feature})

	case http.MethodDelete:
		delete(s.features, id)

		for index, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:index], s.order[index+1:]...)

				break
			}
		}

		writer.WriteHeader(http.StatusNoContent)

	default:
		writer.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listFeatures serves cursor pagination: the cursor is the stringified index
// of the first item of the next page.
func (s *fakeService) listFeatures(writer http.ResponseWriter, request *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := 0

	if cursor := request.URL.Query().Get("pageCursor"); cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err == nil {
			start = parsed
		}
	}

	end := start + s.pageSize
	if end > len(s.order) {
		end = len(s.order)
	}

	items := make([]interface{}, 0, end-start)
	for _, id := range s.order[start:end] {
		items = append(items, s.features[id])
	}

	page := map[string]interface{}{"data": items}
	if end < len(s.order) {
		page["pagination"] = map[string]interface{}{
			"cursor":  strconv.Itoa(end),
			"hasMore": true,
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(page)
}

// newIntegrationClient starts the fake service and builds a client against
// it. Both are torn down with the test.
func newIntegrationClient(t *testing.T) (productboard.Client, *fakeService) {
	t.Helper()

	service := newFakeService()
	server := httptest.NewServer(service.handler(t))
	t.Cleanup(server.Close)

	client, err := pbclient.NewWithToken(context.Background(), server.URL, testToken)
	require.NoError(t, err)

	return client, service
}

// seedFeatures creates count features through the client, returning their ids
// in creation order.
func seedFeatures(t *testing.T, client productboard.Client, count int) []string {
	t.Helper()

	ids := make([]string, 0, count)

	for index := 0; index < count; index++ {
		feature, err := client.Features().Create(context.Background(), &productboard.FeatureCreateRequest{
			Name:   fmt.Sprintf("Feature %d", index+1),
			Parent: &productboard.Parent{Component: &productboard.IDRef{ID: "component-1"}},
		})
		require.NoError(t, err)

		ids = append(ids, feature.ID)
	}

	return ids
}

// writerCaller returns a caller admitted to read and write features.
func writerCaller() *productboard.CallerPermissions {
	return &productboard.CallerPermissions{
		AccessLevel: productboard.AccessLevelWrite,
		Permissions: []productboard.Permission{"features:read", "features:write"},
	}
}

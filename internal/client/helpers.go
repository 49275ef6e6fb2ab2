package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/http"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// decodeResource decodes a single-resource payload, unwrapping the
// {"data": {...}} envelope when the service uses one.
func decodeResource[T any](body []byte, what string) (*T, error) {
	raw := json.RawMessage(body)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Data) > 0 {
		raw = envelope.Data
	}

	var resource T

	err := json.Unmarshal(raw, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return &resource, nil
}

// decodeDeleteResult turns the dispatcher's synthetic deletion marker into a
// typed result carrying the deleted resource's identifier.
func decodeDeleteResult(body []byte, resourceID string) (*productboard.DeleteResult, error) {
	var result productboard.DeleteResult

	err := json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing delete result: %w", err)
	}

	result.ID = resourceID

	return &result, nil
}

// httpLister adapts the dispatcher to the pagination aggregator's Lister.
type httpLister struct {
	httpClient *http.Client
}

// ListPage fetches one page of a list endpoint.
func (l *httpLister) ListPage(ctx context.Context, path string, params *productboard.QueryParams) (*productboard.Page, error) {
	return listPage(ctx, l.httpClient, path, params)
}

// listPage dispatches one GET against a list endpoint and decodes the page,
// accepting both the enveloped and the bare-array wire shape.
func listPage(ctx context.Context, httpClient *http.Client, path string, params *productboard.QueryParams) (*productboard.Page, error) {
	resp, err := httpClient.Get(ctx, path, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	var page productboard.Page

	err = json.Unmarshal(resp.Body, &page)
	if err != nil {
		return nil, fmt.Errorf("parsing %s list: %w", path, err)
	}

	return &page, nil
}

// listAll aggregates every page of a list endpoint and decodes the items.
func listAll[T any](ctx context.Context, httpClient *http.Client, path string, params *productboard.QueryParams) ([]T, error) {
	return productboard.CollectAllTyped[T](ctx, &httpLister{httpClient: httpClient}, path, params, nil)
}

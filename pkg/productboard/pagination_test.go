package productboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// fakeLister serves canned pages keyed by cursor and records the params it
// was called with.
type fakeLister struct {
	pages map[string]*productboard.Page
	calls []*productboard.QueryParams
	err   error
}

func (f *fakeLister) ListPage(ctx context.Context, path string, params *productboard.QueryParams) (*productboard.Page, error) {
	f.calls = append(f.calls, params.Clone())

	if f.err != nil {
		return nil, f.err
	}

	cursor := ""
	if params != nil {
		cursor = params.PageCursor
	}

	page, ok := f.pages[cursor]
	if !ok {
		return &productboard.Page{}, nil
	}

	return page, nil
}

func rawItems(ids ...string) []json.RawMessage {
	items := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		items = append(items, json.RawMessage(fmt.Sprintf(`{"id":%q}`, id)))
	}

	return items
}

func cursorPage(cursor string, hasMore bool, ids ...string) *productboard.Page {
	return &productboard.Page{
		Data:       rawItems(ids...),
		Pagination: &productboard.PageInfo{Cursor: cursor, HasMore: hasMore},
	}
}

func threePageLister() *fakeLister {
	return &fakeLister{
		pages: map[string]*productboard.Page{
			"":         cursorPage("cursor-2", true, "1", "2"),
			"cursor-2": cursorPage("cursor-3", true, "3", "4"),
			"cursor-3": cursorPage("", false, "5"),
		},
	}
}

func TestCollectAll(t *testing.T) {
	t.Parallel()

	lister := threePageLister()

	items, err := productboard.CollectAll(context.Background(), lister, "/features", nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Arrival order is preserved across page boundaries.
	assert.JSONEq(t, `{"id":"1"}`, string(items[0]))
	assert.JSONEq(t, `{"id":"5"}`, string(items[4]))

	require.Len(t, lister.calls, 3)
	assert.Equal(t, "cursor-2", lister.calls[1].PageCursor)
	assert.Equal(t, "cursor-3", lister.calls[2].PageCursor)
}

func TestCollectAll_OffsetFallback(t *testing.T) {
	t.Parallel()

	// The service promises more pages but never supplies a cursor; the
	// aggregator advances by the observed page size instead.
	done := false
	paged := &pagingLister{
		first: &productboard.Page{
			Data:       rawItems("1", "2"),
			Pagination: &productboard.PageInfo{HasMore: true},
		},
		rest: &productboard.Page{
			Data:       rawItems("3"),
			Pagination: &productboard.PageInfo{HasMore: false},
		},
		done: &done,
	}

	items, err := productboard.CollectAll(context.Background(), paged, "/notes", nil, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	require.Len(t, paged.calls, 2)
	assert.Equal(t, 0, paged.calls[0].PageOffset)
	assert.Equal(t, 2, paged.calls[1].PageOffset)
	assert.Empty(t, paged.calls[1].PageCursor)
}

// pagingLister serves first on the initial call and rest afterwards.
type pagingLister struct {
	first *productboard.Page
	rest  *productboard.Page
	done  *bool
	calls []*productboard.QueryParams
}

func (p *pagingLister) ListPage(ctx context.Context, path string, params *productboard.QueryParams) (*productboard.Page, error) {
	p.calls = append(p.calls, params.Clone())

	if !*p.done {
		*p.done = true

		return p.first, nil
	}

	return p.rest, nil
}

func TestCollectAll_PageCeiling(t *testing.T) {
	t.Parallel()

	// Every page claims more results; aggregation must stop at the ceiling.
	lister := &fakeLister{
		pages: map[string]*productboard.Page{
			"": cursorPage("", true, "1"),
		},
	}

	opts := &productboard.PaginationOptions{MaxPages: 3}

	_, err := productboard.CollectAll(context.Background(), lister, "/features", nil, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, productboard.ErrTooManyPages)
	assert.Len(t, lister.calls, 3)
}

func TestCollectAll_PropagatesErrors(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{err: errors.New("boom")}

	_, err := productboard.CollectAll(context.Background(), lister, "/features", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching page 1 of /features")
}

func TestCollectAll_DefaultPageLimit(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{
		pages: map[string]*productboard.Page{
			"": cursorPage("", false, "1"),
		},
	}

	_, err := productboard.CollectAll(context.Background(), lister, "/features", nil, nil)
	require.NoError(t, err)

	require.Len(t, lister.calls, 1)
	assert.Equal(t, 100, lister.calls[0].PageLimit)
}

func TestCollectAll_CallerParamsUntouched(t *testing.T) {
	t.Parallel()

	lister := threePageLister()
	params := productboard.NewQueryParams().WithFilter("archived", "false")

	_, err := productboard.CollectAll(context.Background(), lister, "/features", params, nil)
	require.NoError(t, err)

	assert.Empty(t, params.PageCursor)
	assert.Equal(t, 0, params.PageOffset)
}

func TestCollectAllTyped(t *testing.T) {
	t.Parallel()

	lister := threePageLister()

	type item struct {
		ID string `json:"id"`
	}

	items, err := productboard.CollectAllTyped[item](context.Background(), lister, "/features", nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "5", items[4].ID)
}

func TestPageIterator(t *testing.T) {
	t.Parallel()

	lister := threePageLister()
	iterator := productboard.NewPageIterator(context.Background(), lister, "/features", nil)

	assert.True(t, iterator.HasNext())

	var ids []string

	for i := 0; i < 5; i++ {
		item, err := iterator.Next()
		require.NoError(t, err)

		var decoded struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(item, &decoded))
		ids = append(ids, decoded.ID)
	}

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids)
	assert.False(t, iterator.HasNext())

	_, err := iterator.Next()
	assert.ErrorIs(t, err, productboard.ErrNoMoreItems)
}

func TestPageIterator_All(t *testing.T) {
	t.Parallel()

	lister := threePageLister()
	iterator := productboard.NewPageIterator(context.Background(), lister, "/features", nil)

	items, err := iterator.All()
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestPageIterator_ForEach(t *testing.T) {
	t.Parallel()

	lister := threePageLister()
	iterator := productboard.NewPageIterator(context.Background(), lister, "/features", nil)

	count := 0
	err := iterator.ForEach(func(item json.RawMessage) error {
		count++

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPageIterator_ForEach_StopsOnError(t *testing.T) {
	t.Parallel()

	lister := threePageLister()
	iterator := productboard.NewPageIterator(context.Background(), lister, "/features", nil)

	errStop := errors.New("stop")
	count := 0
	err := iterator.ForEach(func(item json.RawMessage) error {
		count++
		if count == 2 {
			return errStop
		}

		return nil
	})

	require.ErrorIs(t, err, errStop)
	assert.Equal(t, 2, count)
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	lister := threePageLister()

	results := productboard.StreamPages(context.Background(), lister, "/features", nil, nil)

	var items int

	pages := 0

	for result := range results {
		require.NoError(t, result.Err)

		pages++
		items += len(result.Page.Data)
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, 5, items)
}

func TestStreamPages_DeliversError(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{err: errors.New("boom")}

	results := productboard.StreamPages(context.Background(), lister, "/features", nil, nil)

	result, ok := <-results
	require.True(t, ok)
	require.Error(t, result.Err)

	_, ok = <-results
	assert.False(t, ok)
}

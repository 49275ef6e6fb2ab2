package productboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// Lister fetches one page of raw results. The dispatcher-backed client
// implements it; tests supply fakes.
type Lister interface {
	ListPage(ctx context.Context, path string, params *QueryParams) (*Page, error)
}

// PaginationOptions controls aggregation.
type PaginationOptions struct {
	// PageLimit is the page size requested per round trip when the caller's
	// params do not set one.
	PageLimit int

	// MaxPages is the hard iteration ceiling. Aggregation that would exceed
	// it fails with ErrTooManyPages instead of looping forever against a
	// service whose hasMore semantics are inconsistent.
	MaxPages int
}

// DefaultPaginationOptions returns the default aggregation options.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageLimit: constants.DefaultPageLimit,
		MaxPages:  constants.MaxPages,
	}
}

// paginationMode is the advance strategy currently in effect. Aggregation
// starts in cursor mode and drops to the offset fallback only when the
// service reports more pages without supplying a cursor.
type paginationMode int

const (
	cursorMode paginationMode = iota
	offsetFallbackMode
)

// pageState walks a paginated result set one page at a time.
type pageState struct {
	params *QueryParams
	mode   paginationMode
	pages  int
}

func newPageState(params *QueryParams, opts *PaginationOptions) *pageState {
	cloned := params.Clone()

	if cloned.PageLimit == 0 && opts.PageLimit > 0 {
		cloned.PageLimit = opts.PageLimit
	}

	return &pageState{params: cloned}
}

// advance merges the page's continuation into the next request's params. A
// supplied cursor replaces the prior one and wins over any offset; a missing
// cursor with more pages promised switches to the offset fallback, stepping
// by the observed page size.
func (s *pageState) advance(page *Page) {
	cursor := page.Cursor()
	if cursor != "" {
		s.mode = cursorMode
		s.params.PageCursor = cursor
		s.params.PageOffset = 0

		return
	}

	s.mode = offsetFallbackMode
	s.params.PageCursor = ""

	step := len(page.Data)
	if step == 0 {
		step = s.params.PageLimit
	}

	if step == 0 {
		step = constants.DefaultPageLimit
	}

	s.params.PageOffset += step
}

// CollectAll repeatedly dispatches GET requests against path, accumulating
// every page's items in arrival order into one ordered result. It stops when
// a page reports no more results, and fails with ErrTooManyPages if the
// ceiling in opts is reached first.
func CollectAll(ctx context.Context, client Lister, path string, params *QueryParams, opts *PaginationOptions) ([]json.RawMessage, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	state := newPageState(params, opts)

	var items []json.RawMessage

	for {
		if opts.MaxPages > 0 && state.pages >= opts.MaxPages {
			return nil, fmt.Errorf("collecting %s after %d pages: %w", path, state.pages, ErrTooManyPages)
		}

		page, err := client.ListPage(ctx, path, state.params)
		if err != nil {
			return nil, fmt.Errorf("fetching page %d of %s: %w", state.pages+1, path, err)
		}

		state.pages++

		items = append(items, page.Data...)

		if !page.HasMore() {
			return items, nil
		}

		state.advance(page)
	}
}

// CollectAllTyped aggregates all pages and decodes every item into T.
func CollectAllTyped[T any](ctx context.Context, client Lister, path string, params *QueryParams, opts *PaginationOptions) ([]T, error) {
	raw, err := CollectAll(ctx, client, path, params, opts)
	if err != nil {
		return nil, err
	}

	return UnmarshalItems[T](raw)
}

// PageIterator walks a paginated result set item by item, fetching pages
// lazily.
type PageIterator struct {
	ctx    context.Context
	client Lister
	path   string
	state  *pageState
	opts   *PaginationOptions

	buffer  []json.RawMessage
	index   int
	fetched bool
	done    bool
}

// NewPageIterator creates an iterator over path with the given params.
func NewPageIterator(ctx context.Context, client Lister, path string, params *QueryParams) *PageIterator {
	opts := DefaultPaginationOptions()

	return &PageIterator{
		ctx:    ctx,
		client: client,
		path:   path,
		state:  newPageState(params, opts),
		opts:   opts,
	}
}

// HasNext reports whether another item is available without consuming it.
// It may perform a fetch to find out.
func (it *PageIterator) HasNext() bool {
	if it.index < len(it.buffer) {
		return true
	}

	if it.done {
		return false
	}

	err := it.fetchNext()

	return err == nil && it.index < len(it.buffer)
}

// Next returns the next item, fetching the next page when the current one is
// exhausted. Returns ErrNoMoreItems once the result set is consumed.
func (it *PageIterator) Next() (json.RawMessage, error) {
	if it.index >= len(it.buffer) {
		if it.done {
			return nil, ErrNoMoreItems
		}

		err := it.fetchNext()
		if err != nil {
			return nil, err
		}

		if it.index >= len(it.buffer) {
			return nil, ErrNoMoreItems
		}
	}

	item := it.buffer[it.index]
	it.index++

	return item, nil
}

// All drains the iterator into a slice.
func (it *PageIterator) All() ([]json.RawMessage, error) {
	var items []json.RawMessage

	for {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return items, nil
			}

			return nil, err
		}

		items = append(items, item)
	}
}

// ForEach applies fn to every remaining item, stopping on the first error.
func (it *PageIterator) ForEach(fn func(item json.RawMessage) error) error {
	for {
		item, err := it.Next()
		if err != nil {
			if err == ErrNoMoreItems {
				return nil
			}

			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}
}

func (it *PageIterator) fetchNext() error {
	if it.opts.MaxPages > 0 && it.state.pages >= it.opts.MaxPages {
		it.done = true

		return fmt.Errorf("iterating %s after %d pages: %w", it.path, it.state.pages, ErrTooManyPages)
	}

	// Advance from the previous page before fetching the next one.
	page, err := it.client.ListPage(it.ctx, it.path, it.state.params)
	if err != nil {
		return fmt.Errorf("fetching page %d of %s: %w", it.state.pages+1, it.path, err)
	}

	it.state.pages++
	it.fetched = true
	it.buffer = page.Data
	it.index = 0

	if page.HasMore() {
		it.state.advance(page)
	} else {
		it.done = true
	}

	return nil
}

// PageResult is one streamed page or the error that ended the stream.
type PageResult struct {
	Page *Page
	Err  error
}

// StreamPages fetches pages in a goroutine and delivers them on the returned
// channel. The channel closes after the final page or the first error.
func StreamPages(ctx context.Context, client Lister, path string, params *QueryParams, opts *PaginationOptions) <-chan PageResult {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	results := make(chan PageResult)

	go func() {
		defer close(results)

		state := newPageState(params, opts)

		for {
			if opts.MaxPages > 0 && state.pages >= opts.MaxPages {
				results <- PageResult{Err: fmt.Errorf("streaming %s after %d pages: %w", path, state.pages, ErrTooManyPages)}

				return
			}

			page, err := client.ListPage(ctx, path, state.params)
			if err != nil {
				results <- PageResult{Err: err}

				return
			}

			state.pages++

			select {
			case results <- PageResult{Page: page}:
			case <-ctx.Done():
				return
			}

			if !page.HasMore() {
				return
			}

			state.advance(page)
		}
	}()

	return results
}

package productboard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/copyhacker/productboard-mcp/internal/constants"
)

// QueryParams represents query parameters for list requests. Filters map
// service filter keys (e.g. "status.name", "owner.email", "archived") to one
// or more values; list values are comma-joined on the wire.
type QueryParams struct {
	PageLimit  int
	PageCursor string
	PageOffset int
	Filters    map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// ToValues converts the parameters to url.Values for the wire.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.PageLimit > 0 {
		values.Set(constants.PageLimitParam, strconv.Itoa(q.PageLimit))
	}

	if q.PageCursor != "" {
		values.Set(constants.PageCursorParam, q.PageCursor)
	}

	if q.PageOffset > 0 {
		values.Set(constants.PageOffsetParam, strconv.Itoa(q.PageOffset))
	}

	for key, list := range q.Filters {
		if len(list) > 0 {
			values.Set(key, strings.Join(list, ","))
		}
	}

	return values
}

// Clone returns an independent copy; the aggregator mutates its copy while
// advancing pages and must not touch the caller's params.
func (q *QueryParams) Clone() *QueryParams {
	clone := NewQueryParams()

	if q == nil {
		return clone
	}

	clone.PageLimit = q.PageLimit
	clone.PageCursor = q.PageCursor
	clone.PageOffset = q.PageOffset

	for key, list := range q.Filters {
		clone.Filters[key] = append([]string(nil), list...)
	}

	return clone
}

// WithPageLimit sets the page size.
func (q *QueryParams) WithPageLimit(limit int) *QueryParams {
	q.PageLimit = limit

	return q
}

// WithPageCursor sets the continuation cursor, replacing any prior cursor.
func (q *QueryParams) WithPageCursor(cursor string) *QueryParams {
	q.PageCursor = cursor

	return q
}

// WithPageOffset sets the offset for endpoints that paginate by offset.
func (q *QueryParams) WithPageOffset(offset int) *QueryParams {
	q.PageOffset = offset

	return q
}

// WithFilter appends a filter value for the given key.
func (q *QueryParams) WithFilter(key, value string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], value)

	return q
}

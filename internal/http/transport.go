package http

import (
	"net/http"

	"github.com/copyhacker/productboard-mcp/internal/ratelimit"
)

// governedTransport acquires one rate-governor slot per attempt. It sits
// below the retry loop, so a retried attempt waits for its own slot exactly
// like a first attempt does.
type governedTransport struct {
	base     http.RoundTripper
	governor *ratelimit.Governor
	key      string
}

// RoundTrip implements http.RoundTripper.
func (t *governedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.governor != nil {
		err := t.governor.Acquire(req.Context(), t.key)
		if err != nil {
			return nil, err
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

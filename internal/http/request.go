// Package http implements the request dispatcher: the single choke point
// every operation's call to the external service funnels through. It
// attaches auth headers, acquires a rate-governor slot per attempt, performs
// the call with classified retries, and emits redacted diagnostics.
package http

import (
	"net/http"
	"net/url"
)

// Request describes one dispatched call. Built fresh per logical call and
// not mutated after dispatch begins.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	// Headers are caller-supplied overrides; they win over the auth
	// provider's headers on conflict.
	Headers map[string]string
}

// Response is the outcome of a dispatched call that received a response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	// Attempts is the number of attempts the transport made for this
	// logical call, counting the first try.
	Attempts int
}

// IsSuccess reports whether the status is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

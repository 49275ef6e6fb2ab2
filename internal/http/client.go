package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/copyhacker/productboard-mcp/internal/auth"
	"github.com/copyhacker/productboard-mcp/internal/constants"
	"github.com/copyhacker/productboard-mcp/internal/ratelimit"
	"github.com/copyhacker/productboard-mcp/pkg/productboard"
)

// deletedMarker is the synthetic success body for DELETE calls; the service
// returns no body for deletions.
var deletedMarker = []byte(`{"deleted":true}`)

// Client dispatches requests against the service. All verb helpers and the
// generic Do funnel through the same path.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	retryClient  *retryablehttp.Client
	policy       productboard.RetryPolicy
	governor     *ratelimit.Governor
	rateKey      string
	logger       productboard.Logger
	debug        bool
	userAgent    string
	events       productboard.EventPublisher
	metrics      *productboard.RequestMetrics
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger productboard.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables HTTP request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(policy productboard.RetryPolicy) Option {
	return func(c *Client) {
		c.policy = policy.Normalized()
	}
}

// WithRetryConfig tunes the retry loop without replacing the predicate.
func WithRetryConfig(maxAttempts int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.policy = productboard.RetryPolicy{
			MaxAttempts:  maxAttempts,
			InitialDelay: waitMin,
			MaxDelay:     waitMax,
		}.Normalized()
	}
}

// WithGovernor sets the rate governor a slot is acquired from before every
// attempt.
func WithGovernor(governor *ratelimit.Governor) Option {
	return func(c *Client) {
		c.governor = governor
	}
}

// WithRateKey overrides the global rate key.
func WithRateKey(key string) Option {
	return func(c *Client) {
		c.rateKey = key
	}
}

// WithEvents sets the diagnostic-event publisher.
func WithEvents(events productboard.EventPublisher) Option {
	return func(c *Client) {
		c.events = events
	}
}

// WithMetrics sets the request-metrics accumulator.
func WithMetrics(metrics *productboard.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithHTTPTimeout bounds one request attempt. An attempt exceeding it is a
// network failure subject to the usual retry predicate.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.retryClient.HTTPClient.Timeout = timeout
	}
}

// NewClient creates a dispatcher for the given base URL. A nil tokenManager
// sends requests unauthenticated; a manager that yields no token makes every
// dispatch fail fast with an authentication error before network I/O.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		tokenManager: tokenManager,
		retryClient:  retryClient,
		policy:       productboard.DefaultRetryPolicy(),
		rateKey:      constants.GlobalRateKey,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RetryMax = client.policy.MaxAttempts - 1
	retryClient.RetryWaitMin = client.policy.InitialDelay
	retryClient.RetryWaitMax = client.policy.MaxDelay
	retryClient.CheckRetry = client.checkRetry
	retryClient.Backoff = client.backoff
	retryClient.RequestLogHook = client.onAttempt

	// The governed transport runs inside the retry loop, so every retry
	// attempt re-acquires a rate slot.
	retryClient.HTTPClient.Transport = &governedTransport{
		base:     retryClient.HTTPClient.Transport,
		governor: client.governor,
		key:      client.rateKey,
	}

	return client
}

// attemptCount tracks attempts per logical call through the request context.
type attemptCount struct {
	n atomic.Int32
}

type attemptCountKey struct{}

// checkRetry is the classification-driven retry predicate. The error kind is
// derived from the transport error or the status code alone; the body is
// only inspected once the loop has given up.
func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return c.policy.ShouldRetry(productboard.ErrorKindNetworkFailure), nil
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return false, nil
	}

	return c.policy.ShouldRetry(productboard.KindForStatus(resp.StatusCode)), nil
}

// backoff inserts min(initialDelay * 2^(k-1), maxDelay) between attempt k
// and k+1. The 429 Retry-After value rides on the classified error instead
// of overriding the formula.
func (c *Client) backoff(minWait, maxWait time.Duration, attemptNum int, resp *http.Response) time.Duration {
	return c.policy.BackoffDelay(attemptNum + 1)
}

// onAttempt runs before every attempt: counts it, logs it, mirrors it.
func (c *Client) onAttempt(_ retryablehttp.Logger, req *http.Request, retryNumber int) {
	if counter, ok := req.Context().Value(attemptCountKey{}).(*attemptCount); ok {
		counter.n.Store(int32(retryNumber) + 1)
	}

	c.metrics.RecordAttempt()

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":        req.Method,
			"url":           req.URL.String(),
			"attempt":       retryNumber + 1,
			"authorization": auth.RedactAuthorization(req.Header.Get("Authorization")),
		})
	}

	if c.events != nil {
		c.events.Publish(productboard.DiagnosticEvent{
			Time:    time.Now(),
			Type:    productboard.EventRequestAttempted,
			Method:  req.Method,
			Path:    req.URL.Path,
			Attempt: retryNumber + 1,
		})
	}
}

// Do dispatches one logical call: auth headers attached, a rate slot
// acquired per attempt, classified retries applied. On a non-2xx outcome it
// returns both the response and the classified error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	resp, err := c.dispatch(ctx, req)

	c.logResponse(req, resp, err)
	c.publishOutcome(req, resp, err)

	if err != nil {
		kind := productboard.ErrorKindNetworkFailure
		status := 0

		apiErr := &productboard.APIError{}
		if errors.As(err, &apiErr) {
			kind = apiErr.Kind
			status = apiErr.Status
		}

		c.metrics.RecordFailure(kind, status, time.Since(start))

		return resp, err
	}

	c.metrics.RecordSuccess(time.Since(start))

	return resp, nil
}

func (c *Client) dispatch(ctx context.Context, req *Request) (*Response, error) {
	headers, err := c.requestHeaders(ctx, req)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(encoded)
	}

	counter := &attemptCount{}
	ctx = context.WithValue(ctx, attemptCountKey{}, counter)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := c.retryClient.Do(httpReq)

	attempts := int(counter.n.Load())
	if attempts == 0 {
		attempts = 1
	}

	if err != nil {
		return &Response{Attempts: attempts}, productboard.ClassifyTransport(err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &Response{StatusCode: httpResp.StatusCode, Attempts: attempts}, productboard.ClassifyTransport(err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
		Attempts:   attempts,
	}

	if !resp.IsSuccess() {
		return resp, productboard.Classify(resp.StatusCode, body, httpResp.Header)
	}

	if req.Method == http.MethodDelete && len(bytes.TrimSpace(body)) == 0 {
		resp.Body = deletedMarker
	}

	return resp, nil
}

// requestHeaders merges the auth provider's headers with the standard wire
// headers and the caller's overrides, caller headers winning on conflict.
func (c *Client) requestHeaders(ctx context.Context, req *Request) (map[string]string, error) {
	headers := map[string]string{
		"Accept":                   "application/json",
		constants.APIVersionHeader: constants.APIVersion,
	}

	if req.Body != nil {
		headers["Content-Type"] = "application/json"
	}

	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}

	if c.tokenManager != nil {
		authHeaders, err := auth.Headers(ctx, c.tokenManager)
		if err != nil {
			return nil, &productboard.APIError{
				Kind:    productboard.ErrorKindAuthentication,
				Message: err.Error(),
			}
		}

		// An empty map means no credential is configured. Fail fast and
		// attribute the condition to authentication, never the network.
		if len(authHeaders) == 0 {
			return nil, &productboard.APIError{
				Kind:    productboard.ErrorKindAuthentication,
				Message: constants.ErrNoAccessToken.Error(),
			}
		}

		for key, value := range authHeaders {
			headers[key] = value
		}
	}

	for key, value := range req.Headers {
		headers[key] = value
	}

	return headers, nil
}

func (c *Client) logResponse(req *Request, resp *Response, err error) {
	if !c.debug || c.logger == nil {
		return
	}

	fields := map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
	}

	if resp != nil {
		fields["status"] = resp.StatusCode
		fields["attempts"] = resp.Attempts
	}

	if err != nil {
		fields["error"] = err.Error()
	}

	c.logger.Debug("HTTP Response", fields)
}

func (c *Client) publishOutcome(req *Request, resp *Response, err error) {
	if c.events == nil {
		return
	}

	event := productboard.DiagnosticEvent{
		Time:   time.Now(),
		Type:   productboard.EventResponseReceived,
		Method: req.Method,
		Path:   req.Path,
	}

	if resp != nil {
		event.Status = resp.StatusCode
		event.Attempt = resp.Attempts
	}

	if err != nil {
		event.Type = productboard.EventRequestFailed
		event.Error = err.Error()

		apiErr := &productboard.APIError{}
		if errors.As(err, &apiErr) {
			event.Kind = apiErr.Kind
		}
	}

	c.events.Publish(event)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request. An empty success body is replaced with
// the synthetic deletion marker.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

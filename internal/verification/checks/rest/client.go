// Package rest is the shared HTTP transport for check adapters: bounded
// timeout, bounded retries with exponential backoff for transient failures,
// and a per-source circuit breaker. Permanent failures (404, 401) are
// returned immediately without retrying.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html"

	"eduvet/internal/verification/checks"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Client performs HTTP calls against one external source.
type Client struct {
	source      string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	breaker     *Breaker
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client; tests point it at an
// httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxAttempts bounds the retry count, capped at 3 attempts total.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= defaultAttempts {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base backoff between attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithBreaker sets the circuit breaker guarding this source.
func WithBreaker(b *Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// New creates a client for one named source.
func New(source string, opts ...Option) *Client {
	c := &Client{
		source:      source,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		maxAttempts: defaultAttempts,
		backoff:     defaultBackoff,
		breaker:     NewBreaker(5, time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches a URL and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := c.get(ctx, url, headers, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return checks.NewCheckError(checks.CategoryBadData, c.source, "malformed response body", err)
	}
	return nil
}

// GetHTML fetches a URL and parses the body as an HTML document, for sources
// that only expose registry data through web pages.
func (c *Client) GetHTML(ctx context.Context, url string, headers map[string]string) (*html.Node, error) {
	body, err := c.get(ctx, url, headers, "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, checks.NewCheckError(checks.CategoryBadData, c.source, "malformed HTML page", err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string, headers map[string]string, accept string) ([]byte, error) {
	if !c.breaker.Allow() {
		return nil, checks.NewCheckError(checks.CategoryOutage, c.source, "circuit open", nil)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, checks.NewCheckError(checks.CategoryTimeout, c.source, "context cancelled during retry", ctx.Err())
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		body, err := c.do(ctx, url, headers, accept)
		if err == nil {
			c.breaker.RecordSuccess()
			return body, nil
		}

		lastErr = err
		if !checks.IsRetryable(err) {
			// Permanent failures don't count against the breaker: the
			// source answered, just not in our favour.
			if cat := checks.CategoryOf(err); cat == checks.CategoryNotFound || cat == checks.CategoryAuthentication {
				return nil, err
			}
			c.breaker.RecordFailure()
			return nil, err
		}
	}

	c.breaker.RecordFailure()
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, checks.NewCheckError(checks.CategoryInternal, c.source, "build request", err)
	}
	req.Header.Set("Accept", accept)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, checks.NewCheckError(checks.CategoryTimeout, c.source, "request timed out", err)
		}
		return nil, checks.NewCheckError(checks.CategoryOutage, c.source, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, checks.NewCheckError(checks.CategoryBadData, c.source, "read response body", err)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, checks.NewCheckError(checks.CategoryNotFound, c.source, "record not found", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, checks.NewCheckError(checks.CategoryAuthentication, c.source, fmt.Sprintf("authentication rejected (%d)", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, checks.NewCheckError(checks.CategoryRateLimited, c.source, "rate limited", nil)
	case resp.StatusCode >= 500:
		return nil, checks.NewCheckError(checks.CategoryOutage, c.source, fmt.Sprintf("server error (%d)", resp.StatusCode), nil)
	default:
		return nil, checks.NewCheckError(checks.CategoryBadData, c.source, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

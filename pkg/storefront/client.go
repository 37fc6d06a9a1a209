// Package storefront talks to the shop platform's AJAX API: cart reads and
// writes, product variant lookups, collection-card image resolution, and the
// storefront policies that ride along with them (quantity restrictions and
// material redirects).
//
// All calls go through a shared Client with timeout, retry and optional
// response caching. Server errors (5xx) and transport failures are retried
// with exponential backoff; 4xx responses fail fast.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kuriosis/wallbuilder/pkg/errors"
	"github.com/kuriosis/wallbuilder/pkg/httputil"
)

const defaultTimeout = 10 * time.Second

// Client is the shared HTTP layer for storefront API calls.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *httputil.Cache
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache enables response caching for product lookups.
func WithCache(cache *httputil.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the client logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a storefront client for the shop at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches path and returns the raw response body.
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", path)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", path)}
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode, path); err != nil {
			return err
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", path)}
		}
		return nil
	})
	return body, err
}

// postJSON sends payload as JSON to path and returns the raw response body.
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request for %s", path)
	}

	var body []byte
	err = httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", path)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "POST %s", path)}
		}
		defer resp.Body.Close()

		if err := checkStatus(resp.StatusCode, path); err != nil {
			return err
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "read %s", path)}
		}
		return nil
	})
	return body, err
}

// checkStatus maps a response status to the client's error taxonomy:
// 2xx ok, 404 not-found, 5xx retryable, anything else a plain failure.
func checkStatus(code int, path string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", path)
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "%s returned status %d", path, code),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "%s returned status %d", path, code)
	}
}

func handlePath(handle string) string {
	return fmt.Sprintf("/products/%s.js", handle)
}

// Package httpx provides the HTTP client used to fetch transcription
// result documents, with retry logic and error classification.
package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"ytscribe/internal/retry"
)

// Client wraps an HTTP client with retry logic.
type Client struct {
	base   *http.Client
	config *Config
}

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests
	Timeout time.Duration

	// Retry configuration
	Retry retry.Config

	// UserAgent for HTTP requests
	UserAgent string

	// MaxBodySize caps the response body size in bytes (0 = no cap)
	MaxBodySize int64
}

// DefaultConfig returns sensible defaults for HTTP client configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		Retry:       retry.DefaultConfig(),
		UserAgent:   "ytscribe/1.0",
		MaxBodySize: 64 << 20, // transcript documents are small; 64 MiB is generous
	}
}

// New creates a new HTTP client with the given configuration.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		base:   &http.Client{Timeout: cfg.Timeout},
		config: cfg,
	}
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request with retry logic.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	var result *Response

	err := retry.Do(ctx, c.config.Retry, c.isRetryableHTTPError, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.config.UserAgent)

		resp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return &HTTPError{StatusCode: resp.StatusCode, Body: body}
		}

		reader := io.Reader(resp.Body)
		if c.config.MaxBodySize > 0 {
			reader = io.LimitReader(resp.Body, c.config.MaxBodySize)
		}
		body, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		result = &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// isRetryableHTTPError determines if an HTTP error is retryable.
func (c *Client) isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}

	// HTTP errors are retryable for 5xx and 429 only
	if httpErr, ok := err.(*HTTPError); ok {
		return httpErr.StatusCode >= 500 || httpErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}

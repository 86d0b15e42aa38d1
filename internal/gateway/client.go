// Package gateway is the typed REST client for the clinic backend. It owns
// the full error taxonomy (transport, API, not-found) and normalizes the
// backend's divergent list payload shapes in one place, so controllers only
// ever see canonical slices.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client issues requests against a single backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Client) { g.httpClient = c }
}

// WithLogger sets the logger used for request logging.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Client) { g.log = log }
}

// NewClient creates a Client for the given base URL, e.g.
// "http://localhost:3000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do issues one request and returns the raw response body. Network failures
// come back as *TransportError, 404 as ErrNotFound, and other non-2xx
// statuses as *APIError carrying the server's "error" message when present.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body for %s: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode == http.StatusNotFound {
		if msg := extractErrorMessage(respBody); msg != "" {
			return nil, fmt.Errorf("%s: %w", msg, ErrNotFound)
		}
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}
	return respBody, nil
}

// getList fetches path and normalizes whatever list shape comes back.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	items, known := decodeList[T](body)
	if !known {
		c.log.Warn().Str("path", path).Msg("unrecognized list payload shape, defaulting to empty")
	}
	return items, nil
}

// getOne fetches path and decodes a single record.
func getOne[T any](ctx context.Context, c *Client, path string) (*T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &item, nil
}

// write issues a POST or PUT and decodes the persisted record.
func write[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	respBody, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var item T
	if err := json.Unmarshal(respBody, &item); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &item, nil
}

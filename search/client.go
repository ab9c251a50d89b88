package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client is a thin HTTP client for the search engine's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBasicAuth sets credentials sent with every request.
func WithBasicAuth(username, password string) ClientOption {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithInsecureTLS skips certificate verification. Local development
// clusters ship with self-signed certificates.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// NewClient creates a client for the engine at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "search-client"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// do sends a request and returns the response body and status code.
// Transport failures are errors; non-success statuses are not, callers
// decide what each status means for their operation.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to search engine failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read engine response: %w", err)
	}
	return respBody, resp.StatusCode, nil
}

// IndexExists reports whether the named index exists.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	body, status, err := c.do(ctx, http.MethodHead, "/"+name, "", nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, &EngineError{StatusCode: status, Body: body}
	}
}

// CreateIndex creates the named index with the given mapping document.
func (c *Client) CreateIndex(ctx context.Context, name string, mapping []byte) error {
	body, status, err := c.do(ctx, http.MethodPut, "/"+name, "application/json", mapping)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &EngineError{StatusCode: status, Body: body}
	}
	c.logger.Info("index created", "index", name)
	return nil
}

// DeleteIndex removes the named index. Indexes whose names start with
// a dot belong to the engine itself and are refused.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %s", ErrSystemIndex, name)
	}

	body, status, err := c.do(ctx, http.MethodDelete, "/"+name, "", nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	if status < 200 || status >= 300 {
		return &EngineError{StatusCode: status, Body: body}
	}
	c.logger.Info("index deleted", "index", name)
	return nil
}

// Refresh makes recent writes to the named index visible to search.
func (c *Client) Refresh(ctx context.Context, name string) error {
	body, status, err := c.do(ctx, http.MethodPost, "/"+name+"/_refresh", "", nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return &EngineError{StatusCode: status, Body: body}
	}
	return nil
}

// Search executes a query against the named index and returns the raw
// response body.
func (c *Client) Search(ctx context.Context, name string, query *SearchBody) ([]byte, error) {
	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, "/"+name+"/_search", "application/json", payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &EngineError{StatusCode: status, Body: body}
	}
	return body, nil
}

// Bulk submits a newline-delimited bulk payload to the named index and
// returns the raw response body.
func (c *Client) Bulk(ctx context.Context, name string, payload []byte) ([]byte, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/"+name+"/_bulk", "application/x-ndjson", payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &EngineError{StatusCode: status, Body: body}
	}
	return body, nil
}

// Stats returns document count and store size for the named index.
func (c *Client) Stats(ctx context.Context, name string) (*IndexStats, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/"+name+"/_stats", "", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, name)
	}
	if status < 200 || status >= 300 {
		return nil, &EngineError{StatusCode: status, Body: body}
	}

	var parsed struct {
		All struct {
			Primaries struct {
				Docs struct {
					Count int64 `json:"count"`
				} `json:"docs"`
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
			} `json:"primaries"`
		} `json:"_all"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse index stats: %w", err)
	}
	return &IndexStats{
		Docs:        parsed.All.Primaries.Docs.Count,
		SizeInBytes: parsed.All.Primaries.Store.SizeInBytes,
	}, nil
}

// ClusterHealth returns the engine cluster's health summary.
func (c *Client) ClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/_cluster/health", "", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &EngineError{StatusCode: status, Body: body}
	}

	var health ClusterHealth
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("failed to parse cluster health: %w", err)
	}
	return &health, nil
}

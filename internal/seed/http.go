package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/pitcrew/pkg/logger"
)

// ErrUnexpectedStatus is returned when the service answers with a status the caller did not expect.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is a small JSON client for the pitcrew API.
type Client struct {
	baseURL string
	client  *http.Client
	verbose bool
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, verbose bool) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		verbose: verbose,
	}
}

// Get decodes the JSON body of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, out, http.StatusOK)
	return err
}

// Post sends body as JSON and decodes the answer into out. It returns the
// status so callers can tell 200 from 202.
func (c *Client) Post(ctx context.Context, path string, body, out any, want ...int) (int, error) {
	if len(want) == 0 {
		want = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted}
	}
	return c.do(ctx, http.MethodPost, path, body, out, want...)
}

// Put sends body as JSON with PUT.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.do(ctx, http.MethodPut, path, body, out, http.StatusOK)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, want ...int) (int, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if c.verbose {
		logger.Get().Debug(ctx, "request done",
			logger.String("method", method),
			logger.String("path", path),
			logger.Int("status", resp.StatusCode))
	}

	ok := false
	for _, code := range want {
		ok = ok || resp.StatusCode == code
	}
	if !ok {
		return resp.StatusCode, fmt.Errorf("%w: %s %s -> %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}
